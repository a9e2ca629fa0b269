package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/hasher"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/logging"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/types"
)

var logger = logging.Get("scanner")

// progressInterval throttles OnProgress callbacks.
const progressInterval = 10 * time.Millisecond

// Scanner finds duplicate files under a root directory.
// A Scanner holds the state of a single scan and must not be reused
// concurrently.
type Scanner struct {
	opts Options

	// root is the resolved absolute path being scanned.
	root string

	index    *digestIndex
	excludes []exclusion

	foldersScanned int64
	filesScanned   int64
	bytesHashed    int64
	cacheHits      int64
	skipped        int64

	currentPath  string
	lastProgress time.Time
}

// fileMeta holds the platform-specific stat fields of a regular file.
type fileMeta struct {
	created time.Time
	ctime   int64
	inode   uint64
}

// frame is a directory whose entries are being visited.
type frame struct {
	dir     string
	entries []fs.DirEntry
	next    int
}

// New creates a new Scanner with the given options.
func New(opts Options) *Scanner {
	opts.SetDefaults()
	return &Scanner{opts: opts}
}

// Scan walks the tree and returns the duplicate sets found.
// Any directory or file that cannot be read aborts the scan; no partial
// result is returned.
func (s *Scanner) Scan() (*types.ScanResult, error) {
	startTime := time.Now()

	root, err := s.validateRoot()
	if err != nil {
		return nil, err
	}
	s.root = root
	s.index = newDigestIndex()
	s.excludes = compileExclusions(s.opts.Exclude)
	s.foldersScanned, s.filesScanned, s.bytesHashed, s.cacheHits, s.skipped = 0, 0, 0, 0, 0

	logger.Info("scan started", "root", root, "algorithm", s.opts.Hasher.Algorithm())
	s.currentPath = root
	s.reportProgressForce(false)

	if err := s.walk(); err != nil {
		logger.Error("scan failed", "root", root, "err", err)
		return nil, err
	}

	if s.opts.Cache != nil {
		if err := s.opts.Cache.Flush(); err != nil {
			logger.Warn("digest cache flush failed", "err", err)
		}
	}

	sets, redundant := s.index.duplicates()
	result := &types.ScanResult{
		Root:            root,
		Algorithm:       string(s.opts.Hasher.Algorithm()),
		FilesScanned:    s.filesScanned,
		FoldersScanned:  s.foldersScanned,
		DuplicatesFound: redundant,
		Duplicates:      sets,
		Skipped:         s.skipped,
		Elapsed:         time.Since(startTime),
	}

	s.reportProgressForce(true)
	logger.Info("scan finished",
		"root", root,
		"files", result.FilesScanned,
		"folders", result.FoldersScanned,
		"sets", len(sets),
		"duplicates", redundant,
		"cache_hits", s.cacheHits,
		"elapsed", result.Elapsed)

	return result, nil
}

// walk visits the tree depth-first in pre-order. Directory entries are
// visited in name order, so file order within a set is stable.
func (s *Scanner) walk() error {
	top, err := s.enterDir(s.root)
	if err != nil {
		return err
	}
	stack := []*frame{top}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		if cur.next >= len(cur.entries) {
			stack = stack[:len(stack)-1]
			continue
		}

		entry := cur.entries[cur.next]
		cur.next++
		path := filepath.Join(cur.dir, entry.Name())

		if s.isExcluded(path) {
			logger.Debug("entry excluded", "path", path)
			continue
		}

		switch {
		case entry.IsDir():
			child, err := s.enterDir(path)
			if err != nil {
				return err
			}
			stack = append(stack, child)
		case entry.Type().IsRegular():
			if err := s.processFile(path, entry); err != nil {
				return err
			}
		default:
			// Symlinks, devices, sockets and pipes are never followed or hashed.
			s.skipped++
			logger.Debug("entry skipped", "path", path, "type", entry.Type().String())
		}
	}

	return nil
}

// enterDir counts a directory and reads its entries.
func (s *Scanner) enterDir(dir string) (*frame, error) {
	s.foldersScanned++
	s.currentPath = dir
	s.reportProgress()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &hasher.ScanIOError{Op: "readdir", Path: dir, Err: err}
	}
	return &frame{dir: dir, entries: entries}, nil
}

// processFile hashes a regular file and records it under its digest.
func (s *Scanner) processFile(path string, entry fs.DirEntry) error {
	info, err := entry.Info()
	if err != nil {
		return &hasher.ScanIOError{Op: "stat", Path: path, Err: err}
	}

	meta := statFile(path, info)
	stamp := types.FileStamp{
		Size:  info.Size(),
		Mtime: info.ModTime().UnixNano(),
		Ctime: meta.ctime,
		Inode: meta.inode,
	}

	digest, err := s.digest(path, stamp)
	if err != nil {
		return err
	}

	s.filesScanned++
	s.bytesHashed += stamp.Size
	s.index.add(digest, stamp.Size, types.File{
		Path:      path,
		CreatedAt: meta.created,
	})

	s.currentPath = path
	s.reportProgress()
	return nil
}

// digest returns the file digest, consulting the cache first when one is
// set. A cached digest is only trusted after the file's leading bytes have
// been read and matched, so an unreadable file still aborts the scan.
func (s *Scanner) digest(path string, stamp types.FileStamp) (string, error) {
	if s.opts.Cache == nil {
		return s.opts.Hasher.HashFile(path)
	}

	head, err := s.opts.Hasher.HashHead(path)
	if err != nil {
		return "", err
	}
	stamp.Head = head

	if digest, ok := s.opts.Cache.Lookup(path, stamp); ok {
		s.cacheHits++
		return digest, nil
	}

	digest, err := s.opts.Hasher.HashFile(path)
	if err != nil {
		return "", err
	}
	s.opts.Cache.Store(path, stamp, digest)
	return digest, nil
}

// validateRoot resolves the root path to absolute and verifies it is a directory.
func (s *Scanner) validateRoot() (string, error) {
	root, err := filepath.Abs(s.opts.Root)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", &fs.PathError{Op: "scan", Path: root, Err: os.ErrInvalid}
	}

	return root, nil
}

// reportProgress calls the progress callback at most once per progressInterval.
func (s *Scanner) reportProgress() {
	if s.opts.OnProgress == nil {
		return
	}
	now := time.Now()
	if now.Sub(s.lastProgress) < progressInterval {
		return
	}
	s.lastProgress = now
	s.sendProgress(false)
}

// reportProgressForce calls the progress callback immediately.
func (s *Scanner) reportProgressForce(done bool) {
	if s.opts.OnProgress == nil {
		return
	}
	s.lastProgress = time.Now()
	s.sendProgress(done)
}

func (s *Scanner) sendProgress(done bool) {
	s.opts.OnProgress(types.ScanProgress{
		FoldersScanned: s.foldersScanned,
		FilesScanned:   s.filesScanned,
		BytesHashed:    s.bytesHashed,
		CacheHits:      s.cacheHits,
		CurrentPath:    s.currentPath,
		Done:           done,
	})
}

// isExcluded checks if a path matches any exclusion pattern.
func (s *Scanner) isExcluded(path string) bool {
	for _, e := range s.excludes {
		if e.matches(path) {
			return true
		}
	}
	return false
}
