package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/logging"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/types"
)

// ErrNotFound is returned by Get when no entry has the requested ID.
var ErrNotFound = errors.New("manifest entry not found")

var logger = logging.Get("manifest")

// Manifest manages operation logging to the filesystem.
type Manifest struct {
	dir string
	mu  sync.Mutex

	// now is replaceable in tests.
	now func() time.Time
}

// New creates a new Manifest with the given directory.
// The directory is created on the first write.
func New(dir string) (*Manifest, error) {
	if dir == "" {
		return nil, errors.New("manifest directory cannot be empty")
	}
	return &Manifest{dir: dir, now: time.Now}, nil
}

// Dir returns the manifest directory.
func (m *Manifest) Dir() string {
	return m.dir
}

// LogScan records the counters of a completed scan.
func (m *Manifest) LogScan(result *types.ScanResult, algorithm string) (*Entry, error) {
	entry := m.newEntry(OpScan, result.Root)
	entry.Algorithm = algorithm
	entry.Scan = &ScanSummary{
		FilesScanned:    result.FilesScanned,
		FoldersScanned:  result.FoldersScanned,
		DuplicateSets:   len(result.Duplicates),
		DuplicatesFound: result.DuplicatesFound,
		WastedBytes:     result.WastedBytes(),
		Elapsed:         result.Elapsed.String(),
	}
	return m.write(entry)
}

// LogClean records a clean run and every file it removed. aborted marks a
// run that stopped before the last set.
func (m *Manifest) LogClean(root string, report *types.CleanReport, aborted bool) (*Entry, error) {
	entry := m.newEntry(OpClean, root)
	entry.Clean = &CleanSummary{
		Removed:        report.Removed,
		Errors:         report.Errors,
		BytesReclaimed: report.BytesReclaimed,
		SetsSkipped:    report.SetsSkipped,
		Unverified:     report.Unverified,
		Aborted:        aborted,
	}
	for _, rf := range report.RemovedFiles {
		entry.Files = append(entry.Files, FileRecord{Path: rf.Path, Size: rf.Size, Digest: rf.Digest})
	}
	return m.write(entry)
}

func (m *Manifest) newEntry(op OperationType, root string) *Entry {
	now := m.now().UTC()
	return &Entry{
		ID:        generateID(op, now),
		Timestamp: now,
		Operation: op,
		Root:      root,
	}
}

// write persists an entry atomically using a temp file and rename.
func (m *Manifest) write(entry *Entry) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create manifest directory: %w", err)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entry: %w", err)
	}

	tmp, err := os.CreateTemp(m.dir, ".entry-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, filepath.Join(m.dir, entry.ID+".json")); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to rename temp file: %w", err)
	}

	logger.Debug("manifest entry written", "id", entry.ID)
	return entry, nil
}

// List returns manifest entries sorted newest first.
// If limit is 0 or negative, all entries are returned.
func (m *Manifest) List(limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.readAll()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Get retrieves a specific entry by ID.
func (m *Manifest) Get(id string) (*Entry, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, err := m.readEntry(filepath.Join(m.dir, id+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return entry, err
}

// Cleanup removes entries older than retentionDays and returns how many
// were removed. A non-positive retention keeps everything.
func (m *Manifest) Cleanup(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.readAll()
	if err != nil {
		return 0, err
	}

	cutoff := m.now().AddDate(0, 0, -retentionDays)
	removed := 0
	for _, e := range entries {
		if !e.Timestamp.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(m.dir, e.ID+".json")); err != nil {
			logger.Warn("failed to remove manifest entry", "id", e.ID, "err", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// readAll parses every entry in the directory. Unparseable files are
// skipped.
func (m *Manifest) readAll() ([]Entry, error) {
	files, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read manifest directory: %w", err)
	}

	entries := []Entry{}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}

		entry, err := m.readEntry(filepath.Join(m.dir, f.Name()))
		if err != nil {
			logger.Debug("skipping manifest file", "file", f.Name(), "err", err)
			continue
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

func (m *Manifest) readEntry(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
	}
	return &entry, nil
}

// generateID creates a unique ID like "clean-2024-06-15T10-30-00-1b4e28ba".
func generateID(op OperationType, ts time.Time) string {
	return fmt.Sprintf("%s-%s-%s", op, ts.Format("2006-01-02T15-04-05"), uuid.NewString()[:8])
}
