// Package types provides core data types for the dupsweep duplicate finder.
// It includes the records produced by a scan and a clean run, along with
// utility functions for parsing and formatting byte sizes.
package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// File is a regular file discovered during a scan.
type File struct {
	// Path is the absolute path to the file. It is unique within a scan.
	Path string `json:"path" yaml:"path"`

	// CreatedAt is the birth time of the file. It is zero when the
	// platform or filesystem does not record one.
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// HasCreatedAt reports whether the creation time is known.
func (f File) HasCreatedAt() bool {
	return !f.CreatedAt.IsZero()
}

// DuplicateSet is a group of at least two files with identical content.
type DuplicateSet struct {
	// Digest is the content digest shared by every member.
	Digest string `json:"digest" yaml:"digest"`

	// Size is the byte size shared by every member.
	Size int64 `json:"size" yaml:"size"`

	// Files holds the members in the order they were discovered.
	Files []File `json:"files" yaml:"files"`
}

// Redundant returns the number of removable copies in the set.
func (d *DuplicateSet) Redundant() int {
	if len(d.Files) == 0 {
		return 0
	}
	return len(d.Files) - 1
}

// Wasted returns the bytes held by the redundant copies.
func (d *DuplicateSet) Wasted() int64 {
	return d.Size * int64(d.Redundant())
}

// ScanResult contains the aggregated results of a scan.
// It is built once by a single scan pass and is read-only afterwards.
type ScanResult struct {
	// Root is the absolute path that was scanned.
	Root string `json:"root" yaml:"root"`

	// Algorithm names the digest function behind every set's Digest.
	Algorithm string `json:"algorithm" yaml:"algorithm"`

	// FilesScanned is the number of regular files hashed.
	FilesScanned int64 `json:"files_scanned" yaml:"files_scanned"`

	// FoldersScanned is the number of directories entered, including the root.
	FoldersScanned int64 `json:"folders_scanned" yaml:"folders_scanned"`

	// DuplicatesFound is the number of redundant copies across all sets.
	DuplicatesFound int64 `json:"duplicates_found" yaml:"duplicates_found"`

	// Duplicates holds one entry per group of identical files.
	Duplicates []DuplicateSet `json:"duplicates" yaml:"duplicates"`

	// Skipped is the number of entries that were neither regular files
	// nor directories (symlinks, devices, sockets, pipes).
	Skipped int64 `json:"skipped" yaml:"skipped"`

	// Elapsed is the total time taken by the scan.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// WastedBytes returns the bytes held by redundant copies across all sets.
func (r *ScanResult) WastedBytes() int64 {
	var total int64
	for i := range r.Duplicates {
		total += r.Duplicates[i].Wasted()
	}
	return total
}

// RemovedFile records one successful removal during a clean run.
type RemovedFile struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	Digest string `json:"digest"`
}

// CleanReport summarises an interactive clean run.
type CleanReport struct {
	// Removed is the number of files removed.
	Removed int `json:"removed"`

	// Errors is the number of removals that failed.
	Errors int `json:"errors"`

	// BytesReclaimed is the sum of set sizes for every set where at
	// least one removal succeeded. A set is charged once, not per file.
	BytesReclaimed int64 `json:"bytes_reclaimed"`

	// SetsSkipped is the number of sets left intact, either by the
	// operator's choice or because the kept file no longer matched.
	SetsSkipped int `json:"sets_skipped"`

	// Unverified is the number of files left in place because their
	// content no longer matched the set, or could not be re-read, when
	// they were about to be removed.
	Unverified int `json:"unverified"`

	// RemovedFiles lists every file that was removed.
	RemovedFiles []RemovedFile `json:"removed_files,omitempty"`
}

// FileStamp identifies one version of a file's content without reading all
// of it. A cached digest is reused only while every field matches.
type FileStamp struct {
	Size  int64  // bytes
	Mtime int64  // modification time, UnixNano
	Ctime int64  // status change time, UnixNano; zero where unavailable
	Inode uint64 // zero where unavailable
	Head  string // digest of the leading bytes
}

// ScanProgress reports real-time scan progress.
type ScanProgress struct {
	// FoldersScanned is the number of directories entered so far.
	FoldersScanned int64 `json:"folders_scanned"`

	// FilesScanned is the number of files hashed so far.
	FilesScanned int64 `json:"files_scanned"`

	// BytesHashed is the total size of the files hashed so far.
	BytesHashed int64 `json:"bytes_hashed"`

	// CacheHits is the number of digests served from the cache.
	CacheHits int64 `json:"cache_hits"`

	// CurrentPath is the path currently being processed.
	CurrentPath string `json:"current_path"`

	// Done is set on the final report of a scan.
	Done bool `json:"done,omitempty"`
}

// sizePattern matches size strings like "100M", "2G", "500K", "1.5GB", etc.
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string and returns the size in bytes.
// It accepts plain byte counts ("1024") and K, M, G, T suffixes with an
// optional B or iB ("512K", "1MiB", "2GB"). All suffixes are binary.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}

	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	suffix := strings.ToUpper(matches[2])
	suffix = strings.TrimSuffix(suffix, "IB")
	suffix = strings.TrimSuffix(suffix, "B")

	var multiplier int64
	switch suffix {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	case "T":
		multiplier = TiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, suffix)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatSize converts a size in bytes to a human-readable string using
// binary (IEC) units, e.g. "1.5 MiB".
func FormatSize(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.IBytes(uint64(-bytes))
	}
	return humanize.IBytes(uint64(bytes))
}
