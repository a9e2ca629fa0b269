// Package manifest keeps a history of scan and clean runs, one JSON file
// per run.
package manifest

import "time"

// OperationType represents the type of operation.
type OperationType string

const (
	// OpScan represents a scan that reported duplicates.
	OpScan OperationType = "scan"
	// OpClean represents an interactive clean run.
	OpClean OperationType = "clean"
)

// Entry represents a single manifest entry.
type Entry struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Operation OperationType `json:"operation"`
	Root      string        `json:"root"`
	Algorithm string        `json:"algorithm,omitempty"`
	Scan      *ScanSummary  `json:"scan,omitempty"`
	Clean     *CleanSummary `json:"clean,omitempty"`
	Files     []FileRecord  `json:"files,omitempty"`
}

// ScanSummary holds the counters of a scan.
type ScanSummary struct {
	FilesScanned    int64  `json:"files_scanned"`
	FoldersScanned  int64  `json:"folders_scanned"`
	DuplicateSets   int    `json:"duplicate_sets"`
	DuplicatesFound int64  `json:"duplicates_found"`
	WastedBytes     int64  `json:"wasted_bytes"`
	Elapsed         string `json:"elapsed"`
}

// CleanSummary holds the totals of a clean run.
type CleanSummary struct {
	Removed        int   `json:"removed"`
	Errors         int   `json:"errors"`
	BytesReclaimed int64 `json:"bytes_reclaimed"`
	SetsSkipped    int   `json:"sets_skipped"`
	Unverified     int   `json:"unverified,omitempty"`
	Aborted        bool  `json:"aborted,omitempty"`
}

// FileRecord is a file removed during a clean run.
type FileRecord struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	Digest string `json:"digest,omitempty"`
}
