package output

import (
	"time"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/types"
)

// document is the structured report shared by the json and yaml formatters.
type document struct {
	Sets  []documentSet `json:"sets" yaml:"sets"`
	Stats documentStats `json:"stats" yaml:"stats"`
	Meta  documentMeta  `json:"meta" yaml:"meta"`
}

type documentSet struct {
	Digest      string         `json:"digest" yaml:"digest"`
	Size        int64          `json:"size" yaml:"size"`
	SizeHuman   string         `json:"size_human" yaml:"size_human"`
	Wasted      int64          `json:"wasted" yaml:"wasted"`
	WastedHuman string         `json:"wasted_human" yaml:"wasted_human"`
	Files       []documentFile `json:"files" yaml:"files"`
}

type documentFile struct {
	Path      string     `json:"path" yaml:"path"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

type documentStats struct {
	FilesScanned    int64  `json:"files_scanned" yaml:"files_scanned"`
	FoldersScanned  int64  `json:"folders_scanned" yaml:"folders_scanned"`
	DuplicatesFound int64  `json:"duplicates_found" yaml:"duplicates_found"`
	Skipped         int64  `json:"skipped" yaml:"skipped"`
	Duration        string `json:"duration" yaml:"duration"`
}

type documentMeta struct {
	Root        string `json:"root" yaml:"root"`
	TotalSets   int    `json:"total_sets" yaml:"total_sets"`
	WastedBytes int64  `json:"wasted_bytes" yaml:"wasted_bytes"`
}

// buildDocument converts a scan result to the structured report.
func buildDocument(r *types.ScanResult) document {
	sets := make([]documentSet, len(r.Duplicates))
	for i, set := range r.Duplicates {
		files := make([]documentFile, len(set.Files))
		for j, file := range set.Files {
			files[j] = documentFile{Path: file.Path}
			if file.HasCreatedAt() {
				created := file.CreatedAt
				files[j].CreatedAt = &created
			}
		}
		sets[i] = documentSet{
			Digest:      set.Digest,
			Size:        set.Size,
			SizeHuman:   types.FormatSize(set.Size),
			Wasted:      set.Wasted(),
			WastedHuman: types.FormatSize(set.Wasted()),
			Files:       files,
		}
	}

	return document{
		Sets: sets,
		Stats: documentStats{
			FilesScanned:    r.FilesScanned,
			FoldersScanned:  r.FoldersScanned,
			DuplicatesFound: r.DuplicatesFound,
			Skipped:         r.Skipped,
			Duration:        r.Elapsed.String(),
		},
		Meta: documentMeta{
			Root:        r.Root,
			TotalSets:   len(r.Duplicates),
			WastedBytes: r.WastedBytes(),
		},
	}
}
