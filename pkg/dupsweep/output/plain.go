package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/types"
)

// Separator divides the report header from the duplicate sets.
var Separator = strings.Repeat("-", 60)

// dateLayout is used for file creation dates.
const dateLayout = "2006-01-02 15:04:05"

// PlainFormatter writes the classic text report: a header with the scan
// counters, a separator line, then every duplicate set with its members
// numbered from 1. No colors or styling are applied.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *types.ScanResult) error {
	WriteHeader(w, r)

	for _, set := range r.Duplicates {
		for _, line := range SetLines(set) {
			w.WriteString(line)
			w.WriteByte('\n')
		}
		w.WriteByte('\n')
	}

	return nil
}

// WriteHeader writes the report header and separator.
func WriteHeader(w io.Writer, r *types.ScanResult) {
	fmt.Fprintf(w, "Scan report for folder: %s\n", r.Root)
	fmt.Fprintf(w, "Files scanned: %d\n", r.FilesScanned)
	fmt.Fprintf(w, "Folders scanned: %d\n", r.FoldersScanned)
	fmt.Fprintf(w, "Duplicates found: %d\n", r.DuplicatesFound)
	if r.Skipped > 0 {
		fmt.Fprintf(w, "Entries skipped: %d\n", r.Skipped)
	}
	fmt.Fprintln(w, Separator)
}

// SetLines renders one duplicate set: its size, then each member as
// "<index>. <path> (created <date>)" with indices starting at 1. The same
// numbering is used when the operator picks a file to keep.
func SetLines(set types.DuplicateSet) []string {
	lines := make([]string, 0, len(set.Files)+1)
	lines = append(lines, fmt.Sprintf("Size: %d bytes", set.Size))
	for i, file := range set.Files {
		lines = append(lines, fmt.Sprintf("%d. %s (created %s)", i+1, file.Path, formatCreated(file.CreatedAt)))
	}
	return lines
}

// formatCreated formats a creation time, or "unknown" if it was not recorded.
func formatCreated(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Local().Format(dateLayout)
}

// FormatCleanReport writes the totals of a clean run.
func FormatCleanReport(w io.Writer, report *types.CleanReport) {
	fmt.Fprintf(w, "File removed: %d\n", report.Removed)
	fmt.Fprintf(w, "Errors: %d\n", report.Errors)
	fmt.Fprintf(w, "Size cleaned: %d bytes\n", report.BytesReclaimed)
	if report.SetsSkipped > 0 {
		fmt.Fprintf(w, "Sets skipped: %d\n", report.SetsSkipped)
	}
	if report.Unverified > 0 {
		fmt.Fprintf(w, "Files changed since scan: %d\n", report.Unverified)
	}
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
