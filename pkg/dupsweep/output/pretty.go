package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/types"
)

// PrettyFormatter formats output with colors and styling using lipgloss.
// Sizes are humanized and each set shows how much space its copies waste.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *types.ScanResult) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")
	w.WriteString(f.formatSets(r))
	w.WriteString(f.formatFooter(r))
	w.WriteString("\n")
	return nil
}

// formatHeader builds the header box with scan metadata.
func (f *PrettyFormatter) formatHeader(r *types.ScanResult) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("%s %s", LabelStyle.Render("Source:"), ValueStyle.Render(r.Root)))

	scanned := fmt.Sprintf("%s files in %s folders",
		humanize.Comma(r.FilesScanned), humanize.Comma(r.FoldersScanned))
	info := []string{
		fmt.Sprintf("%s %s", LabelStyle.Render("Scanned:"), ValueStyle.Render(scanned)),
		fmt.Sprintf("%s %s", LabelStyle.Render("Took:"), MutedStyle.Render(formatDuration(r.Elapsed))),
	}
	if r.Skipped > 0 {
		info = append(info, MutedStyle.Render(fmt.Sprintf("%d skipped", r.Skipped)))
	}
	lines = append(lines, strings.Join(info, "  "))

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatSets renders each duplicate set with its numbered members.
func (f *PrettyFormatter) formatSets(r *types.ScanResult) string {
	if len(r.Duplicates) == 0 {
		return SuccessStyle.Render("  No duplicate files found") + "\n"
	}

	var sb strings.Builder
	for _, set := range r.Duplicates {
		header := fmt.Sprintf("  %s  %s",
			SizeStyle.Render(humanize.IBytes(uint64(set.Size))),
			MutedStyle.Render(fmt.Sprintf("%d copies, %s wasted", len(set.Files), humanize.IBytes(uint64(set.Wasted())))))
		sb.WriteString(header)
		sb.WriteString("\n")

		for i, file := range set.Files {
			sb.WriteString(fmt.Sprintf("  %s  %s\n", IndexStyle.Render(fmt.Sprintf("%d.", i+1)), PathStyle.Render(file.Path)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatFooter builds the footer box with totals.
func (f *PrettyFormatter) formatFooter(r *types.ScanResult) string {
	parts := []string{
		fmt.Sprintf("%s %s", LabelStyle.Render("Sets:"), ValueStyle.Render(fmt.Sprintf("%d", len(r.Duplicates)))),
		fmt.Sprintf("%s %s", LabelStyle.Render("Duplicates:"), ValueStyle.Render(fmt.Sprintf("%d", r.DuplicatesFound))),
		fmt.Sprintf("%s %s", LabelStyle.Render("Wasted:"), WarningStyle.Render(humanize.IBytes(uint64(r.WastedBytes())))),
	}
	if len(r.Duplicates) > 0 {
		parts = append(parts, MutedStyle.Render("Use -d to clean interactively"))
	}
	return FooterBox.Render(strings.Join(parts, "  "))
}

// formatDuration formats a duration in a human-friendly way.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
