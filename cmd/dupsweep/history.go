package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/manifest"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/types"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "View operation history",
		Long: `View the history of scans and clean runs.

Each run is recorded with its counters; clean runs also list every file
that was removed.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.runHistory(limit)
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum number of entries to show")

	historyCmd.AddCommand(
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show details of a specific run",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return a.runHistoryShow(args[0])
			},
		},
		&cobra.Command{
			Use:   "clean",
			Short: "Remove history entries older than the retention period",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return a.runHistoryClean()
			},
		},
	)

	return historyCmd
}

func (a *app) openHistory() (*manifest.Manifest, error) {
	m, err := manifest.New(a.cfg.Manifest.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize manifest: %w", err)
	}
	return m, nil
}

// runHistory lists recent runs.
func (a *app) runHistory(limit int) error {
	m, err := a.openHistory()
	if err != nil {
		return err
	}

	entries, err := m.List(limit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		a.printInfo("No history entries found.")
		a.printInfo("Run 'dupsweep [path]' to scan for duplicates.")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(a.out, "%-40s  %s  %s\n", e.ID, e.Timestamp.Local().Format("2006-01-02 15:04"), summarize(&e))
	}
	return nil
}

// summarize renders the one-line summary of an entry.
func summarize(e *manifest.Entry) string {
	switch {
	case e.Scan != nil:
		return fmt.Sprintf("scan %s: %d sets, %d duplicates, %s wasted",
			e.Root, e.Scan.DuplicateSets, e.Scan.DuplicatesFound, types.FormatSize(e.Scan.WastedBytes))
	case e.Clean != nil:
		s := fmt.Sprintf("clean %s: %d removed, %d errors, %s reclaimed",
			e.Root, e.Clean.Removed, e.Clean.Errors, types.FormatSize(e.Clean.BytesReclaimed))
		if e.Clean.Aborted {
			s += " (aborted)"
		}
		return s
	default:
		return string(e.Operation) + " " + e.Root
	}
}

// runHistoryShow prints one entry in full.
func (a *app) runHistoryShow(id string) error {
	m, err := a.openHistory()
	if err != nil {
		return err
	}

	e, err := m.Get(id)
	if errors.Is(err, manifest.ErrNotFound) {
		return fmt.Errorf("no history entry with id %q", id)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "ID:        %s\n", e.ID)
	fmt.Fprintf(a.out, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(a.out, "Operation: %s\n", e.Operation)
	fmt.Fprintf(a.out, "Root:      %s\n", e.Root)
	if e.Algorithm != "" {
		fmt.Fprintf(a.out, "Algorithm: %s\n", e.Algorithm)
	}

	if s := e.Scan; s != nil {
		fmt.Fprintf(a.out, "Files scanned:    %d\n", s.FilesScanned)
		fmt.Fprintf(a.out, "Folders scanned:  %d\n", s.FoldersScanned)
		fmt.Fprintf(a.out, "Duplicate sets:   %d\n", s.DuplicateSets)
		fmt.Fprintf(a.out, "Duplicates found: %d\n", s.DuplicatesFound)
		fmt.Fprintf(a.out, "Wasted:           %s\n", types.FormatSize(s.WastedBytes))
		fmt.Fprintf(a.out, "Elapsed:          %s\n", s.Elapsed)
	}

	if c := e.Clean; c != nil {
		fmt.Fprintf(a.out, "Removed:          %d\n", c.Removed)
		fmt.Fprintf(a.out, "Errors:           %d\n", c.Errors)
		fmt.Fprintf(a.out, "Reclaimed:        %d bytes\n", c.BytesReclaimed)
		fmt.Fprintf(a.out, "Sets skipped:     %d\n", c.SetsSkipped)
		if c.Unverified > 0 {
			fmt.Fprintf(a.out, "Changed, kept:    %d\n", c.Unverified)
		}
		if c.Aborted {
			fmt.Fprintln(a.out, "Aborted:          yes")
		}
		for _, f := range e.Files {
			fmt.Fprintf(a.out, "  removed %s (%s)\n", f.Path, types.FormatSize(f.Size))
		}
	}
	return nil
}

// runHistoryClean prunes entries older than the retention period.
func (a *app) runHistoryClean() error {
	m, err := a.openHistory()
	if err != nil {
		return err
	}

	removed, err := m.Cleanup(a.cfg.Manifest.RetentionDays)
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}
	a.printInfo("Removed %d entries older than %d days.", removed, a.cfg.Manifest.RetentionDays)
	return nil
}
