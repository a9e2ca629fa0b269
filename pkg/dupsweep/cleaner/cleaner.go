// Package cleaner walks the duplicate sets of a scan with an operator,
// removes every copy except the one chosen to keep, and tallies the result.
package cleaner

import (
	"fmt"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/logging"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/output"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/types"
)

var logger = logging.Get("cleaner")

// PromptMessage asks the operator which member of a set to keep.
const PromptMessage = "Number of the file to keep (empty to skip this set): "

// Console is the operator channel.
type Console interface {
	// Prompt displays message and blocks for one line of input.
	Prompt(message string) (string, error)

	// Output displays one line.
	Output(message string)
}

// Cleaner resolves duplicate sets interactively.
type Cleaner struct {
	console   Console
	remover   Remover
	verifier  Verifier
	onRemoved func(types.RemovedFile)
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithRemover sets how files are removed. The default is FileRemover.
func WithRemover(r Remover) Option {
	return func(c *Cleaner) {
		c.remover = r
	}
}

// WithVerifier sets how set members are re-checked before removal. The
// default re-hashes each file with the scan's algorithm.
func WithVerifier(v Verifier) Option {
	return func(c *Cleaner) {
		c.verifier = v
	}
}

// WithOnRemoved sets a callback invoked after each successful removal.
func WithOnRemoved(fn func(types.RemovedFile)) Option {
	return func(c *Cleaner) {
		c.onRemoved = fn
	}
}

// New creates a Cleaner talking to the operator through console.
func New(console Console, opts ...Option) *Cleaner {
	c := &Cleaner{
		console: console,
		remover: FileRemover{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clean processes every duplicate set of result in order. For each set the
// operator keeps one member and the rest are removed, or skips the set.
//
// Before anything in a set is removed, the kept file and each copy are
// re-hashed. A copy whose content no longer matches is left in place; if
// the kept file no longer matches, the whole set is left intact.
//
// Removal failures are reported on the console and counted; they never stop
// the run. If the console fails (for example, input is closed) the run stops
// and the report accumulated so far is returned with the error.
func (c *Cleaner) Clean(result *types.ScanResult) (*types.CleanReport, error) {
	report := &types.CleanReport{}

	verifier := c.verifier
	if verifier == nil {
		v, err := verifierFor(result.Algorithm)
		if err != nil {
			return report, fmt.Errorf("cannot verify duplicates: %w", err)
		}
		verifier = v
	}

	for i := range result.Duplicates {
		set := &result.Duplicates[i]

		for _, line := range output.SetLines(*set) {
			c.console.Output(line)
		}

		decision, err := c.decide(len(set.Files))
		if err != nil {
			logger.Warn("clean aborted", "set", i+1, "err", err)
			return report, fmt.Errorf("clean aborted at set %d of %d: %w", i+1, len(result.Duplicates), err)
		}

		keep, ok := decision.KeepIndex()
		if !ok {
			report.SetsSkipped++
			logger.Info("set skipped", "digest", set.Digest, "files", len(set.Files))
			c.console.Output("")
			continue
		}

		c.removeExcept(set, keep, verifier, report)
		c.console.Output("")
	}

	logger.Info("clean finished",
		"removed", report.Removed,
		"errors", report.Errors,
		"bytes_reclaimed", report.BytesReclaimed,
		"sets_skipped", report.SetsSkipped,
		"unverified", report.Unverified)

	return report, nil
}

// decide prompts until the response is a valid decision. Invalid responses
// are reported and the prompt repeats without limit.
func (c *Cleaner) decide(count int) (Decision, error) {
	for {
		input, err := c.console.Prompt(PromptMessage)
		if err != nil {
			return Decision{}, err
		}

		decision, err := ParseDecision(input, count)
		if err == nil {
			return decision, nil
		}
		c.console.Output(err.Error())
	}
}

// removeExcept removes every member of set except the 1-based index keep.
// The set size is credited once if at least one removal succeeded.
func (c *Cleaner) removeExcept(set *types.DuplicateSet, keep int, verifier Verifier, report *types.CleanReport) {
	kept := set.Files[keep-1].Path
	if err := verifier.Verify(kept, set.Digest); err != nil {
		report.SetsSkipped++
		c.console.Output("Set left intact, kept file could not be verified: " + err.Error())
		logger.Warn("kept file failed verification", "path", kept, "err", err)
		return
	}

	removed := 0

	for j, file := range set.Files {
		if j+1 == keep {
			continue
		}

		if err := verifier.Verify(file.Path, set.Digest); err != nil {
			report.Unverified++
			c.console.Output("Not removed: " + err.Error())
			logger.Warn("copy failed verification", "path", file.Path, "err", err)
			continue
		}

		if err := c.remover.Remove(file.Path); err != nil {
			rerr := &RemovalError{Path: file.Path, Err: err}
			report.Errors++
			c.console.Output(rerr.Error())
			logger.Error("remove failed", "path", file.Path, "err", err)
			continue
		}

		removed++
		rf := types.RemovedFile{Path: file.Path, Size: set.Size, Digest: set.Digest}
		report.RemovedFiles = append(report.RemovedFiles, rf)
		c.console.Output("Removed: " + file.Path)
		logger.Info("file removed", "path", file.Path, "size", set.Size)

		if c.onRemoved != nil {
			c.onRemoved(rf)
		}
	}

	report.Removed += removed
	if removed > 0 {
		report.BytesReclaimed += set.Size
	}
}
