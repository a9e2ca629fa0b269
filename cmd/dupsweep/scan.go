package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/cache"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/cleaner"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/config"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/console"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/hasher"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/logging"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/manifest"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/output"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/scanner"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/types"
)

var logger = logging.Get("cli")

// runScan scans a tree and either reports duplicates or, with --delete,
// walks the operator through removing them.
func (a *app) runScan(_ *cobra.Command, args []string) error {
	scanPath := a.cfg.DefaultPath
	if len(args) > 0 {
		scanPath = args[0]
	}
	root, err := config.ExpandPath(scanPath)
	if err != nil {
		return fmt.Errorf("failed to expand path: %w", err)
	}

	h, err := a.newHasher()
	if err != nil {
		return err
	}

	// Resolve the formatter before scanning so a typo fails fast.
	var formatter output.Formatter
	if !a.delete {
		formatter, err = output.Get(a.cfg.Output)
		if err != nil {
			return err
		}
	}

	digests := a.openCache(h.Algorithm())
	if digests != nil {
		defer func() {
			if err := digests.Close(); err != nil {
				logger.Warn("closing digest cache", "err", err)
			}
		}()
	}

	opts := scanner.Options{
		Root:    root,
		Exclude: a.cfg.Exclude,
		Hasher:  h,
	}
	if digests != nil {
		opts.Cache = digests
	}
	if status := a.statusLine(); status != nil {
		opts.OnProgress = status.update
	}

	a.printVerbose("Scanning %s with %s", root, h.Algorithm())
	result, err := scanner.New(opts).Scan()
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	history := a.openManifest()
	if history != nil {
		if _, err := history.LogScan(result, string(h.Algorithm())); err != nil {
			logger.Warn("failed to record scan", "err", err)
		}
	}

	if !a.delete {
		var buf bytes.Buffer
		if err := formatter.Format(&buf, result); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		_, err := a.out.Write(buf.Bytes())
		return err
	}

	return a.runClean(result, h, digests, history)
}

// runClean prints the report header and resolves every duplicate set with
// the operator.
func (a *app) runClean(result *types.ScanResult, h *hasher.Hasher, digests *cache.Cache, history *manifest.Manifest) error {
	output.WriteHeader(a.out, result)
	fmt.Fprintln(a.out, "CLEANING started")

	// Copies are re-hashed in full right before removal, never from the cache.
	opts := []cleaner.Option{cleaner.WithVerifier(cleaner.ContentVerifier{Hasher: h})}
	if a.cfg.Clean.Trash {
		opts = append(opts, cleaner.WithRemover(cleaner.NewTrashRemover()))
	}
	if digests != nil {
		opts = append(opts, cleaner.WithOnRemoved(func(rf types.RemovedFile) {
			if err := digests.Forget(rf.Path); err != nil {
				logger.Warn("failed to drop cached digest", "path", rf.Path, "err", err)
			}
		}))
	}

	report, cleanErr := cleaner.New(console.New(a.in, a.out), opts...).Clean(result)

	fmt.Fprintln(a.out, "CLEANING finished")
	output.FormatCleanReport(a.out, report)

	if history != nil {
		if _, err := history.LogClean(result.Root, report, cleanErr != nil); err != nil {
			logger.Warn("failed to record clean run", "err", err)
		}
	}

	if cleanErr != nil {
		return fmt.Errorf("clean failed: %w", cleanErr)
	}
	return nil
}

// newHasher builds the hasher from the configured algorithm and batch size.
func (a *app) newHasher() (*hasher.Hasher, error) {
	alg, err := hasher.ParseAlgorithm(a.cfg.Hash.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid hash algorithm: %w", err)
	}
	batch, err := a.cfg.BatchSizeBytes()
	if err != nil {
		return nil, err
	}
	return hasher.New(hasher.WithAlgorithm(alg), hasher.WithBatchSize(batch)), nil
}

// openCache opens the digest cache. A cache that cannot be opened (for
// example, locked by another process) disables caching for this run.
func (a *app) openCache(alg hasher.Algorithm) *cache.Cache {
	if a.noCache || !a.cfg.Cache.Enabled {
		return nil
	}
	c, err := cache.Open(a.cfg.Cache.Path, string(alg))
	if err != nil {
		logger.Warn("digest cache unavailable", "path", a.cfg.Cache.Path, "err", err)
		a.printVerbose("Digest cache unavailable: %v", err)
		return nil
	}
	return c
}

// openManifest returns the run history, pruned to the retention period,
// or nil when history is disabled.
func (a *app) openManifest() *manifest.Manifest {
	if !a.cfg.Manifest.Enabled {
		return nil
	}
	m, err := manifest.New(a.cfg.Manifest.Path)
	if err != nil {
		logger.Warn("manifest unavailable", "err", err)
		return nil
	}
	if removed, err := m.Cleanup(a.cfg.Manifest.RetentionDays); err != nil {
		logger.Warn("manifest cleanup failed", "err", err)
	} else if removed > 0 {
		logger.Debug("manifest entries expired", "count", removed)
	}
	return m
}
