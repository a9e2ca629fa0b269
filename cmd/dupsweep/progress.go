package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/types"
)

// statusInterval throttles redraws of the scan status line.
const statusInterval = 100 * time.Millisecond

// statusLine redraws a single line with the running scan counters.
type statusLine struct {
	w        io.Writer
	interval time.Duration
	last     time.Time
	drawn    bool
}

// statusLine returns a status line on stderr, or nil when output is quiet
// or stderr is not a terminal.
func (a *app) statusLine() *statusLine {
	if a.quiet {
		return nil
	}
	f, ok := a.errOut.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return nil
	}
	return newStatusLine(f)
}

func newStatusLine(w io.Writer) *statusLine {
	return &statusLine{w: w, interval: statusInterval}
}

// update redraws the line at most once per interval and clears it when the
// scan is done.
func (s *statusLine) update(p types.ScanProgress) {
	if p.Done {
		if s.drawn {
			fmt.Fprint(s.w, "\r\033[K")
			s.drawn = false
		}
		return
	}

	now := time.Now()
	if s.drawn && now.Sub(s.last) < s.interval {
		return
	}
	s.last = now
	s.drawn = true

	fmt.Fprintf(s.w, "\r\033[KScanning: %s folders, %s files, %s hashed",
		humanize.Comma(p.FoldersScanned),
		humanize.Comma(p.FilesScanned),
		types.FormatSize(p.BytesHashed))
	if p.CacheHits > 0 {
		fmt.Fprintf(s.w, ", %s cached", humanize.Comma(p.CacheHits))
	}
}
