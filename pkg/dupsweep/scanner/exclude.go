package scanner

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// exclusion is a compiled exclude pattern. A pattern matches a path equal
// to it, any path under it, or any path whose basename or full path
// matches it as a glob. "**" in a glob crosses directory separators.
type exclusion struct {
	pattern string
	prefix  string
	glob    glob.Glob // nil when the pattern is not a valid glob
}

func compileExclusions(patterns []string) []exclusion {
	out := make([]exclusion, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			continue
		}
		e := exclusion{pattern: p, prefix: p + string(filepath.Separator)}
		if g, err := glob.Compile(p, filepath.Separator); err == nil {
			e.glob = g
		} else {
			logger.Debug("exclude pattern is not a valid glob", "pattern", p, "err", err)
		}
		out = append(out, e)
	}
	return out
}

func (e exclusion) matches(path string) bool {
	if path == e.pattern || strings.HasPrefix(path, e.prefix) {
		return true
	}
	if e.glob == nil {
		return false
	}
	return e.glob.Match(filepath.Base(path)) || e.glob.Match(path)
}
