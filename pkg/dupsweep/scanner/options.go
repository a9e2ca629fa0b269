// Package scanner walks a directory tree, hashes every regular file and
// groups files with identical content into duplicate sets.
//
// The walk is single-threaded and depth-first. It uses an explicit stack of
// directory frames, so tree depth is bounded by heap rather than call stack.
package scanner

import (
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/hasher"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/types"
)

// DefaultRoot is scanned when Options.Root is empty.
const DefaultRoot = "."

// DigestCache lets a scan reuse digests of files that have not changed
// since they were last hashed. A file is unchanged when every field of its
// stamp matches the stored one.
type DigestCache interface {
	// Lookup returns the cached digest for path if stamp matches.
	Lookup(path string, stamp types.FileStamp) (string, bool)

	// Store records a freshly computed digest.
	Store(path string, stamp types.FileStamp, digest string)

	// Flush persists stored digests.
	Flush() error
}

// Options configures the scanner behavior.
type Options struct {
	// Root is the directory to scan.
	Root string

	// Exclude contains patterns for entries to leave out of the scan.
	// A pattern matches an entry by basename glob, full path glob, or as
	// a path prefix. Excluded entries are not counted.
	Exclude []string

	// Hasher computes file digests. Nil uses hasher.New().
	Hasher *hasher.Hasher

	// Cache is an optional digest cache. Nil disables caching.
	Cache DigestCache

	// OnProgress is called periodically with scan progress.
	OnProgress func(types.ScanProgress)
}

// DefaultOptions returns options for scanning the current directory.
func DefaultOptions() Options {
	return Options{
		Root:   DefaultRoot,
		Hasher: hasher.New(),
	}
}

// SetDefaults fills in defaults for unset fields.
func (o *Options) SetDefaults() {
	if o.Root == "" {
		o.Root = DefaultRoot
	}
	if o.Hasher == nil {
		o.Hasher = hasher.New()
	}
}
