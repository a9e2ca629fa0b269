package scanner

import "github.com/jamesainslie/dupsweep/pkg/dupsweep/types"

// digestGroup holds the files sharing one digest, in discovery order.
type digestGroup struct {
	size  int64
	files []types.File
}

// digestIndex maps digests to file groups and remembers the order in which
// digests were first seen, so results are stable for a given tree.
type digestIndex struct {
	order  []string
	groups map[string]*digestGroup
}

func newDigestIndex() *digestIndex {
	return &digestIndex{groups: make(map[string]*digestGroup)}
}

// add appends a file to the group for digest.
func (x *digestIndex) add(digest string, size int64, file types.File) {
	g, ok := x.groups[digest]
	if !ok {
		g = &digestGroup{size: size}
		x.groups[digest] = g
		x.order = append(x.order, digest)
	}
	g.files = append(g.files, file)
}

// duplicates collapses unique groups and returns one DuplicateSet per group
// of two or more files, along with the number of redundant copies.
func (x *digestIndex) duplicates() ([]types.DuplicateSet, int64) {
	sets := make([]types.DuplicateSet, 0)
	var redundant int64

	for _, digest := range x.order {
		g := x.groups[digest]
		if len(g.files) < 2 {
			continue
		}
		redundant += int64(len(g.files) - 1)
		sets = append(sets, types.DuplicateSet{
			Digest: digest,
			Size:   g.size,
			Files:  g.files,
		})
	}

	return sets, redundant
}
