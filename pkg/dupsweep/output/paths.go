package output

import (
	"bytes"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/types"
)

// PathsFormatter writes the redundant copies, one path per line. The first
// member of each set is treated as the original and left out, so the output
// can be piped to other tools.
type PathsFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PathsFormatter) Format(w *bytes.Buffer, r *types.ScanResult) error {
	for _, set := range r.Duplicates {
		for _, file := range set.Files[1:] {
			w.WriteString(file.Path)
			w.WriteByte('\n')
		}
	}
	return nil
}

func init() {
	Register("paths", func() Formatter {
		return &PathsFormatter{}
	})
}

// Ensure PathsFormatter implements Formatter.
var _ Formatter = (*PathsFormatter)(nil)
