//go:build !darwin && !linux

package scanner

import "os"

// statFile reports nothing beyond size and mtime on other platforms.
func statFile(_ string, _ os.FileInfo) fileMeta {
	return fileMeta{}
}
