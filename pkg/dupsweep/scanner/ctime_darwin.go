//go:build darwin

package scanner

import (
	"os"
	"syscall"
	"time"
)

// statFile reads birth time, ctime and inode from the stat structure.
func statFile(_ string, info os.FileInfo) fileMeta {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileMeta{}
	}
	return fileMeta{
		created: time.Unix(stat.Birthtimespec.Sec, stat.Birthtimespec.Nsec),
		ctime:   time.Unix(stat.Ctimespec.Sec, stat.Ctimespec.Nsec).UnixNano(),
		inode:   stat.Ino,
	}
}
