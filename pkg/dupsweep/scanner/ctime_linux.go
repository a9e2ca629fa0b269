//go:build linux

package scanner

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// statFile reads ctime and inode from the stat structure and the birth time
// using statx(2). Birth time is zero when the kernel or filesystem does not
// report one.
func statFile(path string, info os.FileInfo) fileMeta {
	var m fileMeta
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		m.ctime = time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec)).UnixNano()
		m.inode = uint64(st.Ino)
	}

	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_SYMLINK_NOFOLLOW, unix.STATX_BTIME, &stx)
	if err == nil && stx.Mask&unix.STATX_BTIME != 0 {
		m.created = time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
	}
	return m
}
