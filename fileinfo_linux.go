//go:build linux

package main

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// creationTime reads the birth time via statx, falling back to the change
// time on file systems that do not record it.
func creationTime(path string, st os.FileInfo) time.Time {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME|unix.STATX_CTIME, &stx)
	if err != nil {
		return st.ModTime()
	}
	if stx.Mask&unix.STATX_BTIME != 0 {
		return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
	}
	return time.Unix(stx.Ctime.Sec, int64(stx.Ctime.Nsec))
}

// fileDevice returns the device number of the file system holding path.
func fileDevice(path string) (uint64, bool) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, false
	}
	return uint64(st.Dev), true
}
