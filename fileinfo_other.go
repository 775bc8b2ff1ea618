//go:build !linux

package main

import (
	"os"
	"time"
)

func creationTime(_ string, st os.FileInfo) time.Time {
	return st.ModTime()
}

// Device numbers are not used here; everything goes to the home trash.
func fileDevice(string) (uint64, bool) {
	return 0, false
}
