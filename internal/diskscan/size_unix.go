//go:build unix

package diskscan

import (
	"io/fs"
	"syscall"
)

// allocatedSize reports the bytes a file occupies on disk.
func allocatedSize(info fs.FileInfo) uint64 {
	if st, ok := info.Sys().(*syscall.Stat_t); ok && st.Blocks > 0 {
		return uint64(st.Blocks) * 512
	}
	return uint64(max(info.Size(), 0))
}
