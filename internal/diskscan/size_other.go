//go:build !unix

package diskscan

import "io/fs"

func allocatedSize(info fs.FileInfo) uint64 {
	return uint64(max(info.Size(), 0))
}
