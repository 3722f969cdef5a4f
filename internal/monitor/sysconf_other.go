//go:build !(darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris)

package monitor

import "os"

const defaultClockTicks = 100

func hostPageSize() uint64 {
	return uint64(os.Getpagesize())
}

func hostClockTicks() float64 {
	return defaultClockTicks
}
