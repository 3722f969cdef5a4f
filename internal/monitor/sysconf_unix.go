//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package monitor

import (
	"github.com/tklauser/go-sysconf"
	"golang.org/x/sys/unix"
)

const defaultClockTicks = 100

func hostPageSize() uint64 {
	return uint64(unix.Getpagesize())
}

func hostClockTicks() float64 {
	tck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil || tck <= 0 {
		return defaultClockTicks
	}
	return float64(tck)
}
