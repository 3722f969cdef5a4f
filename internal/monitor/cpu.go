package monitor

import (
	"math"

	"github.com/shirou/gopsutil/v4/cpu"
)

// ReadCPU captures per-core tick counters. Ratios are left to the DeltaEngine.
func (r *HostReader) ReadCPU() RawCPU {
	times, err := cpu.Times(true)
	if err != nil {
		r.logger.Warn("cpu read failed", "family", "cpu", "error", err)
		return RawCPU{}
	}

	cores := make([]CPUTicks, len(times))
	for i, t := range times {
		cores[i] = ticksFromTimes(t, r.clockTicks)
	}

	return RawCPU{Cores: cores}
}

// ticksFromTimes converts gopsutil's seconds back into scheduler ticks.
// Interrupt and steal time count as system, iowait counts as idle.
func ticksFromTimes(t cpu.TimesStat, clockTicks float64) CPUTicks {
	return CPUTicks{
		User:   toTicks(t.User, clockTicks),
		System: toTicks(t.System+t.Irq+t.Softirq+t.Steal, clockTicks),
		Idle:   toTicks(t.Idle+t.Iowait, clockTicks),
		Nice:   toTicks(t.Nice, clockTicks),
	}
}

// toTicks truncates to 32 bits, so large counters wrap the same way the
// kernel's 32-bit tick arrays do.
func toTicks(seconds, clockTicks float64) uint32 {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0
	}
	return uint32(uint64(math.Round(seconds * clockTicks)))
}
