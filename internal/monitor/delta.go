package monitor

import "time"

// DeltaEngine turns successive raw counter reads into ratios and rates. It
// keeps the previous sample as its baseline and is not safe for concurrent
// use: exactly one Sampler drives one engine.
type DeltaEngine struct {
	prevCores []CPUTicks

	prevSent     uint64
	prevReceived uint64
	prevAt       time.Time
	hasNetwork   bool
}

func NewDeltaEngine() *DeltaEngine {
	return &DeltaEngine{}
}

// CPU computes per-core and aggregate usage against the stored baseline.
// The first sample, or one whose core count differs from the baseline,
// yields zero usage and becomes the new baseline. An empty read leaves the
// baseline untouched.
func (e *DeltaEngine) CPU(raw RawCPU) CPUMetrics {
	n := len(raw.Cores)
	if n == 0 {
		return CPUMetrics{PerCoreUsage: []float64{}}
	}

	perCore := make([]float64, n)
	cur := make([]CPUTicks, n)
	copy(cur, raw.Cores)

	if len(e.prevCores) != n {
		e.prevCores = cur
		return CPUMetrics{PerCoreUsage: perCore, CoreCount: n}
	}

	var sumUsed, sumTotal uint64
	for i, c := range cur {
		p := e.prevCores[i]
		used := uint64(subFloor32(c.User, p.User)) +
			uint64(subFloor32(c.System, p.System)) +
			uint64(subFloor32(c.Nice, p.Nice))
		total := used + uint64(subFloor32(c.Idle, p.Idle))

		perCore[i] = ratio(used, total)
		sumUsed += used
		sumTotal += total
	}

	e.prevCores = cur

	return CPUMetrics{
		TotalUsage:   ratio(sumUsed, sumTotal),
		PerCoreUsage: perCore,
		CoreCount:    n,
	}
}

// Network computes upload and download rates in bytes/sec. A failed read
// returns zero rates and keeps the baseline. Without a baseline, or when
// the clock did not move forward, rates are zero but the baseline is still
// replaced.
func (e *DeltaEngine) Network(raw RawNetwork) NetworkMetrics {
	if !raw.OK {
		return NetworkMetrics{}
	}

	m := NetworkMetrics{
		TotalSent:     raw.Sent,
		TotalReceived: raw.Received,
	}

	if e.hasNetwork {
		elapsed := raw.At.Sub(e.prevAt).Seconds()
		if elapsed > 0 {
			m.UpSpeed = uint64(float64(subFloor(raw.Sent, e.prevSent)) / elapsed)
			m.DownSpeed = uint64(float64(subFloor(raw.Received, e.prevReceived)) / elapsed)
		}
	}

	e.prevSent = raw.Sent
	e.prevReceived = raw.Received
	e.prevAt = raw.At
	e.hasNetwork = true

	return m
}

// Reset drops every baseline.
func (e *DeltaEngine) Reset() {
	*e = DeltaEngine{}
}

func ratio(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return clamp01(float64(used) / float64(total))
}

func clamp01(v float64) float64 {
	switch {
	case v != v, v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// subFloor returns a-b, or 0 when the counter went backwards.
func subFloor(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

func subFloor32(a, b uint32) uint32 {
	if a < b {
		return 0
	}
	return a - b
}
