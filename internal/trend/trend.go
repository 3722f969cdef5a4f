// Package trend summarizes a metric history series: least-squares slope,
// exponentially smoothed level and a coarse direction.
package trend

import (
	"math"
	"time"
)

// Direction is the coarse movement of a series over its window.
type Direction string

const (
	Rising  Direction = "rising"
	Falling Direction = "falling"
	Steady  Direction = "steady"
)

const (
	DefaultAlpha     = 0.3
	DefaultTolerance = 0.1
)

// Fit accumulates the slope of an online least-squares line using Welford
// running means and co-moments.
type Fit struct {
	count int64
	meanX float64
	meanY float64
	cov   float64 // sum of (x-meanX)(y-meanY)
	varX  float64 // sum of (x-meanX)^2
}

// Observe adds one point.
func (f *Fit) Observe(x, y float64) {
	f.count++
	n := float64(f.count)

	dx := x - f.meanX
	f.meanX += dx / n
	f.meanY += (y - f.meanY) / n

	// second factor uses the updated meanX
	f.varX += dx * (x - f.meanX)
	f.cov += dx * (y - f.meanY)
}

// Count returns the number of observed points.
func (f *Fit) Count() int64 { return f.count }

// Slope returns the fitted slope. With fewer than two distinct x values it is 0.
func (f *Fit) Slope() float64 {
	if f.count < 2 || f.varX < 1e-10 {
		return 0
	}
	return f.cov / f.varX
}

// Mean returns the mean of observed y values.
func (f *Fit) Mean() float64 { return f.meanY }

// Options tunes Analyze. Zero values select the defaults.
type Options struct {
	// Alpha is the smoothing factor, 0 < Alpha <= 1.
	Alpha float64

	// Tolerance is the projected change over the window, relative to the
	// series mean, below which the series counts as steady.
	Tolerance float64
}

// Summary describes one series.
type Summary struct {
	Samples        int       `json:"samples"`
	SlopePerSecond float64   `json:"slope_per_second"`
	Smoothed       float64   `json:"smoothed"`
	Direction      Direction `json:"direction"`
}

// Analyze fits values sampled every interval, oldest first. The series must
// be evenly spaced; the sampler clears history whenever its interval changes.
func Analyze(values []float64, interval time.Duration, opts Options) Summary {
	if opts.Alpha <= 0 || opts.Alpha > 1 {
		opts.Alpha = DefaultAlpha
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}

	s := Summary{Samples: len(values), Direction: Steady}
	if len(values) == 0 {
		return s
	}

	step := interval.Seconds()
	if step <= 0 {
		step = 1
	}

	var fit Fit
	smoothed := values[0]
	for i, v := range values {
		fit.Observe(float64(i)*step, v)
		if i > 0 {
			smoothed = opts.Alpha*v + (1-opts.Alpha)*smoothed
		}
	}

	s.SlopePerSecond = fit.Slope()
	s.Smoothed = smoothed

	span := float64(len(values)-1) * step
	change := s.SlopePerSecond * span
	scale := math.Max(math.Abs(fit.Mean()), 1e-9)

	switch {
	case change/scale >= opts.Tolerance:
		s.Direction = Rising
	case change/scale <= -opts.Tolerance:
		s.Direction = Falling
	}

	return s
}
