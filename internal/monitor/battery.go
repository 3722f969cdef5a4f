package monitor

import "errors"

var errNoBattery = errors.New("no battery present")

// batteryReading is the raw power-source data before normalization.
// Capacities share whatever unit the platform reports.
type batteryReading struct {
	Current     int
	Max         int
	Design      int
	Charging    bool
	PluggedIn   bool
	Cycles      int
	Temperature float64
}

func (b batteryReading) metrics() BatteryMetrics {
	level := 0
	if b.Max > 0 {
		level = b.Current * 100 / b.Max
	}

	design := b.Design
	if design <= 0 {
		design = b.Max
	}
	health := 0
	if design > 0 {
		health = b.Max * 100 / design
	}

	return BatteryMetrics{
		Level:       min(max(level, 0), 100),
		IsCharging:  b.Charging,
		IsPluggedIn: b.PluggedIn,
		HasBattery:  true,
		CycleCount:  max(b.Cycles, 0),
		Health:      min(max(health, 0), 100),
		Temperature: b.Temperature,
	}
}
