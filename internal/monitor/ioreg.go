package monitor

import (
	"fmt"
	"strings"

	"howett.net/plist"
)

// smartBattery mirrors the AppleSmartBattery registry entry printed by
// `ioreg -a`.
type smartBattery struct {
	CurrentCapacity   *int `plist:"CurrentCapacity"`
	MaxCapacity       *int `plist:"MaxCapacity"`
	DesignCapacity    *int `plist:"DesignCapacity"`
	IsCharging        bool `plist:"IsCharging"`
	ExternalConnected bool `plist:"ExternalConnected"`
	CycleCount        int  `plist:"CycleCount"`
	Temperature       int  `plist:"Temperature"`
}

// parseSmartBattery decodes `ioreg -r -n AppleSmartBattery -a`. An empty
// registry match means the machine has no battery.
func parseSmartBattery(data []byte) (batteryReading, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return batteryReading{}, errNoBattery
	}

	var entries []smartBattery
	if _, err := plist.Unmarshal(data, &entries); err != nil {
		return batteryReading{}, fmt.Errorf("decode battery registry: %w", err)
	}
	if len(entries) == 0 {
		return batteryReading{}, errNoBattery
	}

	e := entries[0]
	maxCap := intOr(e.MaxCapacity, 100)
	return batteryReading{
		Current:     intOr(e.CurrentCapacity, 0),
		Max:         maxCap,
		Design:      intOr(e.DesignCapacity, maxCap),
		Charging:    e.IsCharging,
		PluggedIn:   e.ExternalConnected,
		Cycles:      e.CycleCount,
		Temperature: float64(e.Temperature) / 100,
	}, nil
}

// accelerator mirrors an IOAccelerator registry entry.
type accelerator struct {
	Model      string         `plist:"model"`
	IOClass    string         `plist:"IOClass"`
	Statistics map[string]any `plist:"PerformanceStatistics"`
}

// parseAccelerator decodes `ioreg -r -d 1 -c IOAccelerator -a` and reports
// the first accelerator that publishes performance statistics.
func parseAccelerator(data []byte) (GPUMetrics, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return GPUMetrics{}, errNoGPU
	}

	var entries []accelerator
	if _, err := plist.Unmarshal(data, &entries); err != nil {
		return GPUMetrics{}, fmt.Errorf("decode accelerator registry: %w", err)
	}

	for _, e := range entries {
		if e.Statistics == nil {
			continue
		}

		name := e.Model
		if name == "" {
			name = e.IOClass
		}

		m := GPUMetrics{
			Available:  true,
			Name:       name,
			Usage:      clamp01(statNumber(e.Statistics, "Device Utilization %") / 100),
			MemoryUsed: uint64(statNumber(e.Statistics, "In use system memory")),
		}
		if m.MemoryUsed == 0 {
			m.MemoryUsed = uint64(statNumber(e.Statistics, "vramUsedBytes"))
		}
		if free := statNumber(e.Statistics, "vramFreeBytes"); free > 0 {
			m.MemoryTotal = m.MemoryUsed + uint64(free)
		}
		return m, nil
	}

	return GPUMetrics{}, errNoGPU
}

func statNumber(stats map[string]any, key string) float64 {
	switch v := stats[key].(type) {
	case uint64:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	case float32:
		return float64(v)
	}
	return 0
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
