package alert

import (
	"github.com/haskel/sysbar/internal/config"
	"github.com/haskel/sysbar/internal/monitor"
)

type Kind string

const (
	KindCPU Kind = "cpu"
	KindRAM Kind = "ram"
)

// Breach is a metric at or above its threshold.
type Breach struct {
	Kind      Kind
	Value     float64
	Threshold float64
}

type ThresholdChecker struct {
	thresholds config.AlertsConfig
}

func NewThresholdChecker(thresholds config.AlertsConfig) *ThresholdChecker {
	return &ThresholdChecker{thresholds: thresholds}
}

func (c *ThresholdChecker) Check(snap *monitor.SystemSnapshot) []Breach {
	var breaches []Breach

	if snap.CPU.TotalUsage >= c.thresholds.CPUThreshold {
		breaches = append(breaches, Breach{
			Kind:      KindCPU,
			Value:     snap.CPU.TotalUsage,
			Threshold: c.thresholds.CPUThreshold,
		})
	}

	if ram := snap.RAM.UsagePercent(); ram >= c.thresholds.RAMThreshold {
		breaches = append(breaches, Breach{
			Kind:      KindRAM,
			Value:     ram,
			Threshold: c.thresholds.RAMThreshold,
		})
	}

	return breaches
}

func (c *ThresholdChecker) UpdateThresholds(thresholds config.AlertsConfig) {
	c.thresholds = thresholds
}
