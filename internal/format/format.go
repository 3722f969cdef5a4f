// Package format renders metric values for people and classifies them into
// usage levels.
package format

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Level is a coarse severity used for colouring values.
type Level int

const (
	LevelNormal Level = iota
	LevelWarning
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	}
	return "normal"
}

const (
	warningRatio  = 0.60
	criticalRatio = 0.85

	batteryWarning  = 30
	batteryCritical = 15
)

// Bytes formats a byte count with binary units, e.g. "1.5 GiB".
func Bytes(n uint64) string {
	return humanize.IBytes(n)
}

// Speed formats a byte rate, e.g. "512 KiB/s".
func Speed(bytesPerSec uint64) string {
	return humanize.IBytes(bytesPerSec) + "/s"
}

// Percent formats a ratio in [0,1] as a whole percentage.
func Percent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}

// Uptime formats seconds as days, hours and minutes.
func Uptime(seconds uint64) string {
	d := time.Duration(seconds) * time.Second
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// UsageLevel classifies a utilization ratio.
func UsageLevel(ratio float64) Level {
	switch {
	case ratio > criticalRatio:
		return LevelCritical
	case ratio > warningRatio:
		return LevelWarning
	}
	return LevelNormal
}

// BatteryLevel classifies a charge percentage. Low charge is worse.
func BatteryLevel(level int) Level {
	switch {
	case level <= batteryCritical:
		return LevelCritical
	case level <= batteryWarning:
		return LevelWarning
	}
	return LevelNormal
}

// Health is the level of whichever of CPU and RAM is busier.
func Health(cpu, ram float64) Level {
	return UsageLevel(max(cpu, ram))
}
