package monitor

import (
	"fmt"
	"os/exec"
)

func readBattery() (BatteryMetrics, error) {
	out, err := exec.Command("ioreg", "-r", "-n", "AppleSmartBattery", "-a").Output()
	if err != nil {
		return BatteryMetrics{}, fmt.Errorf("ioreg: %w", err)
	}

	reading, err := parseSmartBattery(out)
	if err != nil {
		return BatteryMetrics{}, err
	}
	return reading.metrics(), nil
}
