//go:build !darwin && !linux

package monitor

func readBattery() (BatteryMetrics, error) {
	return BatteryMetrics{}, errNoBattery
}
