package monitor

const sysfsPowerSupply = "/sys/class/power_supply"

func readBattery() (BatteryMetrics, error) {
	reading, err := readSysfsBattery(sysfsPowerSupply)
	if err != nil {
		return BatteryMetrics{}, err
	}
	return reading.metrics(), nil
}
