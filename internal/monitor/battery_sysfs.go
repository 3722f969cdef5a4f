package monitor

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// readSysfsBattery reads the first battery under a power_supply class
// directory. Charge (µAh) is preferred over energy (µWh); when neither is
// published the capacity percentage stands in for both.
func readSysfsBattery(root string) (batteryReading, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return batteryReading{}, err
	}

	var batDir string
	plugged := false
	for _, e := range entries {
		dir := filepath.Join(root, e.Name())
		switch sysfsString(dir, "type") {
		case "Battery":
			if batDir == "" {
				batDir = dir
			}
		case "Mains", "USB":
			if sysfsInt(dir, "online") == 1 {
				plugged = true
			}
		}
	}
	if batDir == "" {
		return batteryReading{}, errNoBattery
	}

	status := sysfsString(batDir, "status")
	reading := batteryReading{
		Charging:    status == "Charging",
		PluggedIn:   plugged || status == "Charging" || status == "Full",
		Cycles:      sysfsInt(batDir, "cycle_count"),
		Temperature: float64(sysfsInt(batDir, "temp")) / 10,
	}

	for _, prefix := range []string{"charge", "energy"} {
		full := sysfsInt(batDir, prefix+"_full")
		if full <= 0 {
			continue
		}
		reading.Current = sysfsInt(batDir, prefix+"_now")
		reading.Max = full
		reading.Design = sysfsInt(batDir, prefix+"_full_design")
		return reading, nil
	}

	reading.Current = sysfsInt(batDir, "capacity")
	reading.Max = 100
	reading.Design = 100
	return reading, nil
}

func sysfsString(dir, name string) string {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func sysfsInt(dir, name string) int {
	n, err := strconv.Atoi(sysfsString(dir, name))
	if err != nil {
		return 0
	}
	return n
}
