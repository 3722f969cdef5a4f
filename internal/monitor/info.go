package monitor

import (
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/sensors"
	"github.com/tklauser/numcpus"
)

const (
	ThermalNormal   = "Normal"
	ThermalFair     = "Fair"
	ThermalSerious  = "Serious"
	ThermalCritical = "Critical"
	ThermalUnknown  = "Unknown"
)

// fairFraction of a sensor's high limit marks the start of the Fair band.
const fairFraction = 0.85

// ReadSystemInfo returns the cached static fields with fresh thermal state
// and uptime.
func (r *HostReader) ReadSystemInfo() SystemInfo {
	info := r.staticInfo()

	temps, err := sensors.SensorsTemperatures()
	if err != nil && len(temps) == 0 {
		r.logger.Debug("temperature sensors unavailable", "family", "info", "error", err)
	}
	info.ThermalState = classifyThermal(temps)

	uptime, err := host.Uptime()
	if err != nil {
		r.logger.Debug("uptime unavailable", "family", "info", "error", err)
	}
	info.Uptime = uptime

	return info
}

func (r *HostReader) loadStaticInfo() SystemInfo {
	var info SystemInfo

	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 {
		info.ChipName = strings.TrimSpace(cpus[0].ModelName)
	} else if err != nil {
		r.logger.Debug("cpu info unavailable", "family", "info", "error", err)
	}
	if info.ChipName == "" {
		info.ChipName = runtime.GOARCH
	}

	if h, err := host.Info(); err == nil {
		info.Hostname = h.Hostname
		info.OSVersion = osVersion(h.Platform, h.PlatformVersion)
	} else {
		r.logger.Debug("host info unavailable", "family", "info", "error", err)
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		info.MemorySize = humanize.IBytes(vm.Total)
	}

	online, err := numcpus.GetOnline()
	if err != nil || online <= 0 {
		online = runtime.NumCPU()
	}
	info.CoreCount = online

	return info
}

func osVersion(platform, version string) string {
	if platform == "darwin" {
		platform = "macOS"
	}
	return strings.TrimSpace(platform + " " + version)
}

// classifyThermal labels the hottest sensor against its own limits. Sensors
// that report no limits are judged by temperature alone and never rise
// above Normal.
func classifyThermal(temps []sensors.TemperatureStat) string {
	if len(temps) == 0 {
		return ThermalUnknown
	}

	state := ThermalNormal
	for _, t := range temps {
		if s := sensorState(t); thermalRank(s) > thermalRank(state) {
			state = s
		}
	}
	return state
}

func sensorState(t sensors.TemperatureStat) string {
	switch {
	case t.Critical > 0 && t.Temperature >= t.Critical:
		return ThermalCritical
	case t.High > 0 && t.Temperature >= t.High:
		return ThermalSerious
	case t.High > 0 && t.Temperature >= t.High*fairFraction:
		return ThermalFair
	}
	return ThermalNormal
}

func thermalRank(state string) int {
	switch state {
	case ThermalFair:
		return 1
	case ThermalSerious:
		return 2
	case ThermalCritical:
		return 3
	}
	return 0
}
