package monitor

import "time"

// CPUMetrics holds utilization ratios in [0,1].
type CPUMetrics struct {
	TotalUsage   float64   `json:"total_usage"`
	PerCoreUsage []float64 `json:"per_core_usage"`
	CoreCount    int       `json:"core_count"`
}

// RAMMetrics holds memory byte counts. Used is always Active + Wired.
type RAMMetrics struct {
	Used       uint64 `json:"used_bytes"`
	Total      uint64 `json:"total_bytes"`
	Active     uint64 `json:"active_bytes"`
	Wired      uint64 `json:"wired_bytes"`
	Compressed uint64 `json:"compressed_bytes"`
}

func (m RAMMetrics) UsagePercent() float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.Used) / float64(m.Total)
}

// DiskMetrics describes the monitored filesystem.
type DiskMetrics struct {
	Used  uint64 `json:"used_bytes"`
	Total uint64 `json:"total_bytes"`
}

func (m DiskMetrics) UsagePercent() float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.Used) / float64(m.Total)
}

// NetworkMetrics holds rates in bytes/sec and cumulative totals since boot.
type NetworkMetrics struct {
	UpSpeed       uint64 `json:"up_speed"`
	DownSpeed     uint64 `json:"down_speed"`
	TotalSent     uint64 `json:"total_sent"`
	TotalReceived uint64 `json:"total_received"`
}

// BatteryMetrics describes the internal battery. When HasBattery is false
// every other field is zero and must be ignored.
type BatteryMetrics struct {
	Level       int     `json:"level"`
	IsCharging  bool    `json:"is_charging"`
	IsPluggedIn bool    `json:"is_plugged_in"`
	HasBattery  bool    `json:"has_battery"`
	CycleCount  int     `json:"cycle_count"`
	Health      int     `json:"health"`
	Temperature float64 `json:"temperature"`
}

// GPUMetrics describes the primary GPU. When Available is false every other
// field is zero.
type GPUMetrics struct {
	Available   bool    `json:"available"`
	Name        string  `json:"name,omitempty"`
	Usage       float64 `json:"usage"`
	MemoryUsed  uint64  `json:"memory_used_bytes"`
	MemoryTotal uint64  `json:"memory_total_bytes"`
	Temperature float64 `json:"temperature"`
}

// SystemInfo holds descriptive host fields. Everything except ThermalState
// and Uptime is computed once per process.
type SystemInfo struct {
	ChipName     string `json:"chip_name"`
	OSVersion    string `json:"os_version"`
	Hostname     string `json:"hostname"`
	MemorySize   string `json:"memory_size"`
	CoreCount    int    `json:"core_count"`
	ThermalState string `json:"thermal_state"`
	Uptime       uint64 `json:"uptime_sec"`
}

// SystemSnapshot is one poll's worth of metrics. Snapshots are published by
// reference and must never be modified after construction.
type SystemSnapshot struct {
	CPU       CPUMetrics     `json:"cpu"`
	RAM       RAMMetrics     `json:"ram"`
	Disk      DiskMetrics    `json:"disk"`
	Network   NetworkMetrics `json:"network"`
	Battery   BatteryMetrics `json:"battery"`
	GPU       GPUMetrics     `json:"gpu"`
	Info      SystemInfo     `json:"info"`
	Timestamp time.Time      `json:"timestamp"`
}
