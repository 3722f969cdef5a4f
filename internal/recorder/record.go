package recorder

import "github.com/haskel/sysbar/internal/monitor"

// Record is one flattened snapshot row.
type Record struct {
	TimestampMS      int64   `json:"timestamp_ms" parquet:"timestamp_ms"`
	CPUUsage         float64 `json:"cpu_usage" parquet:"cpu_usage"`
	CPUCores         int32   `json:"cpu_cores" parquet:"cpu_cores"`
	RAMUsed          uint64  `json:"ram_used_bytes" parquet:"ram_used_bytes"`
	RAMTotal         uint64  `json:"ram_total_bytes" parquet:"ram_total_bytes"`
	RAMCompressed    uint64  `json:"ram_compressed_bytes" parquet:"ram_compressed_bytes"`
	DiskUsed         uint64  `json:"disk_used_bytes" parquet:"disk_used_bytes"`
	DiskTotal        uint64  `json:"disk_total_bytes" parquet:"disk_total_bytes"`
	NetUpSpeed       uint64  `json:"net_up_speed" parquet:"net_up_speed"`
	NetDownSpeed     uint64  `json:"net_down_speed" parquet:"net_down_speed"`
	NetTotalSent     uint64  `json:"net_total_sent" parquet:"net_total_sent"`
	NetTotalReceived uint64  `json:"net_total_received" parquet:"net_total_received"`
	BatteryPresent   bool    `json:"battery_present" parquet:"battery_present"`
	BatteryLevel     int32   `json:"battery_level" parquet:"battery_level"`
	BatteryCharging  bool    `json:"battery_charging" parquet:"battery_charging"`
	GPUAvailable     bool    `json:"gpu_available" parquet:"gpu_available"`
	GPUUsage         float64 `json:"gpu_usage" parquet:"gpu_usage"`
	ThermalState     string  `json:"thermal_state" parquet:"thermal_state"`
}

func RecordFrom(snap *monitor.SystemSnapshot) Record {
	return Record{
		TimestampMS:      snap.Timestamp.UnixMilli(),
		CPUUsage:         snap.CPU.TotalUsage,
		CPUCores:         int32(snap.CPU.CoreCount),
		RAMUsed:          snap.RAM.Used,
		RAMTotal:         snap.RAM.Total,
		RAMCompressed:    snap.RAM.Compressed,
		DiskUsed:         snap.Disk.Used,
		DiskTotal:        snap.Disk.Total,
		NetUpSpeed:       snap.Network.UpSpeed,
		NetDownSpeed:     snap.Network.DownSpeed,
		NetTotalSent:     snap.Network.TotalSent,
		NetTotalReceived: snap.Network.TotalReceived,
		BatteryPresent:   snap.Battery.HasBattery,
		BatteryLevel:     int32(snap.Battery.Level),
		BatteryCharging:  snap.Battery.IsCharging,
		GPUAvailable:     snap.GPU.Available,
		GPUUsage:         snap.GPU.Usage,
		ThermalState:     snap.Info.ThermalState,
	}
}
