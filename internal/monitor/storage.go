package monitor

import (
	"github.com/shirou/gopsutil/v4/disk"
)

// ReadDisk captures total and available bytes for the monitored filesystem.
func (r *HostReader) ReadDisk() DiskMetrics {
	usage, err := disk.Usage(r.diskPath)
	if err != nil {
		r.logger.Warn("disk read failed", "family", "disk", "path", r.diskPath, "error", err)
		return DiskMetrics{}
	}

	return diskFromUsage(usage.Total, usage.Free)
}

// diskFromUsage computes used as total minus available, floored at zero.
func diskFromUsage(total, available uint64) DiskMetrics {
	return DiskMetrics{
		Used:  subFloor(total, available),
		Total: total,
	}
}
