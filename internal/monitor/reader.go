package monitor

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

// CPUTicks is one core's scheduler tick counters. Counters are 32 bits wide
// and may wrap.
type CPUTicks struct {
	User   uint32
	System uint32
	Idle   uint32
	Nice   uint32
}

// RawCPU is a single read of every logical core. A failed read has no cores.
type RawCPU struct {
	Cores []CPUTicks
}

// RawNetwork is a single read of the summed interface byte counters.
type RawNetwork struct {
	Sent     uint64
	Received uint64
	At       time.Time
	OK       bool
}

// Reader performs single-shot reads of host counters. Reads never fail: an
// unreadable family yields its zero value (or an unavailable flag).
type Reader interface {
	ReadCPU() RawCPU
	ReadMemory() RAMMetrics
	ReadDisk() DiskMetrics
	ReadNetwork() RawNetwork
	ReadBattery() BatteryMetrics
	ReadGPU() GPUMetrics
	ReadSystemInfo() SystemInfo
}

// HostReader reads counters from the running host.
type HostReader struct {
	logger     *slog.Logger
	diskPath   string
	pageSize   uint64
	clockTicks float64
	staticInfo func() SystemInfo
	gpu        gpuSource

	closeOnce sync.Once
}

// NewHostReader creates a reader for the host. Page size and clock rate are
// read once here and reused for the life of the reader.
func NewHostReader(diskPath string, logger *slog.Logger) *HostReader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if diskPath == "" {
		diskPath = "/"
	}

	r := &HostReader{
		logger:     logger,
		diskPath:   diskPath,
		pageSize:   hostPageSize(),
		clockTicks: hostClockTicks(),
	}
	r.staticInfo = sync.OnceValue(r.loadStaticInfo)
	r.gpu = newGPUSource(logger)

	logger.Debug("host reader ready",
		"page_size", r.pageSize,
		"clock_ticks", r.clockTicks,
		"disk_path", diskPath,
		"gpu", r.gpu.Name(),
	)

	return r
}

// Close releases GPU driver handles.
func (r *HostReader) Close() error {
	var err error
	r.closeOnce.Do(func() {
		err = r.gpu.Close()
	})
	return err
}

func (r *HostReader) ReadGPU() GPUMetrics {
	m, err := r.gpu.Read()
	if err != nil {
		r.logger.Debug("gpu read failed", "family", "gpu", "error", err)
		return GPUMetrics{}
	}
	return m
}

func (r *HostReader) ReadBattery() BatteryMetrics {
	m, err := readBattery()
	if err != nil {
		r.logger.Debug("battery unavailable", "family", "battery", "error", err)
		return BatteryMetrics{}
	}
	return m
}
