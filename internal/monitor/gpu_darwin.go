package monitor

import (
	"fmt"
	"log/slog"
	"os/exec"
)

// ioregGPU polls the IOAccelerator registry entry.
type ioregGPU struct {
	name string
}

func newGPUSource(logger *slog.Logger) gpuSource {
	m, err := readAccelerator()
	if err != nil {
		logger.Debug("accelerator unavailable", "family", "gpu", "error", err)
		return noGPU{}
	}
	return &ioregGPU{name: m.Name}
}

func (g *ioregGPU) Name() string {
	return g.name
}

func (g *ioregGPU) Read() (GPUMetrics, error) {
	return readAccelerator()
}

func (g *ioregGPU) Close() error {
	return nil
}

func readAccelerator() (GPUMetrics, error) {
	out, err := exec.Command("ioreg", "-r", "-d", "1", "-c", "IOAccelerator", "-a").Output()
	if err != nil {
		return GPUMetrics{}, fmt.Errorf("ioreg: %w", err)
	}
	return parseAccelerator(out)
}
