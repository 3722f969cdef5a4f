//go:build linux && cgo

package monitor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// nvmlGPU reads the first NVIDIA device through NVML.
type nvmlGPU struct {
	device nvml.Device
	name   string
}

func newGPUSource(logger *slog.Logger) gpuSource {
	if ret := nvml.Init(); !errors.Is(ret, nvml.SUCCESS) {
		logger.Debug("nvml unavailable", "family", "gpu", "error", nvml.ErrorString(ret))
		return noGPU{}
	}

	count, ret := nvml.DeviceGetCount()
	if !errors.Is(ret, nvml.SUCCESS) || count == 0 {
		nvml.Shutdown()
		return noGPU{}
	}

	device, ret := nvml.DeviceGetHandleByIndex(0)
	if !errors.Is(ret, nvml.SUCCESS) {
		logger.Debug("nvml device unavailable", "family", "gpu", "error", nvml.ErrorString(ret))
		nvml.Shutdown()
		return noGPU{}
	}

	name, _ := device.GetName()
	return &nvmlGPU{device: device, name: name}
}

func (g *nvmlGPU) Name() string {
	return g.name
}

func (g *nvmlGPU) Read() (GPUMetrics, error) {
	util, ret := g.device.GetUtilizationRates()
	if !errors.Is(ret, nvml.SUCCESS) {
		return GPUMetrics{}, fmt.Errorf("utilization: %s", nvml.ErrorString(ret))
	}

	m := GPUMetrics{
		Available: true,
		Name:      g.name,
		Usage:     clamp01(float64(util.Gpu) / 100),
	}
	if mem, ret := g.device.GetMemoryInfo(); errors.Is(ret, nvml.SUCCESS) {
		m.MemoryUsed = mem.Used
		m.MemoryTotal = mem.Total
	}
	if temp, ret := g.device.GetTemperature(nvml.TEMPERATURE_GPU); errors.Is(ret, nvml.SUCCESS) {
		m.Temperature = float64(temp)
	}
	return m, nil
}

func (g *nvmlGPU) Close() error {
	if ret := nvml.Shutdown(); !errors.Is(ret, nvml.SUCCESS) {
		return fmt.Errorf("nvml shutdown: %s", nvml.ErrorString(ret))
	}
	return nil
}
