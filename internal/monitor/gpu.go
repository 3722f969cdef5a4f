package monitor

import "errors"

var errNoGPU = errors.New("no gpu available")

// gpuSource reads the primary GPU. Implementations are platform specific.
type gpuSource interface {
	Name() string
	Read() (GPUMetrics, error)
	Close() error
}

type noGPU struct{}

func (noGPU) Name() string              { return "none" }
func (noGPU) Read() (GPUMetrics, error) { return GPUMetrics{}, errNoGPU }
func (noGPU) Close() error              { return nil }
