//go:build !darwin && !(linux && cgo)

package monitor

import "log/slog"

func newGPUSource(_ *slog.Logger) gpuSource {
	return noGPU{}
}
