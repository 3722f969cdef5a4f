package monitor

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/shirou/gopsutil/v4/mem"
)

// readPageCounts runs vm_stat on every tick. The compressor-occupied page
// count that RAM used is derived from is only reported by vm_stat; gopsutil's
// darwin VirtualMemory reads host_statistics without it, and calling
// host_statistics64 directly would need cgo.
func readPageCounts(_ *mem.VirtualMemoryStat, _ uint64) (pageCounts, error) {
	out, err := exec.Command("vm_stat").Output()
	if err != nil {
		return pageCounts{}, fmt.Errorf("vm_stat: %w", err)
	}
	return parseVMStat(bytes.NewReader(out))
}
