//go:build !darwin && !linux

package monitor

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/mem"
)

// Without a page-level source, derive page counts from gopsutil's byte totals.
func readPageCounts(vm *mem.VirtualMemoryStat, pageSize uint64) (pageCounts, error) {
	if pageSize == 0 {
		return pageCounts{}, fmt.Errorf("unknown page size")
	}
	return pageCounts{
		Active: vm.Active / pageSize,
		Wired:  vm.Wired / pageSize,
	}, nil
}
