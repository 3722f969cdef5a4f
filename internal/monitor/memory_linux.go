package monitor

import (
	"os"

	"github.com/shirou/gopsutil/v4/mem"
)

const procVMStatPath = "/proc/vmstat"

func readPageCounts(_ *mem.VirtualMemoryStat, _ uint64) (pageCounts, error) {
	f, err := os.Open(procVMStatPath)
	if err != nil {
		return pageCounts{}, err
	}
	defer f.Close()

	return parseProcVMStat(f)
}
