package monitor

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/mem"
)

type pageCounts struct {
	Active     uint64
	Wired      uint64
	Compressed uint64
}

// ReadMemory captures page counts and converts them with the cached page size.
func (r *HostReader) ReadMemory() RAMMetrics {
	vm, err := mem.VirtualMemory()
	if err != nil {
		r.logger.Warn("memory read failed", "family", "memory", "error", err)
		return RAMMetrics{}
	}

	pages, err := readPageCounts(vm, r.pageSize)
	if err != nil {
		r.logger.Warn("memory page counts unavailable", "family", "memory", "error", err)
		return RAMMetrics{}
	}

	return ramFromPages(pages, r.pageSize, vm.Total)
}

func ramFromPages(p pageCounts, pageSize, total uint64) RAMMetrics {
	active := p.Active * pageSize
	wired := p.Wired * pageSize
	return RAMMetrics{
		Used:       active + wired,
		Total:      total,
		Active:     active,
		Wired:      wired,
		Compressed: p.Compressed * pageSize,
	}
}

// parseVMStat reads the output of macOS vm_stat(1).
func parseVMStat(r io.Reader) (pageCounts, error) {
	var pc pageCounts
	found := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}

		var dst *uint64
		switch strings.TrimSpace(key) {
		case "Pages active":
			dst = &pc.Active
		case "Pages wired down":
			dst = &pc.Wired
		case "Pages occupied by compressor":
			dst = &pc.Compressed
		default:
			continue
		}

		n, err := strconv.ParseUint(strings.TrimSuffix(strings.TrimSpace(value), "."), 10, 64)
		if err != nil {
			return pageCounts{}, fmt.Errorf("parse vm_stat %q: %w", key, err)
		}
		*dst = n
		found++
	}
	if err := scanner.Err(); err != nil {
		return pageCounts{}, err
	}
	if found == 0 {
		return pageCounts{}, fmt.Errorf("vm_stat: no page counters found")
	}

	return pc, nil
}

// parseProcVMStat reads /proc/vmstat. Active is anon+file active lists,
// wired is unevictable plus unreclaimable slab, compressed is zsmalloc pages.
func parseProcVMStat(r io.Reader) (pageCounts, error) {
	var pc pageCounts
	found := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}

		var dst *uint64
		switch fields[0] {
		case "nr_active_anon", "nr_active_file":
			dst = &pc.Active
		case "nr_unevictable", "nr_slab_unreclaimable":
			dst = &pc.Wired
		case "nr_zspages":
			dst = &pc.Compressed
		default:
			continue
		}

		n, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return pageCounts{}, fmt.Errorf("parse /proc/vmstat %s: %w", fields[0], err)
		}
		*dst += n
		found++
	}
	if err := scanner.Err(); err != nil {
		return pageCounts{}, err
	}
	if found == 0 {
		return pageCounts{}, fmt.Errorf("/proc/vmstat: no page counters found")
	}

	return pc, nil
}
