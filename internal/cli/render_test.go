package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/haskel/sysbar/internal/diskscan"
	"github.com/haskel/sysbar/internal/monitor"
	"github.com/haskel/sysbar/internal/server"
	"github.com/haskel/sysbar/internal/trend"
)

func TestRenderStatus(t *testing.T) {
	snap := &monitor.SystemSnapshot{
		CPU:     monitor.CPUMetrics{TotalUsage: 0.9, CoreCount: 8},
		RAM:     monitor.RAMMetrics{Used: 8 << 30, Total: 16 << 30},
		Disk:    monitor.DiskMetrics{Used: 250 << 30, Total: 500 << 30},
		Network: monitor.NetworkMetrics{UpSpeed: 1536, DownSpeed: 2 << 20},
		Battery: monitor.BatteryMetrics{HasBattery: true, Level: 12, Health: 91, CycleCount: 300},
		Info: monitor.SystemInfo{
			ChipName:     "Apple M2",
			OSVersion:    "macOS 14.5",
			ThermalState: monitor.ThermalFair,
			Uptime:       3700,
		},
		Timestamp: time.Now(),
	}

	var buf bytes.Buffer
	renderStatus(&buf, snap)
	out := buf.String()

	for _, want := range []string{
		"Apple M2 · macOS 14.5",
		"critical",
		"90%",
		"(8 cores)",
		"8.0 GiB / 16 GiB",
		"↑ 1.5 KiB/s  ↓ 2.0 MiB/s",
		"12%",
		"300 cycles",
		"Fair",
		"1h 1m",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "GPU") {
		t.Error("unavailable GPU should not be shown")
	}
}

func TestWatchPrinter(t *testing.T) {
	snaps := []*monitor.SystemSnapshot{
		{CPU: monitor.CPUMetrics{TotalUsage: 0.1, CoreCount: 2}},
		{CPU: monitor.CPUMetrics{TotalUsage: 0.2, CoreCount: 2}},
	}

	var buf bytes.Buffer
	printSnap := watchPrinter(&buf, true)
	for _, s := range snaps {
		if err := printSnap(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], `"total_usage":0.2`) {
		t.Errorf("expected one JSON line per snapshot, got:\n%s", buf.String())
	}

	buf.Reset()
	printSnap = watchPrinter(&buf, false)
	for _, s := range snaps {
		printSnap(s)
	}
	if n := strings.Count(buf.String(), "CPU"); n != 2 {
		t.Errorf("expected two rendered blocks, got %d:\n%s", n, buf.String())
	}
	if strings.HasPrefix(buf.String(), "\n") {
		t.Error("first block should not be preceded by a blank line")
	}
}

func TestRenderHistory(t *testing.T) {
	var buf bytes.Buffer
	renderHistory(&buf, &server.HistoryResponse{
		Metric:     monitor.MetricNetDown,
		IntervalMS: 2000,
		Capacity:   150,
		Values:     []float64{1024, 3072, 2048},
	})
	out := buf.String()

	for _, want := range []string{"3/150 samples every 2000ms", "1.0 KiB/s", "3.0 KiB/s", "2.0 KiB/s"} {
		if !strings.Contains(out, want) {
			t.Errorf("history output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	renderHistory(&buf, &server.HistoryResponse{Metric: monitor.MetricCPU})
	if !strings.Contains(buf.String(), "no samples yet") {
		t.Errorf("expected empty notice, got %q", buf.String())
	}
}

func TestFormatMetric(t *testing.T) {
	if got := formatMetric(monitor.MetricCPU, 0.42); got != "42%" {
		t.Errorf("cpu: got %q", got)
	}
	if got := formatMetric(monitor.MetricNetUp, 512); got != "512 B/s" {
		t.Errorf("net_up: got %q", got)
	}
	if got := formatMetric(monitor.MetricNetUp, -1); got != "0 B/s" {
		t.Errorf("negative rate: got %q", got)
	}
}

func TestFormatTrend(t *testing.T) {
	tests := []struct {
		metric monitor.Metric
		in     trend.Summary
		want   string
	}{
		{monitor.MetricCPU, trend.Summary{}, "steady"},
		{monitor.MetricCPU, trend.Summary{Direction: trend.Steady, SlopePerSecond: 0.01}, "steady"},
		{monitor.MetricCPU, trend.Summary{Direction: trend.Rising, SlopePerSecond: 0.001}, "rising (+6%/min)"},
		{monitor.MetricRAM, trend.Summary{Direction: trend.Falling, SlopePerSecond: -0.002}, "falling (-12%/min)"},
		{monitor.MetricNetDown, trend.Summary{Direction: trend.Rising, SlopePerSecond: 8}, "rising (+480 B/s/min)"},
	}

	for _, tt := range tests {
		if got := formatTrend(tt.metric, tt.in); got != tt.want {
			t.Errorf("formatTrend(%s, %+v) = %q, want %q", tt.metric, tt.in, got, tt.want)
		}
	}
}

func TestRenderDisk(t *testing.T) {
	var buf bytes.Buffer
	renderDisk(&buf, []diskscan.Entry{
		{Name: "Library", Path: "/Users/me/Library", Size: 3 << 30},
		{Name: diskscan.OtherName, Path: "/", Size: 1 << 30},
	})
	out := buf.String()

	for _, want := range []string{"Library", "3.0 GiB", "75%", diskscan.OtherName, "Total", "4.0 GiB"} {
		if !strings.Contains(out, want) {
			t.Errorf("disk output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	renderDisk(&buf, nil)
	if !strings.Contains(buf.String(), "nothing above") {
		t.Errorf("expected empty notice, got %q", buf.String())
	}
}
