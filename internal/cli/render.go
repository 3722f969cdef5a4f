package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/haskel/sysbar/internal/diskscan"
	"github.com/haskel/sysbar/internal/format"
	"github.com/haskel/sysbar/internal/monitor"
	"github.com/haskel/sysbar/internal/server"
	"github.com/haskel/sysbar/internal/trend"
)

func row(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s%s\n", labelStyle.Render(label), value)
}

func renderStatus(w io.Writer, snap *monitor.SystemSnapshot) {
	sum := server.Summarize(snap)
	ram := snap.RAM.UsagePercent()

	var title []string
	for _, s := range []string{snap.Info.ChipName, snap.Info.OSVersion, snap.Info.Hostname} {
		if s != "" {
			title = append(title, s)
		}
	}
	fmt.Fprintln(w, titleStyle.Render("sysbar")+" "+mutedStyle.Render(strings.Join(title, " · ")))

	health := format.Health(snap.CPU.TotalUsage, ram)
	row(w, "Health", levelStyle(health).Render(health.String()))
	row(w, "CPU", levelStyle(format.UsageLevel(snap.CPU.TotalUsage)).Render(sum.CPU)+
		mutedStyle.Render(fmt.Sprintf(" (%d cores)", snap.CPU.CoreCount)))
	row(w, "RAM", levelStyle(format.UsageLevel(ram)).Render(format.Percent(ram))+
		mutedStyle.Render(" "+sum.RAM))
	row(w, "Disk", levelStyle(format.UsageLevel(snap.Disk.UsagePercent())).Render(format.Percent(snap.Disk.UsagePercent()))+
		mutedStyle.Render(" "+sum.Disk))
	row(w, "Network", fmt.Sprintf("↑ %s  ↓ %s", sum.NetUp, sum.NetDown))

	if snap.Battery.HasBattery {
		row(w, "Battery", levelStyle(format.BatteryLevel(snap.Battery.Level)).Render(sum.Battery)+
			mutedStyle.Render(fmt.Sprintf(" health %d%%, %d cycles", snap.Battery.Health, snap.Battery.CycleCount)))
	}
	if snap.GPU.Available {
		row(w, "GPU", levelStyle(format.UsageLevel(snap.GPU.Usage)).Render(sum.GPU)+
			mutedStyle.Render(" "+snap.GPU.Name))
	}

	row(w, "Thermal", thermalStyle(snap.Info.ThermalState).Render(snap.Info.ThermalState))
	row(w, "Uptime", sum.Uptime)
}

// formatMetric renders one history value in the metric's unit.
func formatMetric(metric monitor.Metric, v float64) string {
	switch metric {
	case monitor.MetricNetUp, monitor.MetricNetDown:
		return format.Speed(uint64(max(v, 0)))
	}
	return format.Percent(v)
}

func renderHistory(w io.Writer, hist *server.HistoryResponse) {
	fmt.Fprintf(w, "%s %s\n", titleStyle.Render(string(hist.Metric)),
		mutedStyle.Render(fmt.Sprintf("%d/%d samples every %dms", len(hist.Values), hist.Capacity, hist.IntervalMS)))

	if len(hist.Values) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no samples yet"))
		return
	}

	lo, hi, sum := hist.Values[0], hist.Values[0], 0.0
	for _, v := range hist.Values {
		lo = min(lo, v)
		hi = max(hi, v)
		sum += v
	}

	row(w, "Last", formatMetric(hist.Metric, hist.Values[len(hist.Values)-1]))
	row(w, "Min", formatMetric(hist.Metric, lo))
	row(w, "Avg", formatMetric(hist.Metric, sum/float64(len(hist.Values))))
	row(w, "Max", formatMetric(hist.Metric, hi))
	row(w, "Trend", formatTrend(hist.Metric, hist.Trend))
}

func formatTrend(metric monitor.Metric, t trend.Summary) string {
	if t.Direction == trend.Steady || t.Direction == "" {
		return string(trend.Steady)
	}
	perMin := t.SlopePerSecond * 60
	sign := "+"
	if perMin < 0 {
		sign = "-"
		perMin = -perMin
	}
	return fmt.Sprintf("%s (%s%s/min)", t.Direction, sign, formatMetric(metric, perMin))
}

func renderDisk(w io.Writer, entries []diskscan.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("nothing above the minimum size"))
		return
	}

	nameWidth := 0
	var total uint64
	for _, e := range entries {
		nameWidth = max(nameWidth, len(e.Name))
		total += e.Size
	}

	for _, e := range entries {
		share := float64(e.Size) / float64(total)
		fmt.Fprintf(w, "%-*s %10s %5s  %s\n", nameWidth, e.Name, format.Bytes(e.Size),
			format.Percent(share), mutedStyle.Render(e.Path))
	}
	fmt.Fprintf(w, "%-*s %10s\n", nameWidth, "Total", format.Bytes(total))
}
