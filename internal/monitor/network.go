package monitor

import (
	"strings"
	"time"

	psnet "github.com/shirou/gopsutil/v4/net"
)

// ReadNetwork sums byte counters over every non-loopback interface.
func (r *HostReader) ReadNetwork() RawNetwork {
	counters, err := psnet.IOCounters(true)
	if err != nil {
		r.logger.Warn("network read failed", "family", "network", "error", err)
		return RawNetwork{}
	}

	loopback := r.loopbackInterfaces()

	raw := RawNetwork{At: time.Now(), OK: true}
	for _, c := range counters {
		if isLoopback(c.Name, loopback) {
			continue
		}
		raw.Sent += c.BytesSent
		raw.Received += c.BytesRecv
	}

	return raw
}

// loopbackInterfaces returns interface names flagged as loopback, or nil
// when the interface list can't be read.
func (r *HostReader) loopbackInterfaces() map[string]bool {
	ifaces, err := psnet.Interfaces()
	if err != nil {
		r.logger.Debug("interface list unavailable", "family", "network", "error", err)
		return nil
	}

	names := make(map[string]bool)
	for _, iface := range ifaces {
		for _, flag := range iface.Flags {
			if flag == "loopback" {
				names[iface.Name] = true
				break
			}
		}
	}
	return names
}

func isLoopback(name string, flagged map[string]bool) bool {
	if flagged[name] {
		return true
	}
	return name == "lo" || strings.HasPrefix(name, "lo0")
}
