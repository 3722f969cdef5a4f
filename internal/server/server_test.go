package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/haskel/sysbar/internal/config"
	"github.com/haskel/sysbar/internal/monitor"
)

// steadyReader reports counters that advance by a fixed step per read.
type steadyReader struct {
	reads uint32
	start time.Time
}

func (r *steadyReader) ReadCPU() monitor.RawCPU {
	r.reads++
	n := r.reads * 100
	return monitor.RawCPU{Cores: []monitor.CPUTicks{{User: n, Idle: n}}}
}

func (r *steadyReader) ReadNetwork() monitor.RawNetwork {
	n := uint64(r.reads)
	return monitor.RawNetwork{Sent: n * 1000, Received: n * 2000, At: r.start.Add(time.Duration(n) * time.Second), OK: true}
}

func (r *steadyReader) ReadMemory() monitor.RAMMetrics {
	return monitor.RAMMetrics{Used: 4, Total: 16, Active: 3, Wired: 1}
}

func (r *steadyReader) ReadDisk() monitor.DiskMetrics       { return monitor.DiskMetrics{Used: 1, Total: 2} }
func (r *steadyReader) ReadBattery() monitor.BatteryMetrics { return monitor.BatteryMetrics{} }
func (r *steadyReader) ReadGPU() monitor.GPUMetrics         { return monitor.GPUMetrics{} }
func (r *steadyReader) ReadSystemInfo() monitor.SystemInfo {
	return monitor.SystemInfo{ChipName: "steady", ThermalState: monitor.ThermalNormal}
}

func startSampler(t *testing.T, interval time.Duration) *monitor.Sampler {
	t.Helper()
	s := monitor.NewSampler(&steadyReader{start: time.Now()}, monitor.SamplerConfig{
		Interval:     interval,
		Warmup:       time.Millisecond,
		HistorySlots: 10,
		Logger:       testLogger(),
	})
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("failed to start sampler: %v", err)
	}
	t.Cleanup(s.Stop)
	return s
}

func TestServer_Integration(t *testing.T) {
	sampler := startSampler(t, 10*time.Millisecond)
	srv := New(config.Default(), Deps{Sampler: sampler}, testLogger(), "0.1.0")

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	deadline := time.Now().Add(2 * time.Second)
	for sampler.Published() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	t.Run("GET /status", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/status")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.StatusCode)
		}

		var snap monitor.SystemSnapshot
		if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if snap.CPU.TotalUsage != 0.5 {
			t.Errorf("expected usage 0.5, got %f", snap.CPU.TotalUsage)
		}
		if snap.Info.ChipName != "steady" {
			t.Errorf("unexpected chip name %q", snap.Info.ChipName)
		}
	})

	t.Run("GET /history/ram", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/history/ram")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var hist HistoryResponse
		if err := json.NewDecoder(resp.Body).Decode(&hist); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if hist.Capacity != 10 || len(hist.Values) == 0 || len(hist.Values) > 10 {
			t.Errorf("unexpected history: %+v", hist)
		}
		for _, v := range hist.Values {
			if v != 0.25 {
				t.Errorf("expected ram ratio 0.25, got %f", v)
			}
		}
	})

	t.Run("security headers", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/health")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
			t.Error("expected security headers on every response")
		}
	})
}

func TestServer_Stream(t *testing.T) {
	sampler := &fakeSampler{interval: time.Second}
	sampler.publish(testSnapshot())
	srv := New(config.Default(), Deps{Sampler: sampler}, testLogger(), "test")

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first monitor.SystemSnapshot
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("failed to read initial snapshot: %v", err)
	}
	if first.CPU.TotalUsage != 0.42 {
		t.Errorf("expected current snapshot first, got %+v", first.CPU)
	}

	deadline := time.Now().Add(time.Second)
	for sampler.subscribers() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	next := testSnapshot()
	next.CPU.TotalUsage = 0.99
	sampler.publish(next)

	var got monitor.SystemSnapshot
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("failed to read pushed snapshot: %v", err)
	}
	if got.CPU.TotalUsage != 0.99 {
		t.Errorf("expected pushed snapshot, got %+v", got.CPU)
	}

	if srv.StreamCount() != 1 {
		t.Errorf("expected 1 stream client, got %d", srv.StreamCount())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected stream to be closed by shutdown")
	}
}

func TestServer_Addr(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 9999

	srv := New(cfg, Deps{Sampler: &fakeSampler{}}, testLogger(), "test")
	if srv.Addr() != "127.0.0.1:9999" {
		t.Errorf("unexpected addr %q", srv.Addr())
	}
}
