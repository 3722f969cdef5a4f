package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/haskel/sysbar/internal/alert"
	"github.com/haskel/sysbar/internal/config"
	"github.com/haskel/sysbar/internal/diskscan"
	"github.com/haskel/sysbar/internal/monitor"
	"github.com/haskel/sysbar/internal/trend"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeSampler struct {
	mu       sync.Mutex
	snap     *monitor.SystemSnapshot
	history  map[monitor.Metric][]float64
	interval time.Duration
	subs     []chan *monitor.SystemSnapshot
}

func (f *fakeSampler) CurrentSnapshot() *monitor.SystemSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeSampler) History(metric monitor.Metric) ([]float64, bool) {
	v, ok := f.history[metric]
	return v, ok
}

func (f *fakeSampler) HistoryCapacity() int { return 150 }

func (f *fakeSampler) Interval() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.interval
}

func (f *fakeSampler) SetInterval(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("interval must be positive, got %s", d)
	}
	f.mu.Lock()
	f.interval = d
	f.mu.Unlock()
	return nil
}

func (f *fakeSampler) Subscribe(buffer int) (<-chan *monitor.SystemSnapshot, func()) {
	ch := make(chan *monitor.SystemSnapshot, buffer)
	f.mu.Lock()
	f.subs = append(f.subs, ch)
	f.mu.Unlock()
	return ch, func() {}
}

func (f *fakeSampler) publish(snap *monitor.SystemSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = snap
	for _, ch := range f.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (f *fakeSampler) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

type fakeScanner struct {
	entries []diskscan.Entry
	err     error
}

func (f *fakeScanner) Scan(ctx context.Context) ([]diskscan.Entry, error) {
	return f.entries, f.err
}

type fakeAlerts []alert.Alert

func (f fakeAlerts) Enabled() bool         { return true }
func (f fakeAlerts) Recent() []alert.Alert { return f }

func testSnapshot() *monitor.SystemSnapshot {
	return &monitor.SystemSnapshot{
		CPU:       monitor.CPUMetrics{TotalUsage: 0.42, PerCoreUsage: []float64{0.4, 0.44}, CoreCount: 2},
		RAM:       monitor.RAMMetrics{Used: 8 << 30, Total: 16 << 30, Active: 6 << 30, Wired: 2 << 30},
		Disk:      monitor.DiskMetrics{Used: 100 << 30, Total: 500 << 30},
		Network:   monitor.NetworkMetrics{UpSpeed: 1536, DownSpeed: 2 << 20},
		Battery:   monitor.BatteryMetrics{HasBattery: true, Level: 80, IsCharging: true},
		Info:      monitor.SystemInfo{ChipName: "Test Chip", ThermalState: monitor.ThermalNormal, Uptime: 90061},
		Timestamp: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func testServer(t *testing.T, sampler *fakeSampler, deps Deps) *Server {
	t.Helper()
	if sampler.interval == 0 {
		sampler.interval = 2 * time.Second
	}
	deps.Sampler = sampler
	return New(config.Default(), deps, testLogger(), "0.1.0-test")
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}

func TestHandleInfo(t *testing.T) {
	srv := testServer(t, &fakeSampler{}, Deps{})

	w := get(t, srv, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	info := decode[InfoResponse](t, w)
	if info.Name != "sysbar" || info.Version != "0.1.0-test" {
		t.Errorf("unexpected info: %+v", info)
	}

	if w := get(t, srv, "/nope"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown path, got %d", w.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(t, &fakeSampler{}, Deps{})

	w := get(t, srv, "/health")
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if resp := decode[HealthResponse](t, w); resp.Status != "ok" {
		t.Errorf("expected status 'ok', got %s", resp.Status)
	}
}

func TestHandleReady(t *testing.T) {
	sampler := &fakeSampler{}
	srv := testServer(t, sampler, Deps{})

	w := get(t, srv, "/ready")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503 before first snapshot, got %d", w.Code)
	}
	if resp := decode[ReadyResponse](t, w); resp.Ready || resp.Message == "" {
		t.Errorf("unexpected not-ready response: %+v", resp)
	}

	sampler.publish(testSnapshot())

	w = get(t, srv, "/ready")
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if resp := decode[ReadyResponse](t, w); !resp.Ready {
		t.Error("expected ready=true")
	}
}

func TestHandleStatus(t *testing.T) {
	sampler := &fakeSampler{}
	srv := testServer(t, sampler, Deps{})

	if w := get(t, srv, "/status"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503 before first snapshot, got %d", w.Code)
	}

	sampler.publish(testSnapshot())

	w := get(t, srv, "/status")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}

	snap := decode[monitor.SystemSnapshot](t, w)
	if snap.CPU.TotalUsage != 0.42 || snap.CPU.CoreCount != 2 {
		t.Errorf("unexpected cpu: %+v", snap.CPU)
	}
	if snap.Info.ChipName != "Test Chip" {
		t.Errorf("unexpected info: %+v", snap.Info)
	}
}

func TestHandleSummary(t *testing.T) {
	sampler := &fakeSampler{}
	sampler.publish(testSnapshot())
	srv := testServer(t, sampler, Deps{})

	w := get(t, srv, "/summary")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	sum := decode[SummaryResponse](t, w)
	want := SummaryResponse{
		Health:    "normal",
		CPU:       "42%",
		CPULevel:  "normal",
		RAM:       "8.0 GiB / 16 GiB",
		RAMLevel:  "normal",
		Disk:      "100 GiB / 500 GiB",
		NetUp:     "1.5 KiB/s",
		NetDown:   "2.0 MiB/s",
		Battery:   "80% (charging)",
		Thermal:   monitor.ThermalNormal,
		Uptime:    "1d 1h 1m",
		Timestamp: "2024-06-01T12:00:00Z",
	}
	if sum != want {
		t.Errorf("unexpected summary:\n got %+v\nwant %+v", sum, want)
	}
}

func TestHandleHistory(t *testing.T) {
	sampler := &fakeSampler{
		history: map[monitor.Metric][]float64{
			monitor.MetricCPU: {0.1, 0.2, 0.3},
		},
	}
	srv := testServer(t, sampler, Deps{})

	w := get(t, srv, "/history/cpu")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	resp := decode[HistoryResponse](t, w)
	if resp.Metric != monitor.MetricCPU || resp.IntervalMS != 2000 || resp.Capacity != 150 {
		t.Errorf("unexpected history metadata: %+v", resp)
	}
	if len(resp.Values) != 3 || resp.Values[2] != 0.3 {
		t.Errorf("unexpected values: %v", resp.Values)
	}
	if resp.Trend.Samples != 3 || resp.Trend.Direction != trend.Rising {
		t.Errorf("expected a rising trend over 3 samples, got %+v", resp.Trend)
	}

	if w := get(t, srv, "/history/bogus"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown metric, got %d", w.Code)
	}
}

func TestHandleInterval(t *testing.T) {
	sampler := &fakeSampler{}
	srv := testServer(t, sampler, Deps{})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMS     int64
	}{
		{"valid", `{"interval_ms": 500}`, http.StatusOK, 500},
		{"zero", `{"interval_ms": 0}`, http.StatusBadRequest, 500},
		{"negative", `{"interval_ms": -5}`, http.StatusBadRequest, 500},
		{"one millisecond", `{"interval_ms": 1}`, http.StatusBadRequest, 500},
		{"just below minimum", `{"interval_ms": 99}`, http.StatusBadRequest, 500},
		{"overflows duration", `{"interval_ms": 18446744073710}`, http.StatusBadRequest, 500},
		{"one past maximum", fmt.Sprintf(`{"interval_ms": %d}`, config.MaxIntervalMS+1), http.StatusBadRequest, 500},
		{"beyond int64", `{"interval_ms": 99999999999999999999}`, http.StatusBadRequest, 500},
		{"malformed", `{`, http.StatusBadRequest, 500},
		{"too large", `{"interval_ms": 1, "pad": "` + strings.Repeat("x", 70<<10) + `"}`, http.StatusBadRequest, 500},
		{"minimum", `{"interval_ms": 100}`, http.StatusOK, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/interval", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if got := sampler.Interval().Milliseconds(); got != tt.wantMS {
				t.Errorf("expected interval %dms, got %dms", tt.wantMS, got)
			}
		})
	}

	w := get(t, srv, "/interval")
	if resp := decode[IntervalResponse](t, w); resp.IntervalMS != 100 {
		t.Errorf("expected 100ms, got %d", resp.IntervalMS)
	}
}

func TestHandleDisk(t *testing.T) {
	scanner := &fakeScanner{entries: []diskscan.Entry{
		{Name: "Library", Path: "/Users/me/Library", Size: 3000},
		{Name: diskscan.OtherName, Size: 1000},
	}}
	srv := testServer(t, &fakeSampler{}, Deps{Scanner: scanner})

	w := get(t, srv, "/disk")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	resp := decode[DiskResponse](t, w)
	if len(resp.Entries) != 2 || resp.Total != 4000 {
		t.Errorf("unexpected disk response: %+v", resp)
	}

	scanner.err = errors.New("boom")
	if w := get(t, srv, "/disk"); w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 on scan failure, got %d", w.Code)
	}
}

func TestHandleDisk_NotConfigured(t *testing.T) {
	srv := testServer(t, &fakeSampler{}, Deps{})

	if w := get(t, srv, "/disk"); w.Code != http.StatusNotImplemented {
		t.Errorf("expected 501 without a scanner, got %d", w.Code)
	}
}

func TestHandleAlerts(t *testing.T) {
	t.Run("no evaluator", func(t *testing.T) {
		srv := testServer(t, &fakeSampler{}, Deps{})

		w := get(t, srv, "/alerts")
		if !strings.Contains(w.Body.String(), `"alerts":[]`) {
			t.Errorf("expected empty alert list, got %s", w.Body.String())
		}
		if resp := decode[AlertsResponse](t, w); resp.Enabled {
			t.Error("alerts should report disabled without an evaluator")
		}
	})

	t.Run("recent alerts", func(t *testing.T) {
		alerts := fakeAlerts{{ID: "a1", Kind: alert.KindCPU, Title: "High CPU Usage", Value: 0.95, Threshold: 0.9}}
		srv := testServer(t, &fakeSampler{}, Deps{Alerts: alerts})

		resp := decode[AlertsResponse](t, get(t, srv, "/alerts"))
		if len(resp.Alerts) != 1 || resp.Alerts[0].ID != "a1" {
			t.Errorf("unexpected alerts: %+v", resp.Alerts)
		}
		if !resp.Enabled {
			t.Error("expected enabled flag from the evaluator")
		}
	})
}

func TestServer_Auth(t *testing.T) {
	cfg := config.Default()
	cfg.Auth = config.AuthConfig{Enabled: true, User: "admin", Password: "secret"}
	sampler := &fakeSampler{interval: time.Second}
	sampler.publish(testSnapshot())
	srv := New(cfg, Deps{Sampler: sampler}, testLogger(), "test")

	if w := get(t, srv, "/health"); w.Code != http.StatusOK {
		t.Errorf("/health should stay public, got %d", w.Code)
	}
	if w := get(t, srv, "/ready"); w.Code != http.StatusOK {
		t.Errorf("/ready should stay public, got %d", w.Code)
	}
	if w := get(t, srv, "/status"); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without credentials, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.SetBasicAuth("admin", "secret")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with credentials, got %d", w.Code)
	}

	cfg.Auth.Enabled = false
	srv.ReloadConfig(cfg)
	if w := get(t, srv, "/status"); w.Code != http.StatusOK {
		t.Errorf("expected 200 after disabling auth, got %d", w.Code)
	}
}
