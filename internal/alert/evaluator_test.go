package alert

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/haskel/sysbar/internal/monitor"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []Alert
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, a Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, a)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.alerts)
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newTestEvaluator(n Notifier) (*Evaluator, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	e := NewEvaluator(defaultThresholds(), n, testLogger())
	e.now = clock.now
	return e, clock
}

func TestEvaluator_RaisesAlert(t *testing.T) {
	n := &recordingNotifier{}
	e, _ := newTestEvaluator(n)

	raised := e.Evaluate(context.Background(), snapshot(0.93, 10, 100))

	if len(raised) != 1 {
		t.Fatalf("expected one alert, got %d", len(raised))
	}
	a := raised[0]
	if a.Title != "High CPU Usage" || a.Message != "CPU at 93%" {
		t.Errorf("unexpected alert text: %q / %q", a.Title, a.Message)
	}
	if _, err := uuid.Parse(a.ID); err != nil {
		t.Errorf("alert id should be a UUID: %v", err)
	}
	if n.count() != 1 {
		t.Errorf("expected notifier to be called once, got %d", n.count())
	}
}

func TestEvaluator_Cooldown(t *testing.T) {
	n := &recordingNotifier{}
	e, clock := newTestEvaluator(n)
	ctx := context.Background()
	hot := snapshot(0.95, 95, 100)

	if got := len(e.Evaluate(ctx, hot)); got != 2 {
		t.Fatalf("expected cpu and ram alerts, got %d", got)
	}

	clock.t = clock.t.Add(30 * time.Second)
	if got := len(e.Evaluate(ctx, hot)); got != 0 {
		t.Errorf("expected no alerts inside cooldown, got %d", got)
	}

	clock.t = clock.t.Add(30 * time.Second)
	if got := len(e.Evaluate(ctx, hot)); got != 0 {
		t.Errorf("cooldown boundary is exclusive, got %d alerts", got)
	}

	clock.t = clock.t.Add(time.Second)
	if got := len(e.Evaluate(ctx, hot)); got != 2 {
		t.Errorf("expected alerts after cooldown, got %d", got)
	}
}

func TestEvaluator_CooldownPerKind(t *testing.T) {
	e, clock := newTestEvaluator(&recordingNotifier{})
	ctx := context.Background()

	e.Evaluate(ctx, snapshot(0.95, 10, 100))

	clock.t = clock.t.Add(time.Second)
	raised := e.Evaluate(ctx, snapshot(0.95, 95, 100))
	if len(raised) != 1 || raised[0].Kind != KindRAM {
		t.Errorf("RAM must not share the CPU cooldown, got %v", raised)
	}
}

func TestEvaluator_Disabled(t *testing.T) {
	n := &recordingNotifier{}
	cfg := defaultThresholds()
	cfg.Enabled = false
	e := NewEvaluator(cfg, n, testLogger())

	if raised := e.Evaluate(context.Background(), snapshot(1, 100, 100)); len(raised) != 0 {
		t.Errorf("disabled evaluator raised %v", raised)
	}
	if n.count() != 0 {
		t.Error("disabled evaluator must not notify")
	}
}

func TestEvaluator_UpdateConfig(t *testing.T) {
	e, _ := newTestEvaluator(&recordingNotifier{})
	ctx := context.Background()

	cfg := defaultThresholds()
	cfg.Enabled = false
	e.UpdateConfig(cfg)
	if e.Enabled() {
		t.Fatal("expected evaluator to be disabled")
	}
	if len(e.Evaluate(ctx, snapshot(1, 100, 100))) != 0 {
		t.Error("expected no alerts while disabled")
	}

	cfg.Enabled = true
	cfg.CPUThreshold = 0.5
	e.UpdateConfig(cfg)
	if raised := e.Evaluate(ctx, snapshot(0.6, 10, 100)); len(raised) != 1 {
		t.Errorf("expected alert with lowered threshold, got %v", raised)
	}
}

func TestEvaluator_RecentIsBounded(t *testing.T) {
	cfg := defaultThresholds()
	cfg.Keep = 3
	cfg.CooldownSec = 0
	e := NewEvaluator(cfg, &recordingNotifier{}, testLogger())
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	e.now = clock.now

	for i := 0; i < 5; i++ {
		clock.t = clock.t.Add(time.Second)
		e.Evaluate(context.Background(), snapshot(0.9, 0, 100))
	}

	recent := e.Recent()
	if len(recent) != 3 {
		t.Fatalf("expected 3 retained alerts, got %d", len(recent))
	}
	if !recent[0].Time.Before(recent[2].Time) {
		t.Error("recent alerts should be oldest first")
	}
}

func TestEvaluator_NotifierErrorDoesNotDropAlert(t *testing.T) {
	n := &recordingNotifier{err: errors.New("delivery failed")}
	e, _ := newTestEvaluator(n)

	raised := e.Evaluate(context.Background(), snapshot(0.95, 0, 100))
	if len(raised) != 1 || len(e.Recent()) != 1 {
		t.Errorf("alert should be retained despite delivery failure")
	}
}

func TestEvaluator_Run(t *testing.T) {
	n := &recordingNotifier{}
	e, _ := newTestEvaluator(n)

	ch := make(chan *monitor.SystemSnapshot, 2)
	ch <- snapshot(0.95, 0, 100)
	ch <- nil
	close(ch)

	done := make(chan struct{})
	go func() {
		e.Run(context.Background(), ch)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after channel close")
	}
	if n.count() != 1 {
		t.Errorf("expected one delivered alert, got %d", n.count())
	}
}

func TestLogNotifier(t *testing.T) {
	n := NewLogNotifier(testLogger())
	if err := n.Notify(context.Background(), Alert{ID: "x", Kind: KindCPU, Title: "High CPU Usage"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
