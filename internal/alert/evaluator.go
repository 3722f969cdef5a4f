package alert

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/haskel/sysbar/internal/config"
	"github.com/haskel/sysbar/internal/format"
	"github.com/haskel/sysbar/internal/monitor"
	"github.com/haskel/sysbar/internal/ringbuffer"
)

var titles = map[Kind]string{
	KindCPU: "High CPU Usage",
	KindRAM: "High RAM Usage",
}

var labels = map[Kind]string{
	KindCPU: "CPU",
	KindRAM: "RAM",
}

// Evaluator checks snapshots against thresholds and raises at most one
// alert per kind per cooldown.
type Evaluator struct {
	mu       sync.Mutex
	enabled  bool
	checker  *ThresholdChecker
	cooldown time.Duration
	last     map[Kind]time.Time
	recent   *ringbuffer.Buffer[Alert]

	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewEvaluator(cfg config.AlertsConfig, notifier Notifier, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}

	return &Evaluator{
		enabled:  cfg.Enabled,
		checker:  NewThresholdChecker(cfg),
		cooldown: cfg.Cooldown(),
		last:     make(map[Kind]time.Time),
		recent:   ringbuffer.New[Alert](max(cfg.Keep, 1)),
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Evaluate checks one snapshot and delivers any new alerts.
func (e *Evaluator) Evaluate(ctx context.Context, snap *monitor.SystemSnapshot) []Alert {
	if snap == nil {
		return nil
	}

	e.mu.Lock()
	if !e.enabled {
		e.mu.Unlock()
		return nil
	}

	now := e.now()
	var raised []Alert
	for _, b := range e.checker.Check(snap) {
		if now.Sub(e.last[b.Kind]) <= e.cooldown {
			continue
		}
		e.last[b.Kind] = now

		a := Alert{
			ID:        uuid.NewString(),
			Kind:      b.Kind,
			Title:     titles[b.Kind],
			Message:   labels[b.Kind] + " at " + format.Percent(b.Value),
			Value:     b.Value,
			Threshold: b.Threshold,
			Time:      now,
		}
		e.recent.Append(a)
		raised = append(raised, a)
	}
	e.mu.Unlock()

	for _, a := range raised {
		if err := e.notifier.Notify(ctx, a); err != nil {
			e.logger.Warn("alert delivery failed", "id", a.ID, "kind", a.Kind, "error", err)
		}
	}

	return raised
}

// Run evaluates snapshots from ch until ctx is done or ch is closed.
func (e *Evaluator) Run(ctx context.Context, ch <-chan *monitor.SystemSnapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}
			e.Evaluate(ctx, snap)
		}
	}
}

// Recent returns retained alerts, oldest first.
func (e *Evaluator) Recent() []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recent.Values()
}

// UpdateConfig applies new thresholds, cooldown and enablement. Retained
// alerts and cooldown state are kept.
func (e *Evaluator) UpdateConfig(cfg config.AlertsConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.enabled = cfg.Enabled
	e.checker.UpdateThresholds(cfg)
	e.cooldown = cfg.Cooldown()
}

func (e *Evaluator) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}
