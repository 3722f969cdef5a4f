// Package alert raises notifications when CPU or RAM usage stays above a
// configured threshold.
package alert

import (
	"context"
	"log/slog"
	"time"
)

// Alert is one raised notification.
type Alert struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	Time      time.Time `json:"time"`
}

// Notifier delivers alerts.
type Notifier interface {
	Notify(ctx context.Context, a Alert) error
}

// LogNotifier writes alerts to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, a Alert) error {
	n.logger.LogAttrs(ctx, slog.LevelWarn, a.Title,
		slog.String("id", a.ID),
		slog.String("kind", string(a.Kind)),
		slog.String("message", a.Message),
		slog.Float64("value", a.Value),
		slog.Float64("threshold", a.Threshold),
	)
	return nil
}
