package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	var errs []error

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}

	if err := c.Auth.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if err := c.Monitoring.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("monitoring: %w", err))
	}

	if err := c.Alerts.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("alerts: %w", err))
	}

	if err := c.DiskScan.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("disk_scan: %w", err))
	}

	if err := c.Recorder.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("recorder: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	return errors.Join(errs...)
}

func (s *ServerConfig) Validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", s.Port))
	}

	if s.RateLimit.Enabled {
		if s.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, fmt.Errorf("rate_limit.requests_per_second must be positive"))
		}
		if s.RateLimit.Burst < 1 {
			errs = append(errs, fmt.Errorf("rate_limit.burst must be at least 1"))
		}
	}

	return errors.Join(errs...)
}

func (a *AuthConfig) Validate() error {
	if a.Enabled {
		if a.User == "" {
			return fmt.Errorf("user cannot be empty when auth is enabled")
		}
		if a.Password == "" {
			return fmt.Errorf("password cannot be empty when auth is enabled")
		}
	}
	return nil
}

func (m *MonitoringConfig) Validate() error {
	var errs []error

	if m.IntervalMS < MinIntervalMS || int64(m.IntervalMS) > MaxIntervalMS {
		errs = append(errs, fmt.Errorf("interval_ms must be in [%d, %d], got %d", MinIntervalMS, MaxIntervalMS, m.IntervalMS))
	}
	if m.WarmupMS < 0 {
		errs = append(errs, fmt.Errorf("warmup_ms must be non-negative"))
	}
	if m.HistoryMinutes < 0 {
		errs = append(errs, fmt.Errorf("history_minutes must be non-negative"))
	}
	if m.HistorySlots < 0 {
		errs = append(errs, fmt.Errorf("history_slots must be non-negative"))
	}
	if m.DiskPath == "" {
		errs = append(errs, fmt.Errorf("disk_path cannot be empty"))
	}

	return errors.Join(errs...)
}

func (a *AlertsConfig) Validate() error {
	var errs []error

	if a.CPUThreshold <= 0 || a.CPUThreshold > 1 {
		errs = append(errs, fmt.Errorf("cpu_threshold must be in (0, 1], got %g", a.CPUThreshold))
	}
	if a.RAMThreshold <= 0 || a.RAMThreshold > 1 {
		errs = append(errs, fmt.Errorf("ram_threshold must be in (0, 1], got %g", a.RAMThreshold))
	}
	if a.CooldownSec < 0 {
		errs = append(errs, fmt.Errorf("cooldown_sec must be non-negative"))
	}
	if a.Keep < 1 {
		errs = append(errs, fmt.Errorf("keep must be at least 1"))
	}

	return errors.Join(errs...)
}

func (d *DiskScanConfig) Validate() error {
	var errs []error

	for i, dir := range d.Directories {
		if dir.Name == "" {
			errs = append(errs, fmt.Errorf("directories[%d].name cannot be empty", i))
		}
		if dir.Path == "" {
			errs = append(errs, fmt.Errorf("directories[%d].path cannot be empty", i))
		}
	}
	if d.MinSizeMB < 0 {
		errs = append(errs, fmt.Errorf("min_size_mb must be non-negative"))
	}
	if d.Root == "" {
		errs = append(errs, fmt.Errorf("root cannot be empty"))
	}

	return errors.Join(errs...)
}

func (r *RecorderConfig) Validate() error {
	validFormats := map[string]bool{
		"jsonl":   true,
		"parquet": true,
	}
	if !validFormats[r.Format] {
		return fmt.Errorf("invalid format: %s (valid: jsonl, parquet)", r.Format)
	}
	if r.Enabled && r.Path == "" {
		return fmt.Errorf("path cannot be empty when recorder is enabled")
	}
	if r.FlushIntervalSec < 1 {
		return fmt.Errorf("flush_interval_sec must be at least 1")
	}
	return nil
}

func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", l.Level)
	}

	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validFormats[l.Format] {
		return fmt.Errorf("invalid log format: %s (valid: json, text)", l.Format)
	}

	return nil
}
