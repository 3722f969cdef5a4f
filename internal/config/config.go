package config

import (
	"math"
	"time"
)

// Polling interval bounds in milliseconds. The upper bound is the largest
// value that still fits a time.Duration.
const (
	MinIntervalMS = 100
	MaxIntervalMS = math.MaxInt64 / int64(time.Millisecond)
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Auth       AuthConfig       `yaml:"auth"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Alerts     AlertsConfig     `yaml:"alerts"`
	DiskScan   DiskScanConfig   `yaml:"disk_scan"`
	Recorder   RecorderConfig   `yaml:"recorder"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Host      string          `yaml:"host"`
	Port      int             `yaml:"port"`
	PIDFile   string          `yaml:"pid_file"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig limits requests per client IP.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type AuthConfig struct {
	Enabled  bool   `yaml:"enabled"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// MonitoringConfig controls sampling. A positive HistorySlots overrides the
// capacity derived from HistoryMinutes.
type MonitoringConfig struct {
	IntervalMS     int    `yaml:"interval_ms"`
	WarmupMS       int    `yaml:"warmup_ms"`
	HistoryMinutes int    `yaml:"history_minutes"`
	HistorySlots   int    `yaml:"history_slots"`
	DiskPath       string `yaml:"disk_path"`
}

// AlertsConfig holds usage thresholds as ratios in [0,1].
type AlertsConfig struct {
	Enabled      bool    `yaml:"enabled"`
	CPUThreshold float64 `yaml:"cpu_threshold"`
	RAMThreshold float64 `yaml:"ram_threshold"`
	CooldownSec  int     `yaml:"cooldown_sec"`
	Keep         int     `yaml:"keep"`
}

type DiskScanConfig struct {
	Directories       []DirectoryConfig `yaml:"directories"`
	IncludeHiddenHome bool              `yaml:"include_hidden_home"`
	MinSizeMB         int               `yaml:"min_size_mb"`
	Root              string            `yaml:"root"`
}

// DirectoryConfig is a named directory; a leading "~" means the home directory.
type DirectoryConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

type RecorderConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Path             string `yaml:"path"`
	Format           string `yaml:"format"`
	FlushIntervalSec int    `yaml:"flush_interval_sec"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) MonitoringInterval() time.Duration {
	return time.Duration(c.Monitoring.IntervalMS) * time.Millisecond
}

func (c *Config) Warmup() time.Duration {
	return time.Duration(c.Monitoring.WarmupMS) * time.Millisecond
}

// HistorySlots returns ring buffer capacity: the explicit override, or
// enough slots to cover HistoryMinutes at the polling interval.
func (c *Config) HistorySlots() int {
	if c.Monitoring.HistorySlots > 0 {
		return c.Monitoring.HistorySlots
	}
	if c.Monitoring.IntervalMS <= 0 {
		return 1
	}
	return max(c.Monitoring.HistoryMinutes*60_000/c.Monitoring.IntervalMS, 1)
}

// Cooldown is the minimum gap between two alerts of the same kind.
func (a *AlertsConfig) Cooldown() time.Duration {
	return time.Duration(a.CooldownSec) * time.Second
}

func (c *Config) FlushInterval() time.Duration {
	return time.Duration(c.Recorder.FlushIntervalSec) * time.Second
}

func (c *Config) MinScanSize() uint64 {
	return uint64(max(c.DiskScan.MinSizeMB, 0)) * 1_000_000
}
