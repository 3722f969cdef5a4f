package config

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "127.0.0.1",
			Port:    9273,
			PIDFile: "/tmp/sysbar.pid",
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerSecond: 50,
				Burst:             100,
			},
		},
		Auth: AuthConfig{
			Enabled:  false,
			User:     "",
			Password: "",
		},
		Monitoring: MonitoringConfig{
			IntervalMS:     2000,
			WarmupMS:       1000,
			HistoryMinutes: 5,
			HistorySlots:   0,
			DiskPath:       "/",
		},
		Alerts: AlertsConfig{
			Enabled:      false,
			CPUThreshold: 0.90,
			RAMThreshold: 0.90,
			CooldownSec:  60,
			Keep:         50,
		},
		DiskScan: DiskScanConfig{
			Directories: []DirectoryConfig{
				{Name: "Library", Path: "~/Library"},
				{Name: "Applications", Path: "/Applications"},
			},
			IncludeHiddenHome: true,
			MinSizeMB:         10,
			Root:              "/",
		},
		Recorder: RecorderConfig{
			Enabled:          false,
			Path:             "sysbar-metrics.jsonl",
			Format:           "jsonl",
			FlushIntervalSec: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
