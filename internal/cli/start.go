package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haskel/sysbar/internal/alert"
	"github.com/haskel/sysbar/internal/config"
	"github.com/haskel/sysbar/internal/diskscan"
	"github.com/haskel/sysbar/internal/logger"
	"github.com/haskel/sysbar/internal/monitor"
	"github.com/haskel/sysbar/internal/recorder"
	"github.com/haskel/sysbar/internal/server"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start sampling and serve metrics over HTTP",
	Long: `Start the sampler, alert evaluator, optional recorder and HTTP server in
the foreground. SIGHUP reloads the config file; SIGINT or SIGTERM stops.`,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func newSampler(cfg *config.Config, reader monitor.Reader, log *slog.Logger) *monitor.Sampler {
	return monitor.NewSampler(reader, monitor.SamplerConfig{
		Interval:     cfg.MonitoringInterval(),
		Warmup:       cfg.Warmup(),
		HistorySlots: cfg.HistorySlots(),
		Logger:       log,
	})
}

func newScanner(cfg *config.Config, log *slog.Logger) *diskscan.Scanner {
	dirs := make([]diskscan.Directory, 0, len(cfg.DiskScan.Directories))
	for _, d := range cfg.DiskScan.Directories {
		dirs = append(dirs, diskscan.Directory{Name: d.Name, Path: d.Path})
	}
	return diskscan.New(diskscan.Options{
		Directories:       dirs,
		IncludeHiddenHome: cfg.DiskScan.IncludeHiddenHome,
		MinSize:           cfg.MinScanSize(),
		Root:              cfg.DiskScan.Root,
		Logger:            log,
	})
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	log.Info("sysbar starting",
		"version", Version,
		"config", cfgFile,
	)

	reader := monitor.NewHostReader(cfg.Monitoring.DiskPath, log)
	defer reader.Close()

	sampler := newSampler(cfg, reader, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evaluator := alert.NewEvaluator(cfg.Alerts, alert.NewLogNotifier(log), log)
	alertCh, cancelAlerts := sampler.Subscribe(8)
	defer cancelAlerts()
	go evaluator.Run(ctx, alertCh)

	var rec *recorder.Recorder
	if cfg.Recorder.Enabled {
		rec, err = recorder.New(recorder.Options{
			Path:          cfg.Recorder.Path,
			Format:        cfg.Recorder.Format,
			FlushInterval: cfg.FlushInterval(),
			Logger:        log,
		})
		if err != nil {
			return fmt.Errorf("failed to start recorder: %w", err)
		}
		recCh, cancelRec := sampler.Subscribe(16)
		defer cancelRec()
		rec.Start(ctx, recCh)
	}

	if err := sampler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start sampler: %w", err)
	}

	if cfg.Server.PIDFile != "" {
		if err := writePIDFile(cfg.Server.PIDFile); err != nil {
			log.Warn("failed to write PID file", "error", err)
		} else {
			defer os.Remove(cfg.Server.PIDFile)
		}
	}

	srv := server.New(cfg, server.Deps{
		Sampler: sampler,
		Scanner: newScanner(cfg, log),
		Alerts:  evaluator,
	}, log, Version)

	sighupCh := make(chan os.Signal, 1)
	sigCh := make(chan os.Signal, 1)
	shutdownDone := make(chan struct{})

	signal.Notify(sighupCh, syscall.SIGHUP)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		for {
			select {
			case <-sighupCh:
				log.Info("SIGHUP received, reloading configuration")
				if cfgFile == "" {
					log.Warn("no config file given, nothing to reload")
					continue
				}

				newCfg, err := config.Load(cfgFile)
				if err != nil {
					log.Error("invalid configuration, reload aborted", "error", err)
					continue
				}

				if err := sampler.SetInterval(newCfg.MonitoringInterval()); err != nil {
					log.Error("interval not applied", "error", err)
				}
				evaluator.UpdateConfig(newCfg.Alerts)
				srv.ReloadConfig(newCfg)
			case <-shutdownDone:
				return
			}
		}
	}()

	go func() {
		<-sigCh

		log.Info("shutdown signal received")

		signal.Stop(sighupCh)
		signal.Stop(sigCh)
		close(shutdownDone)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", "error", err)
		}
	}()

	log.Info("sysbar ready", "addr", srv.Addr())

	serveErr := srv.Start()

	sampler.Stop()
	if rec != nil {
		if err := rec.Stop(); err != nil {
			log.Error("recorder shutdown error", "error", err)
		}
	}
	cancel()

	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", serveErr)
	}

	log.Info("sysbar stopped")
	return nil
}

func writePIDFile(path string) error {
	return os.WriteFile(path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0644)
}
