package cli

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/haskel/sysbar/internal/logger"
	"github.com/haskel/sysbar/internal/monitor"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Collect one snapshot locally and print it",
	Long: `Collect a single snapshot without a running server. A priming read
establishes the counter baseline, then after the warm-up the real snapshot is
taken so CPU and network rates are meaningful.`,
	RunE: runSnapshot,
}

var snapshotWarmup time.Duration

func init() {
	snapshotCmd.Flags().DurationVar(&snapshotWarmup, "warmup", time.Second, "delay between priming read and snapshot")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	reader := monitor.NewHostReader(cfg.Monitoring.DiskPath, log)
	defer reader.Close()

	snap := collectOnce(cmd.Context(), reader, snapshotWarmup)

	if jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	renderStatus(cmd.OutOrStdout(), snap)
	return nil
}

// collectOnce primes a fresh assembler, waits and returns the second
// collection. Interrupting the wait returns the snapshot early.
func collectOnce(ctx context.Context, reader monitor.Reader, warmup time.Duration) *monitor.SystemSnapshot {
	a := monitor.NewAssembler(reader, nil)
	a.Collect()

	timer := time.NewTimer(max(warmup, 0))
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	return a.Collect()
}
