package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/haskel/sysbar/internal/logger"
	"github.com/haskel/sysbar/internal/monitor"
	"github.com/haskel/sysbar/internal/recorder"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Sample locally for a while and write snapshots to a file",
	Long: `Run the sampler without a server and write every published snapshot to
a JSONL or Parquet file. The file appears once recording ends, either after
--duration or on interrupt.`,
	RunE: runRecord,
}

var (
	recordDuration time.Duration
	recordOutput   string
	recordFormat   string
	recordInterval time.Duration
)

func init() {
	recordCmd.Flags().DurationVarP(&recordDuration, "duration", "d", time.Minute, "how long to record")
	recordCmd.Flags().StringVarP(&recordOutput, "output", "o", "", "output file (default from config)")
	recordCmd.Flags().StringVarP(&recordFormat, "format", "f", "", "jsonl or parquet (default from extension or config)")
	recordCmd.Flags().DurationVar(&recordInterval, "interval", 0, "polling interval (default from config)")
	rootCmd.AddCommand(recordCmd)
}

// recordFormatFor picks the output format: explicit flag, then file
// extension, then config.
func recordFormatFor(flag, path, configured string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return recorder.FormatParquet
	case ".jsonl", ".ndjson":
		return recorder.FormatJSONL
	}
	return configured
}

func runRecord(cmd *cobra.Command, args []string) error {
	if recordDuration <= 0 {
		return fmt.Errorf("duration must be positive, got %s", recordDuration)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if recordInterval > 0 {
		cfg.Monitoring.IntervalMS = int(recordInterval.Milliseconds())
	}
	path := recordOutput
	if path == "" {
		path = cfg.Recorder.Path
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	rec, err := recorder.New(recorder.Options{
		Path:          path,
		Format:        recordFormatFor(recordFormat, path, cfg.Recorder.Format),
		FlushInterval: cfg.FlushInterval(),
		Logger:        log,
	})
	if err != nil {
		return err
	}

	reader := monitor.NewHostReader(cfg.Monitoring.DiskPath, log)
	defer reader.Close()

	sampler := newSampler(cfg, reader, log)
	count, err := recordFor(cmd.Context(), sampler, rec, recordDuration)
	if err != nil {
		return err
	}

	if jsonOut {
		fmt.Fprintf(cmd.OutOrStdout(), `{"path":%q,"records":%d}`+"\n", rec.Path(), count)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d snapshots to %s\n", count, rec.Path())
	}
	return nil
}

// recordFor runs sampler into rec until d elapses or ctx is done, then
// finalizes the file. The recorder outlives the deadline so snapshots
// published before the sampler stops are still written.
func recordFor(ctx context.Context, sampler *monitor.Sampler, rec *recorder.Recorder, d time.Duration) (int64, error) {
	ch, unsubscribe := sampler.Subscribe(16)
	defer unsubscribe()
	rec.Start(context.WithoutCancel(ctx), ch)

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	if err := sampler.Start(ctx); err != nil {
		rec.Stop()
		return 0, err
	}

	<-ctx.Done()
	sampler.Stop()

	if err := rec.Stop(); err != nil {
		return rec.Count(), fmt.Errorf("failed to finish recording: %w", err)
	}
	return rec.Count(), nil
}
