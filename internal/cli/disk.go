package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haskel/sysbar/internal/logger"
)

var diskCmd = &cobra.Command{
	Use:   "disk",
	Short: "Scan configured directories and show disk usage",
	Long: `Walk the configured directories locally and report their sizes, with
the remainder of used space on the root filesystem as "System & Other".`,
	RunE: runDisk,
}

var diskMinSizeMB int

func init() {
	diskCmd.Flags().IntVar(&diskMinSizeMB, "min-size-mb", -1, "hide directories smaller than this (overrides config)")
	rootCmd.AddCommand(diskCmd)
}

func runDisk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if diskMinSizeMB >= 0 {
		cfg.DiskScan.MinSizeMB = diskMinSizeMB
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	entries, err := newScanner(cfg, log).Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("disk scan interrupted: %w", err)
	}

	if jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	renderDisk(cmd.OutOrStdout(), entries)
	return nil
}
