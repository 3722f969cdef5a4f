package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haskel/sysbar/internal/monitor"
)

var historyCmd = &cobra.Command{
	Use:       "history <metric>",
	Short:     "Show retained history for one metric",
	Long:      `Query the running server for a metric's history: cpu, ram, net_up or net_down.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: metricNames(),
	RunE:      runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func metricNames() []string {
	names := make([]string, len(monitor.Metrics))
	for i, m := range monitor.Metrics {
		names[i] = string(m)
	}
	return names
}

func runHistory(cmd *cobra.Command, args []string) error {
	metric := strings.ToLower(args[0])

	hist, raw, err := NewClient().History(metric)
	if err != nil {
		return fmt.Errorf("failed to get %s history (metrics: %s): %w", metric, strings.Join(metricNames(), ", "), err)
	}

	if jsonOut {
		fmt.Fprint(cmd.OutOrStdout(), string(raw))
		return nil
	}

	renderHistory(cmd.OutOrStdout(), hist)
	return nil
}
