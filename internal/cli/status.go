package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/haskel/sysbar/internal/monitor"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running server's latest snapshot",
	Long: `Query the running sysbar server for its most recently published snapshot.
With --watch, follow the server's snapshot stream until interrupted.`,
	RunE: runStatus,
}

var watch bool

func init() {
	statusCmd.Flags().BoolVarP(&watch, "watch", "w", false, "follow new snapshots as they are published")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if watch {
		err := NewClient().Stream(cmd.Context(), watchPrinter(out, jsonOut))
		if err != nil {
			return fmt.Errorf("failed to follow status: %w", err)
		}
		return nil
	}

	snap, raw, err := NewClient().Status()
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	if jsonOut {
		fmt.Fprint(out, string(raw))
		return nil
	}

	renderStatus(out, snap)
	return nil
}

// watchPrinter renders each streamed snapshot, as one JSON line per
// snapshot or as text blocks separated by a blank line.
func watchPrinter(w io.Writer, asJSON bool) func(*monitor.SystemSnapshot) error {
	enc := json.NewEncoder(w)
	first := true
	return func(snap *monitor.SystemSnapshot) error {
		if asJSON {
			return enc.Encode(snap)
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false
		renderStatus(w, snap)
		return nil
	}
}
