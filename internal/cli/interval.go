package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var intervalCmd = &cobra.Command{
	Use:   "interval [duration]",
	Short: "Show or change the server's polling interval",
	Long: `Without an argument, print the running server's polling interval. With
a duration such as 500ms or 5s, change it; the new value applies from the
next sleep.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInterval,
}

func init() {
	rootCmd.AddCommand(intervalCmd)
}

func runInterval(cmd *cobra.Command, args []string) error {
	client := NewClient()

	var d time.Duration
	var err error
	if len(args) == 0 {
		d, err = client.Interval()
	} else {
		var want time.Duration
		want, err = time.ParseDuration(args[0])
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", args[0], err)
		}
		d, err = client.SetInterval(want)
	}
	if err != nil {
		return err
	}

	if jsonOut {
		fmt.Fprintf(cmd.OutOrStdout(), `{"interval_ms":%d}`+"\n", d.Milliseconds())
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), d)
	}
	return nil
}
