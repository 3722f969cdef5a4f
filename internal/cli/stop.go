package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running sysbar server",
	Long:  `Stop the server by sending SIGTERM to the process in the PID file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return signalServer(cmd, syscall.SIGTERM, "stopped")
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the running server's configuration",
	Long:  `Ask the server to re-read its config file by sending SIGHUP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return signalServer(cmd, syscall.SIGHUP, "reload_requested")
	},
}

var pidFile string

func init() {
	for _, c := range []*cobra.Command{stopCmd, reloadCmd} {
		c.Flags().StringVar(&pidFile, "pid-file", "", "PID file path (overrides config)")
		rootCmd.AddCommand(c)
	}
}

func signalServer(cmd *cobra.Command, sig syscall.Signal, status string) error {
	pidPath := pidFile
	if pidPath == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		pidPath = cfg.Server.PIDFile
	}

	pid, err := readPIDFile(pidPath)
	if err != nil {
		return err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("process not found: %d", pid)
	}

	if err := process.Signal(sig); err != nil {
		return fmt.Errorf("failed to send signal: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		fmt.Fprintf(out, `{"status":%q,"pid":%d}`+"\n", status, pid)
	} else {
		fmt.Fprintf(out, "Sent %s to process %d\n", sigName(sig), pid)
	}
	return nil
}

func readPIDFile(path string) (int, error) {
	if path == "" {
		return 0, fmt.Errorf("no PID file specified (use --pid-file or configure server.pid_file)")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("PID file not found: %s (server may not be running)", path)
		}
		return 0, fmt.Errorf("failed to read PID file: %w", err)
	}

	pidStr := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid PID in file: %q", pidStr)
	}
	return pid, nil
}

func sigName(sig syscall.Signal) string {
	switch sig {
	case syscall.SIGTERM:
		return "SIGTERM"
	case syscall.SIGHUP:
		return "SIGHUP"
	}
	return sig.String()
}
