package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/haskel/sysbar/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration loaded from --config, or the defaults, after
validation and flag overrides. Secrets are redacted.`,
	RunE: runConfig,
}

var validateOnly bool

const redacted = "<redacted>"

func init() {
	configCmd.Flags().BoolVar(&validateOnly, "validate", false, "only validate config, don't print")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		if jsonOut {
			fmt.Fprintf(out, `{"valid":false,"error":%q}`+"\n", err.Error())
		} else {
			fmt.Fprintf(out, "Configuration invalid: %v\n", err)
		}
		return err
	}

	if validateOnly {
		if jsonOut {
			fmt.Fprintln(out, `{"valid":true}`)
		} else {
			fmt.Fprintln(out, "Configuration is valid")
		}
		return nil
	}

	return printConfig(out, cfg, jsonOut)
}

// printConfig writes cfg as YAML, or as JSON with the same snake_case keys.
func printConfig(w io.Writer, cfg *config.Config, asJSON bool) error {
	safe := *cfg
	if safe.Auth.Password != "" {
		safe.Auth.Password = redacted
	}

	data, err := yaml.Marshal(&safe)
	if err != nil {
		return err
	}

	if asJSON {
		var tree map[string]any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return err
		}
		if data, err = json.MarshalIndent(tree, "", "  "); err != nil {
			return err
		}
		data = append(data, '\n')
	}

	_, err = w.Write(data)
	return err
}
