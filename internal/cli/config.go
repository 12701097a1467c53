package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/existflow/folio/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Show or change settings stored in ~/.folio/config.yaml.

Examples:
  folio config                                   # Show current settings
  folio config set-server https://api.example.com/api
  folio config set token_store sqlite
  folio config set confirm_delete false`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configSetServerCmd = &cobra.Command{
	Use:   "set-server [url]",
	Short: "Set the backend API base URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetServer,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetServerCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	path, err := config.Path()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", path, data)
	return nil
}

func runConfigSetServer(cmd *cobra.Command, args []string) error {
	return setConfigValue(cmd, "api_url", args[0])
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	return setConfigValue(cmd, args[0], args[1])
}

// setConfigValue updates one key and saves the config when it validates
func setConfigValue(cmd *cobra.Command, key, value string) error {
	cfg := appConfig
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	updated := *cfg

	switch key {
	case "api_url":
		updated.APIURL = value
	case "token_store":
		updated.TokenStore = value
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", value, err)
		}
		updated.Timeout = d
	case "confirm_delete":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid confirm_delete %q: %w", value, err)
		}
		updated.ConfirmDelete = b
	case "refresh_interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid refresh_interval %q: %w", value, err)
		}
		updated.RefreshInterval = d
	case "log_level":
		updated.LogLevel = value
	case "log_file":
		updated.LogFile = value
	case "log_console":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid log_console %q: %w", value, err)
		}
		updated.LogConsole = b
	default:
		return fmt.Errorf("unknown setting %q", key)
	}

	if err := updated.Validate(); err != nil {
		return err
	}
	if err := updated.Save(); err != nil {
		return err
	}

	*cfg = updated
	appConfig = cfg
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s = %s\n", key, value)
	return nil
}
