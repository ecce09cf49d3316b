// Package configcmd provides config management commands.
package configcmd

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wikitext-cli/internal/config"
)

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage wtr configuration",
		Long:  `Commands for viewing, testing, and clearing wtr configuration.`,
	}

	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdTest())
	cmd.AddCommand(NewCmdClear())

	return cmd
}

func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.DefaultConfigPath()
	}
	return path
}

// envVars lists the environment variables that override config fields.
var envVars = []string{
	"WTR_MODE", "WTR_MAX_INPUT_BYTES", "WTR_MAX_DEPTH", "WTR_PREPROCESS", "WTR_STRICT_INLINE",
	"WTR_ADDR", "WTR_SERVER_URL", "WTR_CONCURRENCY", "WTR_CACHE_SIZE", "WTR_LOG_LEVEL", "WTR_LOG_FORMAT",
}
