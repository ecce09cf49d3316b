// Package root provides the root command for the wtr CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wikitext-cli/internal/cmd/completion"
	"github.com/open-cli-collective/wikitext-cli/internal/cmd/configcmd"
	initcmd "github.com/open-cli-collective/wikitext-cli/internal/cmd/init"
	"github.com/open-cli-collective/wikitext-cli/internal/cmd/render"
	"github.com/open-cli-collective/wikitext-cli/internal/cmd/serve"
	"github.com/open-cli-collective/wikitext-cli/internal/config"
	"github.com/open-cli-collective/wikitext-cli/internal/logging"
	"github.com/open-cli-collective/wikitext-cli/internal/version"
)

// NewCmdRoot creates the root command for wtr.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wtr",
		Short: "A wikitext renderer",
		Long: `wtr renders wikitext markup into HTML, stylesheet fragments and page
metadata, and reports problems in the markup as warnings.

It runs locally or as an HTTP render worker.

Get started by running: wtr init`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           version.Version,
		PersistentPreRunE: setupLogging,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/wtr/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (default: "+config.DefaultLogLevel+")")
	cmd.PersistentFlags().String("log-format", "", "log format: console, json (default: "+config.DefaultLogFormat+")")

	cmd.SetVersionTemplate("wtr version {{.Version}} (commit: " + version.Commit + ", built: " + version.Date + ")\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(render.NewCmdRender())
	cmd.AddCommand(render.NewCmdCheck())
	cmd.AddCommand(render.NewCmdTokens())
	cmd.AddCommand(render.NewCmdTree())
	cmd.AddCommand(serve.NewCmdServe())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}

// setupLogging configures the global logger from flags, then config. Logs
// go to stderr so they never mix with rendered output.
func setupLogging(cmd *cobra.Command, _ []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")

	if level == "" || format == "" {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadWithEnv(pathOrDefault(path))
		if err != nil {
			return err
		}
		if level == "" {
			level = cfg.LogLevel
		}
		if format == "" {
			format = cfg.LogFormat
		}
	}

	return logging.Setup(level, format, cmd.ErrOrStderr())
}

func pathOrDefault(path string) string {
	if path == "" {
		return config.DefaultConfigPath()
	}
	return path
}
