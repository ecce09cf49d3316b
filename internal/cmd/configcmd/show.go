package configcmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wikitext-cli/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the current wtr configuration with the source of each value.`,
		Example: `  # Show current config
  wtr config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(cmd.OutOrStdout(), configPath(cmd), noColor)
		},
	}

	return cmd
}

func runShow(w io.Writer, configPath string, noColor bool) error {
	if noColor {
		color.NoColor = true
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, _ := config.LoadWithEnv(configPath)

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue, envVar string) {
		_, _ = bold.Fprintf(w, "%-16s", label+":")
		// zero values read as unset
		if value == "" || value == "0" || value == "false" {
			_, _ = dim.Fprintln(w, "-")
			return
		}

		fmt.Fprint(w, value)

		source := "-"
		if envVar != "" && os.Getenv(envVar) != "" {
			source = envVar
		} else if fileErr == nil && fileValue == value {
			source = "config"
		}

		_, _ = dim.Fprintf(w, "  (source: %s)\n", source)
	}

	itoa := strconv.Itoa
	btoa := strconv.FormatBool

	printField("Mode", cfg.Mode, fileCfg.Mode, "WTR_MODE")
	printField("Max input bytes", itoa(cfg.MaxInputBytes), itoa(fileCfg.MaxInputBytes), "WTR_MAX_INPUT_BYTES")
	printField("Max depth", itoa(cfg.MaxDepth), itoa(fileCfg.MaxDepth), "WTR_MAX_DEPTH")
	printField("Preprocess", btoa(cfg.Preprocess), btoa(fileCfg.Preprocess), "WTR_PREPROCESS")
	printField("Strict inline", btoa(cfg.StrictInline), btoa(fileCfg.StrictInline), "WTR_STRICT_INLINE")
	printField("Severity", formatSeverity(cfg.Severity), formatSeverity(fileCfg.Severity), "")
	printField("Addr", cfg.Addr, fileCfg.Addr, "WTR_ADDR")
	printField("Server URL", cfg.ServerURL, fileCfg.ServerURL, "WTR_SERVER_URL")
	printField("Concurrency", itoa(cfg.Concurrency), itoa(fileCfg.Concurrency), "WTR_CONCURRENCY")
	printField("Cache size", itoa(cfg.CacheSize), itoa(fileCfg.CacheSize), "WTR_CACHE_SIZE")
	printField("Log level", cfg.LogLevel, fileCfg.LogLevel, "WTR_LOG_LEVEL")
	printField("Log format", cfg.LogFormat, fileCfg.LogFormat, "WTR_LOG_FORMAT")
	printField("Output", cfg.OutputFormat, fileCfg.OutputFormat, "")

	fmt.Fprintln(w)
	_, _ = dim.Fprintf(w, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(w, "(file not found)")
	}

	return nil
}

// formatSeverity renders a severity map as sorted rule=kind pairs.
func formatSeverity(m map[string]string) string {
	pairs := make([]string, 0, len(m))
	for rule, kind := range m {
		pairs = append(pairs, rule+"="+kind)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ", ")
}
