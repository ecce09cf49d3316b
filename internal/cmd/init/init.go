// Package init provides the init command for wtr.
package init

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wikitext-cli/api"
	"github.com/open-cli-collective/wikitext-cli/internal/config"
	"github.com/open-cli-collective/wikitext-cli/internal/view"
	"github.com/open-cli-collective/wikitext-cli/pkg/wikitext"
)

// verifyTimeout bounds the render worker check.
const verifyTimeout = 10 * time.Second

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	var (
		serverURL string
		mode      string
		noVerify  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize wtr configuration",
		Long: `Initialize wtr with your rendering defaults.

This command will guide you through choosing the default syntax mode,
output format and render worker. The configuration will be saved to
~/.config/wtr/config.yml.

Leave the render worker URL empty to render locally only.`,
		Example: `  # Interactive setup
  wtr init

  # Pre-populate the worker URL
  wtr init --server http://localhost:8420`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.DefaultConfigPath()
			}
			return runInit(path, serverURL, mode, noVerify)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "render worker URL (e.g., http://localhost:8420)")
	cmd.Flags().StringVar(&mode, "mode", "", "default syntax mode")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip render worker verification")

	return cmd
}

func runInit(configPath, prefillServer, prefillMode string, noVerify bool) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Println("Initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{
		Mode:         string(wikitext.ModePage),
		ServerURL:    prefillServer,
		OutputFormat: string(view.FormatTable),
	}
	if prefillMode != "" {
		cfg.Mode = prefillMode
	}
	maxDepth := ""

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default mode").
				Description("Which syntax documents may use").
				Options(modeOptions()...).
				Value(&cfg.Mode),

			huh.NewSelect[string]().
				Title("Output format").
				Options(huh.NewOptions(view.ValidFormats()...)...).
				Value(&cfg.OutputFormat),

			huh.NewConfirm().
				Title("Normalize input?").
				Description("Convert newlines and tabs and collapse blank lines before rendering").
				Value(&cfg.Preprocess),

			huh.NewInput().
				Title("Max nesting depth (optional)").
				Description("Directive nesting limit; empty keeps the default").
				Placeholder("64").
				Value(&maxDepth).
				Validate(validateDepth),

			huh.NewInput().
				Title("Render worker URL (optional)").
				Description("Used by 'wtr render --remote'").
				Placeholder("http://localhost:8420").
				Value(&cfg.ServerURL),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	if maxDepth != "" {
		cfg.MaxDepth, _ = strconv.Atoi(maxDepth)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Verify the worker unless skipped
	if !noVerify && cfg.ServerURL != "" {
		fmt.Print("Verifying render worker... ")
		if err := verifyConnection(cfg); err != nil {
			fmt.Println("failed!")
			return fmt.Errorf("render worker verification failed: %w", err)
		}
		fmt.Println("success!")
	}

	// Save configuration
	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	fmt.Println("\nYou're all set! Try running:")
	fmt.Println("  echo '**hello**' | wtr render")
	fmt.Println("  wtr check page.wt")

	return nil
}

func modeOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(wikitext.Modes()))
	for _, m := range wikitext.Modes() {
		opts = append(opts, huh.NewOption(string(m), string(m)))
	}
	return opts
}

func validateDepth(s string) error {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("depth must be a non-negative number")
	}
	return nil
}

func verifyConnection(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	return api.NewClient(cfg.ServerURL).Ping(ctx)
}
