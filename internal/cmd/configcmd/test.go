package configcmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wikitext-cli/api"
	"github.com/open-cli-collective/wikitext-cli/internal/config"
)

// pingTimeout bounds the render worker check.
const pingTimeout = 10 * time.Second

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test connectivity with the configured render worker",
		Long:  `Check that the render worker at server_url is reachable and renders a sample document.`,
		Example: `  # Test the worker
  wtr config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			cfg, err := config.Resolve(configPath(cmd))
			if err != nil {
				return fmt.Errorf("%w (run 'wtr init' to configure)", err)
			}
			return runTest(cmd.Context(), cmd.OutOrStdout(), cfg, noColor, nil)
		},
	}

	return cmd
}

func runTest(ctx context.Context, w io.Writer, cfg *config.Config, noColor bool, client *api.Client) error {
	if noColor {
		color.NoColor = true
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.ServerURL == "" {
		return fmt.Errorf("no server_url configured (run 'wtr init' to configure)")
	}
	if client == nil {
		client = api.NewClient(cfg.ServerURL).WithRequestID(uuid.NewString())
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	fmt.Fprintf(w, "Testing render worker at %s...\n", cfg.ServerURL)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		_, _ = red.Fprintln(w, "✗ Connection failed:", err)
		fmt.Fprintln(w, "\nCheck your URL with: wtr config show")
		fmt.Fprintln(w, "Start a worker with: wtr serve")
		return fmt.Errorf("connection failed: %w", err)
	}
	_, _ = green.Fprintln(w, "✓ Render worker reachable")

	resp, err := client.Render(ctx, &api.RenderRequest{
		Input: "**ok**",
		Page:  api.PingPage(),
	})
	if err != nil {
		_, _ = red.Fprintln(w, "✗ Sample render failed:", err)
		return fmt.Errorf("sample render failed: %w", err)
	}
	_, _ = green.Fprintln(w, "✓ Sample render succeeded")
	fmt.Fprintf(w, "\nBody: %s\n", resp.Body)

	return nil
}
