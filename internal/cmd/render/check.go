package render

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wikitext-cli/internal/view"
	"github.com/open-cli-collective/wikitext-cli/pkg/wikitext"
)

type checkOptions struct {
	ioOptions
	engine        engineOptions
	failOnWarning bool
}

// NewCmdCheck creates the check command.
func NewCmdCheck() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Report problems in wikitext",
		Long: `Parse wikitext documents and list the warnings they produce.

The command fails when any warning has kind "error", or any warning at
all with --fail-on-warning. Rule severities come from the severity map
in the config file.`,
		Example: `  # Check files
  wtr check docs/*.wt

  # Fail on any warning
  wtr check page.wt --strict-inline --fail-on-warning`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(cmd); err != nil {
				return err
			}
			return runCheck(opts, args)
		},
	}

	opts.engine.addFlags(cmd)
	cmd.Flags().BoolVar(&opts.failOnWarning, "fail-on-warning", false, "fail on warnings as well as errors")

	return cmd
}

func runCheck(opts *checkOptions, args []string) error {
	r, err := opts.renderer()
	if err != nil {
		return err
	}

	sources, err := readSources(args, opts.stdin)
	if err != nil {
		return err
	}

	settings, err := opts.engine.settings(opts.config())
	if err != nil {
		return err
	}

	var (
		rows     [][]string
		total    int
		failures int
	)
	for _, src := range sources {
		doc, err := wikitext.Parse(src.text, settings)
		if err != nil {
			return fmt.Errorf("%s: %w", src.name, err)
		}
		for _, w := range doc.Warnings {
			rows = append(rows, []string{src.name, w.Rule, w.Kind, w.Span.String(), view.Truncate(w.Token, 40)})
			total++
			if w.Kind == wikitext.KindError || opts.failOnWarning {
				failures++
			}
		}
	}

	if total == 0 && r.Format() == view.FormatTable {
		r.Success(fmt.Sprintf("No problems in %d document(s)", len(sources)))
		return nil
	}

	r.RenderTable([]string{"FILE", "RULE", "KIND", "SPAN", "TOKEN"}, rows)

	if failures > 0 {
		return fmt.Errorf("%d problem(s) found", failures)
	}
	return nil
}
