package render

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wikitext-cli/pkg/wikitext"
)

type treeOptions struct {
	ioOptions
	engine engineOptions
}

// NewCmdTree creates the tree command.
func NewCmdTree() *cobra.Command {
	opts := &treeOptions{}

	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Print the parsed document tree as JSON",
		Long: `Parse a document and print its block tree with the warnings found.
The tree is always printed as JSON.`,
		Example: `  wtr tree page.wt`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(cmd); err != nil {
				return err
			}
			return runTree(opts, args)
		},
	}

	opts.engine.addFlags(cmd)

	return cmd
}

func runTree(opts *treeOptions, args []string) error {
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

	doc, err := wikitext.Parse(sources[0].text, settings)
	if err != nil {
		return err
	}
	return r.RenderJSON(doc)
}
