package render

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/wikitext-cli/pkg/wikitext"
)

type tokensOptions struct {
	ioOptions
	preprocess bool
}

// NewCmdTokens creates the tokens command.
func NewCmdTokens() *cobra.Command {
	opts := &tokensOptions{}

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the lexer token stream",
		Long:  `Print the tokens the lexer produces for a document, with their byte spans.`,
		Example: `  # Show tokens
  echo '[[span class="a"]]x[[/span]]' | wtr tokens

  # As JSON
  wtr tokens page.wt -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(cmd); err != nil {
				return err
			}
			return runTokens(opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.preprocess, "preprocess", false, "normalize the input before lexing")

	return cmd
}

func runTokens(opts *tokensOptions, args []string) error {
	r, err := opts.renderer()
	if err != nil {
		return err
	}

	sources, err := readSources(args, opts.stdin)
	if err != nil {
		return err
	}

	text := sources[0].text
	if opts.preprocess || opts.config().Preprocess {
		text = wikitext.Preprocess(text)
	}

	return r.RenderTokens(wikitext.Tokenize(text, nil))
}
