package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	viewkit "github.com/goliatone/go-viewkit"
)

type renderOptions struct {
	data     string
	layout   string
	noLayout bool
	locale   string
	output   string
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a template to stdout or a file.",
		Example: `  viewkit render pages/articles/edit --data article.yaml
  viewkit render pages/home --layout plain -o home.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vars, err := loadVars(opts.data)
			if err != nil {
				return err
			}
			kit, err := root.kit(cmd.Context())
			if err != nil {
				return err
			}

			var renderOpts []viewkit.RenderOption
			if cmd.Flags().Changed("layout") {
				renderOpts = append(renderOpts, viewkit.WithLayout(opts.layout))
			}
			if opts.noLayout {
				renderOpts = append(renderOpts, viewkit.WithLayout(""))
			}
			if opts.locale != "" {
				renderOpts = append(renderOpts, viewkit.WithLocale(opts.locale))
			}

			var out io.Writer = cmd.OutOrStdout()
			if opts.output != "" {
				file, err := os.Create(opts.output)
				if err != nil {
					return err
				}
				defer file.Close()
				out = file
			}
			return kit.Render(cmd.Context(), out, args[0], vars, renderOpts...)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.data, "data", "d", "", "YAML or JSON file with template variables")
	flags.StringVar(&opts.layout, "layout", "", "layout to wrap the template in")
	flags.BoolVar(&opts.noLayout, "no-layout", false, "render without a layout")
	flags.StringVar(&opts.locale, "locale", "", "locale for labels and placeholders")
	flags.StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
