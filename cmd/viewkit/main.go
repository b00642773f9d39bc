package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	viewkit "github.com/goliatone/go-viewkit"
	"github.com/goliatone/go-viewkit/pkg/config"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "viewkit",
		Short: "Render views and inspect form constraints.",
		Long: `viewkit renders templates with layouts, elements, cells and the form helper,
and shows the HTML input constraints derived from data-source definitions.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ./viewkit.yaml or ./config/viewkit.yaml)")

	cmd.AddCommand(newRenderCmd(opts))
	cmd.AddCommand(newInspectCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	return cmd
}

// kit loads the configuration and builds a Kit logging to stderr.
func (o *rootOptions) kit(ctx context.Context) (*viewkit.Kit, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	return viewkit.New(ctx, cfg, viewkit.WithLogger(logger))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
