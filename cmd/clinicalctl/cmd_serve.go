package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var stdio bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, with MCP mounted at /mcp",
		Long: `Runs the HTTP API until interrupted. With --stdio the MCP tools are also
served over stdin/stdout, sharing the same service, cache and audit trail.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			a, cm, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if stdio && a.MCP == nil {
				return fmt.Errorf("--stdio requires mcp.enabled")
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return a.API.Start(gctx)
			})
			if stdio {
				g.Go(func() error {
					err := a.MCP.RunStdio(gctx)
					if gctx.Err() != nil {
						return nil
					}
					// stdin closed: the client went away, so stop the HTTP side too.
					if err == nil {
						err = context.Canceled
					}
					return err
				})
			}

			cfg := cm.GetConfig()
			fmt.Fprintf(cmd.ErrOrStderr(), "serving on %s:%d\n", cfg.Server.Host, cfg.Server.Port)
			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&stdio, "stdio", false, "also serve MCP over stdin/stdout")
	return cmd
}
