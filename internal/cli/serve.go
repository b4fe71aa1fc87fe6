package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/blocksets/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the split and decompose HTTP API",
		Long: `Serve starts an HTTP server exposing POST /v1/split, POST /v1/decompose,
POST /v1/graph and the run archive under /v1/runs. The server shuts down
gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			cfg := c.cfg().Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			return server.New(runner, c.Logger, cfg).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")
	return cmd
}
