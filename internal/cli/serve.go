package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/waterfall/internal/server"
	"github.com/matzehuels/waterfall/pkg/config"
	"github.com/matzehuels/waterfall/pkg/observability"
)

// serveCommand creates the serve command, exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart API over HTTP",
		Long: `Serve the chart API over HTTP.

Routes:
  GET  /healthz
  POST /v1/steps
  POST /v1/layout
  POST /v1/render?format=svg|png|pdf|json

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			defaults, err := cfg.PipelineOptions()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			stats := &observability.Stats{}
			observability.NewLogHooks(c.Logger).Install()
			observability.Install(stats)
			defer observability.Reset()

			srv := server.New(runner,
				server.WithLogger(c.Logger),
				server.WithDefaults(defaults),
				server.WithTimeout(cfg.Server.Timeout),
				server.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
				server.WithStats(stats),
			)
			c.status().info("Serving on %s", StyleHighlight.Render("http://"+addr))
			c.status().nextStep("Try", "curl -X POST -H 'Content-Type: application/json' -d @examples/earnings.json http://"+addr+"/v1/render")
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+config.DefaultAddr+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
