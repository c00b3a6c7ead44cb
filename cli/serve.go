package cli

import (
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"okinoko_multichoice/api"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query api over http",
		Long: `Serve exposes config, proposal, vote, hook and filter queries as json. Queries
run against the wall clock block unless a request pins ?height= or ?time=.
With metrics enabled the prometheus registry is served at /metrics.`,
		Example: `  okinoko serve --store pebble --listen 0.0.0.0:8645`,
		Args:    cobra.NoArgs,
		RunE: opts.action(func(s *session, cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := api.NewServer(s.Engine, s.head, s.Log.Named("api"), s.Settings.API.CORSOrigins)
			if s.Settings.Metrics.Enabled {
				srv.Handle("/metrics", promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{}))
			}
			s.Log.Info("serving", zap.String("store", s.Settings.Store.Backend), zap.Bool("metrics", s.Settings.Metrics.Enabled))
			return srv.Run(ctx, s.Settings.API.Listen)
		}),
	}
	cmd.Flags().String("listen", "", "Address to listen on (default 127.0.0.1:8645)")
	return cmd
}
