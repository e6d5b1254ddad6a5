package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/archscope/internal/server"
	"github.com/matzehuels/archscope/pkg/cache"
	"github.com/matzehuels/archscope/pkg/errors"
)

// serveCommand creates the serve command for the read-only HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve <arch.toml>",
		Short: "Serve an architecture over a read-only JSON API",
		Long: `Load an architecture file and serve it over HTTP until interrupted.

Endpoints:
  GET /healthz
  GET /api/v1/graph
  GET /api/v1/components/{id}
  GET /api/v1/smells
  GET /api/v1/layout/{graph|flow}?seed=N&iterations=N

Layouts are cached in memory, or in Redis when cache.redis_url is set.`,
		Example: `  archscope serve shop.toml
  archscope serve shop.toml --addr :9090`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeArchFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Serve.Addr
			}

			store, err := c.loadArchitecture(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var layouts cache.Cache
			if url := c.Config.Cache.RedisURL; url != "" {
				rc, err := cache.NewRedisCache(cmd.Context(), url)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "open layout cache")
				}
				defer rc.Close()
				layouts = rc
				printDetail(c.out, "layout cache: redis")
			}

			router := server.NewRouter(store, c.Config.Layout.ForceOptions(), c.Config.Serve.MaxIterations, layouts, c.Logger)
			printInfo(c.out, "Serving %s on %s", args[0], StyleHighlight.Render("http://"+addr))
			return server.New(addr, router, c.Logger).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config: 127.0.0.1:8080)")

	return cmd
}
