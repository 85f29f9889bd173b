package cli

import (
	"context"
	"net"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowedit/pkg/api"
	"github.com/matzehuels/flowedit/pkg/cache"
	"github.com/matzehuels/flowedit/pkg/graph"
	"github.com/matzehuels/flowedit/pkg/observability"
)

// serveRenderCacheSize bounds the SVG renders kept in memory by serve.
const serveRenderCacheSize = 32

// serveCommand creates the serve command for the HTTP transport.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		origins []string
		metrics bool
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "serve [diagram.json]",
		Short: "Serve a diagram to a browser renderer over HTTP",
		Long: `Serve a diagram to a browser renderer over HTTP.

Endpoints:
  GET  /health       liveness probe
  GET  /state        nodes, edges and undo/redo/layout flags
  POST /events       apply one interaction event
  GET  /document     the diagram in file form
  GET  /export.dot   Graphviz DOT of the live diagram
  GET  /export.svg   rendered SVG of the live diagram
  GET  /metrics      Prometheus metrics (with --metrics)

With --watch the diagram is reloaded whenever the file changes on disk;
a reload resets the undo history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}
			if !cmd.Flags().Changed("origin") {
				origins = c.cfg.Server.AllowedOrigins
			}
			return c.runServe(cmd.Context(), args[0], addr, origins, metrics, watch)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringSliceVar(&origins, "origin", nil, "allowed CORS origin (repeatable)")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "expose Prometheus metrics at /metrics")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the diagram when the file changes")

	return cmd
}

// runServe serves the diagram until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, input, addr string, origins []string, metrics, watch bool) error {
	g, vp, err := loadDocument(input)
	if err != nil {
		return err
	}

	opts := api.Options{
		Logger:         c.Logger,
		AllowedOrigins: origins,
		Renders:        cache.NewMemoryCache(serveRenderCacheSize),
	}
	var hooks observability.EditorHooks
	if metrics {
		m := observability.NewMetrics(appName)
		hooks = m
		opts.Metrics = m.Handler()
	}

	ctrl := c.newController(g, hooks)
	if vp != nil {
		ctrl.SetViewport(*vp)
	}
	srv := api.New(ctrl, opts)

	if watch {
		go c.watchDocument(ctx, input, srv)
	}

	return srv.ListenAndServe(ctx, addr, func(a net.Addr) {
		printSuccess("Serving %s", input)
		printKeyValue("address", "http://"+a.String())
		if metrics {
			printKeyValue("metrics", "http://"+a.String()+"/metrics")
		}
		if watch {
			printInfo("watching %s for changes", input)
		}
	})
}

// watchDocument reloads srv from path on every change until ctx ends.
// A file that fails to parse is logged and the live diagram is kept.
func (c *CLI) watchDocument(ctx context.Context, path string, srv *api.Server) {
	err := graph.Watch(ctx, path, func(doc graph.Document, err error) {
		if err != nil {
			c.Logger.Warn("reload failed", "path", path, "err", err)
			return
		}
		g, err := doc.ToFlow()
		if err != nil {
			c.Logger.Warn("reload failed", "path", path, "err", err)
			return
		}
		srv.Load(g)
		c.Logger.Info("reloaded", "path", path, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	})
	if err != nil && ctx.Err() == nil {
		c.Logger.Error("watch stopped", "path", path, "err", err)
	}
}
