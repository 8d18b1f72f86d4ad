package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/yolcu/mindmap/pkg/errors"
	"github.com/yolcu/mindmap/pkg/observability"
	"github.com/yolcu/mindmap/pkg/roadmap"
	"github.com/yolcu/mindmap/pkg/roadmap/mongostore"
	"github.com/yolcu/mindmap/pkg/server"
	"github.com/yolcu/mindmap/pkg/session"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		dir      string
		noCache  bool
		useMongo bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mind-map HTTP API",
		Long: `Serve the mind-map HTTP API.

Stateless endpoints lay out and render posted roadmaps. Stateful view
endpoints keep one diagram session per client and accept pointer, wheel and
button input.

Stored roadmaps are served from --roadmaps (a directory of roadmap JSON
files, keyed by their "id" field or load order) or from MongoDB when
mongo.uri is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), dir, useMongo || (dir == "" && c.cfg.Mongo.URI != ""), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr, "+c.cfg.Server.Addr+")")
	cmd.Flags().StringVar(&dir, "roadmaps", "", "directory of roadmap JSON files to serve by id")
	cmd.Flags().BoolVar(&useMongo, "mongo", false, "serve stored roadmaps from MongoDB")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, dir string, useMongo, noCache bool) error {
	if dir != "" && useMongo {
		return errors.New(errors.ErrCodeInvalidInput, "pass either --roadmaps or --mongo, not both")
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	observability.SetInteractionHooks(logHooks{logger: c.Logger})

	cfg := c.cfg
	opts := []server.Option{
		server.WithLogger(c.Logger),
		server.WithViews(session.NewMemoryStore(cfg.Server.MaxViews)),
		server.WithViewDefaults(server.ViewDefaults{
			Layout:           cfg.LayoutOptions(),
			Viewport:         cfg.ViewportOptions(0, 0),
			Mode:             cfg.Mode(),
			InitialSelection: cfg.Navigation.InitialSelection,
			Collapsed:        cfg.Navigation.Collapsed,
			TTL:              cfg.Server.ViewTTL,
		}),
	}

	switch {
	case dir != "":
		src, err := loadRoadmapDir(dir)
		if err != nil {
			return err
		}
		opts = append(opts, server.WithSource(src, "dir:"+dir))
	case useMongo:
		store, err := mongostore.New(ctx, cfg.MongoStore())
		if err != nil {
			return err
		}
		defer store.Close(context.WithoutCancel(ctx))
		opts = append(opts, server.WithSource(store, "mongo"))
		c.Logger.Info("serving stored roadmaps", "source", "mongo", "database", cfg.Mongo.Database)
	}

	srv := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}, runner, opts...)

	printSuccess("Listening on %s", StyleHighlight.Render(cfg.Server.Addr))
	printDetail("Press Ctrl+C to stop")
	return srv.ListenAndServe(ctx)
}

// loadRoadmapDir reads every *.json file in dir into a memory source.
// Roadmaps without an id are numbered by sorted file order, starting at 1.
func loadRoadmapDir(dir string) (*roadmap.MemorySource, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "list %s", dir)
	}
	sort.Strings(paths)

	src := roadmap.NewMemorySource()
	for i, path := range paths {
		r, err := roadmap.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if r.ID == 0 {
			r.ID = int64(i + 1)
		}
		src.Put(r)
	}
	return src, nil
}
