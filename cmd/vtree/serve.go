package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/vtree/internal/demo"
	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/internal/preview"
	"github.com/vango-dev/vtree/internal/scenario"
	"github.com/vango-dev/vtree/pkg/vdom"
)

func serveCmd(g *globalFlags) *cobra.Command {
	var (
		port  int
		host  string
		root  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve [scenario.yaml]",
		Short: "Start the live preview server",
		Long: `Mount the root component and serve it over HTTP.

Connected browsers receive the new markup over a websocket after every
state change. State is changed with POST /state or POST /actions/{name}.

With a scenario file the steps are replayed after mounting. --watch
replays them again from a fresh mount whenever the file changes.

Examples:
  vtree serve
  vtree serve --port=8080
  vtree serve steps.yaml --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if port > 0 {
				e.cfg.Preview.Port = port
			}
			if host != "" {
				e.cfg.Preview.Host = host
			}
			if err := e.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			var scenarioPath string
			if len(args) == 1 {
				scenarioPath = args[0]
			} else if watch {
				return fmt.Errorf("--watch needs a scenario file")
			}
			return runServe(ctx, e, root, scenarioPath, watch)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from vtree.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from vtree.json)")
	cmd.Flags().StringVarP(&root, "root", "r", "", "Component to mount (default from vtree.json or the scenario)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Replay the scenario when the file changes")

	return cmd
}

func runServe(ctx context.Context, e *env, rootName, scenarioPath string, watch bool) error {
	var sc *scenario.Scenario
	if scenarioPath != "" {
		var err error
		if sc, err = scenario.Load(scenarioPath); err != nil {
			return err
		}
		if rootName == "" {
			rootName = sc.Root
		}
	}
	desc, err := e.root(rootName)
	if err != nil {
		return err
	}

	cfg := preview.Config{
		Root:           desc,
		Props:          scenarioProps(sc),
		Render:         e.renderConfig(),
		Page:           e.page(),
		Dispatch:       demo.Dispatch,
		MetricsPath:    e.cfg.Metrics.Path,
		AllowedOrigins: e.cfg.Preview.AllowedOrigins,
		Logger:         e.logger,
		Tracer:         e.tracer,
		Recorder:       e.recorder,
	}
	if e.registry != nil {
		cfg.Gatherer = e.registry
	}

	srv, err := preview.New(cfg)
	if err != nil {
		return errors.Classify(err, "E142")
	}
	defer srv.Close()

	if sc != nil {
		if err := replay(srv, sc); err != nil {
			return err
		}
	}

	httpServer := &http.Server{
		Addr:              e.cfg.PreviewAddress(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	printBanner()
	fmt.Println("  preview")
	fmt.Println()
	success("Serving %s at %s", desc.Name, e.cfg.PreviewURL())
	if e.registry != nil {
		info("Metrics at %s%s", e.cfg.PreviewURL(), e.cfg.Metrics.Path)
	}
	fmt.Println()

	grp, gctx := errgroup.WithContext(ctx)
	if watch {
		w := preview.NewWatcher(preview.WatcherConfig{Paths: []string{scenarioPath}})
		w.OnChange(func(path string) {
			next, err := scenario.Load(path)
			if err != nil {
				errors.Fprint(os.Stderr, err)
				return
			}
			if err := replay(srv, next); err != nil {
				errors.Fprint(os.Stderr, err)
				return
			}
			success("Replayed %s (%d steps, %d clients)", path, len(next.Steps), srv.Hub().ClientCount())
		})
		grp.Go(func() error { return w.Run(gctx) })
		info("Watching %s", scenarioPath)
	}
	grp.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.New("E142").Wrap(err)
		}
		return nil
	})
	grp.Go(func() error {
		<-gctx.Done()
		fmt.Println("\n  Shutting down...")
		srv.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), e.cfg.ShutdownTimeout())
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return grp.Wait()
}

// replay remounts the root and applies every step of sc through srv.
func replay(srv *preview.Server, sc *scenario.Scenario) error {
	if err := srv.Reset(); err != nil {
		return errors.Classify(err, "E205")
	}
	for i, step := range sc.Steps {
		var err error
		if step.Action != "" {
			err = srv.Dispatch(step.Action, step.Args)
		} else {
			err = srv.SetState(step.State)
		}
		if err != nil {
			e := errors.Classify(err, "E140")
			return e.WithDetail(fmt.Sprintf("Step %q failed. %s", step.Label(i), e.Detail))
		}
	}
	return nil
}

func scenarioProps(sc *scenario.Scenario) vdom.Props {
	if sc == nil {
		return nil
	}
	return sc.AttrProps()
}
