package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/internal/demo"
	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/metrics"
	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	dir      string
	logLevel string
	noColor  bool
}

// env is the loaded project: configuration plus the logger, tracer and
// metrics built from it.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	tracer   trace.Tracer
	registry *prometheus.Registry
	recorder vdom.Recorder
}

func loadEnv(g *globalFlags, logOut io.Writer) (*env, error) {
	dir := g.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = wd
	}

	cfg, err := config.LoadOrDefault(dir)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := cfg.NewLogger(logOut)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	e := &env{cfg: cfg, logger: logger}

	e.tracer = noop.NewTracerProvider().Tracer("")
	if cfg.Tracing.Enabled {
		e.tracer = otel.Tracer(cfg.Tracing.TracerName)
	}

	if cfg.Metrics.Enabled {
		e.registry = prometheus.NewRegistry()
		e.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		e.recorder = metrics.New(
			metrics.WithRegistry(e.registry),
			metrics.WithNamespace(cfg.Metrics.Namespace),
			metrics.WithSubsystem(cfg.Metrics.Subsystem),
		)
	}
	return e, nil
}

// root resolves the component to mount. name overrides the configured root.
func (e *env) root(name string) (*vdom.Descriptor, error) {
	if name == "" {
		name = e.cfg.Root
	}
	d, ok := demo.Lookup(name)
	if !ok {
		return nil, errors.New("E143").
			WithDetail("No component named " + name + ".").
			WithSuggestion("Known components: " + strings.Join(demo.Names(), ", "))
	}
	return d, nil
}

func (e *env) reconcilerOptions() []vdom.Option {
	return []vdom.Option{
		vdom.WithLogger(e.logger),
		vdom.WithTracer(e.tracer),
		vdom.WithRecorder(e.recorder),
	}
}

func (e *env) renderConfig() render.Config {
	return render.Config{
		RootTag: e.cfg.Render.RootTag,
		Pretty:  e.cfg.Render.Pretty,
		Indent:  e.cfg.Render.Indent,
	}
}

func (e *env) page() render.PageData {
	return render.PageData{
		Title:       e.cfg.Render.Title,
		Lang:        e.cfg.Render.Lang,
		StyleSheets: e.cfg.Render.StyleSheets,
	}
}
