package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/odvcencio/lattice/pkg/config"
	"github.com/odvcencio/lattice/pkg/logging"
	"github.com/odvcencio/lattice/pkg/state"
	"github.com/odvcencio/lattice/pkg/telemetry"
	"github.com/odvcencio/lattice/pkg/ui/backend"
	"github.com/odvcencio/lattice/pkg/ui/backend/sim"
	"github.com/odvcencio/lattice/pkg/ui/backend/tcell"
	"github.com/odvcencio/lattice/pkg/ui/runtime"
)

// Version information - set via ldflags during build
var (
	version = "0.1.0-dev"
	commit  = "unknown"
)

type options struct {
	configPath  string
	frames      int
	showVersion bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "lattice: %v\n", err)
		os.Exit(exitCodeForError(err))
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("lattice", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "config file (default ~/.lattice/config.yaml then ./.lattice/config.yaml)")
	fs.IntVar(&opts.frames, "frames", 0, "render this many frames on the sim backend, print the screen and exit")
	fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.frames < 0 {
		return opts, fmt.Errorf("-frames must not be negative")
	}
	return opts, nil
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return withExitCode(err, exitUsage)
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "lattice %s (%s)\n", version, commit)
		return nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.frames > 0 {
		cfg.UI.Backend = config.BackendSim
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	logger = logger.WithSession(ulid.Make().String())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := telemetry.NewMetrics(reg)

	tracer, shutdownTracing, err := newTracer(cfg)
	if err != nil {
		return err
	}
	defer shutdownTracing()

	be, err := newBackend(cfg)
	if err != nil {
		return err
	}

	q := state.NewQueue()
	app := newDemo(q)
	defer app.release()

	driver, err := runtime.NewDriver(runtime.DriverConfig{
		Backend:  be,
		Root:     app.root,
		Queue:    q,
		Logger:   logger.WithComponent(logging.ComponentDriver),
		Metrics:  metrics,
		Tracer:   tracer,
		TickRate: cfg.UI.TickRate,

		MaxFrameRate: cfg.UI.MaxFPS,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.frames > 0 {
		return runHeadless(ctx, driver, be.(*sim.Backend), app, opts.frames, stdout)
	}
	logger.Info("starting", "backend", cfg.UI.Backend, "tick_rate", cfg.UI.TickRate.String())
	return runInteractive(ctx, cfg, driver, app, reg)
}

// runHeadless renders frames on the sim screen with a fixed clock and
// prints the final screen.
func runHeadless(ctx context.Context, driver *runtime.Driver, screen *sim.Backend, app *demo, frames int, stdout io.Writer) error {
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < frames; i++ {
		app.update(start.Add(time.Duration(i) * time.Second))
		if stats := driver.Frame(ctx); stats.LayoutErr != nil {
			return stats.LayoutErr
		}
	}
	_, err := fmt.Fprintln(stdout, screen.Capture())
	return err
}

// runInteractive runs the producer, the driver and the optional metrics
// endpoint until the user quits or a signal arrives.
func runInteractive(ctx context.Context, cfg *config.Config, driver *runtime.Driver, app *demo, reg *prometheus.Registry) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if addr := cfg.Telemetry.MetricsAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", telemetry.Handler(reg))
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error { return app.produce(gctx, time.Second) })
	g.Go(func() error {
		defer cancel()
		if err := driver.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	return g.Wait()
}

func newLogger(cfg *config.Config) (*logging.Logger, func(), error) {
	if cfg.Logging.File == "" {
		return logging.Discard(), func() {}, nil
	}
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}
	f, err := logging.OpenFile(cfg.Logging.File)
	if err != nil {
		return nil, nil, err
	}
	return logging.New(f, logging.ComponentDemo, level, logging.Format(cfg.Logging.Format)), func() { _ = f.Close() }, nil
}

func newTracer(cfg *config.Config) (trace.Tracer, func(), error) {
	if !cfg.Telemetry.Tracing {
		return nil, func() {}, nil
	}
	f, err := logging.OpenFile(cfg.Telemetry.TraceFile)
	if err != nil {
		return nil, nil, err
	}
	tp, err := telemetry.NewTracerProvider(f, "lattice")
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
		_ = f.Close()
	}
	return tp.Tracer(), shutdown, nil
}

func newBackend(cfg *config.Config) (backend.Backend, error) {
	if cfg.UI.Backend == config.BackendSim {
		return sim.New(cfg.UI.SimWidth, cfg.UI.SimHeight), nil
	}
	be, err := tcell.New()
	if err != nil {
		return nil, err
	}
	return be, nil
}
