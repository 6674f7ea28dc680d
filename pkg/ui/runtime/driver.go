package runtime

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	lerrors "github.com/odvcencio/lattice/pkg/errors"
	"github.com/odvcencio/lattice/pkg/logging"
	"github.com/odvcencio/lattice/pkg/state"
	"github.com/odvcencio/lattice/pkg/telemetry"
	"github.com/odvcencio/lattice/pkg/ui/backend"
)

// DefaultTickRate is used when DriverConfig.TickRate is zero.
const DefaultTickRate = 50 * time.Millisecond

// DriverConfig configures a frame Driver.
type DriverConfig struct {
	Backend backend.Backend
	Root    Component
	Queue   *state.Queue

	// Controller defaults to a new empty store.
	Controller *state.Controller
	Logger     *logging.Logger
	Metrics    *telemetry.Metrics
	Tracer     trace.Tracer
	TickRate   time.Duration

	// MaxFrameRate caps frames triggered by queued events, in frames per
	// second. Zero is unlimited. Ticks are not limited.
	MaxFrameRate int
}

// FrameStats describes one rendered frame.
type FrameStats struct {
	Frame     uint64
	Events    int
	DirtyKeys int
	Cells     int
	Full      bool
	LayoutErr error
}

// Driver runs a component tree against a terminal backend: each frame
// applies queued state events, lays out and draws the root into a Buffer,
// and presents only the cells that changed.
type Driver struct {
	backend    backend.Backend
	root       Component
	queue      *state.Queue
	controller *state.Controller
	watcher    *state.Watcher
	logger     *logging.Logger
	metrics    *telemetry.Metrics
	tracer     trace.Tracer
	tickRate   time.Duration
	limiter    *rate.Limiter

	mu    sync.Mutex
	buf   *Buffer
	frame uint64
}

// NewDriver creates a Driver from config.
func NewDriver(cfg DriverConfig) (*Driver, error) {
	switch {
	case cfg.Backend == nil:
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "backend is required")
	case cfg.Root == nil:
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "root component is required")
	case cfg.Queue == nil:
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "event queue is required")
	}

	d := &Driver{
		backend:    cfg.Backend,
		root:       cfg.Root,
		queue:      cfg.Queue,
		controller: cfg.Controller,
		watcher:    state.NewWatcher(),
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		tracer:     cfg.Tracer,
		tickRate:   cfg.TickRate,
	}
	if d.controller == nil {
		d.controller = state.NewController()
	}
	if d.logger == nil {
		d.logger = logging.Discard()
	}
	if d.tracer == nil {
		d.tracer = telemetry.Tracer()
	}
	if d.tickRate <= 0 {
		d.tickRate = DefaultTickRate
	}
	limit := rate.Inf
	if cfg.MaxFrameRate > 0 {
		limit = rate.Limit(cfg.MaxFrameRate)
	}
	d.limiter = rate.NewLimiter(limit, 1)
	return d, nil
}

// Controller returns the store the driver applies events to.
func (d *Driver) Controller() *state.Controller {
	return d.controller
}

// Buffer returns the frame buffer, or nil before the first frame.
func (d *Driver) Buffer() *Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf
}

// Frames returns the number of frames rendered.
func (d *Driver) Frames() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

// Run initializes the backend and renders until ctx ends or the backend
// signals quit. A frame is rendered at start, whenever events are queued
// and on every tick; ticks also pick up terminal resizes.
func (d *Driver) Run(ctx context.Context) error {
	if err := d.backend.Init(); err != nil {
		return lerrors.Wrap(err, lerrors.ErrCodeBackend, "init backend")
	}
	defer d.backend.Fini()

	var quit <-chan struct{}
	if q, ok := d.backend.(backend.Quitter); ok {
		quit = q.Quit()
	}

	ticker := time.NewTicker(d.tickRate)
	defer ticker.Stop()

	d.Frame(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-quit:
			return nil
		case <-d.queue.Notify():
			if err := d.limiter.Wait(ctx); err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			d.Frame(ctx)
		case <-ticker.C:
			d.Frame(ctx)
		}
	}
}

// Frame renders one frame. The backend must already be initialized.
//
// A layout error is logged, counted and recorded on the trace; the frame
// still draws with the regions of the last successful layout.
func (d *Driver) Frame(ctx context.Context) FrameStats {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	d.frame++
	stats := FrameStats{Frame: d.frame}
	log := d.logger.WithFrame(d.frame)

	ctx, span := d.tracer.Start(ctx, telemetry.SpanFrame,
		trace.WithAttributes(telemetry.AttrFrame.Int64(int64(d.frame))))
	defer span.End()

	stats.Events = d.queue.FlushFunc(d.controller, d.watcher, func(e state.Event) {
		d.metrics.EventApplied(e.Kind().String())
	})
	stats.DirtyKeys = d.watcher.Len()

	w, h := d.backend.Size()
	if d.buf == nil {
		d.buf = NewBuffer(w, h)
		stats.Full = true
	} else if bw, bh := d.buf.Size(); bw != w || bh != h {
		d.buf.Resize(w, h)
		stats.Full = true
	}
	sctx := state.NewContext(d.controller, d.watcher, w, h)

	stats.LayoutErr = d.layout(ctx, sctx, log)
	stats.Cells = d.draw(ctx, sctx, stats.Full)

	d.watcher.RemoveAll()

	span.SetAttributes(
		telemetry.AttrEvents.Int(stats.Events),
		telemetry.AttrCells.Int(stats.Cells),
		telemetry.AttrFullRedraw.Bool(stats.Full),
	)
	d.metrics.ObserveFrame(time.Since(start), d.controller.Len(), stats.DirtyKeys, stats.Cells)
	log.FrameRendered(stats.Events, stats.DirtyKeys, stats.Cells, stats.Full)
	return stats
}

func (d *Driver) layout(ctx context.Context, sctx *state.Context, log *logging.Logger) error {
	_, span := d.tracer.Start(ctx, telemetry.SpanLayout)
	defer span.End()

	bounds := d.buf.Bounds()
	if hint := d.root.SizeHint(sctx); hint.Min.Width > bounds.Width() || hint.Min.Height > bounds.Height() {
		log.Debug("root does not fit screen", "min", hint.Min, "screen", bounds.Size())
	}

	err := d.root.Layout(bounds, sctx)
	if err == nil {
		return nil
	}
	code := string(lerrors.GetCode(err))
	log.LayoutFailed(err, code)
	d.metrics.LayoutError(code)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(telemetry.AttrErrorCode.String(code))
	return err
}

func (d *Driver) draw(ctx context.Context, sctx *state.Context, full bool) int {
	_, span := d.tracer.Start(ctx, telemetry.SpanDraw)
	defer span.End()

	d.buf.Clear()
	d.root.Draw(NewView(d.buf), sctx)

	if full {
		d.backend.Clear()
		d.buf.Invalidate()
	}

	cells := 0
	d.buf.ChangedRuns(func(r Run) {
		d.backend.MoveCursor(r.X, r.Y)
		d.backend.Write(r.Text, r.Style)
		cells += r.Cells
	})
	d.backend.Flush()
	d.buf.Commit()
	return cells
}
