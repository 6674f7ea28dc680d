package main

import (
	"context"
	"strconv"
	"time"

	"github.com/odvcencio/lattice/pkg/state"
	"github.com/odvcencio/lattice/pkg/ui/layout"
	"github.com/odvcencio/lattice/pkg/ui/runtime"
	"github.com/odvcencio/lattice/pkg/ui/theme"
	"github.com/odvcencio/lattice/pkg/ui/widgets"
)

// demo is a small dashboard whose values are pushed through the event
// queue by a producer goroutine.
type demo struct {
	clock state.Pointer[string]
	ticks state.Pointer[string]
	load  state.Pointer[float64]
	root  runtime.Component
	count int
}

func newDemo(q *state.Queue) *demo {
	d := &demo{
		clock: state.New(q, "--:--:--"),
		ticks: state.New(q, "0"),
		load:  state.New(q, 0.0),
	}

	th := theme.DefaultTheme()

	row := func(cs ...runtime.Component) runtime.Component {
		return layout.NewLine(state.Value(cs))
	}
	d.root = layout.NewColumn(state.Value([]runtime.Component{
		row(widgets.NewLabel("lattice ").WithStyle(th.Title), widgets.NewText(d.clock.Clone().State()).WithStyle(th.Accent)),
		widgets.NewFixed(20, 1, theme.Symbols.BorderHorizontal, th.Border),
		row(widgets.NewLabel("ticks ").WithStyle(th.TextMuted), widgets.NewText(d.ticks.Clone().State())),
		row(widgets.NewLabel("load  ").WithStyle(th.TextMuted), widgets.NewGauge(d.load.Clone().State(), 14)),
		widgets.NewSpacer(),
		widgets.NewLabel("q to quit").WithStyle(th.TextMuted),
	}))
	return d
}

// update publishes the values for one tick at now.
func (d *demo) update(now time.Time) {
	d.count++
	d.clock.Set(now.Format("15:04:05"))
	d.ticks.Set(strconv.Itoa(d.count))
	d.load.Set(float64(d.count%11) / 10)
}

// produce updates the demo every interval until ctx ends.
func (d *demo) produce(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	d.update(time.Now())
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			d.update(now)
		}
	}
}

// release drops the demo's own handles. The widgets hold clones.
func (d *demo) release() {
	d.clock.Release()
	d.ticks.Release()
	d.load.Release()
}
