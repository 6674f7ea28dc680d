package telemetry

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveFrame(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveFrame(2*time.Millisecond, 5, 2, 30)
	m.ObserveFrame(time.Millisecond, 4, 0, 10)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Frames))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.StoreEntries))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.DirtyKeys))
	assert.Equal(t, 40.0, testutil.ToFloat64(m.CellsWritten))
	assert.Equal(t, 1, testutil.CollectAndCount(m.FrameDuration))
}

func TestMetrics_Labels(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.LayoutError("LAYOUT_UNSATISFIABLE")
	m.LayoutError("LAYOUT_UNSATISFIABLE")
	m.EventApplied("insert")
	m.EventApplied("mutate")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LayoutErrors.WithLabelValues("LAYOUT_UNSATISFIABLE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsApplied.WithLabelValues("mutate")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveFrame(time.Second, 1, 1, 1)
	m.LayoutError("X")
	m.EventApplied("insert")
}

func TestMetrics_UnregisteredWithNilRegisterer(t *testing.T) {
	a := NewMetrics(nil)
	b := NewMetrics(nil)
	a.Frames.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Frames))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.Frames.Inc()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "lattice_frames_total 1")
}

func TestTracerProvider_ExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	tp, err := NewTracerProvider(&buf, "lattice-test")
	require.NoError(t, err)

	_, span := tp.Tracer().Start(context.Background(), SpanFrame)
	span.SetAttributes(AttrFrame.Int64(3))
	span.End()

	require.NoError(t, tp.Shutdown(context.Background()))
	out := buf.String()
	assert.True(t, strings.Contains(out, `"Name":"frame"`), out)
	assert.Contains(t, out, "lattice.frame")
}
