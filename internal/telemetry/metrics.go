// Package telemetry exposes engine counters as Prometheus metrics.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the engine collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	Frames     prometheus.Counter
	FrameDelta prometheus.Histogram
	Paused     prometheus.Gauge
	Picks      *prometheus.CounterVec
	Selections *prometheus.CounterVec
}

// New registers the collectors against reg, defaulting to the global registry.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	m := &Metrics{
		gatherer: gatherer,
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "solarsim_frames_total",
			Help: "Frames rendered by the animation loop.",
		}),
		FrameDelta: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "solarsim_frame_delta_seconds",
			Help:    "Elapsed time between consecutive frames.",
			Buckets: []float64{0.004, 0.008, 0.016, 0.033, 0.05, 0.1, 0.25, 1},
		}),
		Paused: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "solarsim_paused",
			Help: "1 while the simulation is paused.",
		}),
		Picks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solarsim_picks_total",
			Help: "Pointer picks, labelled by kind (click, hover) and result (hit, miss).",
		}, []string{"kind", "result"}),
		Selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solarsim_selections_total",
			Help: "Bodies selected by click.",
		}, []string{"body"}),
	}

	for _, c := range []prometheus.Collector{m.Frames, m.FrameDelta, m.Paused, m.Picks, m.Selections} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				return nil, fmt.Errorf("telemetry: collector already registered: %w", err)
			}
			return nil, fmt.Errorf("telemetry: register: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) ObserveFrame(delta float64, paused bool) {
	if m == nil {
		return
	}
	m.Frames.Inc()
	m.FrameDelta.Observe(delta)
	if paused {
		m.Paused.Set(1)
	} else {
		m.Paused.Set(0)
	}
}

func (m *Metrics) ObservePick(kind string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.Picks.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) ObserveSelection(body string) {
	if m == nil {
		return
	}
	m.Selections.WithLabelValues(body).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
