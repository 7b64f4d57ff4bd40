package telemetry

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveFrame(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	m.ObserveFrame(0.016, false)
	m.ObserveFrame(0.016, true)

	if got := testutil.ToFloat64(m.Frames); got != 2 {
		t.Errorf("expected 2 frames, got %v", got)
	}
	if got := testutil.ToFloat64(m.Paused); got != 1 {
		t.Errorf("expected paused gauge 1, got %v", got)
	}
}

func TestPicksAndSelections(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	m.ObservePick("click", true)
	m.ObservePick("click", false)
	m.ObservePick("click", false)
	m.ObserveSelection("Mars")

	if got := testutil.ToFloat64(m.Picks.WithLabelValues("click", "miss")); got != 2 {
		t.Errorf("expected 2 misses, got %v", got)
	}
	if got := testutil.ToFloat64(m.Selections.WithLabelValues("Mars")); got != 1 {
		t.Errorf("expected 1 Mars selection, got %v", got)
	}
}

func TestDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := New(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := New(reg); err == nil {
		t.Error("expected error registering twice")
	}
}

func TestNilMetricsIsInert(t *testing.T) {
	var m *Metrics
	m.ObserveFrame(1, true)
	m.ObservePick("hover", true)
	m.ObserveSelection("Earth")
}

func TestHandlerServesRegistry(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	m.ObserveFrame(0.02, false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "solarsim_frames_total 1") {
		t.Errorf("frames counter missing from output:\n%s", rec.Body.String())
	}
}
