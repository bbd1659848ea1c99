package orrery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects engine telemetry on its own registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	frames            prometheus.Counter
	staleFrames       prometheus.Counter
	frameDelta        prometheus.Histogram
	renderDuration    prometheus.Histogram
	resourcesReleased prometheus.Counter
	lifecycle         *prometheus.CounterVec
	generation        prometheus.Gauge
}

// NewMetrics creates and registers the engine metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orrery_frames_total",
			Help: "Frames rendered",
		}),
		staleFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orrery_stale_frames_total",
			Help: "Frame callbacks declined because the engine was stopping",
		}),
		frameDelta: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orrery_frame_delta_seconds",
			Help:    "Simulated time advanced per frame",
			Buckets: []float64{0.004, 0.008, 0.016, 0.033, 0.066, 0.1, 0.25, 1},
		}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orrery_render_duration_seconds",
			Help:    "Wall time spent in Renderer.Render",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 10),
		}),
		resourcesReleased: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orrery_resources_released_total",
			Help: "GPU resource handles released by teardown",
		}),
		lifecycle: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orrery_lifecycle_events_total",
			Help: "Engine lifecycle transitions",
		}, []string{"event"}),
		generation: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orrery_session_generation",
			Help: "Reload generation of the mounted session",
		}),
	}
	m.registry.MustRegister(
		m.frames,
		m.staleFrames,
		m.frameDelta,
		m.renderDuration,
		m.resourcesReleased,
		m.lifecycle,
		m.generation,
	)
	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordFrame records one rendered frame.
func (m *Metrics) RecordFrame(delta float64, render time.Duration) {
	if m == nil {
		return
	}
	m.frames.Inc()
	m.frameDelta.Observe(delta)
	m.renderDuration.Observe(render.Seconds())
}

// RecordStaleFrame records a declined frame callback.
func (m *Metrics) RecordStaleFrame() {
	if m == nil {
		return
	}
	m.staleFrames.Inc()
}

// RecordReleased adds n released resource handles.
func (m *Metrics) RecordReleased(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.resourcesReleased.Add(float64(n))
}

// RecordLifecycle counts a lifecycle event ("mount", "stop", "teardown").
func (m *Metrics) RecordLifecycle(event string) {
	if m == nil {
		return
	}
	m.lifecycle.WithLabelValues(event).Inc()
}

// SetGeneration publishes the mounted session's reload generation.
func (m *Metrics) SetGeneration(gen uint64) {
	if m == nil {
		return
	}
	m.generation.Set(float64(gen))
}

// Handler returns an HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
