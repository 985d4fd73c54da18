package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes Prometheus collectors that report watcher activity.
// All methods are nil-safe so components can run without metrics.
type Metrics struct {
	scans        *prometheus.CounterVec
	coinsSeen    prometheus.Counter
	results      *prometheus.CounterVec
	batchFailure prometheus.Counter
	state        *prometheus.GaugeVec
	scanDuration prometheus.Histogram
}

// New registers the collectors with reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		scans: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "autocomment",
			Subsystem: "board",
			Name:      "scans_total",
			Help:      "Board scans by status (ok, failed).",
		}, []string{"status"}),
		coinsSeen: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "autocomment",
			Subsystem: "board",
			Name:      "new_coins_total",
			Help:      "Coins observed for the first time and dispatched to the reply workflow.",
		}),
		results: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "autocomment",
			Subsystem: "reply",
			Name:      "results_total",
			Help:      "Reply workflow results by outcome and failing stage.",
		}, []string{"outcome", "stage"}),
		batchFailure: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "autocomment",
			Subsystem: "loop",
			Name:      "batch_failures_total",
			Help:      "Scan-and-dispatch cycles that failed and triggered the long backoff.",
		}),
		state: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "autocomment",
			Subsystem: "loop",
			Name:      "state",
			Help:      "1 for the state the polling loop is currently in.",
		}, []string{"state"}),
		scanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "autocomment",
			Subsystem: "board",
			Name:      "scan_duration_seconds",
			Help:      "Time spent loading and reading the board.",
			Buckets:   []float64{1, 2, 5, 10, 15, 20, 30, 60},
		}),
	}
}

func (m *Metrics) ObserveScan(ok bool, took time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.scans.WithLabelValues(status).Inc()
	m.scanDuration.Observe(took.Seconds())
}

func (m *Metrics) IncNewCoin() {
	if m == nil {
		return
	}
	m.coinsSeen.Inc()
}

// ObserveResult records a workflow outcome; stage is empty for successful posts.
func (m *Metrics) ObserveResult(outcome, stage string) {
	if m == nil {
		return
	}
	m.results.WithLabelValues(outcome, stage).Inc()
}

func (m *Metrics) IncBatchFailure() {
	if m == nil {
		return
	}
	m.batchFailure.Inc()
}

// SetState отмечает текущее состояние цикла, остальные известные состояния обнуляет.
func (m *Metrics) SetState(current string, all ...string) {
	if m == nil {
		return
	}
	for _, s := range all {
		m.state.WithLabelValues(s).Set(0)
	}
	m.state.WithLabelValues(current).Set(1)
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("metrics listener started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
