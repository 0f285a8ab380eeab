// Package observe exposes watch-mode counters over Prometheus.
package observe

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"codeberg.org/halvar/luxaudit/internal/logger"
)

const (
	metricPrefix = "luxaudit_"

	shutdownTimeout = 5 * time.Second
)

var (
	registerOnce sync.Once

	analysesTotal  prometheus.Counter
	excessiveTotal prometheus.Counter
	ingestErrors   prometheus.Counter
)

// Init registers the watch-mode counters.
func Init() {
	registerOnce.Do(func() {
		analysesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "analyses_total",
			Help: "Total analysis runs",
		})
		excessiveTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "excessive_verdicts_total",
			Help: "Total runs that flagged excessive night lighting",
		})
		ingestErrors = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "ingest_errors_total",
			Help: "Total failed ingest attempts",
		})

		prometheus.MustRegister(analysesTotal, excessiveTotal, ingestErrors)
	})
}

// ObserveAnalysis counts one completed run and its verdict.
func ObserveAnalysis(excessive bool) {
	if analysesTotal == nil {
		return
	}
	analysesTotal.Inc()
	if excessive {
		excessiveTotal.Inc()
	}
}

// ObserveIngestError counts one failed ingest attempt.
func ObserveIngestError() {
	if ingestErrors == nil {
		return
	}
	ingestErrors.Inc()
}

// Serve exposes /metrics on addr until the context is cancelled.
func Serve(ctx context.Context, addr string, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Metrics listener shutdown failed")
		}
	}()

	log.Info().Str("addr", addr).Msg("Metrics listener started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("Metrics listener failed")
	}
}
