package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	CollectorErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "collector_errors_total",
		Help: "Ошибки поиска по сабреддитам",
	}, []string{"subreddit"})
	CandidatesScored = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "candidates_scored_total",
		Help: "Сколько постов-кандидатов было оценено",
	})
	CandidatesRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "candidates_rejected_total",
		Help: "Отклонённые кандидаты по причинам",
	}, []string{"reason"})
	OpportunitiesAdmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "opportunities_admitted_total",
		Help: "Принятые возможности по меткам намерения",
	}, []string{"intent"})
	RunSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "run_seconds",
		Help:    "Время полного запуска поиска",
		Buckets: prometheus.DefBuckets,
	})
	SinkErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sink_errors_total",
		Help: "Ошибки доставки результатов",
	}, []string{"sink"})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30, 60},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		CollectorErrors,
		CandidatesScored,
		CandidatesRejected,
		OpportunitiesAdmitted,
		RunSeconds,
		SinkErrors,
		NetworkRequestDuration,
		NetworkRequestTotal,
	)
}

// StartServer запускает HTTP сервер с эндпоинтом /metrics.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	shutdownCtx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-ctx.Done():
		case <-shutdownCtx.Done():
		}
		shutdownTimeout, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()
		if err := srv.Shutdown(shutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
		cancel()
	}()
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// IncRejected увеличивает счётчик отклонённых кандидатов.
func IncRejected(reason string) {
	CandidatesRejected.WithLabelValues(reason).Inc()
}

// IncAdmitted увеличивает счётчик принятых возможностей.
func IncAdmitted(intent string) {
	OpportunitiesAdmitted.WithLabelValues(intent).Inc()
}

// IncCollectorError фиксирует ошибку поиска в сабреддите.
func IncCollectorError(subreddit string) {
	CollectorErrors.WithLabelValues(subreddit).Inc()
}

// IncSinkError фиксирует ошибку доставки результата.
func IncSinkError(sink string) {
	SinkErrors.WithLabelValues(sink).Inc()
}
