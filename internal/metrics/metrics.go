package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_request_total",
			Help: "Number of requests",
		},
		[]string{"method", "handler", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskboard_request_duration_seconds",
			Help:    "Request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "handler"},
	)

	CardMoves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_card_moves_total",
			Help: "Card moves by outcome",
		},
		[]string{"result"},
	)

	WIPRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_wip_rejections_total",
			Help: "Operations rejected because the target column was at its WIP limit",
		},
		[]string{"operation"},
	)

	SprintActivations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "taskboard_sprint_activations_total",
			Help: "Sprints activated",
		},
	)

	SprintsDeactivated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "taskboard_sprints_deactivated_total",
			Help: "Sprints switched off because another sprint on the board was activated",
		},
	)

	PenaltiesCharged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "taskboard_penalties_charged_total",
			Help: "Wallet penalties charged by the daily check",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RequestTotal,
		RequestDuration,
		CardMoves,
		WIPRejections,
		SprintActivations,
		SprintsDeactivated,
		PenaltiesCharged,
	)
}

func RegisterRequest(start time.Time, method, handler string, status int) {
	RequestTotal.WithLabelValues(method, handler, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method, handler).Observe(time.Since(start).Seconds())
}

// Handler exposes Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
