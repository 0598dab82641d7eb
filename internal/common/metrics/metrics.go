// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MenuResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_resolutions_total",
			Help: "Total number of menu resolutions by kind and data source",
		},
		[]string{"kind", "source"},
	)

	MenuFallbacksServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_fallbacks_served_total",
			Help: "Total number of fallback menus served instead of live data",
		},
		[]string{"kind"},
	)

	MenuClientAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_client_attempts_total",
			Help: "Total number of menu API request attempts by outcome",
		},
		[]string{"method", "outcome"},
	)

	MenuClientDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "menu_client_request_duration_seconds",
			Help: "Duration of menu API requests in seconds",
		},
		[]string{"method"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of served HTTP requests in seconds",
		},
		[]string{"route"},
	)
)
