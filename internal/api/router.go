// internal/api/router.go
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"cardapio-service/internal/common/metrics"
)

// NewRouter builds the full route table with CORS and request metrics.
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()
	r.Use(metricsMiddleware)

	r.HandleFunc("/menu", h.GetMenu).Methods(http.MethodGet)
	r.HandleFunc("/menu/daily", h.GetDailyMenu).Methods(http.MethodGet)
	r.HandleFunc("/menu/weekly", h.GetWeeklyMenu).Methods(http.MethodGet)
	r.HandleFunc("/menu/resolved/weekly", h.GetResolvedWeeklyMenu).Methods(http.MethodGet)
	r.HandleFunc("/menu/search", h.SearchMenu).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	admin := r.PathPrefix("/admin/menu").Subrouter()
	admin.HandleFunc("", h.CreateItem).Methods(http.MethodPost)
	admin.HandleFunc("/{id}", h.GetItem).Methods(http.MethodGet)
	admin.HandleFunc("/{id}", h.UpdateItem).Methods(http.MethodPut)
	admin.HandleFunc("/{id}", h.DeleteItem).Methods(http.MethodDelete)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Accept"},
	})
	return c.Handler(r)
}

// metricsMiddleware records request durations per route template.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if template, err := current.GetPathTemplate(); err == nil {
				route = template
			}
		}
		metrics.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
