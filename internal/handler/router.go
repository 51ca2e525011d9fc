package handler

import (
	"net/http"

	"github.com/segyhp/portfolio-reporting/pkg/response"

	"github.com/gorilla/mux"
)

// NewRouter mounts every endpoint. Middlewares wrap the router itself so
// unmatched routes are logged and carry CORS headers too.
func NewRouter(reports *ReportHandler, health *HealthHandler) http.Handler {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", health.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", health.Ready).Methods(http.MethodGet)

	// API routes; browsers may preflight these.
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/reports", reports.GetReports).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/reports/digest", reports.GetDigest).Methods(http.MethodGet, http.MethodOptions)
	api.Use(mux.CORSMethodMiddleware(api), response.PreflightMiddleware)

	router.NotFoundHandler = http.HandlerFunc(NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(NotFound)

	return response.LoggingMiddleware(response.CORSMiddleware(router))
}
