package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pep299/review-summarizer/internal/transport/middleware"
)

// SummarizePath is the route of the summarize endpoint
const SummarizePath = "/scrape-and-summarize/"

// Routes holds the handlers mounted by NewRouter
type Routes struct {
	Summarize http.Handler
	Health    http.Handler
	StaticDir string
}

// NewRouter configures HTTP routes
func NewRouter(routes Routes, log *slog.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Recover(log))
	r.Use(middleware.Logging(log))

	summarize := middleware.CORS(middleware.AllowMethods(http.MethodPost)(routes.Summarize))
	r.Handle(SummarizePath, summarize)
	r.Handle("/scrape-and-summarize", summarize)

	r.Handle("/healthz", routes.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Everything else is the front-end
	if routes.StaticDir != "" {
		r.PathPrefix("/").Handler(Static(routes.StaticDir)).Methods(http.MethodGet, http.MethodHead)
	}

	return r
}
