// Package cloudfunctions exposes the review summarizer as a Cloud Function.
package cloudfunctions

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/pep299/review-summarizer/internal/application"
	"github.com/pep299/review-summarizer/internal/config"
	"github.com/pep299/review-summarizer/internal/transport/response"
)

const version = "v1.0.0"

var (
	appMu sync.Mutex
	app   *application.Application
)

func init() {
	functions.HTTP("ScrapeAndSummarize", ScrapeAndSummarize)
}

// ScrapeAndSummarize serves the same routes as the HTTP server. The
// application is built on the first successful request and reused
// afterwards; a failed build is retried on the next request.
func ScrapeAndSummarize(w http.ResponseWriter, r *http.Request) {
	a, err := loadApplication(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Application unavailable", "error", err)
		response.WriteDetail(w, http.StatusServiceUnavailable, "Service unavailable")
		return
	}

	a.Handler.ServeHTTP(w, r)
}

func loadApplication(ctx context.Context) (*application.Application, error) {
	appMu.Lock()
	defer appMu.Unlock()

	if app != nil {
		return app, nil
	}

	a, err := newApplication(ctx)
	if err != nil {
		return nil, err
	}
	app = a
	return app, nil
}

func newApplication(ctx context.Context) (*application.Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// The working directory of a deployed function is its source tree, so
	// static files are only served from an explicitly configured directory.
	if _, ok := os.LookupEnv("STATIC_DIR"); !ok {
		cfg.StaticDir = ""
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	return application.New(context.WithoutCancel(ctx), cfg, version, log)
}
