package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pep299/review-summarizer/internal/config"
	"github.com/pep299/review-summarizer/internal/gemini"
	"github.com/pep299/review-summarizer/internal/scraper"
	"github.com/pep299/review-summarizer/internal/service"
	"github.com/pep299/review-summarizer/internal/transport/handler"
	"github.com/pep299/review-summarizer/internal/transport/server"
)

// Application represents the application with all business logic components
type Application struct {
	Config  *config.Config
	Model   string
	Summary *service.Summary
	Handler http.Handler
}

// New creates a new application instance with all dependencies. It queries
// the Gemini model list once; the selected model is fixed for the lifetime
// of the application.
func New(ctx context.Context, cfg *config.Config, version string, log *slog.Logger) (*Application, error) {
	geminiClient := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiTimeout, log)

	model, err := geminiClient.SelectModel(ctx, cfg.GeminiGenerationMethod, cfg.GeminiModel)
	if err != nil {
		return nil, fmt.Errorf("selecting model: %w", err)
	}

	scraperClient := scraper.NewClient(cfg.Scrape, log)

	// Create services (business logic)
	summary := service.NewSummary(scraperClient, geminiClient, model, log)

	// Create handlers (HTTP layer)
	router := server.NewRouter(server.Routes{
		Summarize: handler.NewScrapeAndSummarize(summary, cfg.Legacy(), log),
		Health:    handler.NewHealth(model, version),
		StaticDir: cfg.StaticDir,
	}, log)

	return &Application{
		Config:  cfg,
		Model:   model,
		Summary: summary,
		Handler: router,
	}, nil
}
