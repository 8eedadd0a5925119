package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/pep299/review-summarizer/internal/apperr"
	"github.com/pep299/review-summarizer/internal/metrics"
)

// Scraper turns a page URL into its review snippets.
type Scraper interface {
	Scrape(ctx context.Context, url string) ([]string, error)
}

// Summarizer condenses reviews into a summary with the given model.
type Summarizer interface {
	Summarize(ctx context.Context, reviews []string, model string) (string, error)
}

// Summary runs the scrape and summarize steps for one URL.
type Summary struct {
	scraper    Scraper
	summarizer Summarizer
	model      string
	log        *slog.Logger
}

func NewSummary(scraper Scraper, summarizer Summarizer, model string, log *slog.Logger) *Summary {
	return &Summary{
		scraper:    scraper,
		summarizer: summarizer,
		model:      model,
		log:        log,
	}
}

// Model returns the model identifier used for every summary.
func (s *Summary) Model() string {
	return s.model
}

// Summarize scrapes the reviews on url and returns their summary. Errors are
// classified as apperr.KindFetch or apperr.KindModel.
func (s *Summary) Summarize(ctx context.Context, url string) (string, error) {
	start := time.Now()
	reviews, err := s.scraper.Scrape(ctx, url)
	metrics.RecordUpstream("scrape", err, time.Since(start).Seconds())
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to scrape reviews",
			"error", err,
			"url", url)

		return "", apperr.Fetch(err)
	}
	metrics.ReviewsScraped.Observe(float64(len(reviews)))

	start = time.Now()
	summary, err := s.summarizer.Summarize(ctx, reviews, s.model)
	metrics.RecordUpstream("summarize", err, time.Since(start).Seconds())
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to summarize reviews",
			"error", err,
			"url", url,
			"model", s.model,
			"reviews", len(reviews))

		return "", apperr.Model(err)
	}

	s.log.InfoContext(ctx, "Reviews summarized",
		"url", url,
		"model", s.model,
		"reviews", len(reviews))

	return summary, nil
}
