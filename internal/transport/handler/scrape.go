package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pep299/review-summarizer/internal/apperr"
	"github.com/pep299/review-summarizer/internal/metrics"
	"github.com/pep299/review-summarizer/internal/transport/response"
)

const maxRequestBytes = 1 << 20

// Summarizer produces the review summary of a page.
type Summarizer interface {
	Summarize(ctx context.Context, url string) (string, error)
}

// ScrapeAndSummarize serves POST /scrape-and-summarize/
type ScrapeAndSummarize struct {
	summaries Summarizer
	legacy    bool
	log       *slog.Logger
}

func NewScrapeAndSummarize(summaries Summarizer, legacy bool, log *slog.Logger) *ScrapeAndSummarize {
	return &ScrapeAndSummarize{
		summaries: summaries,
		legacy:    legacy,
		log:       log,
	}
}

type scrapeRequest struct {
	URL any `json:"url"`
}

// pageURL returns the requested URL. Absent and falsy JSON values count as
// missing; other non-string values are rejected.
func (req scrapeRequest) pageURL() (string, error) {
	switch v := req.URL.(type) {
	case nil:
		return "", apperr.Validation(apperr.MsgURLRequired)
	case string:
		if strings.TrimSpace(v) == "" {
			return "", apperr.Validation(apperr.MsgURLRequired)
		}
		return strings.TrimSpace(v), nil
	case bool:
		if !v {
			return "", apperr.Validation(apperr.MsgURLRequired)
		}
	case float64:
		if v == 0 {
			return "", apperr.Validation(apperr.MsgURLRequired)
		}
	case []any:
		if len(v) == 0 {
			return "", apperr.Validation(apperr.MsgURLRequired)
		}
	case map[string]any:
		if len(v) == 0 {
			return "", apperr.Validation(apperr.MsgURLRequired)
		}
	}
	return "", apperr.Validation(apperr.MsgURLNotString)
}

func (h *ScrapeAndSummarize) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req scrapeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		h.fail(w, r, apperr.Validation(apperr.MsgInvalidBody))
		return
	}

	pageURL, err := req.pageURL()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	summary, err := h.summaries.Summarize(ctx, pageURL)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := response.WriteSummary(w, summary); err != nil {
		h.log.ErrorContext(ctx, "Failed to write response",
			"error", err)
	}
}

func (h *ScrapeAndSummarize) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	metrics.RecordError(kind.String())

	status := response.WriteError(w, err, h.legacy)

	h.log.WarnContext(r.Context(), "Request failed",
		"kind", kind.String(),
		"status", status,
		"error", err)
}
