package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/pep299/review-summarizer/internal/config"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

// DefaultSelectors match common review markup.
var DefaultSelectors = []string{
	"[itemprop='reviewBody']",
	"[data-hook='review-body']",
	".review-text",
	".review-body",
	".review-content",
	".comment-text",
}

var (
	ErrInvalidURL = errors.New("invalid URL")
	ErrNoReviews  = errors.New("no reviews found on page")
)

// Client fetches pages and extracts review snippets from them.
type Client struct {
	httpClient *http.Client
	limiter    *HostLimiter
	policy     *bluemonday.Policy
	cfg        config.ScrapeConfig
	userAgent  string
	selectors  []string
	log        *slog.Logger
}

// NewClient creates a new scraper client
func NewClient(cfg config.ScrapeConfig, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	selectors := cfg.Selectors
	if len(selectors) == 0 {
		selectors = DefaultSelectors
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 5 << 20
	}
	if cfg.MaxReviews <= 0 {
		cfg.MaxReviews = 50
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    NewHostLimiter(cfg.HostInterval),
		policy:     bluemonday.StrictPolicy(),
		cfg:        cfg,
		userAgent:  userAgent,
		selectors:  selectors,
		log:        log,
	}
}

// Scrape returns the review snippets found on the page at rawURL, in
// document order.
func (c *Client) Scrape(ctx context.Context, rawURL string) ([]string, error) {
	pageURL, err := parsePageURL(rawURL)
	if err != nil {
		return nil, err
	}

	body, err := c.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	source := "jsonld"
	raw := extractJSONLD(doc)
	if len(raw) == 0 {
		source = "selector"
		raw = extractSelectors(doc, c.selectors)
	}
	if len(raw) == 0 && c.cfg.ReadabilityFallback {
		source = "readability"
		raw = extractReadable(body, pageURL)
	}

	reviews := c.clean(raw)
	if len(reviews) == 0 {
		c.log.InfoContext(ctx, "No reviews extracted",
			"url", pageURL.String())

		return nil, ErrNoReviews
	}

	c.log.DebugContext(ctx, "Reviews extracted",
		"url", pageURL.String(),
		"source", source,
		"count", len(reviews))

	return reviews, nil
}

func (c *Client) fetch(ctx context.Context, pageURL *url.URL) ([]byte, error) {
	if err := c.limiter.Wait(ctx, pageURL.String()); err != nil {
		return nil, fmt.Errorf("waiting for host: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"url", pageURL.String())
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching page: unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	return body, nil
}

func parsePageURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidURL, rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w %q: scheme must be http or https", ErrInvalidURL, rawURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w %q: missing host", ErrInvalidURL, rawURL)
	}
	return u, nil
}
