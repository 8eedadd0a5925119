package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pep299/review-summarizer/internal/config"
)

const jsonLDPage = `<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "Product",
  "name": "Kettle",
  "review": [
    {"@type": "Review", "reviewBody": "Great product, boils water fast."},
    {"@type": "Review", "reviewBody": "Could be better &amp; quieter."}
  ]
}
</script>
</head><body><p class="review-text">ignored because JSON-LD wins</p></body></html>`

const markupPage = `<html><body>
<div class="review"><p class="review-text">Solid build,<br>works as described.</p></div>
<div class="review"><p class="review-text">   Arrived   late but   fine.  </p></div>
<div class="review"><p class="review-text">Solid build, works as described.</p></div>
<div class="review"><p class="review-text">ok</p></div>
<div class="review"><span itemprop="reviewBody">Would <b>buy</b> again.</span></div>
</body></html>`

func newTestClient(cfg config.ScrapeConfig) *Client {
	if cfg.MinReviewLength == 0 {
		cfg.MinReviewLength = 5
	}
	return NewClient(cfg, slog.New(slog.DiscardHandler))
}

func servePage(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestScrapeJSONLD(t *testing.T) {
	server := servePage(t, http.StatusOK, jsonLDPage)
	client := newTestClient(config.ScrapeConfig{})

	reviews, err := client.Scrape(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Great product, boils water fast.",
		"Could be better & quieter.",
	}, reviews)
}

func TestScrapeJSONLDGraph(t *testing.T) {
	page := `<html><head><script type="application/ld+json">
{"@graph": [
  {"@type": "WebPage"},
  {"@type": ["Thing", "Product"], "reviews": [
    {"@type": "Review", "description": "Description used when body is missing."}
  ]}
]}
</script></head><body></body></html>`
	server := servePage(t, http.StatusOK, page)
	client := newTestClient(config.ScrapeConfig{})

	reviews, err := client.Scrape(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{"Description used when body is missing."}, reviews)
}

func TestScrapeSelectors(t *testing.T) {
	server := servePage(t, http.StatusOK, markupPage)
	client := newTestClient(config.ScrapeConfig{})

	reviews, err := client.Scrape(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Solid build, works as described.",
		"Arrived late but fine.",
		"Would buy again.",
	}, reviews)
}

func TestScrapeSelectorsSkipsNestedMatches(t *testing.T) {
	page := `<html><body>
<div class="review-content"><h4>Five stars</h4>
<p class="review-text">Fits perfectly, great value.</p></div>
<div class="review-content"><p class="review-text">Strap broke after a week.</p></div>
</body></html>`
	server := servePage(t, http.StatusOK, page)
	client := newTestClient(config.ScrapeConfig{})

	reviews, err := client.Scrape(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Five stars Fits perfectly, great value.",
		"Strap broke after a week.",
	}, reviews)
}

func TestScrapeCustomSelectorsAndCap(t *testing.T) {
	var page strings.Builder
	page.WriteString("<html><body>")
	for i := range 10 {
		fmt.Fprintf(&page, `<li class="opinion">Opinion number %d here</li>`, i)
	}
	page.WriteString("</body></html>")

	server := servePage(t, http.StatusOK, page.String())
	client := newTestClient(config.ScrapeConfig{
		Selectors:  []string{".opinion"},
		MaxReviews: 3,
	})

	reviews, err := client.Scrape(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Opinion number 0 here",
		"Opinion number 1 here",
		"Opinion number 2 here",
	}, reviews)
}

func TestScrapeReadabilityFallback(t *testing.T) {
	paragraph := "The distinctive teapot kept tea warm for hours and the handle stayed cool to the touch. "
	var page strings.Builder
	page.WriteString("<html><head><title>Teapot notes</title></head><body><article><h1>Teapot notes</h1>")
	for range 8 {
		page.WriteString("<p>" + strings.Repeat(paragraph, 3) + "</p>")
	}
	page.WriteString("</article></body></html>")

	server := servePage(t, http.StatusOK, page.String())

	client := newTestClient(config.ScrapeConfig{ReadabilityFallback: true})
	reviews, err := client.Scrape(context.Background(), server.URL)
	require.NoError(t, err)
	require.NotEmpty(t, reviews)
	assert.Contains(t, strings.Join(reviews, " "), "distinctive teapot")

	client = newTestClient(config.ScrapeConfig{ReadabilityFallback: false})
	_, err = client.Scrape(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrNoReviews)
}

func TestScrapeNoReviews(t *testing.T) {
	server := servePage(t, http.StatusOK, "<html><body><p>nothing to see</p></body></html>")
	client := newTestClient(config.ScrapeConfig{})

	_, err := client.Scrape(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrNoReviews)
}

func TestScrapeStatusError(t *testing.T) {
	server := servePage(t, http.StatusNotFound, "Not Found")
	client := newTestClient(config.ScrapeConfig{})

	_, err := client.Scrape(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestScrapeInvalidURL(t *testing.T) {
	client := newTestClient(config.ScrapeConfig{})

	for _, raw := range []string{"bad-url", "ftp://example.com/file", "http://", "::nope::"} {
		_, err := client.Scrape(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
	}
}

func TestScrapeSendsHeaders(t *testing.T) {
	var gotUA, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		fmt.Fprint(w, markupPage)
	}))
	defer server.Close()

	client := newTestClient(config.ScrapeConfig{UserAgent: "review-bot/1.0"})
	_, err := client.Scrape(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "review-bot/1.0", gotUA)
	assert.Contains(t, gotAccept, "text/html")
}

func TestScrapeBodyLimit(t *testing.T) {
	page := `<html><body><p class="review-text">First review fits in the limit.</p>` +
		strings.Repeat(" ", 4096) +
		`<p class="review-text">Second review is cut off.</p></body></html>`
	server := servePage(t, http.StatusOK, page)
	client := newTestClient(config.ScrapeConfig{MaxBodyBytes: 1024})

	reviews, err := client.Scrape(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{"First review fits in the limit."}, reviews)
}

func TestHostLimiterHonoursContext(t *testing.T) {
	limiter := NewHostLimiter(time.Hour)

	require.NoError(t, limiter.Wait(context.Background(), "https://example.com/a"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, limiter.Wait(ctx, "https://example.com/b"))

	// other hosts have their own budget
	assert.NoError(t, limiter.Wait(context.Background(), "https://example.org/a"))
}

func TestHostLimiterMissingHost(t *testing.T) {
	limiter := NewHostLimiter(0)
	assert.Error(t, limiter.Wait(context.Background(), "/relative/path"))
}
