package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-version"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "Review Summarizer CLI")
	assert.Contains(t, stdout.String(), "Version: dev")
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-help"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stderr.String(), "-url")
}

func TestRunRequiresURL(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), nil, &stdout, &stderr)

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "Usage: review-summarizer -url")
	assert.Empty(t, stdout.String())
}

func TestRunMissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-url", "https://example.com"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "GEMINI_API_KEY")
}

func TestRunSummarizesPage(t *testing.T) {
	gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/models":
			fmt.Fprint(w, `{"models":[{"name":"models/gemini-1.5-flash","supportedGenerationMethods":["generateContent"]}]}`)
		case strings.HasSuffix(r.URL.Path, ":generateContent"):
			fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"Mostly positive."}]}}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer gemini.Close()

	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<div class="review-text">Works exactly as described.</div>`)
	}))
	defer page.Close()

	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_BASE_URL", gemini.URL)
	t.Setenv("SCRAPE_HOST_INTERVAL", "0s")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-url", page.URL}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "Mostly positive.\n", stdout.String())
}
