package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	listPageSize    = 100
	maxPromptChars  = 30000
	maxErrBodyBytes = 4096
)

var (
	ErrNoGenerationModel = errors.New("no model supports the requested generation method")
	ErrEmptyResponse     = errors.New("no content in response")
	ErrNoReviews         = errors.New("no reviews to summarize")
)

// APIError is returned when the Gemini API answers with a non-200 status
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client handles Gemini API operations
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a new Gemini API client
func NewClient(apiKey, baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Model describes a model returned by models.list
type Model struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

// Supports reports whether the model supports the given generation method
func (m Model) Supports(method string) bool {
	for _, supported := range m.SupportedGenerationMethods {
		if supported == method {
			return true
		}
	}
	return false
}

type listModelsResponse struct {
	Models        []Model `json:"models"`
	NextPageToken string  `json:"nextPageToken"`
}

// geminiRequest represents the request structure for Gemini API
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse represents the response structure from Gemini API
type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

// ListModels returns every model visible to the API key
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	var models []Model
	pageToken := ""

	for {
		query := url.Values{}
		query.Set("key", c.apiKey)
		query.Set("pageSize", fmt.Sprint(listPageSize))
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		var page listModelsResponse
		if err := c.do(ctx, http.MethodGet, c.baseURL+"/models?"+query.Encode(), nil, &page); err != nil {
			return nil, fmt.Errorf("listing models: %w", err)
		}

		models = append(models, page.Models...)
		if page.NextPageToken == "" {
			return models, nil
		}
		pageToken = page.NextPageToken
	}
}

// SelectModel picks the model used for summaries. With an empty preferred
// name it returns the first model supporting method.
func (c *Client) SelectModel(ctx context.Context, method, preferred string) (string, error) {
	models, err := c.ListModels(ctx)
	if err != nil {
		return "", err
	}

	name, err := pickModel(models, method, preferred)
	if err != nil {
		return "", err
	}

	c.log.InfoContext(ctx, "Gemini model selected",
		"model", name,
		"method", method,
		"available", len(models))

	return name, nil
}

func pickModel(models []Model, method, preferred string) (string, error) {
	preferred = normalizeModelName(preferred)

	for _, m := range models {
		if !m.Supports(method) {
			continue
		}
		if preferred == "" || m.Name == preferred {
			return m.Name, nil
		}
	}

	if preferred != "" {
		return "", fmt.Errorf("%w: %s (model %s)", ErrNoGenerationModel, method, preferred)
	}
	return "", fmt.Errorf("%w: %s", ErrNoGenerationModel, method)
}

// Summarize condenses the reviews into a single summary using model
func (c *Client) Summarize(ctx context.Context, reviews []string, model string) (string, error) {
	if len(reviews) == 0 {
		return "", ErrNoReviews
	}

	req := geminiRequest{
		Contents: []geminiContent{
			{
				Parts: []geminiPart{
					{Text: buildPrompt(reviews)},
				},
			},
		},
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s",
		c.baseURL, normalizeModelName(model), url.QueryEscape(c.apiKey))

	var resp geminiResponse
	if err := c.do(ctx, http.MethodPost, endpoint, req, &resp); err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	summary := strings.TrimSpace(text.String())
	if summary == "" {
		return "", ErrEmptyResponse
	}

	c.log.DebugContext(ctx, "Summary generated",
		"model", model,
		"reviews", len(reviews),
		"summaryChars", len(summary))

	return summary, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sending request: %w", redactKey(err, c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBodyBytes))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(bodyBytes))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// buildPrompt creates a prompt for the Gemini API
func buildPrompt(reviews []string) string {
	var content strings.Builder

	content.WriteString("Summarize the following customer reviews in a short paragraph.\n")
	content.WriteString("Describe the overall sentiment, the most praised aspects and the most common complaints.\n")
	content.WriteString("Answer in plain text in the language of the reviews, without lists or headings.\n\n")
	content.WriteString("Reviews:\n")

	for i, review := range reviews {
		line := fmt.Sprintf("%d. %s\n", i+1, review)
		if remaining := maxPromptChars - content.Len(); len(line) > remaining {
			if i == 0 {
				content.WriteString(truncate(line, remaining))
			}
			break
		}
		content.WriteString(line)
	}

	return content.String()
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// normalizeModelName makes sure names carry the "models/" prefix
func normalizeModelName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "models/") || strings.HasPrefix(name, "tunedModels/") {
		return name
	}
	return "models/" + name
}

// redactKey keeps the API key out of errors embedding the request URL
func redactKey(err error, key string) error {
	var urlErr *url.Error
	if key == "" || !errors.As(err, &urlErr) {
		return err
	}
	redacted := *urlErr
	redacted.URL = strings.ReplaceAll(urlErr.URL, url.QueryEscape(key), "REDACTED")
	return &redacted
}
