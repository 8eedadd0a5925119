package scraper

import (
	"bytes"
	"encoding/json"
	"html"
	"net/url"
	"strings"
	"unicode/utf8"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
)

// jsonLDContainers are the keys descended into, in this order, when
// looking for Review objects.
var jsonLDContainers = []string{"@graph", "mainEntity", "itemListElement", "review", "reviews"}

func extractJSONLD(doc *goquery.Document) []string {
	var reviews []string

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return
		}
		walkJSONLD(data, &reviews)
	})

	return reviews
}

func walkJSONLD(node any, out *[]string) {
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			walkJSONLD(item, out)
		}
	case map[string]any:
		if hasType(v["@type"], "Review") {
			if body, ok := v["reviewBody"].(string); ok && strings.TrimSpace(body) != "" {
				*out = append(*out, body)
			} else if desc, ok := v["description"].(string); ok {
				*out = append(*out, desc)
			}
			return
		}
		for _, key := range jsonLDContainers {
			if child, ok := v[key]; ok {
				walkJSONLD(child, out)
			}
		}
	}
}

func hasType(value any, want string) bool {
	switch t := value.(type) {
	case string:
		return t == want
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func extractSelectors(doc *goquery.Document, selectors []string) []string {
	var reviews []string
	joined := strings.Join(selectors, ", ")

	doc.Find(joined).Each(func(_ int, s *goquery.Selection) {
		// the enclosing match already carries this text
		if s.ParentsFiltered(joined).Length() > 0 {
			return
		}
		s.Find("br").Each(func(_ int, br *goquery.Selection) {
			br.ReplaceWithHtml("\n")
		})
		reviews = append(reviews, s.Text())
	})

	return reviews
}

// extractReadable returns the paragraphs of the page's main content.
func extractReadable(body []byte, pageURL *url.URL) []string {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return nil
	}

	var textBuf strings.Builder
	if err := article.RenderText(&textBuf); err != nil {
		return nil
	}

	var paragraphs []string
	for _, line := range strings.Split(textBuf.String(), "\n") {
		if strings.TrimSpace(line) != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return paragraphs
}

// clean strips markup, normalizes whitespace, drops short and duplicate
// snippets and caps the result at MaxReviews.
func (c *Client) clean(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	reviews := make([]string, 0, len(raw))

	for _, snippet := range raw {
		text := normalizeWhitespace(html.UnescapeString(c.policy.Sanitize(snippet)))
		if utf8.RuneCountInString(text) < c.cfg.MinReviewLength {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		reviews = append(reviews, text)

		if len(reviews) == c.cfg.MaxReviews {
			break
		}
	}

	return reviews
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
