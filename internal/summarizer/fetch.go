package summarizer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const (
	maxPageBytes = 5 << 20
	maxTextBytes = 20 << 10
)

// Elements whose text is never part of the readable page.
var skipTags = map[string]bool{
	"script": true, "style": true, "nav": true,
	"header": true, "footer": true, "aside": true,
	"noscript": true, "iframe": true, "svg": true,
}

// FetchPageText downloads link and returns its readable text, truncated to
// a prompt-sized prefix.
func FetchPageText(ctx context.Context, client *http.Client, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("fetch: create request: %w", err)
	}
	req.Header.Set("User-Agent", "travelease/1.0 (+summaries)")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if StatusRetryable(resp.StatusCode) {
		return "", &RetryableError{StatusCode: resp.StatusCode, Message: resp.Status}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch: HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("fetch: read body: %w", err)
	}
	text := ExtractText(string(body))
	if text == "" {
		return "", fmt.Errorf("fetch: no text content found at %s", link)
	}
	return text, nil
}

// ExtractText returns the visible text of an HTML page with whitespace
// collapsed. The page title, when present, comes first.
func ExtractText(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				sb.WriteString(text)
				sb.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	text := strings.Join(strings.Fields(sb.String()), " ")
	if len(text) > maxTextBytes {
		cut := maxTextBytes
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return text
}
