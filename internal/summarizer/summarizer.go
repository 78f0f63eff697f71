// Package summarizer produces new summary documents from a submitted link.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"travelease/config"
	"travelease/internal/summary/document"
)

var (
	ErrNoLink         = errors.New("no link provided")
	ErrInvalidLink    = errors.New("invalid link")
	ErrInvalidSummary = errors.New("summary is not a JSON object")
)

// Summarizer turns a link into a summary document. Implementations return
// ErrInvalidSummary when the upstream result is not a JSON object.
type Summarizer interface {
	Summarize(ctx context.Context, link string) (document.Value, error)
}

// New builds the summarizer selected by cfg.Summarizer.
func New(cfg *config.Config) (Summarizer, error) {
	if err := cfg.ValidateSummarizer(); err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: cfg.RequestTimeout}
	switch cfg.Summarizer {
	case config.SummarizerAnthropic:
		return NewAnthropicSummarizer(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL, cfg.MaxTokens, client), nil
	default:
		return NewBackendSummarizer(cfg.SummarizerURL, client), nil
	}
}

// NormalizeLink trims the link, defaults its scheme to https and rejects
// anything that is not an http(s) URL with a host.
func NormalizeLink(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrNoLink
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLink, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLink, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidLink)
	}
	return u.String(), nil
}

var videoIDRe = regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?(?:youtube\.com/(?:watch\?(?:[^#]*&)?v=|embed/|v/|e/|shorts/|live/)|youtu\.be/)([A-Za-z0-9_-]{11})`)

// ExtractVideoID returns the 11-character id of a YouTube link.
func ExtractVideoID(link string) (string, bool) {
	m := videoIDRe.FindStringSubmatch(link)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// objectSummary checks that v is a JSON object.
func objectSummary(v document.Value) (document.Value, error) {
	if !v.IsObject() {
		return document.Value{}, fmt.Errorf("%w: got %s", ErrInvalidSummary, v.Kind())
	}
	return v, nil
}
