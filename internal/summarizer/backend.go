package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"travelease/internal/summary/document"
)

const maxResponseBytes = 10 << 20

// BackendSummarizer calls an HTTP summarization backend that accepts
// {"link": ...} and answers {"summary": {...}} or {"error": "..."}.
type BackendSummarizer struct {
	url    string
	client *http.Client
	Retry  RetryConfig
}

func NewBackendSummarizer(url string, client *http.Client) *BackendSummarizer {
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	return &BackendSummarizer{url: url, client: client, Retry: DefaultRetryConfig()}
}

func (b *BackendSummarizer) Summarize(ctx context.Context, link string) (document.Value, error) {
	payload, err := json.Marshal(map[string]string{"link": link})
	if err != nil {
		return document.Value{}, fmt.Errorf("backend: failed to marshal request: %w", err)
	}

	var summary document.Value
	err = WithBackoff(ctx, b.Retry, func(ctx context.Context) error {
		var callErr error
		summary, callErr = b.call(ctx, payload)
		return callErr
	})
	if err != nil {
		return document.Value{}, err
	}
	return summary, nil
}

func (b *BackendSummarizer) call(ctx context.Context, payload []byte) (document.Value, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(payload))
	if err != nil {
		return document.Value{}, fmt.Errorf("backend: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return document.Value{}, fmt.Errorf("backend: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return document.Value{}, fmt.Errorf("backend: failed to read response: %w", err)
	}
	if StatusRetryable(resp.StatusCode) {
		return document.Value{}, &RetryableError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	envelope, err := document.Parse(body)
	if err != nil {
		if resp.StatusCode != http.StatusOK {
			return document.Value{}, fmt.Errorf("backend: status %d: %s", resp.StatusCode, truncate(string(body), 200))
		}
		return document.Value{}, fmt.Errorf("backend: failed to parse response: %w", err)
	}
	if msg, ok := envelope.Get("error"); ok && msg.Truthy() {
		return document.Value{}, fmt.Errorf("backend: %s", msg.Text())
	}
	if resp.StatusCode != http.StatusOK {
		return document.Value{}, fmt.Errorf("backend: status %d", resp.StatusCode)
	}

	summary, ok := envelope.Get("summary")
	if !ok {
		return document.Value{}, fmt.Errorf("%w: response has no summary", ErrInvalidSummary)
	}
	return objectSummary(summary)
}
