package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"travelease/internal/summary/document"
)

const anthropicVersion = "2023-06-01"

// AnthropicSummarizer reads the linked page and asks the Anthropic Messages
// API for a structured travel summary.
type AnthropicSummarizer struct {
	apiKey    string
	model     string
	baseURL   string
	maxTokens int
	client    *http.Client
	Retry     RetryConfig
}

func NewAnthropicSummarizer(apiKey, model, baseURL string, maxTokens int, client *http.Client) *AnthropicSummarizer {
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	return &AnthropicSummarizer{
		apiKey:    apiKey,
		model:     model,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		maxTokens: maxTokens,
		client:    client,
		Retry:     DefaultRetryConfig(),
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	Error   *anthropicError    `json:"error,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (s *AnthropicSummarizer) Summarize(ctx context.Context, link string) (document.Value, error) {
	var page string
	err := WithBackoff(ctx, s.Retry, func(ctx context.Context) error {
		var fetchErr error
		page, fetchErr = FetchPageText(ctx, s.client, link)
		return fetchErr
	})
	if err != nil {
		return document.Value{}, err
	}

	var text string
	err = WithBackoff(ctx, s.Retry, func(ctx context.Context) error {
		var callErr error
		text, callErr = s.callAPI(ctx, buildPrompt(link, page))
		return callErr
	})
	if err != nil {
		return document.Value{}, err
	}

	v, err := document.ParseString(stripCodeBlock(text))
	if err != nil {
		return document.Value{}, fmt.Errorf("%w: %v", ErrInvalidSummary, err)
	}
	return objectSummary(v)
}

const systemPrompt = "You are an expert at summarizing travel videos and articles and you reply with structured JSON only."

func buildPrompt(link, page string) string {
	var sb strings.Builder
	sb.WriteString("Summarize the travel content below as a single JSON object.\n")
	sb.WriteString("- If it is an itinerary over several days, use one key per day (day_1 ... day_n) with the activities, suggested time ranges and organized details for each.\n")
	sb.WriteString("- If it lists the best things to do or places to visit, use one key per location with a \"details\" array of bullet points.\n")
	sb.WriteString("- If it gives tips for tourists, group similar tips under one key per group, each with a \"details\" array.\n")
	sb.WriteString("Use snake_case keys. Items describing a place may carry name, description, recommendation and note fields.\n")
	sb.WriteString("Respond ONLY with valid JSON, no markdown fences or additional text.\n\n")
	fmt.Fprintf(&sb, "Source: %s\n", link)
	if id, ok := ExtractVideoID(link); ok {
		fmt.Fprintf(&sb, "YouTube video id: %s\n", id)
	}
	sb.WriteString("\n")
	sb.WriteString(page)
	return sb.String()
}

func (s *AnthropicSummarizer) callAPI(ctx context.Context, prompt string) (string, error) {
	reqBody := anthropicRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		System:    systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("anthropic: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/messages", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("anthropic: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("anthropic: failed to read response: %w", err)
	}
	if StatusRetryable(resp.StatusCode) {
		return "", &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("anthropic: failed to parse response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("anthropic: API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic: status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var sb strings.Builder
	for _, c := range apiResp.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic: empty response")
	}
	return sb.String(), nil
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}
