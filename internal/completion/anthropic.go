package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"textchecker/internal/models"
	"textchecker/internal/version"
)

const (
	DefaultAnthropicModel    = "claude-sonnet-4-5-20250929"
	DefaultAnthropicEndpoint = "https://api.anthropic.com/v1"
	DefaultMaxTokens         = 4096

	anthropicVersion = "2023-06-01"

	// maxErrorBody bounds how much of an error response is kept.
	maxErrorBody = 4096
)

// AnthropicConfig configures an AnthropicClient. Zero values select defaults.
type AnthropicConfig struct {
	APIKey    string
	Model     string
	Endpoint  string
	MaxTokens int
	Timeout   time.Duration
}

// AnthropicClient calls the Anthropic Messages API.
type AnthropicClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
	url        string
	maxTokens  int
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

type anthropicErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewAnthropicClient creates a client for the Messages API.
func NewAnthropicClient(cfg AnthropicConfig) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: %w", ErrNoAPIKey)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultAnthropicModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultAnthropicEndpoint
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	return &AnthropicClient{
		// Deadlines come from the caller's context; Timeout is a backstop.
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		url:        strings.TrimSuffix(cfg.Endpoint, "/") + "/messages",
		maxTokens:  cfg.MaxTokens,
	}, nil
}

// Model returns the configured model name.
func (c *AnthropicClient) Model() string {
	return c.model
}

// Complete sends messages and returns the concatenated text blocks of the
// reply.
func (c *AnthropicClient) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", ErrNoMessages
	}

	body := anthropicRequest{Model: c.model, MaxTokens: c.maxTokens}
	for _, m := range messages {
		body.Messages = append(body.Messages, anthropicMessage{Role: m.Role, Content: m.Content})
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("User-Agent", version.GetInfo().UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &APIError{Provider: models.ProviderAnthropic, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &APIError{
			Provider:   models.ProviderAnthropic,
			StatusCode: resp.StatusCode,
			Message:    anthropicErrorMessage(data),
		}
	}

	var ar anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return "", &APIError{Provider: models.ProviderAnthropic, Message: "decode response", Err: err}
	}

	var sb strings.Builder
	for _, block := range ar.Content {
		if block.Type == "" || block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

// anthropicErrorMessage prefers the structured error message and falls back
// to the raw body.
func anthropicErrorMessage(data []byte) string {
	var er anthropicErrorResponse
	if err := json.Unmarshal(data, &er); err == nil && er.Error.Message != "" {
		return er.Error.Message
	}
	return strings.TrimSpace(string(data))
}

var _ Completer = (*AnthropicClient)(nil)
