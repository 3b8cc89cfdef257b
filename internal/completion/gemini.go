package completion

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"textchecker/internal/models"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiConfig configures a GeminiClient. Zero values select defaults.
type GeminiConfig struct {
	APIKey    string
	Model     string
	Endpoint  string
	MaxTokens int
}

// GeminiClient calls the Gemini API through the genai SDK.
type GeminiClient struct {
	client    *genai.Client
	model     string
	maxTokens int
}

// NewGeminiClient creates a Gemini client.
func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrNoAPIKey)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}

	client, err := genai.NewClient(context.Background(), clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string {
	return c.model
}

// Complete sends messages through GenerateContent and joins the text parts of
// the first candidate.
func (c *GeminiClient) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", ErrNoMessages
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens:  int32(c.maxTokens),
		ResponseMIMEType: "application/json",
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, toGeminiContents(messages), config)
	if err != nil {
		return "", &APIError{Provider: models.ProviderGemini, Message: "generation failed", Err: err}
	}

	text := geminiText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// toGeminiContents maps conversation turns to genai contents. Gemini calls
// the assistant role "model".
func toGeminiContents(messages []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return contents
}

func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

var _ Completer = (*GeminiClient)(nil)
