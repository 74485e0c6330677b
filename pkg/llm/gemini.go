package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/umputun/espiscope/pkg/config"
)

// GeminiDescriber uses Gemini API
type GeminiDescriber struct {
	client *genai.Client
	config config.LLMConfig
}

// NewGeminiDescriber creates describer for Gemini API, endpoint overrides API base URL
func NewGeminiDescriber(ctx context.Context, cfg config.LLMConfig) (*GeminiDescriber, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	clientCfg := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.Endpoint != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiDescriber{client: client, config: cfg}, nil
}

// Describe returns an emoji for company name
func (d *GeminiDescriber) Describe(ctx context.Context, name string) (string, error) {
	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	temperature := float32(d.config.Temperature)
	resp, err := d.client.Models.GenerateContent(ctx, d.config.Model, genai.Text(prompt(d.config.Prompt, name)),
		&genai.GenerateContentConfig{Temperature: &temperature, MaxOutputTokens: 16})
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return extractEmoji(resp.Text())
}
