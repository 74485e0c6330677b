// Package llm asks a language model for a decorative emoji representing a company.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/sashabaranov/go-openai"

	"github.com/umputun/espiscope/pkg/config"
)

// defaultPrompt asks for one emoji, %s is a company name
const defaultPrompt = "Give me a single emoji that represents the company %s. If you don't know return random emoji"

// maxEmojiRunes limits accepted glyph length, flags and ZWJ sequences take several runes
const maxEmojiRunes = 10

// OpenAIDescriber uses OpenAI-compatible chat completion API
type OpenAIDescriber struct {
	client *openai.Client
	config config.LLMConfig
}

// NewOpenAIDescriber creates describer for OpenAI-compatible endpoint
func NewOpenAIDescriber(cfg config.LLMConfig) *OpenAIDescriber {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	return &OpenAIDescriber{client: openai.NewClientWithConfig(clientConfig), config: cfg}
}

// Describe returns an emoji for company name
func (d *OpenAIDescriber) Describe(ctx context.Context, name string) (string, error) {
	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       d.config.Model,
		Temperature: float32(d.config.Temperature),
		MaxTokens:   16,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt(d.config.Prompt, name)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from LLM")
	}
	return extractEmoji(resp.Choices[0].Message.Content)
}

func prompt(tmpl, name string) string {
	if tmpl == "" {
		tmpl = defaultPrompt
	}
	return fmt.Sprintf(tmpl, name)
}

// extractEmoji picks the first word without letters and digits, models like to add a sentence around it
func extractEmoji(text string) (string, error) {
	for _, word := range strings.Fields(text) {
		word = strings.Trim(word, `"'.,:;!?()[]{}*`+"`")
		if word == "" || strings.IndexFunc(word, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) >= 0 {
			continue
		}
		if len([]rune(word)) > maxEmojiRunes {
			continue
		}
		return word, nil
	}
	return "", fmt.Errorf("no emoji in response %q", text)
}

// Static always returns the same emoji, used when no LLM is configured
type Static string

// Describe returns the static emoji
func (s Static) Describe(context.Context, string) (string, error) {
	if s == "" {
		return "", errors.New("no emoji configured")
	}
	return string(s), nil
}
