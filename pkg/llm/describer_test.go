package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/espiscope/pkg/config"
)

func TestOpenAIDescriber_Describe(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "Sure! 🎮"}}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	d := NewOpenAIDescriber(config.LLMConfig{Endpoint: server.URL + "/v1", APIKey: "test-key", Model: "gpt-4o-mini", Timeout: time.Second})
	emoji, err := d.Describe(context.Background(), "11 bit studios")
	require.NoError(t, err)
	assert.Equal(t, "🎮", emoji)

	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "Give me a single emoji that represents the company 11 bit studios. If you don't know return random emoji",
		gotReq.Messages[0].Content)
}

func TestOpenAIDescriber_Errors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
		}))
		defer server.Close()
		d := NewOpenAIDescriber(config.LLMConfig{Endpoint: server.URL + "/v1", Model: "m"})
		_, err := d.Describe(context.Background(), "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chat completion")
	})

	t.Run("no choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()
		d := NewOpenAIDescriber(config.LLMConfig{Endpoint: server.URL + "/v1", Model: "m"})
		_, err := d.Describe(context.Background(), "x")
		require.EqualError(t, err, "no response from LLM")
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		d := NewOpenAIDescriber(config.LLMConfig{Endpoint: server.URL + "/v1", Model: "m", Timeout: 50 * time.Millisecond})
		st := time.Now()
		_, err := d.Describe(context.Background(), "x")
		require.Error(t, err)
		assert.Less(t, time.Since(st), 900*time.Millisecond)
	})
}

func TestGeminiDescriber_Describe(t *testing.T) {
	var gotPath, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"🏦"}]}}]}`))
	}))
	defer server.Close()

	d, err := NewGeminiDescriber(context.Background(), config.LLMConfig{Endpoint: server.URL + "/", APIKey: "k", Model: "gemini-2.0-flash"})
	require.NoError(t, err)
	emoji, err := d.Describe(context.Background(), "PKO BP")
	require.NoError(t, err)
	assert.Equal(t, "🏦", emoji)
	assert.True(t, strings.HasSuffix(gotPath, "gemini-2.0-flash:generateContent"), gotPath)
	assert.Contains(t, gotBody, "represents the company PKO BP")

	_, err = NewGeminiDescriber(context.Background(), config.LLMConfig{Model: "m"})
	require.Error(t, err)
}

func TestExtractEmoji(t *testing.T) {
	tbl := []struct {
		in   string
		want string
		err  bool
	}{
		{"🎮", "🎮", false},
		{"  🏦\n", "🏦", false},
		{`"🚀".`, "🚀", false},
		{"Here you go: 🇵🇱 flag", "🇵🇱", false},
		{"👨‍💻", "👨‍💻", false},
		{"I don't know", "", true},
		{"", "", true},
	}
	for _, tt := range tbl {
		t.Run(tt.in, func(t *testing.T) {
			got, err := extractEmoji(tt.in)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatic(t *testing.T) {
	e, err := Static("🏢").Describe(context.Background(), "any")
	require.NoError(t, err)
	assert.Equal(t, "🏢", e)
	_, err = Static("").Describe(context.Background(), "any")
	require.Error(t, err)
}
