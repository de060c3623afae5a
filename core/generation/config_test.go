package generation

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromEnv(t *testing.T) {
	t.Run("Defaults are applied", func(t *testing.T) {
		unsetEnv(t, "MEDGRAPH_PROVIDER", "GEMINI_API_KEY", "OPENAI_API_KEY", "GEMINI_MODEL", "OPENAI_MODEL")

		config, err := NewConfigFromEnv()

		require.NoError(t, err)
		assert.Equal(t, "gemini-2.5-flash", config.GeminiModel)
		assert.Equal(t, "gpt-4o-mini", config.OpenAIModel)
		assert.Equal(t, ProviderNone, config.ResolvedProvider())
	})

	t.Run("Reads keys from the environment", func(t *testing.T) {
		unsetEnv(t, "GEMINI_API_KEY")
		t.Setenv("MEDGRAPH_PROVIDER", "openai")
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("OPENAI_MODEL", "gpt-test")

		config, err := NewConfigFromEnv()

		require.NoError(t, err)
		assert.Equal(t, "sk-test", config.OpenAIAPIKey)
		assert.Equal(t, "gpt-test", config.OpenAIModel)
		assert.Equal(t, ProviderOpenAI, config.ResolvedProvider())
	})
}

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestResolvedProvider(t *testing.T) {
	t.Run("Auto prefers gemini", func(t *testing.T) {
		config := &Config{Provider: ProviderAuto, GeminiAPIKey: "g", OpenAIAPIKey: "o"}
		assert.Equal(t, ProviderGemini, config.ResolvedProvider())
	})

	t.Run("Auto uses openai without a gemini key", func(t *testing.T) {
		config := &Config{Provider: ProviderAuto, OpenAIAPIKey: "o"}
		assert.Equal(t, ProviderOpenAI, config.ResolvedProvider())
	})

	t.Run("Explicit provider wins", func(t *testing.T) {
		config := &Config{Provider: ProviderNone, GeminiAPIKey: "g"}
		assert.Equal(t, ProviderNone, config.ResolvedProvider())
	})
}

func TestNewGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("No provider yields a nil generator", func(t *testing.T) {
		generator, err := NewGenerator(ctx, &Config{Provider: ProviderNone}, nil)

		require.NoError(t, err)
		assert.Nil(t, generator)
	})

	t.Run("Explicit provider without key fails", func(t *testing.T) {
		generator, err := NewGenerator(ctx, &Config{Provider: ProviderOpenAI}, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingCredentials)
		assert.Nil(t, generator)

		generator, err = NewGenerator(ctx, &Config{Provider: ProviderGemini}, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingCredentials)
		assert.Nil(t, generator)
	})

	t.Run("Unknown provider fails", func(t *testing.T) {
		_, err := NewGenerator(ctx, &Config{Provider: "claude"}, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown provider "claude"`)
	})

	t.Run("Nil configuration fails", func(t *testing.T) {
		_, err := NewGenerator(ctx, nil, nil)

		require.Error(t, err)
	})

	t.Run("OpenAI key creates an OpenAI generator", func(t *testing.T) {
		generator, err := NewGenerator(ctx, &Config{Provider: ProviderAuto, OpenAIAPIKey: "sk-test", OpenAIModel: "gpt-test"}, nil)

		require.NoError(t, err)
		assert.IsType(t, &OpenAIGenerator{}, generator)
	})
}

func TestOpenAIGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("Nil logger falls back to the default logger", func(t *testing.T) {
		generator, err := NewOpenAIGenerator("sk-test", "gpt-test", "", nil)

		require.NoError(t, err)
		assert.NotNil(t, generator.logger)
	})

	newServer := func(t *testing.T, content string, choices bool) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "gpt-test", body["model"])
			messages, _ := body["messages"].([]any)
			assert.Len(t, messages, 2)

			response := map[string]any{
				"id":      "chatcmpl-1",
				"object":  "chat.completion",
				"created": 1,
				"model":   "gpt-test",
				"choices": []any{},
			}
			if choices {
				response["choices"] = []any{
					map[string]any{
						"index":         0,
						"finish_reason": "stop",
						"message":       map[string]any{"role": "assistant", "content": content},
					},
				}
			}
			w.Header().Set("Content-Type", "application/json")
			assert.NoError(t, json.NewEncoder(w).Encode(response))
		}))
	}

	t.Run("Returns the first choice", func(t *testing.T) {
		server := newServer(t, "Run sensor calibration.", true)
		defer server.Close()

		generator, err := NewOpenAIGenerator("sk-test", "gpt-test", server.URL+"/v1", slog.Default())
		require.NoError(t, err)

		text, err := generator.Generate(ctx, Request{SystemPrompt: "system", Query: "ventilator alarm", Temperature: 0.3, MaxOutputTokens: 100})

		require.NoError(t, err)
		assert.Equal(t, "Run sensor calibration.", text)
	})

	t.Run("No choices is an error", func(t *testing.T) {
		server := newServer(t, "", false)
		defer server.Close()

		generator, err := NewOpenAIGenerator("sk-test", "gpt-test", server.URL+"/v1", slog.Default())
		require.NoError(t, err)

		_, err = generator.Generate(ctx, Request{SystemPrompt: "system", Query: "ventilator alarm"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no choices returned")
	})

	t.Run("Server errors are returned", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"boom","type":"server_error"}}`, http.StatusInternalServerError)
		}))
		defer server.Close()

		generator, err := NewOpenAIGenerator("sk-test", "gpt-test", server.URL+"/v1", slog.Default())
		require.NoError(t, err)

		_, err = generator.Generate(ctx, Request{SystemPrompt: "system", Query: "ventilator alarm"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "openai chat completion")
	})
}
