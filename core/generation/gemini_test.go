package generation

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing key fails", func(t *testing.T) {
		generator, err := NewGeminiGenerator(ctx, "", "gemini-test", "", slog.Default())

		require.ErrorIs(t, err, ErrMissingCredentials)
		assert.Nil(t, generator)
	})

	t.Run("Nil logger falls back to the default logger", func(t *testing.T) {
		generator, err := NewGeminiGenerator(ctx, "key", "gemini-test", "", nil)

		require.NoError(t, err)
		assert.NotNil(t, generator.logger)
	})

	t.Run("Returns the candidate text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "gemini-test:generateContent")

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Contains(t, body, "systemInstruction")

			w.Header().Set("Content-Type", "application/json")
			assert.NoError(t, json.NewEncoder(w).Encode(map[string]any{
				"candidates": []any{
					map[string]any{
						"content": map[string]any{
							"role":  "model",
							"parts": []any{map[string]any{"text": "Run sensor calibration."}},
						},
						"finishReason": "STOP",
					},
				},
			}))
		}))
		defer server.Close()

		generator, err := NewGeminiGenerator(ctx, "test-key", "gemini-test", server.URL, slog.Default())
		require.NoError(t, err)

		text, err := generator.Generate(ctx, Request{SystemPrompt: "system", Query: "ventilator alarm", Temperature: 0.3, MaxOutputTokens: 100})

		require.NoError(t, err)
		assert.Equal(t, "Run sensor calibration.", text)
	})
}
