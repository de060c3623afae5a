package helper

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrettyHandler(t *testing.T) {
	t.Run("Create PrettyHandler with default options", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		require.NotNil(t, handler, "Expected NewPrettyHandler to return a non-nil handler")
		assert.NotNil(t, handler.Handler, "Expected handler to embed a slog handler")
		assert.NotNil(t, handler.l, "Expected handler to have a logger")
	})

	t.Run("Level option is respected by the logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewPrettyHandler(&buf, PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{Level: slog.LevelWarn},
		}))

		logger.Info("hidden traversal detail")
		logger.Warn("generation fell back to template")

		assert.NotContains(t, buf.String(), "hidden traversal detail")
		assert.Contains(t, buf.String(), "generation fell back to template")
	})
}

func TestPrettyHandlerHandle(t *testing.T) {
	ctx := context.Background()

	levels := []struct {
		level  slog.Level
		prefix string
	}{
		{slog.LevelDebug, "DEBUG:"},
		{slog.LevelInfo, "INFO:"},
		{slog.LevelWarn, "WARN:"},
		{slog.LevelError, "ERROR:"},
	}

	for _, l := range levels {
		t.Run("Handle "+l.prefix+" record", func(t *testing.T) {
			var buf bytes.Buffer
			handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

			record := slog.NewRecord(time.Now(), l.level, "query processed", 0)
			record.AddAttrs(slog.String("query_id", "abc"), slog.Int("nodes_visited", 3))

			err := handler.Handle(ctx, record)

			require.NoError(t, err)
			output := buf.String()
			assert.Contains(t, output, l.prefix)
			assert.Contains(t, output, "query processed")
			assert.Contains(t, output, `"query_id":"abc"`)
			assert.Contains(t, output, `"nodes_visited":3`)
		})
	}

	t.Run("Handle record without attributes", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		err := handler.Handle(ctx, slog.NewRecord(time.Now(), slog.LevelInfo, "seeded graph", 0))

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "{}", "Expected an empty json object for missing attributes")
	})

	t.Run("Handle formats timestamp", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		err := handler.Handle(ctx, slog.NewRecord(time.Now(), slog.LevelInfo, "time test", 0))

		require.NoError(t, err)
		assert.Regexp(t, `\[\d{2}:\d{2}:\d{2}\.\d{3}\]`, buf.String())
	})
}
