package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", FormatJSON)

	log.Debug().Str("key", "budget_insights").Msg("read failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "budget_insights", entry["key"])
	assert.Equal(t, "read failed", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", FormatJSON)

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "loud", FormatJSON)

	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", FormatConsole)

	log.Info().Str("insight", "delta:inc:2024-05:Groceries").Msg("dismissed")

	out := buf.String()
	assert.Contains(t, out, "dismissed")
	assert.Contains(t, out, "insight=")
	assert.NotContains(t, out, `"message"`, "console output is not JSON")
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", FormatJSON)

	ctx := WithContext(context.Background(), log)
	fromCtx := FromContext(ctx)
	fromCtx.Info().Msg("from context")
	assert.Contains(t, buf.String(), "from context")

	// No logger in context: a disabled logger, never a panic.
	nop := FromContext(context.Background())
	assert.NotPanics(t, func() { nop.Info().Msg("dropped") })
	assert.NotContains(t, buf.String(), "dropped")
}
