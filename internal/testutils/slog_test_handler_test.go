package testutils

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestSlogHandler(t *testing.T) {
	handler := NewTestSlogHandler()
	logger := slog.New(handler).With(slog.String("component", "test"))

	logger.Info("first", slog.Int("n", 1))
	logger.Warn("second")

	entries := handler.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, "first", entries[0]["message"])
	assert.Equal(t, "test", entries[0]["component"])
	assert.EqualValues(t, 1, entries[0]["n"])

	assert.Len(t, handler.EntriesWithMessage("second"), 1)

	handler.Clear()
	assert.Empty(t, handler.Entries())
}
