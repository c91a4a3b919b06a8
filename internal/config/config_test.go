package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./data/agri.db", cfg.DBPath)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 5, cfg.HistoryLimit)
	assert.Equal(t, 50, cfg.HistoryRetain)
	assert.Equal(t, 25*time.Second, cfg.AITimeout)
	assert.Equal(t, 100, cfg.ChatMaxTokens)
	assert.Equal(t, 250, cfg.RecommendMaxTokens)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, "text-embedding-004", cfg.EmbedModel)
	assert.Equal(t, 6334, cfg.QdrantPort)
	assert.Equal(t, "chat_archive", cfg.QdrantCollection)
	assert.Equal(t, 720*time.Hour, cfg.ArchiveRetention)
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"PORT":           "9090",
		"HISTORY_LIMIT":  "3",
		"AI_TIMEOUT":     "5s",
		"QDRANT_HOST":    " qdrant ",
		"LOG_LEVEL":      "debug",
		"GEMINI_API_KEY": "key",
		"COMMANDS_FILE":  "config/commands.yaml",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3, cfg.HistoryLimit)
	assert.Equal(t, 5*time.Second, cfg.AITimeout)
	assert.Equal(t, "qdrant", cfg.QdrantHost)
	assert.True(t, cfg.ArchiveEnabled())
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "key", cfg.GeminiAPIKey)
	assert.Equal(t, "config/commands.yaml", cfg.CommandsFile)
}

func TestFromLookup_ReportsEveryBadValue(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{
		"QDRANT_PORT":       "six",
		"ARCHIVE_RETENTION": "a month",
		"LOG_LEVEL":         "chatty",
	}))
	require.Error(t, err)
	assert.ErrorContains(t, err, "QDRANT_PORT")
	assert.ErrorContains(t, err, "ARCHIVE_RETENTION")
	assert.ErrorContains(t, err, "LOG_LEVEL")
}

func TestFromLookup_HistoryBounds(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"limit above window", map[string]string{"HISTORY_LIMIT": "6"}},
		{"limit zero", map[string]string{"HISTORY_LIMIT": "0"}},
		{"retain below limit", map[string]string{"HISTORY_LIMIT": "5", "HISTORY_RETAIN": "4"}},
		{"non-positive timeout", map[string]string{"AI_TIMEOUT": "0s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.test")
	require.NoError(t, os.WriteFile(path, []byte("AGRI_TEST_PORT=7070\n"), 0o600))
	t.Setenv("AGRI_TEST_PORT", "")
	os.Unsetenv("AGRI_TEST_PORT")

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "7070", os.Getenv("AGRI_TEST_PORT"))

	assert.Error(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}
