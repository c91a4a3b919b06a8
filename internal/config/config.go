package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

const DefaultEnvFile = ".env.dev"

type Config struct {
	Port   string
	DBPath string

	RedisAddr     string
	HistoryLimit  int
	HistoryRetain int

	GeminiAPIKey       string
	GoogleProject      string
	GoogleLocation     string
	GeminiModel        string
	EmbedModel         string
	AITimeout          time.Duration
	ChatMaxTokens      int
	RecommendMaxTokens int

	QdrantHost       string
	QdrantPort       int
	QdrantCollection string
	ArchiveRetention time.Duration

	CommandsFile string
	LogLevel     zapcore.Level
}

// ArchiveEnabled reports whether a Qdrant host was configured.
func (c *Config) ArchiveEnabled() bool {
	return c.QdrantHost != ""
}

// LoadEnvFile merges path into the process environment without overriding
// variables that are already set.
func LoadEnvFile(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	return godotenv.Load(path)
}

// FromEnv reads the configuration from the process environment.
func FromEnv() (*Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, applying defaults for unset keys.
// Every malformed value is reported, not just the first.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	r := reader{lookup: lookup}
	cfg := &Config{
		Port:   r.str("PORT", "8080"),
		DBPath: r.str("DB_PATH", "./data/agri.db"),

		RedisAddr:     r.str("REDIS_ADDR", "localhost:6379"),
		HistoryLimit:  r.integer("HISTORY_LIMIT", 5),
		HistoryRetain: r.integer("HISTORY_RETAIN", 50),

		GeminiAPIKey:       r.str("GEMINI_API_KEY", ""),
		GoogleProject:      r.str("GOOGLE_CLOUD_PROJECT", ""),
		GoogleLocation:     r.str("GOOGLE_CLOUD_LOCATION", ""),
		GeminiModel:        r.str("GEMINI_MODEL", "gemini-2.5-flash"),
		EmbedModel:         r.str("EMBED_MODEL", "text-embedding-004"),
		AITimeout:          r.duration("AI_TIMEOUT", 25*time.Second),
		ChatMaxTokens:      r.integer("CHAT_MAX_TOKENS", 100),
		RecommendMaxTokens: r.integer("RECOMMEND_MAX_TOKENS", 250),

		QdrantHost:       r.str("QDRANT_HOST", ""),
		QdrantPort:       r.integer("QDRANT_PORT", 6334),
		QdrantCollection: r.str("QDRANT_COLLECTION", "chat_archive"),
		ArchiveRetention: r.duration("ARCHIVE_RETENTION", 720*time.Hour),

		CommandsFile: r.str("COMMANDS_FILE", ""),
	}

	level, err := zapcore.ParseLevel(r.str("LOG_LEVEL", "info"))
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	cfg.LogLevel = level

	switch {
	case cfg.HistoryLimit < 1 || cfg.HistoryLimit > 5:
		r.errs = append(r.errs, fmt.Errorf("HISTORY_LIMIT must be between 1 and 5, got %d", cfg.HistoryLimit))
	case cfg.HistoryRetain < cfg.HistoryLimit:
		r.errs = append(r.errs, fmt.Errorf("HISTORY_RETAIN must be at least HISTORY_LIMIT, got %d", cfg.HistoryRetain))
	}
	if cfg.AITimeout <= 0 {
		r.errs = append(r.errs, errors.New("AI_TIMEOUT must be positive"))
	}

	if err := errors.Join(r.errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

type reader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *reader) str(key, def string) string {
	if v, ok := r.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (r *reader) integer(key string, def int) int {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not an integer", key, raw))
		return def
	}
	return n
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not a duration", key, raw))
		return def
	}
	return d
}
