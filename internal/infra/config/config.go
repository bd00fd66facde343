package config

import (
	"os"
	"strconv"
	"strings"
)

// DBConfig holds Postgres connection parameters.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// EmbedderConfig points at the embedding service.
type EmbedderConfig struct {
	URL     string
	Model   string
	Timeout int // seconds
}

// GeneratorConfig points at the generation service.
type GeneratorConfig struct {
	URL       string
	Model     string
	Timeout   int // seconds
	MaxTokens int
}

// RetrievalConfig tunes the retrieval core.
type RetrievalConfig struct {
	Limit        int
	ScanLimit    int
	HistoryLimit int
}

// CacheConfig tunes the in-memory answer cache.
type CacheConfig struct {
	Size       int
	TTLMinutes int
}

// IngestConfig drives RSS collection.
type IngestConfig struct {
	Feeds            []string
	IntervalMinutes  int
	PerHostDelaySecs int
	FetchTimeout     int // seconds
}

// VocabularyConfig extends the built-in heuristic tables.
type VocabularyConfig struct {
	ExtraDenylist  []string
	ReferenceWords []string // replaces the default set when non-empty
}

type Config struct {
	Env       string
	Port      string
	DB        DBConfig
	Embedder  EmbedderConfig
	Generator GeneratorConfig
	Retrieval RetrievalConfig
	Cache     CacheConfig
	Ingest    IngestConfig
	Vocab     VocabularyConfig
}

func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "9020"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "newschat-db"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "newschat_user"),
			Password: getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "newschat_password"),
			Name:     getEnv("DB_NAME", "newschat_db"),
		},
		Embedder: EmbedderConfig{
			URL:     getEnv("EMBEDDER_URL", "http://localhost:11434"),
			Model:   getEnv("EMBEDDING_MODEL", "embeddinggemma"),
			Timeout: getEnvInt("EMBEDDER_TIMEOUT", 30),
		},
		Generator: GeneratorConfig{
			URL:       getEnv("GENERATOR_URL", "http://localhost:11434"),
			Model:     getEnv("GENERATOR_MODEL", "gemma3:4b"),
			Timeout:   getEnvInt("GENERATOR_TIMEOUT", 120),
			MaxTokens: getEnvInt("GENERATOR_MAX_TOKENS", 768),
		},
		Retrieval: RetrievalConfig{
			Limit:        getEnvInt("RETRIEVAL_LIMIT", 5),
			ScanLimit:    getEnvInt("RETRIEVAL_SCAN_LIMIT", 500),
			HistoryLimit: getEnvInt("RETRIEVAL_HISTORY_LIMIT", 20),
		},
		Cache: CacheConfig{
			Size:       getEnvInt("ANSWER_CACHE_SIZE", 256),
			TTLMinutes: getEnvInt("ANSWER_CACHE_TTL_MINUTES", 10),
		},
		Ingest: IngestConfig{
			Feeds:            getEnvList("INGEST_FEEDS", nil),
			IntervalMinutes:  getEnvInt("INGEST_INTERVAL_MINUTES", 15),
			PerHostDelaySecs: getEnvInt("INGEST_PER_HOST_DELAY_SECONDS", 5),
			FetchTimeout:     getEnvInt("INGEST_FETCH_TIMEOUT", 30),
		},
		Vocab: VocabularyConfig{
			ExtraDenylist:  getEnvList("RELEVANCE_DENYLIST", nil),
			ReferenceWords: getEnvList("FOLLOWUP_REFERENCE_WORDS", nil),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}

	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
