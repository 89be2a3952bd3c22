package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr         string
	CORSOrigin   string
	TokenSecret  string
	LogLevel     string
	MaxBodyBytes int64

	// MaxChunkSize is the default budget for split requests without one.
	MaxChunkSize int

	// Redis Configuration (translation cache, disabled when empty)
	RedisURL string
	CacheTTL time.Duration

	// Translation engines
	DeepLURL             string
	DeepLAuthKey         string
	DeepLCharLimit       int
	TranslateConcurrency int

	// Engine preference: comma separated names, and "nl:en=deepl" pairs
	EngineOrder string
	EnginePairs string
}

func Load() Config {
	return Config{
		Addr:         getenv("API_ADDR", ":8787"),
		CORSOrigin:   getenv("CHUNKER_CORS_ORIGIN", "*"),
		TokenSecret:  getenv("CHUNKER_TOKEN_SECRET", ""),
		LogLevel:     getenv("CHUNKER_LOG_LEVEL", "info"),
		MaxBodyBytes: int64(getenvInt("CHUNKER_MAX_BODY_BYTES", 8<<20)),
		MaxChunkSize: getenvInt("CHUNKER_MAX_CHUNK_SIZE", 4500),
		RedisURL:     getenv("REDIS_URL", ""),
		CacheTTL:     time.Duration(getenvInt("CHUNKER_CACHE_TTL_SECONDS", 604800)) * time.Second,

		// DeepL - engine disabled if no auth key is configured
		DeepLURL:             getenv("DEEPL_URL", "https://api.deepl.com/v2/translate"),
		DeepLAuthKey:         getenv("DEEPL_AUTH_KEY", ""),
		DeepLCharLimit:       getenvInt("DEEPL_CHAR_LIMIT", 30000),
		TranslateConcurrency: getenvInt("CHUNKER_TRANSLATE_CONCURRENCY", 4),
		EngineOrder:          getenv("CHUNKER_ENGINE_ORDER", ""),
		EnginePairs:          getenv("CHUNKER_ENGINE_PAIRS", ""),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
