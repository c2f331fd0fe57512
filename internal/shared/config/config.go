package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	APIBase         string

	// LocalState selects the backend rewritten on every commit: memory,
	// file, redis or postgres.
	LocalState    string
	LocalStateDir string
	RedisURL      string
	DatabaseURL   string

	// ObjectStoreType selects remote save storage: none, local or s3.
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	LLMProvider  string
	LLMModel     string
	OpenAIAPIKey string

	ChromePath   string
	PrintTimeout time.Duration

	// SessionIdle is how long an editing session stays in memory without
	// requests.
	SessionIdle time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	localState := normalizeLocalState(getEnv("LOCAL_STATE", ""), dbURL)

	if localState == "postgres" && dbURL == "" {
		log.Printf("config: LOCAL_STATE=postgres requires DATABASE_URL")
	}
	if env == "production" && localState == "memory" {
		log.Printf("config: memory local state loses every document on restart")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		APIBase:         getEnv("API_BASE", "/api/v1"),
		LocalState:      localState,
		LocalStateDir:   getEnv("LOCAL_STATE_DIR", "./data/state"),
		RedisURL:        getEnv("REDIS_URL", ""),
		DatabaseURL:     dbURL,
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data/objects"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		LLMProvider:     strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
		LLMModel:        getEnv("LLM_MODEL", "gpt-5-mini"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		ChromePath:      getEnv("CHROME_PATH", ""),
		PrintTimeout:    time.Duration(getEnvInt("PRINT_TIMEOUT_SECONDS", 60)) * time.Second,
		SessionIdle:     time.Duration(getEnvInt("SESSION_IDLE_MINUTES", 30)) * time.Minute,
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config: %s must be a positive integer, using %d", key, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

// normalizeLocalState defaults to postgres when a database is configured
// and to files otherwise.
func normalizeLocalState(raw, dbURL string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "memory":
		return "memory"
	case "file":
		return "file"
	case "redis":
		return "redis"
	case "postgres", "pg":
		return "postgres"
	}
	if strings.TrimSpace(dbURL) != "" {
		return "postgres"
	}
	return "file"
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "none", "off":
		return "none"
	default:
		return "local"
	}
}
