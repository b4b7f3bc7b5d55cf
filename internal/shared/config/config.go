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

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	DatabaseURL    string
	SnapshotDir    string
	MaxSessions    int
	SessionIdleTTL time.Duration

	LLMProvider      string
	LLMModel         string
	HuggingFaceToken string
	HFAPIURL         string
	OpenAIAPIKey     string
	GeminiAPIKey     string
	UseMockAI        bool
	LLMTimeout       time.Duration

	ChromePath     string
	CaptureTimeout time.Duration
	ATSDebounce    time.Duration

	EventsBackend     string
	RabbitMQURL       string
	EventsExchange    string
	EventsSQSQueueURL string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),

		DatabaseURL:    dbURL,
		SnapshotDir:    getEnv("SNAPSHOT_DIR", "./data/snapshots"),
		MaxSessions:    getInt("MAX_SESSIONS", 10000),
		SessionIdleTTL: getDuration("SESSION_IDLE_TTL", 30*time.Minute),

		LLMProvider:      normalizeProvider(getEnv("LLM_PROVIDER", "huggingface")),
		LLMModel:         getEnv("LLM_MODEL", ""),
		HuggingFaceToken: getEnv("HUGGINGFACE_API_TOKEN", ""),
		HFAPIURL:         getEnv("HF_API_URL", ""),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		UseMockAI:        getBool("USE_MOCK_AI", false),
		LLMTimeout:       getDuration("LLM_TIMEOUT", 30*time.Second),

		ChromePath:     getEnv("CHROME_PATH", ""),
		CaptureTimeout: getDuration("CAPTURE_TIMEOUT", 30*time.Second),
		ATSDebounce:    getDuration("ATS_DEBOUNCE", 500*time.Millisecond),

		EventsBackend:     strings.ToLower(getEnv("EVENTS_BACKEND", "")),
		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		EventsExchange:    getEnv("EVENTS_EXCHANGE", ""),
		EventsSQSQueueURL: getEnv("EVENTS_SQS_QUEUE_URL", ""),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		UIRedirectURL:      getEnv("UI_REDIRECT_URL", ""),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using %v", key, raw, def)
		return def
	}
	return val
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return val
}

// getDuration accepts Go durations ("750ms") or a bare number of milliseconds.
func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("invalid %s=%q, using %s", key, raw, def)
		return def
	}
	return d
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
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeProvider(raw string) string {
	switch p := strings.ToLower(strings.TrimSpace(raw)); p {
	case "huggingface", "openai", "gemini", "mock":
		return p
	case "hf":
		return "huggingface"
	default:
		return "mock"
	}
}
