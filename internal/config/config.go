package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gymbro-be/pkg/database"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Trace    TraceConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	LogLevel           string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	AccountLockTTL     time.Duration
	AccountLockWait    time.Duration // how long a request waits for a busy account before 409
	EventTopic         string
	DemoUsers          []string // profiles created at startup by the memory store
}

type DatabaseConfig struct {
	Driver          string // "postgres", "sqlite" or "memory"
	Connection      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type APIKeys struct {
	OpenAI    string
	JWTSecret string
}

type AIConfig struct {
	LLMProvider    string // "openai" or "ollama"
	LLMModel       string
	OpenAIBaseURL  string
	OllamaBaseURL  string
	RequestTimeout time.Duration
}

// TraceConfig drives OTLP export. Tracing is off unless OTEL_ENABLED=true.
type TraceConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	SampleRatio float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	requestTimeout := getEnvAsDuration("LLM_REQUEST_TIMEOUT", 60*time.Second)

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			LogLevel:           getEnv("LOG_LEVEL", "info"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			AccountLockTTL:     getEnvAsDuration("ACCOUNT_LOCK_TTL", lockTTLFor(requestTimeout)),
			AccountLockWait:    getEnvAsDuration("ACCOUNT_LOCK_WAIT", 30*time.Second),
			EventTopic:         getEnv("ACTIVITY_EVENT_TOPIC", "ACTIVITY_LOGGED"),
			DemoUsers:          getEnvAsList("DEMO_USERS", "demo"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("STORAGE_DRIVER", "postgres"),
			Connection:      getEnv("DB_CONNECTION_STRING", ""),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Keys: APIKeys{
			OpenAI:    getEnv("OPENAI_API_KEY", ""),
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Ai: AIConfig{
			LLMProvider:    getEnv("LLM_PROVIDER", "openai"),
			LLMModel:       getEnv("LLM_MODEL", "gpt-4.1-mini"),
			OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			RequestTimeout: requestTimeout,
		},
		Trace: TraceConfig{
			Enabled:     getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "gymbro-backend"),
			SampleRatio: getEnvAsFloat("OTEL_SAMPLE_RATIO", 1),
		},
	}
}

// DatabaseOptions is nil for the in-memory store.
func (c *Config) DatabaseOptions() *database.Options {
	if c.Database.Driver == "memory" {
		return nil
	}
	return &database.Options{
		Driver:          c.Database.Driver,
		DSN:             c.Database.Connection,
		Verbose:         !c.IsProduction(),
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("45s") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil && d > 0 {
		return d
	}
	if secs := getEnvAsInt(key, 0); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// getEnvAsFloat clamps to [0, 1]; it only reads ratios.
func getEnvAsFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return min(max(v, 0), 1)
}

func getEnvAsList(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, fallback), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// lockTTLFor covers the slowest turn (extraction, confirmation and
// acknowledgement in sequence) with room to spare.
func lockTTLFor(requestTimeout time.Duration) time.Duration {
	return max(2*time.Minute, 4*requestTimeout)
}
