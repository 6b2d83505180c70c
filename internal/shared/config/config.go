package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration.
type Config struct {
	Port            string   `koanf:"port"`
	Env             string   `koanf:"env"`
	CORSAllowOrigin []string `koanf:"cors_allow_origins"`

	DatabaseURL string `koanf:"database_url"`

	ObjectStoreType string `koanf:"object_store"`
	LocalStoreDir   string `koanf:"local_store_dir"`
	AWSRegion       string `koanf:"aws_region"`
	S3Bucket        string `koanf:"s3_bucket"`
	S3Prefix        string `koanf:"s3_prefix"`
	SSEKMSKeyID     string `koanf:"sse_kms_key_id"`

	AMQPURL   string `koanf:"amqp_url"`
	AMQPQueue string `koanf:"amqp_queue"`

	LLMProvider   string `koanf:"llm_provider"`
	LLMModel      string `koanf:"llm_model"`
	PromptVersion string `koanf:"prompt_version"`

	WorkerConcurrency int           `koanf:"worker_concurrency"`
	PollInterval      time.Duration `koanf:"poll_interval"`
	StaleAfter        time.Duration `koanf:"stale_after"`
	MaxAttempts       int           `koanf:"max_attempts"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`

	GoogleClientID     string `koanf:"google_client_id"`
	GoogleClientSecret string `koanf:"google_client_secret"`
	GoogleRedirectURL  string `koanf:"google_redirect_url"`
	UIRedirectURL      string `koanf:"ui_redirect_url"`

	// DefaultTenantID is the tenant new sign-ins are attached to until an
	// admin moves them.
	DefaultTenantID string `koanf:"default_tenant_id"`
}

func defaults() Config {
	return Config{
		Port:              "8080",
		Env:               "dev",
		CORSAllowOrigin:   []string{"http://localhost:5173"},
		ObjectStoreType:   "local",
		LocalStoreDir:     "./data",
		AMQPQueue:         "screening.jobs",
		LLMProvider:       "none",
		PromptVersion:     "v1",
		WorkerConcurrency: 4,
		PollInterval:      2 * time.Second,
		StaleAfter:        20 * time.Minute,
		MaxAttempts:       3,
		ShutdownTimeout:   30 * time.Second,
	}
}

// Load reads configuration layered low to high: defaults, an optional YAML
// file named by CONFIG_FILE, then environment variables.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	_ = godotenv.Load(".env")
	_ = godotenv.Load("cmd/.env")

	k := koanf.New(".")

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			log.Printf("config: load %s: %v", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		log.Printf("config: load env: %v", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		log.Printf("config: unmarshal: %v", err)
	}

	cfg.Env = normalizeEnv(cfg.Env)
	cfg.ObjectStoreType = normalizeStoreType(cfg.ObjectStoreType)
	if cfg.Env == "production" && strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("DATABASE_URL is required in production")
	}
	return cfg
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

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
