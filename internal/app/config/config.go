package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"quotations/go_backend/internal/core"
	pkgredis "quotations/go_backend/pkg/redis"
)

type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	AppEnv          string        `envconfig:"APP_ENV" default:"development"`
	DatabaseURL     string        `envconfig:"DATABASE_URL" required:"true"`
	DBMaxConns      int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	DBMinConns      int32         `envconfig:"DB_MIN_CONNS" default:"2"`
	JWTSecret       string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL          time.Duration `envconfig:"JWT_TTL" default:"72h"`
	CORSAllowOrigin string        `envconfig:"CORS_ALLOW_ORIGIN" default:"*"`
	ConfigCacheTTL  time.Duration `envconfig:"CONFIG_CACHE_TTL" default:"10m"`

	Redis pkgredis.Config

	StorageDir    string `envconfig:"STORAGE_DIR" default:"uploads"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`

	SupabaseURL            string `envconfig:"SUPABASE_URL"`
	SupabaseServiceRoleKey string `envconfig:"SUPABASE_SERVICE_ROLE_KEY"`
	SupabaseBucket         string `envconfig:"SUPABASE_BUCKET" default:"branding"`

	KafkaBrokers  []string `envconfig:"KAFKA_BROKERS"`
	KafkaClientID string   `envconfig:"KAFKA_CLIENT_ID" default:"quotations"`

	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `envconfig:"TELEGRAM_CHAT_ID"`
	TelegramBaseURL  string `envconfig:"TELEGRAM_BASE_URL" default:"https://api.telegram.org"`
}

// Load reads .env (if present) and the process environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// missing .env is fine outside local runs
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if len(strings.TrimSpace(cfg.JWTSecret)) < 16 && cfg.Environment().IsProduction() {
		return Config{}, fmt.Errorf("config: JWT_SECRET must be at least 16 characters in production")
	}
	return cfg, nil
}

func (c Config) Environment() core.Environment {
	return core.ParseEnvironment(c.AppEnv)
}

// SupabaseEnabled reports whether logos go to Supabase Storage instead of disk.
func (c Config) SupabaseEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceRoleKey != ""
}

func (c Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}
