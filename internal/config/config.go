package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env             string        `mapstructure:"ENV"`
	Port            string        `mapstructure:"PORT"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	AdminKey        string        `mapstructure:"ADMIN_KEY"`
	SentimentURL    string        `mapstructure:"SENTIMENT_URL"`
	SentimentScorer string        `mapstructure:"SENTIMENT_SCORER"`
	EmailsCSV       string        `mapstructure:"EMAILS_CSV"`
	ReferenceTime   string        `mapstructure:"REFERENCE_TIME"`
	CORSAllowed     string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	MaxUploadSizeMB int64         `mapstructure:"MAX_UPLOAD_MB"`
}

var keys = []string{
	"ENV", "PORT", "DATABASE_URL", "ADMIN_KEY", "SENTIMENT_URL", "SENTIMENT_SCORER", "EMAILS_CSV",
	"REFERENCE_TIME", "CORS_ALLOWED_ORIGINS", "REQUEST_TIMEOUT", "LOG_LEVEL", "MAX_UPLOAD_MB",
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_UPLOAD_MB", 20)
	// Unmarshal only sees env-only keys that viper knows about.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Reference(); err != nil {
		return Config{}, err
	}
	cfg.SentimentScorer = strings.ToLower(strings.TrimSpace(cfg.SentimentScorer))
	switch cfg.SentimentScorer {
	case "", "lexicon", "mock", "http":
	default:
		return Config{}, fmt.Errorf("SENTIMENT_SCORER must be lexicon, mock or http, got %q", cfg.SentimentScorer)
	}
	return cfg, nil
}

// Reference parses REFERENCE_TIME. The zero time means scoring uses the
// wall clock.
func (c Config) Reference() (time.Time, error) {
	s := strings.TrimSpace(c.ReferenceTime)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("REFERENCE_TIME must be RFC3339: %w", err)
	}
	return t.UTC(), nil
}

func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowed, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
