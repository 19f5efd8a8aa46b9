// Package config loads server configuration from the environment and carries
// the embedded output-format table.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full server configuration. Everything has a working default
// so a bare `clipchat serve` starts on a dev machine; production deployments
// override through the environment or a .env file.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// TempRoot is where job workspaces are created. Empty means the system
	// temp directory.
	TempRoot string

	// FFmpegBinary overrides the engine executable on PATH.
	FFmpegBinary string

	// MaxInputBytes caps each uploaded file.
	MaxInputBytes int64

	// JobTimeout bounds one engine run.
	JobTimeout time.Duration

	// CohereAPIKey enables the chat endpoint. Empty disables it.
	CohereAPIKey string

	// RedisAddr enables sessions and rate limiting. Empty disables both.
	RedisAddr     string
	RedisPassword string

	// Google OAuth credentials for the login flow.
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	SessionTTL         time.Duration

	// RateLimitPerMinute caps processing requests per client. Zero disables
	// limiting.
	RateLimitPerMinute int

	// KafkaBrokers and KafkaTopic enable job event publishing. Empty
	// brokers disable it.
	KafkaBrokers []string
	KafkaTopic   string

	// S3Bucket enables output archiving. Empty disables it.
	S3Bucket string
	S3Region string
	S3Prefix string

	// SweepSchedule is the cron expression for the stale-workspace sweep.
	// Empty disables it.
	SweepSchedule string
}

// Load reads configuration from the environment, after merging a .env file
// if one is present.
func Load() (*Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:               ":" + envOr("PORT", "8080"),
		TempRoot:           os.Getenv("CLIPCHAT_TEMP_ROOT"),
		FFmpegBinary:       os.Getenv("FFMPEG_BINARY"),
		MaxInputBytes:      DefaultMaxInputBytes,
		JobTimeout:         DefaultJobTimeout,
		CohereAPIKey:       os.Getenv("COHERE_API_KEY"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		SessionTTL:         DefaultSessionTTL,
		RateLimitPerMinute: DefaultRateLimitPerMinute,
		KafkaTopic:         envOr("KAFKA_JOB_TOPIC", "clipchat.jobs"),
		S3Bucket:           os.Getenv("S3_BUCKET"),
		S3Region:           os.Getenv("AWS_REGION"),
		S3Prefix:           envOr("S3_PREFIX", "outputs"),
		SweepSchedule:      envOr("SWEEP_SCHEDULE", "*/30 * * * *"),
	}

	if v := os.Getenv("MAX_INPUT_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MAX_INPUT_BYTES: invalid value %q", v)
		}
		cfg.MaxInputBytes = n
	}
	if v := os.Getenv("JOB_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("JOB_TIMEOUT: invalid value %q", v)
		}
		cfg.JobTimeout = d
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("SESSION_TTL: invalid value %q", v)
		}
		cfg.SessionTTL = d
	}
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE: invalid value %q", v)
		}
		cfg.RateLimitPerMinute = n
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	return cfg, nil
}

// AuthEnabled reports whether the Google login flow is fully configured.
func (c *Config) AuthEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.RedisAddr != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
