package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr string

	// Gemini credentials. GOOGLE_API_KEY wins over GEMINI_API_KEY.
	GoogleAPIKey string

	// Postgres connection string for the document store.
	DatabaseURL string

	// Model routing.
	TextModel string
	TTSModel  string
	TTSVoice  string
	LiveModel string
	LiveVoice string

	MaxBodyBytes int64

	// CORS. Empty allowlist means any origin is allowed, which matches the
	// default deployment where the dashboard is served from another host.
	CORSAllowedOrigins map[string]struct{}

	// Operational defaults
	ReadHeaderTimeout   time.Duration
	ReadTimeout         time.Duration
	HandlerTimeout      time.Duration
	FetchTimeout        time.Duration
	ShutdownGracePeriod time.Duration
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:                envOr("VERITAS_ADDR", ":8000"),
		GoogleAPIKey:        envOr("GOOGLE_API_KEY", envOr("GEMINI_API_KEY", "")),
		DatabaseURL:         envOr("DATABASE_URL", ""),
		TextModel:           envOr("VERITAS_TEXT_MODEL", "gemini-2.5-flash"),
		TTSModel:            envOr("VERITAS_TTS_MODEL", "gemini-2.5-flash-preview-tts"),
		TTSVoice:            envOr("VERITAS_TTS_VOICE", "Kore"),
		LiveModel:           envOr("VERITAS_LIVE_MODEL", "gemini-2.5-flash-native-audio-preview-09-2025"),
		LiveVoice:           envOr("VERITAS_LIVE_VOICE", "Puck"),
		MaxBodyBytes:        envInt64Or("VERITAS_MAX_BODY_BYTES", 8<<20), // 8 MiB, audio uploads included
		CORSAllowedOrigins:  make(map[string]struct{}),
		ReadHeaderTimeout:   envDurationOr("VERITAS_READ_HEADER_TIMEOUT", 10*time.Second),
		ReadTimeout:         envDurationOr("VERITAS_READ_TIMEOUT", 30*time.Second),
		HandlerTimeout:      envDurationOr("VERITAS_TOTAL_REQUEST_TIMEOUT", 2*time.Minute),
		FetchTimeout:        envDurationOr("VERITAS_FETCH_TIMEOUT", 10*time.Minute),
		ShutdownGracePeriod: envDurationOr("VERITAS_SHUTDOWN_GRACE_PERIOD", 30*time.Second),
	}

	for _, origin := range splitCSV(os.Getenv("VERITAS_CORS_ORIGINS")) {
		cfg.CORSAllowedOrigins[origin] = struct{}{}
	}

	if cfg.GoogleAPIKey == "" {
		return Config{}, fmt.Errorf("GOOGLE_API_KEY (or GEMINI_API_KEY) must be set")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set")
	}
	if cfg.TextModel == "" {
		return Config{}, fmt.Errorf("VERITAS_TEXT_MODEL must not be empty")
	}
	if cfg.TTSModel == "" {
		return Config{}, fmt.Errorf("VERITAS_TTS_MODEL must not be empty")
	}
	if cfg.TTSVoice == "" {
		return Config{}, fmt.Errorf("VERITAS_TTS_VOICE must not be empty")
	}
	if cfg.LiveModel == "" {
		return Config{}, fmt.Errorf("VERITAS_LIVE_MODEL must not be empty")
	}
	if cfg.LiveVoice == "" {
		return Config{}, fmt.Errorf("VERITAS_LIVE_VOICE must not be empty")
	}
	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("VERITAS_MAX_BODY_BYTES must be > 0")
	}
	if cfg.ReadHeaderTimeout <= 0 {
		return Config{}, fmt.Errorf("VERITAS_READ_HEADER_TIMEOUT must be > 0")
	}
	if cfg.ReadTimeout <= 0 {
		return Config{}, fmt.Errorf("VERITAS_READ_TIMEOUT must be > 0")
	}
	if cfg.HandlerTimeout <= 0 {
		return Config{}, fmt.Errorf("VERITAS_TOTAL_REQUEST_TIMEOUT must be > 0")
	}
	if cfg.FetchTimeout <= 0 {
		return Config{}, fmt.Errorf("VERITAS_FETCH_TIMEOUT must be > 0")
	}
	if cfg.ShutdownGracePeriod <= 0 {
		return Config{}, fmt.Errorf("VERITAS_SHUTDOWN_GRACE_PERIOD must be > 0")
	}

	return cfg, nil
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt64Or(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envDurationOr(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

func splitCSV(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
