// Package config loads the bot configuration: required secrets from the
// environment, middleware tunables from an optional bwaincell.yaml plus
// BWAIN_-prefixed environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/lukadfagundes/bwaincell/internal/middleware"
)

const tunablesFile = "bwaincell.yaml"

type Config struct {
	DatabaseURL  string
	DiscordToken string
	DiscordGuild string
	HTTPAddr     string // health listener, default :8080

	Tunables Tunables
}

// Tunables is the read-only middleware configuration surface.
type Tunables struct {
	Validation ValidationSettings `koanf:"validation"`
	RateLimit  RateLimitSettings  `koanf:"rate_limit"`
	Logging    LoggingSettings    `koanf:"logging"`
	Error      ErrorSettings      `koanf:"error"`
}

type ValidationSettings struct {
	MaxLength         int  `koanf:"max_length"`
	AllowEmptyStrings bool `koanf:"allow_empty_strings"`
	SanitizeHTML      bool `koanf:"sanitize_html"`
}

type RateLimitSettings struct {
	PerUser        int                      `koanf:"per_user"`
	PerGuild       int                      `koanf:"per_guild"`
	WindowMs       int                      `koanf:"window_ms"`
	SkipSuccessful bool                     `koanf:"skip_successful"`
	CustomLimits   map[string]LimitSettings `koanf:"custom_limits"`
	Categories     map[string]string        `koanf:"categories"`
}

type LimitSettings struct {
	MaxRequests int `koanf:"max_requests"`
	WindowMs    int `koanf:"window_ms"`
}

type LoggingSettings struct {
	SlowInteractionThresholdMs int `koanf:"slow_interaction_threshold_ms"`
}

type ErrorSettings struct {
	// RetryAttempts is reserved; the error middleware is single-shot.
	RetryAttempts int `koanf:"retry_attempts"`
}

func Load() (Config, error) {
	get := func(k string, req bool) (string, error) {
		v := os.Getenv(k)
		if v == "" && req {
			return "", fmt.Errorf("missing env %s", k)
		}
		return v, nil
	}

	cfg := Config{}
	var err error
	if cfg.DatabaseURL, err = get("DATABASE_URL", true); err != nil {
		return Config{}, err
	}
	if cfg.DiscordToken, err = get("DISCORD_BOT_TOKEN", true); err != nil {
		return Config{}, err
	}
	if cfg.DiscordGuild, err = get("DISCORD_GUILD_ID", true); err != nil {
		return Config{}, err
	}
	cfg.HTTPAddr, _ = get("HTTP_ADDR", false)
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.Tunables, err = loadTunables()
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadTunables() (Tunables, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(tunablesFile), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			return Tunables{}, fmt.Errorf("load %s: %w", tunablesFile, err)
		}
	}

	// BWAIN_RATE_LIMIT__PER_USER=5 → rate_limit.per_user
	if err := k.Load(env.Provider("BWAIN_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "BWAIN_")), "__", ".", -1)
	}), nil); err != nil {
		return Tunables{}, err
	}

	t := DefaultTunables()
	if err := k.Unmarshal("", &t); err != nil {
		return Tunables{}, fmt.Errorf("unmarshal tunables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tunables{}, err
	}
	return t, nil
}

func DefaultTunables() Tunables {
	return Tunables{
		Validation: ValidationSettings{
			MaxLength:         200,
			AllowEmptyStrings: true,
			SanitizeHTML:      true,
		},
		RateLimit: RateLimitSettings{
			PerUser:  10,
			PerGuild: 60,
			WindowMs: 60_000,
			CustomLimits: map[string]LimitSettings{
				"create": {MaxRequests: 5, WindowMs: 60_000},
			},
			Categories: map[string]string{
				"task":     "create",
				"remind":   "create",
				"schedule": "create",
			},
		},
		Logging: LoggingSettings{SlowInteractionThresholdMs: 2500},
		Error:   ErrorSettings{RetryAttempts: 1},
	}
}

// Validate fails fast on non-positive thresholds so a bad deploy dies at
// startup instead of mid-interaction.
func (t Tunables) Validate() error {
	if t.Validation.MaxLength <= 0 {
		return fmt.Errorf("validation.max_length must be > 0, got %d", t.Validation.MaxLength)
	}
	if t.RateLimit.PerUser <= 0 {
		return fmt.Errorf("rate_limit.per_user must be > 0, got %d", t.RateLimit.PerUser)
	}
	if t.RateLimit.PerGuild <= 0 {
		return fmt.Errorf("rate_limit.per_guild must be > 0, got %d", t.RateLimit.PerGuild)
	}
	if t.RateLimit.WindowMs <= 0 {
		return fmt.Errorf("rate_limit.window_ms must be > 0, got %d", t.RateLimit.WindowMs)
	}
	for cat, l := range t.RateLimit.CustomLimits {
		if l.MaxRequests <= 0 {
			return fmt.Errorf("rate_limit.custom_limits.%s.max_requests must be > 0, got %d", cat, l.MaxRequests)
		}
		if l.WindowMs <= 0 {
			return fmt.Errorf("rate_limit.custom_limits.%s.window_ms must be > 0, got %d", cat, l.WindowMs)
		}
	}
	if t.Logging.SlowInteractionThresholdMs <= 0 {
		return fmt.Errorf("logging.slow_interaction_threshold_ms must be > 0, got %d", t.Logging.SlowInteractionThresholdMs)
	}
	if t.Error.RetryAttempts <= 0 {
		return fmt.Errorf("error.retry_attempts must be > 0, got %d", t.Error.RetryAttempts)
	}
	return nil
}

func (t Tunables) ValidationConfig() middleware.ValidationConfig {
	return middleware.ValidationConfig{
		MaxLength:         t.Validation.MaxLength,
		AllowEmptyStrings: t.Validation.AllowEmptyStrings,
		SanitizeHTML:      t.Validation.SanitizeHTML,
	}
}

func (t Tunables) RateLimitConfig() middleware.RateLimitConfig {
	custom := make(map[string]middleware.Limit, len(t.RateLimit.CustomLimits))
	for cat, l := range t.RateLimit.CustomLimits {
		custom[cat] = middleware.Limit{
			MaxRequests: l.MaxRequests,
			Window:      time.Duration(l.WindowMs) * time.Millisecond,
		}
	}
	return middleware.RateLimitConfig{
		PerUser:        t.RateLimit.PerUser,
		PerGuild:       t.RateLimit.PerGuild,
		Window:         time.Duration(t.RateLimit.WindowMs) * time.Millisecond,
		SkipSuccessful: t.RateLimit.SkipSuccessful,
		CustomLimits:   custom,
		Categories:     t.RateLimit.Categories,
	}
}

func (t Tunables) SlowInteractionThreshold() time.Duration {
	return time.Duration(t.Logging.SlowInteractionThresholdMs) * time.Millisecond
}
