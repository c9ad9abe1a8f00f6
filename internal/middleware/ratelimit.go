package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultCategory         = "command"
	rateRemainingMetaKey    = "ratelimit.remaining"
	rateCategoryMetaKey     = "ratelimit.category"
	defaultRateLimitWindow  = time.Minute
	defaultPerUserRequests  = 10
	defaultPerGuildRequests = 60
)

// Limit is one {maxRequests, window} pair.
type Limit struct {
	MaxRequests int
	Window      time.Duration
}

// RateLimitConfig carries the rate-limit tunables from the config layer.
type RateLimitConfig struct {
	PerUser  int
	PerGuild int
	Window   time.Duration
	// SkipSuccessful counts only requests whose downstream outcome is a
	// failure; successes are forgiven after the fact.
	SkipSuccessful bool
	// CustomLimits overrides the default per-user limit for a category.
	CustomLimits map[string]Limit
	// Categories maps command names to categories; unmapped commands
	// fall back to the generic "command" category.
	Categories map[string]string
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		PerUser:  defaultPerUserRequests,
		PerGuild: defaultPerGuildRequests,
		Window:   defaultRateLimitWindow,
	}
}

// window is one fixed-window bucket. A window resets entirely once
// now-start >= its span; bursts straddling a boundary can reach 2x the
// nominal rate, which is accepted behavior of the fixed-window tradeoff.
type window struct {
	count int
	start time.Time
}

type bucketCheck struct {
	key   string
	limit Limit
}

// windowStore is the only cross-request mutable state in the core. One
// mutex covers the whole multi-key check-then-count so two concurrent
// interactions from the same user can never undercount.
type windowStore struct {
	mu      sync.Mutex
	buckets map[string]*window
	now     func() time.Time
}

func newWindowStore(now func() time.Time) *windowStore {
	if now == nil {
		now = time.Now
	}
	return &windowStore{buckets: map[string]*window{}, now: now}
}

// take checks every key against its limit and, only if all pass, counts
// the request on all of them. On rejection it returns the offending key
// and the time until that window resets.
func (s *windowStore) take(checks []bucketCheck) (rejected *bucketCheck, retryAfter time.Duration, remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for i := range checks {
		c := &checks[i]
		w, ok := s.buckets[c.key]
		if ok && now.Sub(w.start) >= c.limit.Window {
			// expired window: restart lazily
			delete(s.buckets, c.key)
			ok = false
		}
		if ok && w.count >= c.limit.MaxRequests {
			return c, w.start.Add(c.limit.Window).Sub(now), 0
		}
	}

	remaining = int(^uint(0) >> 1)
	for i := range checks {
		c := &checks[i]
		w, ok := s.buckets[c.key]
		if !ok {
			w = &window{start: now}
			s.buckets[c.key] = w
		}
		w.count++
		if left := c.limit.MaxRequests - w.count; left < remaining {
			remaining = left
		}
	}
	return nil, 0, remaining
}

// forgive undoes one count on each key (skipSuccessful mode).
func (s *windowStore) forgive(checks []bucketCheck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range checks {
		if w, ok := s.buckets[checks[i].key]; ok && w.count > 0 {
			w.count--
		}
	}
}

func (s *windowStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// RateLimitMiddleware bounds request rate per user and per guild within
// fixed windows, with per-category overrides for the user limit.
type RateLimitMiddleware struct {
	cfg   RateLimitConfig
	store *windowStore
	log   *slog.Logger
}

func NewRateLimitMiddleware(cfg RateLimitConfig, log *slog.Logger) *RateLimitMiddleware {
	return newRateLimitMiddleware(cfg, log, time.Now)
}

// newRateLimitMiddleware takes the clock so tests can advance time.
func newRateLimitMiddleware(cfg RateLimitConfig, log *slog.Logger, now func() time.Time) *RateLimitMiddleware {
	if cfg.PerUser <= 0 {
		cfg.PerUser = defaultPerUserRequests
	}
	if cfg.PerGuild <= 0 {
		cfg.PerGuild = defaultPerGuildRequests
	}
	if cfg.Window <= 0 {
		cfg.Window = defaultRateLimitWindow
	}
	if log == nil {
		log = slog.Default()
	}
	return &RateLimitMiddleware{cfg: cfg, store: newWindowStore(now), log: log}
}

func (m *RateLimitMiddleware) Name() string { return "ratelimit" }

func (m *RateLimitMiddleware) Execute(ctx context.Context, c *InteractionContext, next Handler) error {
	category := m.category(c.Interaction.CommandName())
	userLimit := Limit{MaxRequests: m.cfg.PerUser, Window: m.cfg.Window}
	if custom, ok := m.cfg.CustomLimits[category]; ok {
		userLimit = custom
	}

	checks := []bucketCheck{
		{key: fmt.Sprintf("user:%s:%s", c.UserID, category), limit: userLimit},
	}
	if c.GuildID != "" {
		checks = append(checks, bucketCheck{
			key:   fmt.Sprintf("guild:%s:%s", c.GuildID, category),
			limit: Limit{MaxRequests: m.cfg.PerGuild, Window: userLimit.Window},
		})
	}

	rejected, retryAfter, remaining := m.store.take(checks)
	if rejected != nil {
		rle := &RateLimitError{
			Key:        rejected.key,
			Category:   category,
			Limit:      rejected.limit.MaxRequests,
			RetryAfter: retryAfter,
		}
		m.log.Warn("Rate limit exceeded",
			slog.String("request_id", c.RequestID),
			slog.String("user_id", c.UserID),
			slog.String("guild_id", c.GuildID),
			slog.String("category", category),
			slog.String("key", rejected.key),
			slog.Duration("retry_after", retryAfter),
		)
		if err := c.respond(Response{Content: rle.userMessage(), Ephemeral: true}); err != nil {
			m.log.Error("failed to deliver rate limit response",
				slog.String("user_id", c.UserID),
				slog.String("error", err.Error()),
			)
		}
		// Recovered locally, like validation failures.
		return nil
	}

	c.Metadata[rateCategoryMetaKey] = category
	c.Metadata[rateRemainingMetaKey] = remaining

	err := next(ctx, c)
	if err == nil && m.cfg.SkipSuccessful {
		m.store.forgive(checks)
	}
	return err
}

func (m *RateLimitMiddleware) category(command string) string {
	if cat, ok := m.cfg.Categories[command]; ok {
		return cat
	}
	return defaultCategory
}
