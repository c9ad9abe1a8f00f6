package middleware

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

const (
	guildOnlyMessage        = "This command can only be used in a server."
	invalidInputMessage     = "Invalid input detected. Please remove special characters or SQL-like patterns and try again."
	invalidDateMessage      = "Invalid input detected. Dates must look like YYYY-MM-DD or YYYY-MM-DD HH:MM."
	defaultMaxInputLength   = 200
	validationFieldsMetaKey = "validation.fields"
)

// monitoredModalFields are the modal text inputs the bot defines. Fields a
// modal doesn't carry come back as empty strings and are skipped.
var monitoredModalFields = []string{"task_description", "task_due_date", "list_item"}

// injectionPattern is one named heuristic. Kept as data, not inline
// conditionals, so tests can enumerate the table. These are best-effort
// defense in depth; the repositories' parameterized queries are the real
// protection.
type injectionPattern struct {
	name string
	re   *regexp.Regexp
}

var sqlPatterns = []injectionPattern{
	{"sql-statement", regexp.MustCompile(`(?i)\b(select|insert|update|delete|drop|alter|create|truncate|union)\b[\s\w*.,'"=()]*\b(from|into|table|database|values|where|set|select)\b`)},
	{"sql-terminator", regexp.MustCompile(`(?i);\s*(select|insert|update|delete|drop|alter|create|truncate)\b`)},
	{"sql-comment", regexp.MustCompile(`(--|/\*)[^\n]*\b(select|drop|delete|insert|update)\b`)},
}

var htmlPatterns = []injectionPattern{
	{"script-tag", regexp.MustCompile(`(?i)<\s*/?\s*script\b`)},
	{"event-handler", regexp.MustCompile(`(?i)<[^>]*\bon[a-z]+\s*=`)},
	{"js-uri", regexp.MustCompile(`(?i)javascript\s*:`)},
}

// dateShape is the strict accepted format: YYYY-MM-DD with an optional
// HH:MM. Looser strings that a lenient date parser would accept
// ("tomorrow", RFC3339, slashes) are rejected.
var dateShape = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})( (\d{2}:\d{2}))?$`)

// ValidationConfig carries the validation tunables from the config layer.
type ValidationConfig struct {
	// MaxLength bounds every inspected string; overflow rejects, never
	// truncates.
	MaxLength int
	// AllowEmptyStrings is consumed by the modal handlers (required-field
	// behavior); validation itself always passes empty values through.
	AllowEmptyStrings bool
	// SanitizeHTML enables the script/HTML heuristics. The middleware
	// rejects rather than rewrites; the name is the config surface's.
	SanitizeHTML bool
}

func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		MaxLength:         defaultMaxInputLength,
		AllowEmptyStrings: true,
		SanitizeHTML:      true,
	}
}

// ValidationMiddleware rejects unsafe or malformed text before any
// business logic sees it. It is a pure function of the current input plus
// acknowledgment state: no counters, so retries decide identically.
type ValidationMiddleware struct {
	cfg ValidationConfig
	log *slog.Logger
}

func NewValidationMiddleware(cfg ValidationConfig, log *slog.Logger) *ValidationMiddleware {
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = defaultMaxInputLength
	}
	if log == nil {
		log = slog.Default()
	}
	return &ValidationMiddleware{cfg: cfg, log: log}
}

func (m *ValidationMiddleware) Name() string { return "validation" }

func (m *ValidationMiddleware) Execute(ctx context.Context, c *InteractionContext, next Handler) error {
	// Guild-only gate. Slash commands run their own per-command guild
	// check downstream, so only non-command interactions terminate here.
	if c.GuildID == "" && c.Interaction.Kind() != KindChatInput {
		if c.Interaction.Deferred() || c.Interaction.Replied() {
			// The platform already committed to a response path;
			// don't race it, just stop the chain.
			return nil
		}
		if err := c.Interaction.Reply(Response{Content: guildOnlyMessage, Ephemeral: true}); err != nil {
			m.log.Error("failed to deliver guild-only notice",
				slog.String("user_id", c.UserID),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}

	fields := m.extract(c.Interaction)
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if verr := m.check(f); verr != nil {
			m.logFailure(c, verr)
			if err := c.respond(Response{Content: verr.UserMessage, Ephemeral: true}); err != nil {
				m.log.Error("failed to deliver validation response",
					slog.String("user_id", c.UserID),
					slog.String("error", err.Error()),
				)
			}
			// Recovered locally: the chain stops without escalating.
			return nil
		}
	}

	c.Metadata[validationFieldsMetaKey] = len(fields)
	return next(ctx, c)
}

type inputField struct {
	name  string
	value string
}

// extract pulls the strings to inspect based on interaction shape.
// Validation never rewrites values; it only accepts or rejects.
func (m *ValidationMiddleware) extract(in Interaction) []inputField {
	switch in.Kind() {
	case KindModalSubmit:
		out := make([]inputField, 0, len(monitoredModalFields))
		for _, id := range monitoredModalFields {
			out = append(out, inputField{name: id, value: in.TextInput(id)})
		}
		return out
	case KindChatInput:
		opts := in.StringOptions()
		out := make([]inputField, 0, len(opts))
		for name, v := range opts {
			out = append(out, inputField{name: name, value: v})
		}
		return out
	default:
		return nil
	}
}

// check applies the pattern table to one non-empty value. The returned
// error carries only the field and pattern names; the raw input is never
// echoed back.
func (m *ValidationMiddleware) check(f inputField) *ValidationError {
	if len(f.value) > m.cfg.MaxLength {
		return &ValidationError{Field: f.name, Pattern: "max-length", UserMessage: invalidInputMessage}
	}
	for _, p := range sqlPatterns {
		if p.re.MatchString(f.value) {
			return &ValidationError{Field: f.name, Pattern: p.name, UserMessage: invalidInputMessage}
		}
	}
	if m.cfg.SanitizeHTML {
		for _, p := range htmlPatterns {
			if p.re.MatchString(f.value) {
				return &ValidationError{Field: f.name, Pattern: p.name, UserMessage: invalidInputMessage}
			}
		}
	}
	if isDateField(f.name) {
		if verr := checkDate(f); verr != nil {
			return verr
		}
	}
	return nil
}

func isDateField(name string) bool {
	return strings.Contains(name, "date") || strings.Contains(name, "due")
}

// checkDate is format-strict: the shape must match exactly and the parts
// must form a real calendar date (2026-13-40 matches the shape but not a
// calendar).
func checkDate(f inputField) *ValidationError {
	m := dateShape.FindStringSubmatch(f.value)
	if m == nil {
		return &ValidationError{Field: f.name, Pattern: "date-format", UserMessage: invalidDateMessage}
	}
	if _, err := time.Parse("2006-01-02", m[1]); err != nil {
		return &ValidationError{Field: f.name, Pattern: "date-format", UserMessage: invalidDateMessage}
	}
	if m[3] != "" {
		if _, err := time.Parse("15:04", m[3]); err != nil {
			return &ValidationError{Field: f.name, Pattern: "date-format", UserMessage: invalidDateMessage}
		}
	}
	return nil
}

func (m *ValidationMiddleware) logFailure(c *InteractionContext, verr *ValidationError) {
	m.log.Warn("Validation error",
		slog.String("request_id", c.RequestID),
		slog.String("user_id", c.UserID),
		slog.String("guild_id", c.GuildID),
		slog.String("command", c.Interaction.CommandName()),
		slog.String("field", verr.Field),
		slog.String("pattern", verr.Pattern),
	)
}
