package middleware

import (
	"time"

	"github.com/google/uuid"
)

// InteractionKind is the shape of the inbound event, resolved once by the
// platform adapter so no middleware needs to re-inspect the raw payload.
type InteractionKind int

const (
	KindOther InteractionKind = iota
	KindChatInput
	KindModalSubmit
)

func (k InteractionKind) String() string {
	switch k {
	case KindChatInput:
		return "chat_input"
	case KindModalSubmit:
		return "modal_submit"
	default:
		return "other"
	}
}

// Response is the minimal outbound payload the pipeline produces. Richer
// payloads (embeds, components) never originate in middleware; command
// handlers send those through the adapter directly.
type Response struct {
	Content   string
	Ephemeral bool
}

// Interaction is the capability surface the pipeline requires from the
// platform event. internal/adapters/discord implements it over discordgo;
// tests implement it with fakes.
//
// Acknowledgment state (Deferred/Replied) is owned by the adapter: it may
// already be set before the pipeline runs (the router defers long commands
// up front) and it changes when any middleware or the terminal handler
// responds. At most one of Reply/EditReply/FollowUp may be the first
// response-producing call; everything after must go through EditReply or
// FollowUp depending on that state.
type Interaction interface {
	Kind() InteractionKind
	CommandName() string

	Deferred() bool
	Replied() bool
	Reply(p Response) error
	EditReply(p Response) error
	FollowUp(p Response) error

	// TextInput returns the value of a modal text field, "" when absent.
	TextInput(id string) string
	// StringOption returns a slash-command string option; ok is false when
	// the option was not provided (not a validation failure).
	StringOption(name string) (value string, ok bool)
	// StringOptions returns every string-typed option present, keyed by name.
	StringOptions() map[string]string
}

// InteractionContext is the per-request envelope carried through the
// pipeline. One is created per inbound interaction and never shared
// across requests; the rate-limit window store is the only cross-request
// state in the core.
//
// Metadata keys are middleware-namespaced ("validation.*", "ratelimit.*")
// so independent middleware cannot collide. Current writers:
//   - ValidationMiddleware: "validation.fields" (int, values inspected)
//   - RateLimitMiddleware:  "ratelimit.remaining" (int), "ratelimit.category" (string)
type InteractionContext struct {
	Interaction Interaction
	RequestID   string
	StartTime   time.Time
	UserID      string
	GuildID     string // empty outside a guild
	Metadata    map[string]any
}

func NewInteractionContext(in Interaction, userID, guildID string) *InteractionContext {
	return &InteractionContext{
		Interaction: in,
		RequestID:   uuid.NewString(),
		StartTime:   time.Now(),
		UserID:      userID,
		GuildID:     guildID,
		Metadata:    map[string]any{},
	}
}

// respond sends p with whichever verb is still legal for the interaction:
// a follow-up once it has been acknowledged, a plain reply otherwise.
func (c *InteractionContext) respond(p Response) error {
	if c.Interaction.Deferred() || c.Interaction.Replied() {
		return c.Interaction.FollowUp(p)
	}
	return c.Interaction.Reply(p)
}
