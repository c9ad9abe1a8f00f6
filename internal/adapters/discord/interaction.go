package discord

import (
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/lukadfagundes/bwaincell/internal/middleware"
)

// interactionCtx adapts one discordgo interaction to the capability
// surface the pipeline needs. It owns the acknowledgment state: Discord
// doesn't report deferred/replied back, so the adapter tracks which verb
// has been used and the middleware branch on that.
type interactionCtx struct {
	s  *discordgo.Session
	ic *discordgo.InteractionCreate

	mu       sync.Mutex
	deferred bool
	replied  bool
}

func newInteractionCtx(s *discordgo.Session, ic *discordgo.InteractionCreate) *interactionCtx {
	return &interactionCtx{s: s, ic: ic}
}

func (x *interactionCtx) Kind() middleware.InteractionKind {
	switch x.ic.Type {
	case discordgo.InteractionApplicationCommand:
		return middleware.KindChatInput
	case discordgo.InteractionModalSubmit:
		return middleware.KindModalSubmit
	default:
		return middleware.KindOther
	}
}

func (x *interactionCtx) CommandName() string {
	switch x.ic.Type {
	case discordgo.InteractionApplicationCommand:
		return x.ic.ApplicationCommandData().Name
	case discordgo.InteractionModalSubmit:
		return x.ic.ModalSubmitData().CustomID
	default:
		return ""
	}
}

func (x *interactionCtx) Deferred() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.deferred
}

func (x *interactionCtx) Replied() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.replied
}

// Defer acknowledges the interaction ephemerally; required before any
// handler work that can exceed Discord's initial response window.
func (x *interactionCtx) Defer() error {
	err := x.s.InteractionRespond(x.ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		return err
	}
	x.mu.Lock()
	x.deferred = true
	x.mu.Unlock()
	return nil
}

func (x *interactionCtx) Reply(p middleware.Response) error {
	data := &discordgo.InteractionResponseData{Content: p.Content}
	if p.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := x.s.InteractionRespond(x.ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		return err
	}
	x.mu.Lock()
	x.replied = true
	x.mu.Unlock()
	return nil
}

func (x *interactionCtx) EditReply(p middleware.Response) error {
	_, err := x.s.InteractionResponseEdit(x.ic.Interaction, &discordgo.WebhookEdit{
		Content: &p.Content,
	})
	return err
}

func (x *interactionCtx) FollowUp(p middleware.Response) error {
	params := &discordgo.WebhookParams{Content: p.Content}
	if p.Ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	_, err := x.s.FollowupMessageCreate(x.ic.Interaction, true, params)
	return err
}

// TextInput walks the modal component tree for a text input value.
func (x *interactionCtx) TextInput(id string) string {
	if x.ic.Type != discordgo.InteractionModalSubmit {
		return ""
	}
	for _, row := range x.ic.ModalSubmitData().Components {
		ar, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range ar.Components {
			if ti, ok := comp.(*discordgo.TextInput); ok && ti.CustomID == id {
				return ti.Value
			}
		}
	}
	return ""
}

func (x *interactionCtx) StringOption(name string) (string, bool) {
	if x.ic.Type != discordgo.InteractionApplicationCommand {
		return "", false
	}
	for _, o := range x.ic.ApplicationCommandData().Options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionString {
			return o.StringValue(), true
		}
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			for _, so := range o.Options {
				if so.Name == name && so.Type == discordgo.ApplicationCommandOptionString {
					return so.StringValue(), true
				}
			}
		}
	}
	return "", false
}

// StringOptions collects every string-typed option present, including
// under a subcommand, keyed by option name.
func (x *interactionCtx) StringOptions() map[string]string {
	out := map[string]string{}
	if x.ic.Type != discordgo.InteractionApplicationCommand {
		return out
	}
	for _, o := range x.ic.ApplicationCommandData().Options {
		switch o.Type {
		case discordgo.ApplicationCommandOptionString:
			out[o.Name] = o.StringValue()
		case discordgo.ApplicationCommandOptionSubCommand:
			for _, so := range o.Options {
				if so.Type == discordgo.ApplicationCommandOptionString {
					out[so.Name] = so.StringValue()
				}
			}
		}
	}
	return out
}

// showModal responds with a modal; legal only as the first response.
func (x *interactionCtx) showModal(resp *discordgo.InteractionResponse) error {
	err := x.s.InteractionRespond(x.ic.Interaction, resp)
	if err != nil {
		return err
	}
	x.mu.Lock()
	x.replied = true
	x.mu.Unlock()
	return nil
}
