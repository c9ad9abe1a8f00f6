package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"github.com/lukadfagundes/bwaincell/internal/app/service"
	"github.com/lukadfagundes/bwaincell/internal/middleware"
)

const handlerTimeout = 12 * time.Second

// Services groups the app services the router dispatches to.
type Services struct {
	Tasks     *service.TaskService
	Lists     *service.ListService
	Notes     *service.NoteService
	Budget    *service.BudgetService
	Reminders *service.ReminderService
	Schedule  *service.ScheduleService
}

type Router struct {
	s       *discordgo.Session
	guildID string
	log     *slog.Logger
	pipe    *middleware.Pipeline
	svc     Services

	// flood is a session-wide brake independent of the per-user windows;
	// it sheds load before the pipeline even runs.
	flood *rate.Limiter

	// requireModalFields mirrors !validation.allow_empty_strings.
	requireModalFields bool
}

func NewRouter(
	s *discordgo.Session,
	guildID string,
	pipe *middleware.Pipeline,
	svc Services,
	log *slog.Logger,
	allowEmptyModalFields bool,
) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{
		s:                  s,
		guildID:            guildID,
		log:                log,
		pipe:               pipe,
		svc:                svc,
		flood:              rate.NewLimiter(rate.Limit(25), 50),
		requireModalFields: !allowEmptyModalFields,
	}
}

func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := r.s.ApplicationCommandCreate(appID, r.guildID, cmd); err != nil {
			return fmt.Errorf("register /%s: %w", cmd.Name, err)
		}
	}
	return nil
}

func (r *Router) Handlers() {
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic.Type != discordgo.InteractionApplicationCommand && ic.Type != discordgo.InteractionModalSubmit {
			return
		}

		x := newInteractionCtx(s, ic)
		if !r.flood.Allow() {
			r.log.Warn("flood limiter engaged", slog.String("user_id", interactionUser(ic)))
			_ = replyEphemeral(x, "🚦 The bot is handling a lot of requests right now, try again in a moment.")
			return
		}

		c := middleware.NewInteractionContext(x, interactionUser(ic), ic.GuildID)
		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		// The outermost error middleware swallows everything, so a
		// non-nil error here means the pipeline was assembled wrong.
		if err := r.pipe.Dispatch(ctx, c, func(ctx context.Context, c *middleware.InteractionContext) error {
			return r.handle(ctx, x, c)
		}); err != nil {
			r.log.Error("pipeline returned unhandled error",
				slog.String("request_id", c.RequestID),
				slog.String("error", err.Error()),
			)
		}
	})
}

func (r *Router) handle(ctx context.Context, x *interactionCtx, c *middleware.InteractionContext) error {
	switch x.Kind() {
	case middleware.KindChatInput:
		return r.handleCommand(ctx, x, c)
	case middleware.KindModalSubmit:
		return r.handleModal(ctx, x, c)
	default:
		return nil
	}
}

func (r *Router) handleCommand(ctx context.Context, x *interactionCtx, c *middleware.InteractionContext) error {
	data := x.ic.ApplicationCommandData()

	if data.Name == "ping" {
		return x.Reply(middleware.Response{Content: "🏓 pong", Ephemeral: true})
	}

	// Every data command is guild-scoped.
	if c.GuildID == "" {
		return replyEphemeral(x, "This command can only be used in a server.")
	}

	sub, _ := subcmdName(x.ic)

	// Modal openers must stay unacknowledged; everything else defers
	// before touching the database.
	if modal := r.modalFor(data.Name, sub); modal != nil {
		return x.showModal(modal)
	}
	_ = x.Defer()

	msg, err := r.dispatchCommand(ctx, x, c, data.Name, sub)
	if err != nil {
		return err
	}
	return replyEphemeral(x, msg)
}

func (r *Router) modalFor(command, sub string) *discordgo.InteractionResponse {
	if sub != "new" {
		return nil
	}
	switch command {
	case "task":
		return taskAddModal()
	case "list":
		return listAddModal()
	default:
		return nil
	}
}

func (r *Router) dispatchCommand(ctx context.Context, x *interactionCtx, c *middleware.InteractionContext, name, sub string) (string, error) {
	switch name {
	case "task":
		switch sub {
		case "add":
			desc, _ := optStr(x.ic, "description")
			due, _ := optStr(x.ic, "due_date")
			return r.svc.Tasks.Add(ctx, c.GuildID, c.UserID, desc, due)
		case "list":
			return r.svc.Tasks.List(ctx, c.GuildID, c.UserID)
		case "done":
			id, _ := optInt(x.ic, "id")
			return r.svc.Tasks.Done(ctx, c.GuildID, c.UserID, id)
		}

	case "list":
		switch sub {
		case "add":
			item, _ := optStr(x.ic, "item")
			listName, _ := optStr(x.ic, "name")
			return r.svc.Lists.Add(ctx, c.GuildID, c.UserID, listName, item)
		case "show":
			listName, _ := optStr(x.ic, "name")
			return r.svc.Lists.Show(ctx, c.GuildID, c.UserID, listName)
		case "remove":
			id, _ := optInt(x.ic, "id")
			return r.svc.Lists.Remove(ctx, c.GuildID, c.UserID, id)
		case "clear":
			listName, _ := optStr(x.ic, "name")
			return r.svc.Lists.Clear(ctx, c.GuildID, c.UserID, listName)
		}

	case "note":
		switch sub {
		case "add":
			body, _ := optStr(x.ic, "body")
			return r.svc.Notes.Add(ctx, c.GuildID, c.UserID, body)
		case "list":
			return r.svc.Notes.List(ctx, c.GuildID, c.UserID)
		}

	case "budget":
		switch sub {
		case "add":
			kind, _ := optStr(x.ic, "kind")
			amount, _ := optNumber(x.ic, "amount")
			category, _ := optStr(x.ic, "category")
			note, _ := optStr(x.ic, "note")
			return r.svc.Budget.Add(ctx, c.GuildID, c.UserID, kind, amount, category, note)
		case "summary":
			return r.svc.Budget.Summary(ctx, c.GuildID, c.UserID)
		}

	case "remind":
		switch sub {
		case "set":
			message, _ := optStr(x.ic, "message")
			when, _ := optStr(x.ic, "when_date")
			return r.svc.Reminders.Set(ctx, c.GuildID, c.UserID, x.ic.ChannelID, message, when)
		case "list":
			return r.svc.Reminders.List(ctx, c.GuildID, c.UserID)
		}

	case "schedule":
		switch sub {
		case "set":
			weekday, _ := optStr(x.ic, "weekday")
			slotTime, _ := optStr(x.ic, "time")
			activity, _ := optStr(x.ic, "activity")
			return r.svc.Schedule.Set(ctx, c.GuildID, c.UserID, weekday, slotTime, activity)
		case "show":
			return r.svc.Schedule.Show(ctx, c.GuildID, c.UserID)
		}
	}

	return "ℹ️ Unknown command.", nil
}

func (r *Router) handleModal(ctx context.Context, x *interactionCtx, c *middleware.InteractionContext) error {
	switch x.ic.ModalSubmitData().CustomID {
	case taskAddModalID:
		desc := x.TextInput("task_description")
		if desc == "" && r.requireModalFields {
			return replyEphemeral(x, "⚠️ Description is required.")
		}
		due := x.TextInput("task_due_date")
		msg, err := r.svc.Tasks.Add(ctx, c.GuildID, c.UserID, desc, due)
		if err != nil {
			return err
		}
		return replyEphemeral(x, msg)

	case listAddModalID:
		item := x.TextInput("list_item")
		if item == "" && r.requireModalFields {
			return replyEphemeral(x, "⚠️ Item is required.")
		}
		msg, err := r.svc.Lists.Add(ctx, c.GuildID, c.UserID, "", item)
		if err != nil {
			return err
		}
		return replyEphemeral(x, msg)
	}
	return nil
}

// SendReminder posts a due reminder to its saved channel; used by the
// dispatcher ticker in cmd/bot.
func (r *Router) SendReminder(channelID, userID, message string) error {
	_, err := r.s.ChannelMessageSend(channelID, fmt.Sprintf("⏰ <@%s> %s", userID, message))
	return err
}
