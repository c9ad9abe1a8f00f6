package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	discordrouter "github.com/lukadfagundes/bwaincell/internal/adapters/discord"
	"github.com/lukadfagundes/bwaincell/internal/adapters/httpapi"
	"github.com/lukadfagundes/bwaincell/internal/app/service"
	"github.com/lukadfagundes/bwaincell/internal/infra/config"
	"github.com/lukadfagundes/bwaincell/internal/infra/storage"
	"github.com/lukadfagundes/bwaincell/internal/middleware"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Tracing: stdout spans are opt-in, the middleware no-ops otherwise.
	if os.Getenv("TRACE_STDOUT") != "" {
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			log.Error("stdouttrace", slog.String("error", err.Error()))
			os.Exit(1)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
		otel.SetTracerProvider(tp)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(ctx)
		}()
	}

	// DB
	db, err := storage.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Error("db open", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		log.Error("migrate", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("db ready")

	// Repos
	tasksRepo := storage.NewTaskRepo(db)
	listsRepo := storage.NewListRepo(db)
	notesRepo := storage.NewNoteRepo(db)
	budgetRepo := storage.NewBudgetRepo(db)
	remindersRepo := storage.NewReminderRepo(db)
	scheduleRepo := storage.NewScheduleRepo(db)

	// Services
	svc := discordrouter.Services{
		Tasks:     service.NewTaskService(tasksRepo),
		Lists:     service.NewListService(listsRepo),
		Notes:     service.NewNoteService(notesRepo),
		Budget:    service.NewBudgetService(budgetRepo),
		Reminders: service.NewReminderService(remindersRepo),
		Schedule:  service.NewScheduleService(scheduleRepo),
	}

	// Discord session
	auth := cfg.DiscordToken
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
		auth = "Bot " + strings.TrimSpace(auth)
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Error("discord session", slog.String("error", err.Error()))
		os.Exit(1)
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	if err := s.Open(); err != nil {
		log.Error("discord open", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer s.Close()
	log.Info("connected", slog.String("user", s.State.User.Username), slog.String("id", s.State.User.ID))

	// Pipeline: first registered runs outermost.
	pipe := middleware.NewPipeline()
	for _, mw := range []middleware.Middleware{
		middleware.NewErrorMiddleware(log),
		middleware.NewTracingMiddleware(),
		middleware.NewLoggingMiddleware(log, cfg.Tunables.SlowInteractionThreshold()),
		middleware.NewRateLimitMiddleware(cfg.Tunables.RateLimitConfig(), log),
		middleware.NewValidationMiddleware(cfg.Tunables.ValidationConfig(), log),
	} {
		if err := pipe.Register(mw); err != nil {
			log.Error("pipeline", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Router
	r := discordrouter.NewRouter(
		s,
		cfg.DiscordGuild,
		pipe,
		svc,
		log,
		cfg.Tunables.Validation.AllowEmptyStrings,
	)
	if err := r.Register(); err != nil {
		log.Error("register commands", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Handlers()
	log.Info("commands registered", slog.String("guild", cfg.DiscordGuild))

	// Health probes
	web := httpapi.New(db, log)
	go func() {
		if err := web.Start(cfg.HTTPAddr); err != nil {
			log.Error("health listener", slog.String("error", err.Error()))
		}
	}()

	// Reminder dispatcher
	go func() {
		t := time.NewTicker(30 * time.Second)
		defer t.Stop()
		for range t.C {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			sent, err := svc.Reminders.DispatchDue(ctx, r.SendReminder)
			cancel()
			if err != nil {
				log.Warn("reminder dispatch", slog.String("error", err.Error()))
				continue
			}
			if sent > 0 {
				log.Info("reminders sent", slog.Int("count", sent))
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop
	log.Info("shutting down")
}
