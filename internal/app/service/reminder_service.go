package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lukadfagundes/bwaincell/internal/infra/storage"
)

type ReminderService struct {
	reminders ReminderRepo
}

func NewReminderService(reminders ReminderRepo) *ReminderService {
	return &ReminderService{reminders: reminders}
}

func (s *ReminderService) Set(ctx context.Context, guildID, userID, channelID, message, when string) (string, error) {
	at, err := parseDue(when)
	if err != nil {
		return "⚠️ I couldn't read that time. Use `YYYY-MM-DD` or `YYYY-MM-DD HH:MM`.", nil
	}
	if !at.After(time.Now()) {
		return "⚠️ That time is in the past.", nil
	}

	id, err := s.reminders.Create(ctx, storage.Reminder{
		GuildID:   guildID,
		UserID:    userID,
		ChannelID: channelID,
		Message:   message,
		RemindAt:  at,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("⏰ Reminder #%d set for <t:%d:F>.", id, at.Unix()), nil
}

func (s *ReminderService) List(ctx context.Context, guildID, userID string) (string, error) {
	items, err := s.reminders.ListPending(ctx, guildID, userID, listLimit)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "ℹ️ No pending reminders.", nil
	}

	var b strings.Builder
	b.WriteString("⏰ **Pending reminders**\n")
	for _, r := range items {
		fmt.Fprintf(&b, "`#%d` %s — <t:%d:R>\n", r.ID, r.Message, r.RemindAt.Unix())
	}
	return b.String(), nil
}

// DispatchDue delivers every due reminder through send and marks it sent.
// Called by the ticker in cmd/bot; send posts to the reminder's channel.
func (s *ReminderService) DispatchDue(ctx context.Context, send func(channelID, userID, message string) error) (int, error) {
	due, err := s.reminders.Due(ctx, time.Now(), 50)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, r := range due {
		if err := send(r.ChannelID, r.UserID, r.Message); err != nil {
			// leave it unsent; the next tick retries
			continue
		}
		if err := s.reminders.MarkSent(ctx, r.ID); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}
