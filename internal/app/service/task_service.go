package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lukadfagundes/bwaincell/internal/infra/storage"
)

const listLimit = 25

type TaskService struct {
	tasks TaskRepo
}

func NewTaskService(tasks TaskRepo) *TaskService {
	return &TaskService{tasks: tasks}
}

// Add stores a task. due is the already validated "YYYY-MM-DD[ HH:MM]"
// string (may be empty); parsing here is shape-tolerant because the
// validation middleware rejected anything else upstream.
func (s *TaskService) Add(ctx context.Context, guildID, userID, description, due string) (string, error) {
	t := storage.Task{GuildID: guildID, UserID: userID, Description: description}
	if due != "" {
		parsed, err := parseDue(due)
		if err != nil {
			return "⚠️ I couldn't read that due date. Use `YYYY-MM-DD` or `YYYY-MM-DD HH:MM`.", nil
		}
		t.DueAt = &parsed
	}

	id, err := s.tasks.Create(ctx, t)
	if err != nil {
		return "", err
	}
	if t.DueAt != nil {
		return fmt.Sprintf("✅ Task #%d saved, due <t:%d:R>.", id, t.DueAt.Unix()), nil
	}
	return fmt.Sprintf("✅ Task #%d saved.", id), nil
}

func (s *TaskService) List(ctx context.Context, guildID, userID string) (string, error) {
	items, err := s.tasks.ListOpen(ctx, guildID, userID, listLimit)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "ℹ️ No open tasks. Add one with `/task add`.", nil
	}

	var b strings.Builder
	b.WriteString("📋 **Open tasks**\n")
	for _, t := range items {
		if t.DueAt != nil {
			fmt.Fprintf(&b, "`#%d` %s — due <t:%d:R>\n", t.ID, t.Description, t.DueAt.Unix())
		} else {
			fmt.Fprintf(&b, "`#%d` %s\n", t.ID, t.Description)
		}
	}
	return b.String(), nil
}

func (s *TaskService) Done(ctx context.Context, guildID, userID string, id int64) (string, error) {
	ok, err := s.tasks.Complete(ctx, guildID, userID, id)
	if err != nil {
		return "", err
	}
	if !ok {
		return fmt.Sprintf("ℹ️ Task #%d isn't open (wrong id, or not yours).", id), nil
	}
	return fmt.Sprintf("✅ Task #%d done.", id), nil
}

func parseDue(due string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02 15:04", due); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", due)
}
