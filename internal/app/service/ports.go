package service

import (
	"context"
	"time"

	"github.com/lukadfagundes/bwaincell/internal/infra/storage"
)

// Implemented by internal/infra/storage.TaskRepo
type TaskRepo interface {
	Create(ctx context.Context, t storage.Task) (int64, error)
	ListOpen(ctx context.Context, guildID, userID string, limit int) ([]storage.Task, error)
	Complete(ctx context.Context, guildID, userID string, id int64) (bool, error)
}

// Implemented by internal/infra/storage.ListRepo
type ListRepo interface {
	AddItem(ctx context.Context, it storage.ListItem) (int64, error)
	Items(ctx context.Context, guildID, userID, listName string, limit int) ([]storage.ListItem, error)
	RemoveItem(ctx context.Context, guildID, userID string, id int64) (bool, error)
	RemoveItems(ctx context.Context, guildID, userID string, ids []int64) (int64, error)
}

// Implemented by internal/infra/storage.NoteRepo
type NoteRepo interface {
	Add(ctx context.Context, n storage.Note) (int64, error)
	List(ctx context.Context, guildID, userID string, limit int) ([]storage.Note, error)
}

// Implemented by internal/infra/storage.BudgetRepo
type BudgetRepo interface {
	Add(ctx context.Context, e storage.BudgetEntry) (int64, error)
	MonthSummary(ctx context.Context, guildID, userID string, ref time.Time) (incomeCents, expenseCents int64, err error)
}

// Implemented by internal/infra/storage.ReminderRepo
type ReminderRepo interface {
	Create(ctx context.Context, rem storage.Reminder) (int64, error)
	ListPending(ctx context.Context, guildID, userID string, limit int) ([]storage.Reminder, error)
	Due(ctx context.Context, now time.Time, limit int) ([]storage.Reminder, error)
	MarkSent(ctx context.Context, id int64) error
}

// Implemented by internal/infra/storage.ScheduleRepo
type ScheduleRepo interface {
	Upsert(ctx context.Context, s storage.ScheduleSlot) error
	Week(ctx context.Context, guildID, userID string) ([]storage.ScheduleSlot, error)
}
