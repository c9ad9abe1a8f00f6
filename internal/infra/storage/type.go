package storage

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

type Task struct {
	ID          int64
	GuildID     string
	UserID      string
	Description string
	DueAt       *time.Time
	DoneAt      *time.Time
	CreatedAt   time.Time
}

type ListItem struct {
	ID        int64
	GuildID   string
	UserID    string
	ListName  string
	Item      string
	CreatedAt time.Time
}

type Note struct {
	ID        int64
	GuildID   string
	UserID    string
	Body      string
	CreatedAt time.Time
}

type BudgetEntry struct {
	ID          int64
	GuildID     string
	UserID      string
	Kind        string // expense | income
	AmountCents int64
	Category    string
	Note        string
	CreatedAt   time.Time
}

type Reminder struct {
	ID        int64
	GuildID   string
	UserID    string
	ChannelID string
	Message   string
	RemindAt  time.Time
	SentAt    *time.Time
	CreatedAt time.Time
}

type ScheduleSlot struct {
	ID        int64
	GuildID   string
	UserID    string
	Weekday   int // 0 = Sunday
	SlotTime  string
	Activity  string
	UpdatedAt time.Time
}
