package storage

import (
	"context"
	"database/sql"
	"time"
)

type ReminderRepo struct{ db *sql.DB }

func NewReminderRepo(db *sql.DB) *ReminderRepo { return &ReminderRepo{db: db} }

func (r *ReminderRepo) Create(ctx context.Context, rem Reminder) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO reminders (guild_id, user_id, channel_id, message, remind_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`, rem.GuildID, rem.UserID, rem.ChannelID, rem.Message, rem.RemindAt).Scan(&id)
	return id, err
}

func (r *ReminderRepo) ListPending(ctx context.Context, guildID, userID string, limit int) ([]Reminder, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, guild_id, user_id, channel_id, message, remind_at, sent_at, created_at
  FROM reminders
 WHERE guild_id = $1 AND user_id = $2 AND sent_at IS NULL
 ORDER BY remind_at
 LIMIT $3
`, guildID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

// Due returns unsent reminders whose time has passed, oldest first.
func (r *ReminderRepo) Due(ctx context.Context, now time.Time, limit int) ([]Reminder, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, guild_id, user_id, channel_id, message, remind_at, sent_at, created_at
  FROM reminders
 WHERE sent_at IS NULL AND remind_at <= $1
 ORDER BY remind_at
 LIMIT $2
`, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (r *ReminderRepo) MarkSent(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE reminders SET sent_at = NOW() WHERE id = $1 AND sent_at IS NULL
`, id)
	return err
}

func scanReminders(rows *sql.Rows) ([]Reminder, error) {
	var out []Reminder
	for rows.Next() {
		var rem Reminder
		if err := rows.Scan(&rem.ID, &rem.GuildID, &rem.UserID, &rem.ChannelID, &rem.Message, &rem.RemindAt, &rem.SentAt, &rem.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rem)
	}
	return out, rows.Err()
}
