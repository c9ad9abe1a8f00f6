package storage

import (
	"context"
	"database/sql"
)

type ScheduleRepo struct{ db *sql.DB }

func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// Upsert keeps one activity per (user, weekday, time) slot.
func (r *ScheduleRepo) Upsert(ctx context.Context, s ScheduleSlot) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO schedule_slots (guild_id, user_id, weekday, slot_time, activity, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW())
ON CONFLICT (guild_id, user_id, weekday, slot_time) DO UPDATE SET
  activity   = EXCLUDED.activity,
  updated_at = NOW()
`, s.GuildID, s.UserID, s.Weekday, s.SlotTime, s.Activity)
	return err
}

func (r *ScheduleRepo) Week(ctx context.Context, guildID, userID string) ([]ScheduleSlot, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, guild_id, user_id, weekday, slot_time, activity, updated_at
  FROM schedule_slots
 WHERE guild_id = $1 AND user_id = $2
 ORDER BY weekday, slot_time
`, guildID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScheduleSlot
	for rows.Next() {
		var s ScheduleSlot
		if err := rows.Scan(&s.ID, &s.GuildID, &s.UserID, &s.Weekday, &s.SlotTime, &s.Activity, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
