package storage

import (
	"context"
	"database/sql"
)

type TaskRepo struct{ db *sql.DB }

func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{db: db} }

func (r *TaskRepo) Create(ctx context.Context, t Task) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO tasks (guild_id, user_id, description, due_at)
VALUES ($1, $2, $3, $4)
RETURNING id
`, t.GuildID, t.UserID, t.Description, t.DueAt).Scan(&id)
	return id, err
}

func (r *TaskRepo) ListOpen(ctx context.Context, guildID, userID string, limit int) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, guild_id, user_id, description, due_at, done_at, created_at
  FROM tasks
 WHERE guild_id = $1 AND user_id = $2 AND done_at IS NULL
 ORDER BY due_at NULLS LAST, created_at
 LIMIT $3
`, guildID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.GuildID, &t.UserID, &t.Description, &t.DueAt, &t.DoneAt, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Complete marks a task done; the guild/user scoping keeps users from
// closing each other's tasks.
func (r *TaskRepo) Complete(ctx context.Context, guildID, userID string, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE tasks
   SET done_at = NOW()
 WHERE id = $1 AND guild_id = $2 AND user_id = $3 AND done_at IS NULL
`, id, guildID, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
