package storage

import (
	"context"
	"database/sql"
)

type NoteRepo struct{ db *sql.DB }

func NewNoteRepo(db *sql.DB) *NoteRepo { return &NoteRepo{db: db} }

func (r *NoteRepo) Add(ctx context.Context, n Note) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO notes (guild_id, user_id, body)
VALUES ($1, $2, $3)
RETURNING id
`, n.GuildID, n.UserID, n.Body).Scan(&id)
	return id, err
}

func (r *NoteRepo) List(ctx context.Context, guildID, userID string, limit int) ([]Note, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, guild_id, user_id, body, created_at
  FROM notes
 WHERE guild_id = $1 AND user_id = $2
 ORDER BY created_at DESC
 LIMIT $3
`, guildID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.GuildID, &n.UserID, &n.Body, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
