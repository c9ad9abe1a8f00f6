package storage

import (
	"context"
	"database/sql"

	pq "github.com/lib/pq"
)

type ListRepo struct{ db *sql.DB }

func NewListRepo(db *sql.DB) *ListRepo { return &ListRepo{db: db} }

func (r *ListRepo) AddItem(ctx context.Context, it ListItem) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO list_items (guild_id, user_id, list_name, item)
VALUES ($1, $2, $3, $4)
RETURNING id
`, it.GuildID, it.UserID, it.ListName, it.Item).Scan(&id)
	return id, err
}

func (r *ListRepo) Items(ctx context.Context, guildID, userID, listName string, limit int) ([]ListItem, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, guild_id, user_id, list_name, item, created_at
  FROM list_items
 WHERE guild_id = $1 AND user_id = $2 AND list_name = $3
 ORDER BY created_at
 LIMIT $4
`, guildID, userID, listName, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ListItem
	for rows.Next() {
		var it ListItem
		if err := rows.Scan(&it.ID, &it.GuildID, &it.UserID, &it.ListName, &it.Item, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *ListRepo) RemoveItem(ctx context.Context, guildID, userID string, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM list_items
 WHERE id = $1 AND guild_id = $2 AND user_id = $3
`, id, guildID, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// RemoveItems bulk-deletes by id, returning how many rows went away.
func (r *ListRepo) RemoveItems(ctx context.Context, guildID, userID string, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, `
DELETE FROM list_items
 WHERE guild_id = $1 AND user_id = $2 AND id = ANY($3)
`, guildID, userID, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
