package storage

import (
	"context"
	"database/sql"
	"time"
)

type BudgetRepo struct{ db *sql.DB }

func NewBudgetRepo(db *sql.DB) *BudgetRepo { return &BudgetRepo{db: db} }

func (r *BudgetRepo) Add(ctx context.Context, e BudgetEntry) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO budget_entries (guild_id, user_id, kind, amount_cents, category, note)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`, e.GuildID, e.UserID, e.Kind, e.AmountCents, e.Category, e.Note).Scan(&id)
	return id, err
}

// MonthSummary totals income and expenses for the calendar month
// containing ref, in the entry rows' own timezone-naive month bucket.
func (r *BudgetRepo) MonthSummary(ctx context.Context, guildID, userID string, ref time.Time) (incomeCents, expenseCents int64, err error) {
	from := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	to := from.AddDate(0, 1, 0)

	row := r.db.QueryRowContext(ctx, `
SELECT COALESCE(SUM(amount_cents) FILTER (WHERE kind = 'income'), 0),
       COALESCE(SUM(amount_cents) FILTER (WHERE kind = 'expense'), 0)
  FROM budget_entries
 WHERE guild_id = $1 AND user_id = $2
   AND created_at >= $3 AND created_at < $4
`, guildID, userID, from, to)
	err = row.Scan(&incomeCents, &expenseCents)
	if err == sql.ErrNoRows {
		return 0, 0, nil
	}
	return incomeCents, expenseCents, err
}
