package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/lukadfagundes/bwaincell/internal/infra/storage"
)

type BudgetService struct {
	budget BudgetRepo
}

func NewBudgetService(budget BudgetRepo) *BudgetService {
	return &BudgetService{budget: budget}
}

// Add records an entry. amount is in whole currency units as the user
// typed it; storage keeps cents to avoid float drift.
func (s *BudgetService) Add(ctx context.Context, guildID, userID, kind string, amount float64, category, note string) (string, error) {
	if kind != "expense" && kind != "income" {
		return "⚠️ Kind must be `expense` or `income`.", nil
	}
	if amount <= 0 {
		return "⚠️ Amount must be positive.", nil
	}

	cents := int64(math.Round(amount * 100))
	id, err := s.budget.Add(ctx, storage.BudgetEntry{
		GuildID:     guildID,
		UserID:      userID,
		Kind:        kind,
		AmountCents: cents,
		Category:    category,
		Note:        note,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Recorded %s #%d: %s.", kind, id, fmtCents(cents)), nil
}

func (s *BudgetService) Summary(ctx context.Context, guildID, userID string) (string, error) {
	now := time.Now()
	income, expense, err := s.budget.MonthSummary(ctx, guildID, userID, now)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"💰 **%s**\nIncome: %s\nExpenses: %s\nNet: %s",
		now.Format("January 2006"), fmtCents(income), fmtCents(expense), fmtCents(income-expense),
	), nil
}

func fmtCents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}
