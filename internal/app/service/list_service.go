package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lukadfagundes/bwaincell/internal/infra/storage"
)

const clearLimit = 500

type ListService struct {
	lists ListRepo
}

func NewListService(lists ListRepo) *ListService {
	return &ListService{lists: lists}
}

func (s *ListService) Add(ctx context.Context, guildID, userID, listName, item string) (string, error) {
	if listName == "" {
		listName = "default"
	}
	id, err := s.lists.AddItem(ctx, storage.ListItem{
		GuildID:  guildID,
		UserID:   userID,
		ListName: listName,
		Item:     item,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Added `#%d` to **%s**.", id, listName), nil
}

func (s *ListService) Show(ctx context.Context, guildID, userID, listName string) (string, error) {
	if listName == "" {
		listName = "default"
	}
	items, err := s.lists.Items(ctx, guildID, userID, listName, listLimit)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return fmt.Sprintf("ℹ️ **%s** is empty.", listName), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🗒️ **%s**\n", listName)
	for _, it := range items {
		fmt.Fprintf(&b, "`#%d` %s\n", it.ID, it.Item)
	}
	return b.String(), nil
}

func (s *ListService) Remove(ctx context.Context, guildID, userID string, id int64) (string, error) {
	ok, err := s.lists.RemoveItem(ctx, guildID, userID, id)
	if err != nil {
		return "", err
	}
	if !ok {
		return fmt.Sprintf("ℹ️ Item #%d not found.", id), nil
	}
	return fmt.Sprintf("✅ Removed item #%d.", id), nil
}

// Clear drops every item in the list in one round trip.
func (s *ListService) Clear(ctx context.Context, guildID, userID, listName string) (string, error) {
	if listName == "" {
		listName = "default"
	}
	items, err := s.lists.Items(ctx, guildID, userID, listName, clearLimit)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return fmt.Sprintf("ℹ️ **%s** is already empty.", listName), nil
	}

	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	n, err := s.lists.RemoveItems(ctx, guildID, userID, ids)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Cleared **%s** (%d items).", listName, n), nil
}
