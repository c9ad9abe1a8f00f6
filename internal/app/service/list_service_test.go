package service

import (
	"context"
	"strings"
	"testing"

	"github.com/lukadfagundes/bwaincell/internal/infra/storage"
)

type fakeListRepo struct {
	items  map[int64]storage.ListItem
	nextID int64
}

func newFakeListRepo() *fakeListRepo {
	return &fakeListRepo{items: map[int64]storage.ListItem{}, nextID: 1}
}

func (r *fakeListRepo) AddItem(_ context.Context, it storage.ListItem) (int64, error) {
	id := r.nextID
	r.nextID++
	it.ID = id
	r.items[id] = it
	return id, nil
}

func (r *fakeListRepo) Items(_ context.Context, guildID, userID, listName string, limit int) ([]storage.ListItem, error) {
	var out []storage.ListItem
	for _, it := range r.items {
		if it.GuildID == guildID && it.UserID == userID && it.ListName == listName {
			out = append(out, it)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeListRepo) RemoveItem(_ context.Context, guildID, userID string, id int64) (bool, error) {
	it, ok := r.items[id]
	if !ok || it.GuildID != guildID || it.UserID != userID {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *fakeListRepo) RemoveItems(_ context.Context, guildID, userID string, ids []int64) (int64, error) {
	var n int64
	for _, id := range ids {
		ok, _ := r.RemoveItem(context.Background(), guildID, userID, id)
		if ok {
			n++
		}
	}
	return n, nil
}

func TestListAddDefaultsListName(t *testing.T) {
	repo := newFakeListRepo()
	svc := NewListService(repo)

	msg, err := svc.Add(context.Background(), "g1", "u1", "", "milk")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !strings.Contains(msg, "**default**") {
		t.Fatalf("unexpected message %q", msg)
	}
	if repo.items[1].ListName != "default" {
		t.Fatalf("list name = %q", repo.items[1].ListName)
	}
}

func TestListClear(t *testing.T) {
	repo := newFakeListRepo()
	svc := NewListService(repo)
	_, _ = svc.Add(context.Background(), "g1", "u1", "groceries", "milk")
	_, _ = svc.Add(context.Background(), "g1", "u1", "groceries", "eggs")
	_, _ = svc.Add(context.Background(), "g1", "u1", "other", "keep me")

	msg, err := svc.Clear(context.Background(), "g1", "u1", "groceries")
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if !strings.Contains(msg, "(2 items)") {
		t.Fatalf("unexpected message %q", msg)
	}
	if len(repo.items) != 1 {
		t.Fatalf("items left = %d, want 1", len(repo.items))
	}

	msg, err = svc.Clear(context.Background(), "g1", "u1", "groceries")
	if err != nil {
		t.Fatalf("Clear empty: %v", err)
	}
	if !strings.Contains(msg, "already empty") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestListRemoveMiss(t *testing.T) {
	svc := NewListService(newFakeListRepo())
	msg, err := svc.Remove(context.Background(), "g1", "u1", 99)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !strings.Contains(msg, "not found") {
		t.Fatalf("unexpected message %q", msg)
	}
}
