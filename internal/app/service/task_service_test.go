package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lukadfagundes/bwaincell/internal/infra/storage"
)

type fakeTaskRepo struct {
	tasks  map[int64]storage.Task
	nextID int64
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]storage.Task{}, nextID: 1}
}

func (r *fakeTaskRepo) Create(_ context.Context, t storage.Task) (int64, error) {
	id := r.nextID
	r.nextID++
	t.ID = id
	r.tasks[id] = t
	return id, nil
}

func (r *fakeTaskRepo) ListOpen(_ context.Context, guildID, userID string, limit int) ([]storage.Task, error) {
	var out []storage.Task
	for _, t := range r.tasks {
		if t.GuildID == guildID && t.UserID == userID && t.DoneAt == nil {
			out = append(out, t)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) Complete(_ context.Context, guildID, userID string, id int64) (bool, error) {
	t, ok := r.tasks[id]
	if !ok || t.GuildID != guildID || t.UserID != userID || t.DoneAt != nil {
		return false, nil
	}
	now := time.Now()
	t.DoneAt = &now
	r.tasks[id] = t
	return true, nil
}

func TestTaskAddParsesDueDate(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo)

	msg, err := svc.Add(context.Background(), "g1", "u1", "water plants", "2026-03-15 14:30")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !strings.Contains(msg, "Task #1 saved") {
		t.Fatalf("unexpected message %q", msg)
	}
	stored := repo.tasks[1]
	if stored.DueAt == nil {
		t.Fatal("due date not stored")
	}
	want := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	if !stored.DueAt.Equal(want) {
		t.Fatalf("due = %v, want %v", stored.DueAt, want)
	}
}

func TestTaskAddDateOnlyAndMissing(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo)

	if _, err := svc.Add(context.Background(), "g1", "u1", "short", "2026-03-15"); err != nil {
		t.Fatalf("Add date-only: %v", err)
	}
	if repo.tasks[1].DueAt == nil {
		t.Fatal("date-only due not stored")
	}

	if _, err := svc.Add(context.Background(), "g1", "u1", "no due", ""); err != nil {
		t.Fatalf("Add without due: %v", err)
	}
	if repo.tasks[2].DueAt != nil {
		t.Fatal("empty due should stay nil")
	}
}

func TestTaskAddRejectsUnparseableDue(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo)

	msg, err := svc.Add(context.Background(), "g1", "u1", "x", "next tuesday")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !strings.Contains(msg, "couldn't read that due date") {
		t.Fatalf("unexpected message %q", msg)
	}
	if len(repo.tasks) != 0 {
		t.Fatal("task should not be stored on bad due date")
	}
}

func TestTaskDone(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo)
	_, _ = svc.Add(context.Background(), "g1", "u1", "x", "")

	msg, err := svc.Done(context.Background(), "g1", "u1", 1)
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	if !strings.Contains(msg, "Task #1 done") {
		t.Fatalf("unexpected message %q", msg)
	}

	// second completion and foreign user both miss
	if msg, _ = svc.Done(context.Background(), "g1", "u1", 1); !strings.Contains(msg, "isn't open") {
		t.Fatalf("re-complete message %q", msg)
	}
	if msg, _ = svc.Done(context.Background(), "g1", "u2", 1); !strings.Contains(msg, "isn't open") {
		t.Fatalf("foreign user message %q", msg)
	}
}

func TestTaskListEmpty(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepo())
	msg, err := svc.List(context.Background(), "g1", "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !strings.Contains(msg, "No open tasks") {
		t.Fatalf("unexpected message %q", msg)
	}
}
