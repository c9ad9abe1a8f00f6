package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lukadfagundes/bwaincell/internal/infra/storage"
)

type fakeReminderRepo struct {
	reminders map[int64]storage.Reminder
	nextID    int64
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{reminders: map[int64]storage.Reminder{}, nextID: 1}
}

func (r *fakeReminderRepo) Create(_ context.Context, rem storage.Reminder) (int64, error) {
	id := r.nextID
	r.nextID++
	rem.ID = id
	r.reminders[id] = rem
	return id, nil
}

func (r *fakeReminderRepo) ListPending(_ context.Context, guildID, userID string, limit int) ([]storage.Reminder, error) {
	var out []storage.Reminder
	for _, rem := range r.reminders {
		if rem.GuildID == guildID && rem.UserID == userID && rem.SentAt == nil {
			out = append(out, rem)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeReminderRepo) Due(_ context.Context, now time.Time, limit int) ([]storage.Reminder, error) {
	var out []storage.Reminder
	for _, rem := range r.reminders {
		if rem.SentAt == nil && !rem.RemindAt.After(now) {
			out = append(out, rem)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeReminderRepo) MarkSent(_ context.Context, id int64) error {
	rem, ok := r.reminders[id]
	if !ok {
		return storage.ErrNotFound
	}
	now := time.Now()
	rem.SentAt = &now
	r.reminders[id] = rem
	return nil
}

func TestReminderSetRejectsPast(t *testing.T) {
	svc := NewReminderService(newFakeReminderRepo())
	msg, err := svc.Set(context.Background(), "g1", "u1", "c1", "too late", "2020-01-01")
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !strings.Contains(msg, "in the past") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestDispatchDueMarksSent(t *testing.T) {
	repo := newFakeReminderRepo()
	svc := NewReminderService(repo)
	_, _ = repo.Create(context.Background(), storage.Reminder{
		GuildID: "g1", UserID: "u1", ChannelID: "c1",
		Message: "due now", RemindAt: time.Now().Add(-time.Minute),
	})
	_, _ = repo.Create(context.Background(), storage.Reminder{
		GuildID: "g1", UserID: "u1", ChannelID: "c1",
		Message: "later", RemindAt: time.Now().Add(time.Hour),
	})

	var delivered []string
	sent, err := svc.DispatchDue(context.Background(), func(channelID, userID, message string) error {
		delivered = append(delivered, message)
		return nil
	})
	if err != nil {
		t.Fatalf("DispatchDue: %v", err)
	}
	if sent != 1 || len(delivered) != 1 || delivered[0] != "due now" {
		t.Fatalf("sent=%d delivered=%v", sent, delivered)
	}
	if repo.reminders[1].SentAt == nil {
		t.Fatal("due reminder not marked sent")
	}
	if repo.reminders[2].SentAt != nil {
		t.Fatal("future reminder marked sent")
	}
}

func TestDispatchDueLeavesFailedDeliveriesPending(t *testing.T) {
	repo := newFakeReminderRepo()
	svc := NewReminderService(repo)
	_, _ = repo.Create(context.Background(), storage.Reminder{
		GuildID: "g1", UserID: "u1", ChannelID: "c1",
		Message: "flaky", RemindAt: time.Now().Add(-time.Minute),
	})

	sent, err := svc.DispatchDue(context.Background(), func(string, string, string) error {
		return errors.New("discord down")
	})
	if err != nil {
		t.Fatalf("DispatchDue: %v", err)
	}
	if sent != 0 {
		t.Fatalf("sent = %d, want 0", sent)
	}
	if repo.reminders[1].SentAt != nil {
		t.Fatal("failed delivery must stay pending for the next tick")
	}
}
