package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lukadfagundes/bwaincell/internal/infra/storage"
)

type NoteService struct {
	notes NoteRepo
}

func NewNoteService(notes NoteRepo) *NoteService {
	return &NoteService{notes: notes}
}

func (s *NoteService) Add(ctx context.Context, guildID, userID, body string) (string, error) {
	id, err := s.notes.Add(ctx, storage.Note{GuildID: guildID, UserID: userID, Body: body})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Note #%d saved.", id), nil
}

func (s *NoteService) List(ctx context.Context, guildID, userID string) (string, error) {
	notes, err := s.notes.List(ctx, guildID, userID, listLimit)
	if err != nil {
		return "", err
	}
	if len(notes) == 0 {
		return "ℹ️ No notes yet. Add one with `/note add`.", nil
	}

	var b strings.Builder
	b.WriteString("📝 **Notes** (newest first)\n")
	for _, n := range notes {
		body := n.Body
		if len(body) > 80 {
			body = body[:77] + "..."
		}
		fmt.Fprintf(&b, "`#%d` %s\n", n.ID, body)
	}
	return b.String(), nil
}
