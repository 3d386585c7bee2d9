package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/balkashynov/crewboard/internal/board"
	"github.com/balkashynov/crewboard/internal/ledger"
	"github.com/balkashynov/crewboard/internal/models"
)

type memStore struct {
	msgs []models.ChatMessage
	err  error
}

func (m *memStore) InsertMessage(ctx context.Context, msg *models.ChatMessage) error {
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, *msg)
	return nil
}

func (m *memStore) ListMessages(ctx context.Context, workspaceID string, limit int) ([]models.ChatMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.ChatMessage
	for _, msg := range m.msgs {
		if msg.WorkspaceID == workspaceID {
			out = append(out, msg)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

var ident = board.Identity{UserID: "u1", UserName: "Ada", WorkspaceID: "ws-1"}

func TestPostCreditsSender(t *testing.T) {
	store := &memStore{}
	l, _ := ledger.New(0)
	svc := NewService(store, l, ident)

	msg, err := svc.Post(context.Background(), "  standup in 5  ")
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if msg.Content != "standup in 5" || msg.SenderName != "Ada" || msg.WorkspaceID != "ws-1" {
		t.Errorf("unexpected message: %+v", msg)
	}
	if l.Total() != ledger.ChatMessagePoints {
		t.Errorf("expected %d points, got %d", ledger.ChatMessagePoints, l.Total())
	}
}

func TestPostRejectsInvalid(t *testing.T) {
	store := &memStore{}
	l, _ := ledger.New(0)
	svc := NewService(store, l, ident)

	for _, content := range []string{"", "   ", strings.Repeat("x", MaxMessageLength+1)} {
		if _, err := svc.Post(context.Background(), content); !errors.Is(err, board.ErrValidation) {
			t.Errorf("expected ErrValidation for %d chars, got %v", len(content), err)
		}
	}
	if len(store.msgs) != 0 || l.Total() != 0 {
		t.Errorf("rejected messages must not be stored or credited")
	}
}

func TestPostStoreFailure(t *testing.T) {
	store := &memStore{err: errors.New("disk full")}
	l, _ := ledger.New(0)
	svc := NewService(store, l, ident)

	if _, err := svc.Post(context.Background(), "hi"); !errors.Is(err, board.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if l.Total() != 0 {
		t.Errorf("unsaved message must not be credited, got %d", l.Total())
	}
}

func TestHistory(t *testing.T) {
	store := &memStore{}
	l, _ := ledger.New(0)
	svc := NewService(store, l, ident)
	ctx := context.Background()

	for _, c := range []string{"one", "two", "three"} {
		if _, err := svc.Post(ctx, c); err != nil {
			t.Fatalf("Post %s: %v", c, err)
		}
	}
	store.msgs = append(store.msgs, models.ChatMessage{ID: "x", WorkspaceID: "ws-2", Content: "elsewhere"})

	msgs, err := svc.History(ctx, 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "two" || msgs[1].Content != "three" {
		t.Errorf("unexpected history: %+v", msgs)
	}
}
