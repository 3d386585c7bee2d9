// Package chat is the workspace team channel. Posting a message earns a
// small collaboration bonus.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/balkashynov/crewboard/internal/board"
	"github.com/balkashynov/crewboard/internal/ledger"
	"github.com/balkashynov/crewboard/internal/models"
)

// MaxMessageLength bounds a single message
const MaxMessageLength = 2000

var ErrEmptyMessage = errors.New("message is empty")

// Store persists messages
type Store interface {
	InsertMessage(ctx context.Context, msg *models.ChatMessage) error
	ListMessages(ctx context.Context, workspaceID string, limit int) ([]models.ChatMessage, error)
}

type Service struct {
	store    Store
	credits  board.Crediter
	identity board.Identity
	now      func() time.Time
}

func NewService(store Store, credits board.Crediter, identity board.Identity) *Service {
	return &Service{store: store, credits: credits, identity: identity, now: time.Now}
}

// Post stores a message in the current workspace and credits the sender
func (s *Service) Post(ctx context.Context, content string) (*models.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: %w", board.ErrValidation, ErrEmptyMessage)
	}
	if len(content) > MaxMessageLength {
		return nil, fmt.Errorf("%w: message longer than %d characters", board.ErrValidation, MaxMessageLength)
	}

	msg := &models.ChatMessage{
		ID:          uuid.NewString(),
		CreatedAt:   s.now(),
		WorkspaceID: s.identity.WorkspaceID,
		SenderID:    s.identity.UserID,
		SenderName:  s.identity.UserName,
		Content:     content,
	}
	if err := s.store.InsertMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("%w: %v", board.ErrPersistence, err)
	}

	if _, err := s.credits.Credit(ctx, ledger.ChatMessagePoints, ledger.ReasonChatMessage, msg.ID); err != nil {
		return msg, fmt.Errorf("message sent but bonus not credited: %w", err)
	}
	return msg, nil
}

// History returns the latest limit messages, oldest first
func (s *Service) History(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	msgs, err := s.store.ListMessages(ctx, s.identity.WorkspaceID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", board.ErrPersistence, err)
	}
	return msgs, nil
}
