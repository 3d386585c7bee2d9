package db

import (
	"context"
	"fmt"

	"github.com/balkashynov/crewboard/internal/models"
)

// InsertMessage persists a chat message. The caller assigns the ID.
func (s *Store) InsertMessage(ctx context.Context, msg *models.ChatMessage) error {
	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// ListMessages returns the latest messages of a workspace in posting order
func (s *Store) ListMessages(ctx context.Context, workspaceID string, limit int) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	q := s.DB.WithContext(ctx).Where("workspace_id = ?", workspaceID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	// Oldest first for display
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
