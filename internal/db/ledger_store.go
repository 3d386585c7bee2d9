package db

import (
	"context"
	"fmt"

	"github.com/balkashynov/crewboard/internal/models"
)

// RecordCredit stores one ledger credit for a session
func (s *Store) RecordCredit(ctx context.Context, sessionID uint, amount int, reason, ref string) error {
	credit := models.PointCredit{
		SessionID: sessionID,
		Amount:    amount,
		Reason:    reason,
		Ref:       ref,
	}
	if err := s.DB.WithContext(ctx).Create(&credit).Error; err != nil {
		return fmt.Errorf("failed to record credit: %w", err)
	}
	return nil
}

// SumCredits returns the total recorded for a session
func (s *Store) SumCredits(ctx context.Context, sessionID uint) (int, error) {
	var total int
	err := s.DB.WithContext(ctx).Model(&models.PointCredit{}).
		Where("session_id = ?", sessionID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum credits: %w", err)
	}
	return total, nil
}

// ListCredits returns a session's credits, most recent first
func (s *Store) ListCredits(ctx context.Context, sessionID uint, limit int) ([]models.PointCredit, error) {
	var credits []models.PointCredit
	q := s.DB.WithContext(ctx).Where("session_id = ?", sessionID).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&credits).Error; err != nil {
		return nil, fmt.Errorf("failed to list credits: %w", err)
	}
	return credits, nil
}
