package db

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balkashynov/crewboard/internal/models"
)

var (
	ErrSessionActive     = errors.New("a session is already active")
	ErrNoActiveSession   = errors.New("no active session")
	ErrWorkspaceNotFound = errors.New("workspace not found")
)

const inviteAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CreateWorkspace creates a workspace with a fresh invite code
func (s *Store) CreateWorkspace(ctx context.Context, name string) (*models.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("workspace name is required")
	}

	code, err := newInviteCode()
	if err != nil {
		return nil, err
	}

	ws := models.Workspace{
		ID:         uuid.NewString(),
		Name:       name,
		InviteCode: code,
	}
	if err := s.DB.WithContext(ctx).Create(&ws).Error; err != nil {
		return nil, fmt.Errorf("failed to create workspace %q: %w", name, err)
	}
	return &ws, nil
}

// FindWorkspace looks a workspace up by ID, name or invite code
func (s *Store) FindWorkspace(ctx context.Context, ref string) (*models.Workspace, error) {
	ref = strings.TrimSpace(ref)
	var ws models.Workspace
	err := s.DB.WithContext(ctx).
		Where("id = ? OR name = ? OR invite_code = ?", ref, ref, strings.ToUpper(ref)).
		First(&ws).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}
	return &ws, nil
}

// ListWorkspaces returns all workspaces ordered by name
func (s *Store) ListWorkspaces(ctx context.Context) ([]models.Workspace, error) {
	var list []models.Workspace
	if err := s.DB.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return list, nil
}

// StartSession signs a user into a workspace
func (s *Store) StartSession(ctx context.Context, userName, userEmail, workspaceID string) (*models.Session, error) {
	// Check if there's already an active session
	var active models.Session
	err := s.DB.WithContext(ctx).Where("ended_at IS NULL").First(&active).Error
	if err == nil {
		return nil, fmt.Errorf("%w for %s. Run 'crewboard logout' first", ErrSessionActive, active.UserName)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check active session: %w", err)
	}

	session := models.Session{
		UserID:      userIDFor(userName, userEmail),
		UserName:    userName,
		UserEmail:   userEmail,
		WorkspaceID: workspaceID,
		StartedAt:   time.Now(),
	}
	if err := s.DB.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	// Load the workspace relationship
	s.DB.WithContext(ctx).Preload("Workspace").First(&session, session.ID)
	return &session, nil
}

// EndActiveSession signs the current user out
func (s *Store) EndActiveSession(ctx context.Context) (*models.Session, error) {
	session, err := s.GetActiveSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoActiveSession
	}

	now := time.Now()
	session.EndedAt = &now
	if err := s.DB.WithContext(ctx).Model(session).Update("ended_at", now).Error; err != nil {
		return nil, fmt.Errorf("failed to end session: %w", err)
	}
	return session, nil
}

// SwitchSession ends the active session and signs the same user into
// workspaceID in one transaction. On failure the old session stays active.
func (s *Store) SwitchSession(ctx context.Context, workspaceID string) (*models.Session, error) {
	var next models.Session
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Session
		err := tx.Where("ended_at IS NULL").First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoActiveSession
		}
		if err != nil {
			return fmt.Errorf("failed to get active session: %w", err)
		}

		now := time.Now()
		if err := tx.Model(&current).Update("ended_at", now).Error; err != nil {
			return fmt.Errorf("failed to end session: %w", err)
		}

		next = models.Session{
			UserID:      current.UserID,
			UserName:    current.UserName,
			UserEmail:   current.UserEmail,
			WorkspaceID: workspaceID,
			StartedAt:   now,
		}
		if err := tx.Create(&next).Error; err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.DB.WithContext(ctx).Preload("Workspace").First(&next, next.ID)
	return &next, nil
}

// GetActiveSession returns the active session, or nil when nobody is signed in
func (s *Store) GetActiveSession(ctx context.Context) (*models.Session, error) {
	var session models.Session
	err := s.DB.WithContext(ctx).Where("ended_at IS NULL").Preload("Workspace").First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // No active session is not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	return &session, nil
}

// userIDFor derives a stable user id; login is mocked so the email (or name) is the identity
func userIDFor(name, email string) string {
	key := strings.ToLower(strings.TrimSpace(email))
	if key == "" {
		key = strings.ToLower(strings.TrimSpace(name))
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("crewboard:user:"+key)).String()
}

func newInviteCode() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	for i, b := range buf {
		buf[i] = inviteAlphabet[int(b)%len(inviteAlphabet)]
	}
	return string(buf), nil
}
