package models

import (
	"time"
)

// Session is the signed-in user and the workspace they selected.
// Only one session is active (EndedAt nil) at a time.
type Session struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID      string     `gorm:"not null;index" json:"user_id"`
	UserName    string     `gorm:"not null" json:"user_name"`
	UserEmail   string     `json:"user_email,omitempty"`
	WorkspaceID string     `gorm:"not null;size:36" json:"workspace_id"`
	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	EndedAt     *time.Time `json:"ended_at"`

	// Relationships
	Workspace Workspace `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"workspace"`
}

// Workspace partitions tasks and chat among a group of users
type Workspace struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Name       string    `gorm:"uniqueIndex;not null" json:"name"`
	InviteCode string    `gorm:"uniqueIndex;not null;size:6" json:"invite_code"`
}
