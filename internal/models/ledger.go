package models

import "time"

// PointCredit is one recorded addition to a session's points ledger
type PointCredit struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SessionID uint   `gorm:"not null;index" json:"session_id"`
	Amount    int    `gorm:"not null" json:"amount"`
	Reason    string `gorm:"not null;size:32" json:"reason"`
	Ref       string `json:"ref,omitempty"` // task or suggestion id the credit came from
}

// ChatMessage is a message posted to a workspace's team channel
type ChatMessage struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	WorkspaceID string    `gorm:"not null;index;size:36" json:"workspace_id"`
	SenderID    string    `gorm:"not null" json:"sender_id"`
	SenderName  string    `gorm:"not null" json:"sender_name"`
	Content     string    `gorm:"not null" json:"content"`
}
