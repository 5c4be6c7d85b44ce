// Package models defines the persistence schema for the edit audit trail.
// The JSON ledger in the project root remains the undo source of truth;
// these records are an append-only history of what was changed and undone.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// EditSession tracks one run of the editor process.
type EditSession struct {
	ID        string    `gorm:"primaryKey;type:varchar(20)"`
	StartedAt time.Time `gorm:"autoCreateTime"`
	EndedAt   *time.Time

	ActionsCount int `gorm:"default:0"`
}

// ActionRecord is the audit copy of one committed action.
type ActionRecord struct {
	ID        string `gorm:"primaryKey;type:varchar(20)"`
	SessionID string `gorm:"type:varchar(20);index"`

	// Operation details
	Type    string `gorm:"type:varchar(30);not null"` // text, color, font, font-size, delete
	Label   string `gorm:"type:varchar(255)"`
	Details string `gorm:"type:text"`

	// Affected files as a JSON array of relative paths
	Files     datatypes.JSON `gorm:"type:jsonb"`
	FileCount int            `gorm:"default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`

	// Undo tracking
	Undone   bool `gorm:"default:false"`
	UndoneAt *time.Time
}

// TableName customizations for cleaner names
func (EditSession) TableName() string  { return "edit_sessions" }
func (ActionRecord) TableName() string { return "action_records" }
