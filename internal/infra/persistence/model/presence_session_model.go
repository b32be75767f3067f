package model

import (
	"time"

	"venuegate/internal/domain/entity"
)

// PresenceSessionModel is the GORM-specific struct for the 'presence_sessions' table.
// There is one row per (venue_id, user_id).
type PresenceSessionModel struct {
	VenueID                 string                   `gorm:"type:text;primary_key"`
	UserID                  string                   `gorm:"type:text;primary_key"`
	EventID                 string                   `gorm:"type:text;not null"`
	State                   string                   `gorm:"type:varchar(16);not null"`
	ProfileVisible          bool                     `gorm:"not null"`
	JoinedAt                time.Time                `gorm:"not null"`
	LastPingAt              *time.Time
	LastInsideAt            *time.Time
	TimeInVenueSeconds      int64                    `gorm:"not null;default:0"`
	ConsecutiveOutsidePings int                      `gorm:"not null;default:0"`
	PausedAt                *time.Time
	History                 []entity.StateTransition `gorm:"type:jsonb;serializer:json"`
	UpdatedAt               time.Time
}

// TableName explicitly sets the table name for GORM.
func (PresenceSessionModel) TableName() string {
	return "presence_sessions"
}
