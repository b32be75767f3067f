package model

import (
	"time"

	"venuegate/internal/domain/entity"
)

// VenueModel is the GORM-specific struct for the 'venues' table.
// Venue CRUD lives in another service; this one only reads the rows.
type VenueModel struct {
	ID           string                   `gorm:"type:text;primary_key"`
	Name         string                   `gorm:"type:text;not null"`
	BusinessType string                   `gorm:"type:text"`
	Latitude     float64                  `gorm:"type:decimal(10,8);not null"`
	Longitude    float64                  `gorm:"type:decimal(11,8);not null"`
	EventHub     *entity.EventHubSettings `gorm:"type:jsonb;serializer:json"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (VenueModel) TableName() string {
	return "venues"
}
