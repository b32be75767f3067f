package model

import "time"

// RateLimitWindowModel is the GORM-specific struct for the 'rate_limit_windows' table.
type RateLimitWindowModel struct {
	Key         string    `gorm:"type:text;primary_key"`
	WindowStart time.Time `gorm:"primary_key"`
	Count       int64     `gorm:"not null;default:0"`
	ExpiresAt   time.Time `gorm:"not null;index"`
}

// TableName explicitly sets the table name for GORM.
func (RateLimitWindowModel) TableName() string {
	return "rate_limit_windows"
}
