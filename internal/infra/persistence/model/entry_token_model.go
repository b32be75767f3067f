package model

import "time"

// EntryTokenModel is the GORM-specific struct for the 'entry_tokens' table.
type EntryTokenModel struct {
	Nonce      string `gorm:"type:char(64);primary_key"`
	VenueID    string `gorm:"type:text;not null;index"`
	QRCodeID   string `gorm:"type:text;not null"`
	UserID     string `gorm:"type:text"`
	SessionID  string `gorm:"type:text"`
	VenueType  string `gorm:"type:varchar(32);not null"`
	IssuedAt   time.Time
	ExpiresAt  time.Time `gorm:"not null;index"`
	Consumed   bool      `gorm:"not null;default:false"`
	ConsumedAt *time.Time
}

// TableName explicitly sets the table name for GORM.
func (EntryTokenModel) TableName() string {
	return "entry_tokens"
}
