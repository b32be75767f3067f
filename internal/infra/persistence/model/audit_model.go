package model

import "time"

// SecurityAuditModel is the GORM-specific struct for the append-only 'security_audit_log' table.
type SecurityAuditModel struct {
	ID            string `gorm:"type:char(26);primary_key"`
	EventType     string `gorm:"type:varchar(32);not null;index"`
	UserID        string `gorm:"type:text;index"`
	VenueID       string `gorm:"type:text;index"`
	Nonce         string `gorm:"type:text"`
	Outcome       string `gorm:"type:varchar(16);not null"`
	FailureReason string `gorm:"type:varchar(32)"`
	MockDetected  bool   `gorm:"not null;default:false"`
	Accuracy      *float64
	Distance      *float64
	RequestID     string    `gorm:"type:text"`
	Timestamp     time.Time `gorm:"not null;index"`
}

// TableName explicitly sets the table name for GORM.
func (SecurityAuditModel) TableName() string {
	return "security_audit_log"
}
