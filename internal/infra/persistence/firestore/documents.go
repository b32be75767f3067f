// Package firestore implements the repositories on Cloud Firestore. Token consumption and
// session writes run in firestore transactions; tokens and counters carry an expire_at field
// for a firestore TTL policy.
package firestore

import (
	"time"

	"venuegate/internal/domain/entity"
)

// Collection names
const (
	venuesCollection      = "venues"
	tokensCollection      = "entry_tokens"
	sessionsCollection    = "presence_sessions"
	auditCollection       = "security_audit_log"
	samplesCollection     = "location_samples"
	devicesCollection     = "user_devices"
	rateWindowsCollection = "rate_limit_windows"
)

// sampleTTL is how long a location sample document lives before the TTL policy removes it.
const sampleTTL = 24 * time.Hour

type venueDoc struct {
	Name         string       `firestore:"name"`
	BusinessType string       `firestore:"business_type"`
	Latitude     float64      `firestore:"latitude"`
	Longitude    float64      `firestore:"longitude"`
	EventHub     *eventHubDoc `firestore:"event_hub,omitempty"`
}

type eventHubDoc struct {
	Enabled        bool                      `firestore:"enabled"`
	QRCodeID       string                    `firestore:"qr_code_id"`
	LocationRadius float64                   `firestore:"location_radius"`
	KFactor        float64                   `firestore:"k_factor"`
	Timezone       string                    `firestore:"timezone"`
	VenueType      string                    `firestore:"venue_type"`
	Schedule       map[string]dayScheduleDoc `firestore:"schedule"`
	Rules          string                    `firestore:"rules"`
	LocationTips   string                    `firestore:"location_tips"`
}

type dayScheduleDoc struct {
	Enabled   bool   `firestore:"enabled"`
	StartTime string `firestore:"start_time"`
	EndTime   string `firestore:"end_time"`
}

func (d *venueDoc) toDomain(id string) *entity.Venue {
	venue := &entity.Venue{
		ID:           id,
		Name:         d.Name,
		BusinessType: d.BusinessType,
		Latitude:     d.Latitude,
		Longitude:    d.Longitude,
	}
	if d.EventHub == nil {
		return venue
	}

	schedule := make(entity.WeeklySchedule, len(d.EventHub.Schedule))
	for day, s := range d.EventHub.Schedule {
		schedule[day] = entity.DaySchedule{Enabled: s.Enabled, StartTime: s.StartTime, EndTime: s.EndTime}
	}
	venue.EventHub = &entity.EventHubSettings{
		Enabled:        d.EventHub.Enabled,
		QRCodeID:       d.EventHub.QRCodeID,
		LocationRadius: d.EventHub.LocationRadius,
		KFactor:        d.EventHub.KFactor,
		Timezone:       d.EventHub.Timezone,
		VenueType:      d.EventHub.VenueType,
		Schedule:       schedule,
		Rules:          d.EventHub.Rules,
		LocationTips:   d.EventHub.LocationTips,
	}

	return venue
}

type tokenDoc struct {
	VenueID    string     `firestore:"venue_id"`
	QRCodeID   string     `firestore:"qr_code_id"`
	UserID     string     `firestore:"user_id"`
	SessionID  string     `firestore:"session_id"`
	VenueType  string     `firestore:"venue_type"`
	IssuedAt   time.Time  `firestore:"issued_at"`
	ExpiresAt  time.Time  `firestore:"expire_at"` // TTL field
	Consumed   bool       `firestore:"consumed"`
	ConsumedAt *time.Time `firestore:"consumed_at"`
}

func fromTokenDomain(t *entity.EntryToken) *tokenDoc {
	return &tokenDoc{
		VenueID:    t.VenueID,
		QRCodeID:   t.QRCodeID,
		UserID:     t.UserID,
		SessionID:  t.SessionID,
		VenueType:  t.VenueType.String(),
		IssuedAt:   t.IssuedAt,
		ExpiresAt:  t.ExpiresAt,
		Consumed:   t.Consumed,
		ConsumedAt: t.ConsumedAt,
	}
}

func (d *tokenDoc) toDomain(nonce string) *entity.EntryToken {
	return &entity.EntryToken{
		Nonce:      nonce,
		VenueID:    d.VenueID,
		QRCodeID:   d.QRCodeID,
		UserID:     d.UserID,
		SessionID:  d.SessionID,
		VenueType:  entity.VenueType(d.VenueType),
		IssuedAt:   d.IssuedAt,
		ExpiresAt:  d.ExpiresAt,
		Consumed:   d.Consumed,
		ConsumedAt: d.ConsumedAt,
	}
}

type transitionDoc struct {
	From      string    `firestore:"from"`
	To        string    `firestore:"to"`
	Timestamp time.Time `firestore:"timestamp"`
	Reason    string    `firestore:"reason"`
}

type sessionDoc struct {
	VenueID                 string          `firestore:"venue_id"`
	UserID                  string          `firestore:"user_id"`
	EventID                 string          `firestore:"event_id"`
	State                   string          `firestore:"state"`
	ProfileVisible          bool            `firestore:"profile_visible"`
	JoinedAt                time.Time       `firestore:"joined_at"`
	LastPingAt              time.Time       `firestore:"last_ping_at"`
	LastInsideAt            time.Time       `firestore:"last_inside_at"`
	TimeInVenueSeconds      int64           `firestore:"time_in_venue_seconds"`
	ConsecutiveOutsidePings int             `firestore:"consecutive_outside_pings"`
	PausedAt                *time.Time      `firestore:"paused_at"`
	History                 []transitionDoc `firestore:"history"`
	UpdatedAt               time.Time       `firestore:"updated_at"`
}

func sessionDocID(venueID, userID string) string {
	return venueID + "_" + userID
}

func fromSessionDomain(s *entity.PresenceSession) *sessionDoc {
	history := make([]transitionDoc, 0, len(s.History))
	for _, h := range s.History {
		history = append(history, transitionDoc{From: h.From.String(), To: h.To.String(), Timestamp: h.Timestamp, Reason: h.Reason})
	}

	return &sessionDoc{
		VenueID:                 s.VenueID,
		UserID:                  s.UserID,
		EventID:                 s.EventID,
		State:                   s.State.String(),
		ProfileVisible:          s.ProfileVisible,
		JoinedAt:                s.JoinedAt,
		LastPingAt:              s.LastPingAt,
		LastInsideAt:            s.LastInsideAt,
		TimeInVenueSeconds:      s.TimeInVenueSeconds,
		ConsecutiveOutsidePings: s.ConsecutiveOutsidePings,
		PausedAt:                s.PausedAt,
		History:                 history,
		UpdatedAt:               s.UpdatedAt,
	}
}

func (d *sessionDoc) toDomain() *entity.PresenceSession {
	history := make([]entity.StateTransition, 0, len(d.History))
	for _, h := range d.History {
		history = append(history, entity.StateTransition{
			From:      entity.PresenceState(h.From),
			To:        entity.PresenceState(h.To),
			Timestamp: h.Timestamp,
			Reason:    h.Reason,
		})
	}

	return &entity.PresenceSession{
		VenueID:                 d.VenueID,
		UserID:                  d.UserID,
		EventID:                 d.EventID,
		State:                   entity.PresenceState(d.State),
		ProfileVisible:          d.ProfileVisible,
		JoinedAt:                d.JoinedAt,
		LastPingAt:              d.LastPingAt,
		LastInsideAt:            d.LastInsideAt,
		TimeInVenueSeconds:      d.TimeInVenueSeconds,
		ConsecutiveOutsidePings: d.ConsecutiveOutsidePings,
		PausedAt:                d.PausedAt,
		History:                 history,
		UpdatedAt:               d.UpdatedAt,
	}
}

type auditDoc struct {
	EventType     string    `firestore:"event_type"`
	UserID        string    `firestore:"user_id"`
	VenueID       string    `firestore:"venue_id"`
	Nonce         string    `firestore:"nonce,omitempty"`
	Outcome       string    `firestore:"outcome"`
	FailureReason string    `firestore:"failure_reason,omitempty"`
	MockDetected  bool      `firestore:"mock_detected"`
	Accuracy      *float64  `firestore:"accuracy"`
	Distance      *float64  `firestore:"distance"`
	RequestID     string    `firestore:"request_id,omitempty"`
	Timestamp     time.Time `firestore:"timestamp"`
}

type sampleDoc struct {
	UserID     string    `firestore:"user_id"`
	Latitude   float64   `firestore:"latitude"`
	Longitude  float64   `firestore:"longitude"`
	Accuracy   float64   `firestore:"accuracy"`
	CapturedAt time.Time `firestore:"captured_at"`
	ExpiresAt  time.Time `firestore:"expire_at"` // TTL field
}

type deviceDoc struct {
	ID        string    `firestore:"id"`
	UserID    string    `firestore:"user_id"`
	FCMToken  string    `firestore:"fcm_token"`
	DeviceID  string    `firestore:"device_id"`
	Platform  string    `firestore:"platform"`
	IsActive  bool      `firestore:"is_active"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func deviceDocID(userID, deviceID string) string {
	return userID + "_" + deviceID
}
