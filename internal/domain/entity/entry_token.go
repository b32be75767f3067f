package entity

import "time"

// EntryToken is the single-use nonce minted after a successful static QR scan.
// It moves from unconsumed to consumed exactly once.
type EntryToken struct {
	Nonce      string     `json:"nonce"` // 64 hex characters.
	VenueID    string     `json:"venue_id"`
	QRCodeID   string     `json:"qr_code_id"`
	UserID     string     `json:"user_id,omitempty"`    // Binding to the requesting user, empty if unbound.
	SessionID  string     `json:"session_id,omitempty"` // Client session that requested the nonce.
	VenueType  VenueType  `json:"venue_type"`
	IssuedAt   time.Time  `json:"issued_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	Consumed   bool       `json:"consumed"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
}

// IsExpired reports whether now is past the token's expiry.
func (t *EntryToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// IsBoundTo reports whether userID may redeem the token. Unbound tokens accept anyone.
func (t *EntryToken) IsBoundTo(userID string) bool {
	return t.UserID == "" || t.UserID == userID
}

// TokenLifetimes maps each venue type to the validity of its entry tokens.
type TokenLifetimes struct {
	Outdoor       time.Duration
	IndoorSimple  time.Duration
	IndoorComplex time.Duration
	Default       time.Duration
}

// DefaultTokenLifetimes returns 10/12/15 minutes with a 10 minute fallback.
func DefaultTokenLifetimes() TokenLifetimes {
	return TokenLifetimes{
		Outdoor:       10 * time.Minute,
		IndoorSimple:  12 * time.Minute,
		IndoorComplex: 15 * time.Minute,
		Default:       10 * time.Minute,
	}
}

// For returns the lifetime of a venue type.
func (l TokenLifetimes) For(venueType VenueType) time.Duration {
	switch venueType {
	case VenueTypeOutdoor:
		return l.Outdoor
	case VenueTypeIndoorSimple:
		return l.IndoorSimple
	case VenueTypeIndoorComplex:
		return l.IndoorComplex
	default:
		return l.Default
	}
}
