// Package entity contains the core business objects of the project.
package entity

import (
	"strings"
	"time"

	"github.com/paulmach/orb"
)

// Venue is the stored venue record. Only the fields the entry protocol reads are modelled.
type Venue struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	BusinessType string            `json:"business_type"` // Free text entered by the venue owner.
	Latitude     float64           `json:"latitude"`
	Longitude    float64           `json:"longitude"`
	EventHub     *EventHubSettings `json:"event_hub,omitempty"`
}

// EventHubSettings configures check-in for a venue. A nil or disabled value means the venue takes no check-ins.
type EventHubSettings struct {
	Enabled        bool           `json:"enabled"`
	QRCodeID       string         `json:"qr_code_id"`
	LocationRadius float64        `json:"location_radius"` // Meters, 0 means default.
	KFactor        float64        `json:"k_factor"`        // Radius multiplier, 0 means default.
	Timezone       string         `json:"timezone"`        // IANA name, empty means UTC.
	VenueType      string         `json:"venue_type"`      // Optional explicit VenueType.
	Schedule       WeeklySchedule `json:"schedule"`
	Rules          string         `json:"rules"`
	LocationTips   string         `json:"location_tips"`
}

// VenueType determines how long an entry token stays valid.
type VenueType string

const (
	// VenueTypeOutdoor is an open-air venue with good GPS reception.
	VenueTypeOutdoor VenueType = "outdoor"
	// VenueTypeIndoorComplex is a large building where reaching the entrance takes a while.
	VenueTypeIndoorComplex VenueType = "indoor_complex"
	// VenueTypeIndoorSimple is a single-room indoor venue and the default.
	VenueTypeIndoorSimple VenueType = "indoor_simple"
)

// IsValid checks if the VenueType is a known value.
func (t VenueType) IsValid() bool {
	switch t {
	case VenueTypeOutdoor, VenueTypeIndoorComplex, VenueTypeIndoorSimple:
		return true
	default:
		return false
	}
}

// String returns the string representation of the VenueType.
func (t VenueType) String() string {
	return string(t)
}

var (
	outdoorKeywords       = []string{"park", "beach", "garden", "festival", "outdoor", "rooftop", "terrace"}
	indoorComplexKeywords = []string{"mall", "stadium", "arena", "complex", "convention", "airport", "campus", "club"}
)

// ResolveVenueType returns the explicit type when it is valid, otherwise infers one
// from the business type keywords. Anything unrecognised is indoor_simple.
func ResolveVenueType(explicit, businessType string) VenueType {
	if t := VenueType(strings.ToLower(strings.TrimSpace(explicit))); t.IsValid() {
		return t
	}

	normalized := strings.ToLower(businessType)
	for _, keyword := range outdoorKeywords {
		if strings.Contains(normalized, keyword) {
			return VenueTypeOutdoor
		}
	}
	for _, keyword := range indoorComplexKeywords {
		if strings.Contains(normalized, keyword) {
			return VenueTypeIndoorComplex
		}
	}

	return VenueTypeIndoorSimple
}

// VenueDefaults are applied when event hub settings leave a value unset.
type VenueDefaults struct {
	Radius  float64
	KFactor float64
}

// DefaultVenueDefaults returns the stock radius (50 m) and k-factor (1.2).
func DefaultVenueDefaults() VenueDefaults {
	return VenueDefaults{Radius: 50, KFactor: 1.2}
}

// VenueEventConfig is the read-only view of a venue's check-in configuration.
// It is derived from Venue on every read and never stored.
type VenueEventConfig struct {
	VenueID      string
	QRCodeID     string
	Location     orb.Point
	Radius       float64
	KFactor      float64
	TimeZone     *time.Location
	Schedule     WeeklySchedule
	Rules        string
	LocationTips string
	VenueType    VenueType
}

// NewVenueEventConfig derives the check-in view of a venue. It reports false when
// the venue has no enabled event hub settings.
func NewVenueEventConfig(venue *Venue, defaults VenueDefaults) (*VenueEventConfig, bool) {
	if venue == nil || venue.EventHub == nil || !venue.EventHub.Enabled {
		return nil, false
	}
	hub := venue.EventHub

	radius := hub.LocationRadius
	if radius <= 0 {
		radius = defaults.Radius
	}
	kFactor := hub.KFactor
	if kFactor <= 0 {
		kFactor = defaults.KFactor
	}

	return &VenueEventConfig{
		VenueID:      venue.ID,
		QRCodeID:     hub.QRCodeID,
		Location:     orb.Point{venue.Longitude, venue.Latitude},
		Radius:       radius,
		KFactor:      kFactor,
		TimeZone:     loadTimeZone(hub.Timezone),
		Schedule:     hub.Schedule,
		Rules:        hub.Rules,
		LocationTips: hub.LocationTips,
		VenueType:    ResolveVenueType(hub.VenueType, venue.BusinessType),
	}, true
}

// EffectiveRadius is the configured radius widened by the k-factor.
func (c *VenueEventConfig) EffectiveRadius() float64 {
	return c.Radius * c.KFactor
}

// loadTimeZone falls back to UTC for empty or unknown zone names.
func loadTimeZone(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}

	return loc
}
