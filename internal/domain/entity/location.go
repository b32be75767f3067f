package entity

import (
	"time"

	"github.com/paulmach/orb"
)

// LocationSample is one GPS fix reported by a client.
type LocationSample struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy"` // Reported horizontal accuracy in meters.
	CapturedAt time.Time `json:"captured_at"`
}

// Point returns the sample as an orb point (longitude first).
func (s LocationSample) Point() orb.Point {
	return orb.Point{s.Longitude, s.Latitude}
}
