// Package geofence decides whether a location sample is inside a venue's check-in radius.
//
// The mock-location heuristic only reduces spoofing risk. A spoofing tool that reports
// plausible accuracy values passes it unchanged.
package geofence

import (
	"venuegate/internal/domain/entity"
	"venuegate/internal/domain/geo"
)

const (
	// SuspiciousAccuracyMeters is the accuracy below which real GPS fixes are implausible.
	SuspiciousAccuracyMeters = 5.0
	// PrecisionJumpFromMeters and PrecisionJumpToMeters bound an implausible jump
	// between consecutive samples.
	PrecisionJumpFromMeters = 100.0
	PrecisionJumpToMeters   = 10.0
	// SuspiciousRadiusFactor shrinks the effective radius for suspicious samples.
	SuspiciousRadiusFactor = 0.7
)

// Result is the outcome of CheckLocation.
type Result struct {
	OK              bool
	MockDetected    bool
	Reason          entity.RejectionReason // Empty when OK.
	Distance        float64
	EffectiveRadius float64
}

// IsSuspicious flags samples whose accuracy pattern suggests a spoofed location.
// previous is the user's preceding sample and may be nil.
func IsSuspicious(current entity.LocationSample, previous *entity.LocationSample) bool {
	if current.Accuracy < SuspiciousAccuracyMeters {
		return true
	}

	return previous != nil &&
		previous.Accuracy > PrecisionJumpFromMeters &&
		current.Accuracy < PrecisionJumpToMeters
}

// CheckLocation measures the sample against the venue's effective radius, shrunk
// when the sample looks spoofed.
func CheckLocation(current entity.LocationSample, previous *entity.LocationSample, cfg *entity.VenueEventConfig) Result {
	mock := IsSuspicious(current, previous)

	radius := cfg.EffectiveRadius()
	if mock {
		radius *= SuspiciousRadiusFactor
	}

	distance := geo.DistanceMeters(cfg.Location, current.Point())
	result := Result{
		OK:              distance <= radius,
		MockDetected:    mock,
		Distance:        distance,
		EffectiveRadius: radius,
	}

	switch {
	case result.OK:
	case mock:
		result.Reason = entity.ReasonMockLocation
	default:
		result.Reason = entity.ReasonOutsideRadius
	}

	return result
}

// IsInside reports whether a sample lies within the venue's normal effective radius.
func IsInside(current entity.LocationSample, cfg *entity.VenueEventConfig) (inside bool, distance float64) {
	distance = geo.DistanceMeters(cfg.Location, current.Point())

	return distance <= cfg.EffectiveRadius(), distance
}
