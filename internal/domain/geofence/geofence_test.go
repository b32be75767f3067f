package geofence

import (
	"math"
	"testing"

	"venuegate/internal/domain/entity"
	"venuegate/internal/domain/geo"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

var venuePoint = orb.Point{121.5654, 25.0330}

func testConfig() *entity.VenueEventConfig {
	return &entity.VenueEventConfig{VenueID: "v", Location: venuePoint, Radius: 50, KFactor: 1.2}
}

// sampleNorthOf returns a sample the given number of meters north of the venue.
func sampleNorthOf(meters, accuracy float64) entity.LocationSample {
	dLat := meters / geo.EarthRadiusMeters * 180 / math.Pi

	return entity.LocationSample{Latitude: venuePoint.Lat() + dLat, Longitude: venuePoint.Lon(), Accuracy: accuracy}
}

func TestIsSuspicious(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous *entity.LocationSample
		want     bool
	}{
		{"sub five meter accuracy", 4.9, nil, true},
		{"five meters is plausible", 5, nil, false},
		{"normal accuracy without history", 15, nil, false},
		{"precision jump", 8, &entity.LocationSample{Accuracy: 150}, true},
		{"jump boundary on previous", 8, &entity.LocationSample{Accuracy: 100}, false},
		{"jump boundary on current", 10, &entity.LocationSample{Accuracy: 150}, false},
		{"steady poor accuracy", 120, &entity.LocationSample{Accuracy: 150}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSuspicious(entity.LocationSample{Accuracy: tt.current}, tt.previous))
		})
	}
}

func TestCheckLocation_RadiusBoundaries(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name     string
		distance float64
		accuracy float64
		previous *entity.LocationSample
		ok       bool
		mock     bool
		reason   entity.RejectionReason
	}{
		{"well inside", 40, 12, nil, true, false, ""},
		{"just inside effective radius", 59.9, 12, nil, true, false, ""},
		{"just outside effective radius", 60.1, 12, nil, false, false, entity.ReasonOutsideRadius},
		{"mock inside strict radius", 40, 3, nil, true, true, ""},
		{"mock outside strict radius", 45, 3, nil, false, true, entity.ReasonMockLocation},
		{"precision jump outside strict radius", 50, 8, &entity.LocationSample{Accuracy: 200}, false, true, entity.ReasonMockLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckLocation(sampleNorthOf(tt.distance, tt.accuracy), tt.previous, cfg)

			assert.Equal(t, tt.ok, result.OK)
			assert.Equal(t, tt.mock, result.MockDetected)
			assert.Equal(t, tt.reason, result.Reason)
			assert.InDelta(t, tt.distance, result.Distance, 0.01)
		})
	}
}

func TestCheckLocation_EffectiveRadiusProperty(t *testing.T) {
	for _, radius := range []float64{10, 50, 120} {
		for _, kFactor := range []float64{1, 1.2, 2} {
			cfg := &entity.VenueEventConfig{Location: venuePoint, Radius: radius, KFactor: kFactor}
			effective := radius * kFactor

			for _, distance := range []float64{0, effective * 0.5, effective - 0.05, effective + 0.05, effective * 3} {
				normal := CheckLocation(sampleNorthOf(distance, 20), nil, cfg)
				assert.Equal(t, distance <= effective, normal.OK, "radius=%v k=%v d=%v", radius, kFactor, distance)
				assert.InDelta(t, effective, normal.EffectiveRadius, 1e-9)

				strict := CheckLocation(sampleNorthOf(distance, 2), nil, cfg)
				assert.Equal(t, distance <= effective*SuspiciousRadiusFactor, strict.OK, "strict radius=%v k=%v d=%v", radius, kFactor, distance)
			}
		}
	}
}

func TestIsInside(t *testing.T) {
	cfg := testConfig()

	inside, distance := IsInside(sampleNorthOf(59.5, 3), cfg)
	assert.True(t, inside, "pings use the normal radius regardless of accuracy")
	assert.InDelta(t, 59.5, distance, 0.01)

	inside, _ = IsInside(sampleNorthOf(70, 15), cfg)
	assert.False(t, inside)
}
