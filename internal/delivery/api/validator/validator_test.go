package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type location struct {
	Latitude  *float64 `json:"lat" validate:"required,latitude"`
	Longitude *float64 `json:"lng" validate:"required,longitude"`
}

type request struct {
	Nonce    string    `json:"nonce" validate:"required,len=64,hexadecimal"`
	Location *location `json:"location" validate:"required"`
}

func ptr(f float64) *float64 { return &f }

func TestValidate_FieldErrors(t *testing.T) {
	v := New()

	err := v.Validate(&request{Nonce: "xyz", Location: &location{Latitude: ptr(91)}})
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Equal(t, "len", fields["nonce"])
	assert.Equal(t, "latitude", fields["location.lat"])
	assert.Equal(t, "required", fields["location.lng"])
}

func TestValidate_OK(t *testing.T) {
	v := New()
	nonce := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

	assert.NoError(t, v.Validate(&request{Nonce: nonce, Location: &location{Latitude: ptr(0), Longitude: ptr(0)}}))
	assert.Nil(t, FieldErrors(nil))
}
