package util

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{name: "under one minute", duration: 45 * time.Second, expected: "45s"},
		{name: "rounded second to minute", duration: 59*time.Second + 500*time.Millisecond, expected: "1m"},
		{name: "whole minutes", duration: 10 * time.Minute, expected: "10m"},
		{name: "minutes and seconds", duration: 2*time.Minute + 30*time.Second, expected: "2m30s"},
		{name: "hours and minutes", duration: time.Hour + 30*time.Minute, expected: "1h30m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatDuration(tt.duration); got != tt.expected {
				t.Fatalf("FormatDuration(%s) = %s, want %s", tt.duration, got, tt.expected)
			}
		})
	}
}

func TestRandomHex(t *testing.T) {
	t.Parallel()

	first, err := RandomHex(32)
	require.NoError(t, err)
	second, err := RandomHex(32)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), first)
	assert.NotEqual(t, first, second)
}

func TestNewSortableID(t *testing.T) {
	t.Parallel()

	now := time.Now()
	earlier := NewSortableID(now)
	later := NewSortableID(now.Add(time.Millisecond))

	assert.Len(t, earlier, 26)
	assert.Less(t, earlier, later)
}
