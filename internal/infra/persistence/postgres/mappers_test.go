package postgres

import (
	"testing"
	"time"

	"venuegate/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionMapping_ZeroTimesBecomeNull(t *testing.T) {
	now := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	session := entity.NewPresenceSession("v1", "u1", "v1_2025-03-01", now)

	sessionM := fromSessionDomain(session)
	assert.Nil(t, sessionM.LastPingAt)
	require.NotNil(t, sessionM.LastInsideAt)
	assert.Equal(t, "active", sessionM.State)

	back := toSessionDomain(sessionM)
	assert.True(t, back.LastPingAt.IsZero())
	assert.Equal(t, session.LastInsideAt, back.LastInsideAt)
	assert.Equal(t, session.History, back.History)
	assert.Equal(t, entity.PresenceActive, back.State)
}

func TestIsUniqueConstraintViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unrelated error", assert.AnError, false},
		{"duplicate key text", errString(`ERROR: duplicate key value violates unique constraint "entry_tokens_pkey" (SQLSTATE 23505)`), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueConstraintViolation(tt.err))
		})
	}
}

type errString string

func (e errString) Error() string { return string(e) }
