package impl

import (
	"context"
	"testing"
	"time"

	"venuegate/internal/domain/entity"
	domainerrors "venuegate/internal/domain/errors"
	"venuegate/internal/domain/presence"
	"venuegate/internal/domain/service"
	"venuegate/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// checkIn runs the full nonce and verify flow at 40 m.
func checkIn(t *testing.T, f *protocolFixture) {
	t.Helper()

	issued := f.issue(t, northOf(40, 10))
	f.clock.Advance(5 * time.Second)

	out, err := f.entry.VerifyEntry(context.Background(), &usecase.VerifyEntryInput{
		Nonce:    issued.Nonce,
		Location: northOf(40, 10),
		UserID:   testUserID,
	})
	require.NoError(t, err)
	require.True(t, out.Success)
}

func ping(t *testing.T, f *protocolFixture, location usecase.Location) *usecase.PingOutput {
	t.Helper()

	out, err := f.presence.ProcessPing(context.Background(), &usecase.PingInput{
		UserID:   testUserID,
		VenueID:  testVenueID,
		Location: location,
	})
	require.NoError(t, err)

	return out
}

func TestPresenceService_LeaveAndReturn(t *testing.T) {
	f := newProtocolFixture(t, testVenue(openAllWeek()))
	checkIn(t, f)

	var events []*service.PresenceEvent
	f.publisher.EXPECT().
		PublishPresenceEvent(mock.Anything, mock.AnythingOfType("*service.PresenceEvent")).
		Run(func(_ context.Context, event *service.PresenceEvent) { events = append(events, event) }).
		Return(nil).
		Times(2)

	f.clock.Advance(65 * time.Second)
	out := ping(t, f, northOf(70, 10))
	assert.Equal(t, entity.PresenceActive, out.NewState)
	assert.Equal(t, presence.ReasonOutside, out.Reason)
	assert.False(t, out.StateChanged)

	f.clock.Advance(61 * time.Second)
	out = ping(t, f, northOf(70, 10))
	assert.Equal(t, entity.PresenceActive, out.NewState)

	f.clock.Advance(61 * time.Second)
	out = ping(t, f, northOf(70, 10))
	assert.Equal(t, entity.PresencePaused, out.NewState)
	assert.True(t, out.StateChanged)
	assert.False(t, out.ProfileVisible)
	assert.Equal(t, presence.ReasonLeftGeofence, out.Reason)
	assert.Equal(t, 120*time.Second, out.NextPingInterval)

	f.clock.Advance(61 * time.Second)
	out = ping(t, f, northOf(59.5, 10))
	assert.Equal(t, entity.PresenceActive, out.NewState)
	assert.True(t, out.StateChanged)
	assert.True(t, out.ProfileVisible)
	assert.Equal(t, presence.ReasonReturnedInside, out.Reason)
	assert.Equal(t, 60*time.Second, out.NextPingInterval)

	require.Len(t, events, 2)
	assert.Equal(t, service.EventPresenceChanged, events[0].Type)
	assert.Equal(t, "active", events[0].From)
	assert.Equal(t, "paused", events[0].To)
	assert.Equal(t, "venue-1_2025-03-07", events[0].EventID)
	assert.Equal(t, "paused", events[1].From)
	assert.Equal(t, "active", events[1].To)

	session, err := f.presence.GetSession(context.Background(), testVenueID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, entity.PresenceActive, session.State)
	assert.Zero(t, session.ConsecutiveOutsidePings)
	assert.Nil(t, session.PausedAt)
	assert.Equal(t, int64(65+61+61), session.TimeInVenueSeconds)
	require.Len(t, session.History, 3)
	assert.Equal(t, presence.ReasonLeftGeofence, session.History[1].Reason)

	assert.Equal(t, []string{"active->paused:left_geofence", "paused->active:returned_inside"}, f.metrics.transitions)
}

func TestPresenceService_TooFrequentIsNotPersisted(t *testing.T) {
	f := newProtocolFixture(t, testVenue(openAllWeek()))
	checkIn(t, f)

	f.clock.Advance(70 * time.Second)
	first := ping(t, f, northOf(10, 10))
	assert.Equal(t, presence.ReasonInside, first.Reason)
	firstPingAt := f.clock.Now()

	f.clock.Advance(30 * time.Second)
	out := ping(t, f, northOf(500, 10))
	assert.Equal(t, presence.ReasonTooFrequent, out.Reason)
	assert.Equal(t, entity.PresenceActive, out.NewState)
	assert.False(t, out.StateChanged)
	assert.Equal(t, 120*time.Second, out.NextPingInterval)

	session, err := f.presence.GetSession(context.Background(), testVenueID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, firstPingAt, session.LastPingAt)
	assert.Zero(t, session.ConsecutiveOutsidePings)
}

func TestPresenceService_NoSession(t *testing.T) {
	f := newProtocolFixture(t, testVenue(openAllWeek()))

	out := ping(t, f, northOf(10, 10))

	assert.Equal(t, ReasonNoSession, out.Reason)
	assert.Equal(t, entity.PresenceInactive, out.NewState)
	assert.False(t, out.ProfileVisible)
	assert.Equal(t, 300*time.Second, out.NextPingInterval)
}

func TestPresenceService_ClosedVenueDeactivates(t *testing.T) {
	f := newProtocolFixture(t, testVenue(entity.WeeklySchedule{}))
	now := f.clock.Now()
	require.NoError(t, f.store.SaveSession(context.Background(), entity.NewPresenceSession(testVenueID, testUserID, "venue-1_2025-03-07", now)))

	f.publisher.EXPECT().
		PublishPresenceEvent(mock.Anything, mock.MatchedBy(func(event *service.PresenceEvent) bool {
			return event.To == "inactive" && event.Reason == presence.ReasonVenueClosed
		})).
		Return(nil).
		Once()

	f.clock.Advance(2 * time.Minute)
	out := ping(t, f, northOf(10, 10))
	assert.Equal(t, entity.PresenceInactive, out.NewState)
	assert.True(t, out.StateChanged)
	assert.Equal(t, presence.ReasonVenueClosed, out.Reason)

	session, err := f.presence.GetSession(context.Background(), testVenueID, testUserID)
	require.NoError(t, err)
	assert.False(t, session.ProfileVisible)
	assert.Equal(t, int64(120), session.TimeInVenueSeconds)
}

func TestPresenceService_DisabledVenueCountsAsClosed(t *testing.T) {
	venue := testVenue(openAllWeek())
	venue.EventHub.Enabled = false
	f := newProtocolFixture(t, venue)
	require.NoError(t, f.store.SaveSession(context.Background(), entity.NewPresenceSession(testVenueID, testUserID, "venue-1_2025-03-07", f.clock.Now())))

	f.publisher.EXPECT().PublishPresenceEvent(mock.Anything, mock.Anything).Return(nil).Once()

	f.clock.Advance(time.Minute)
	out := ping(t, f, northOf(10, 10))
	assert.Equal(t, entity.PresenceInactive, out.NewState)
	assert.Equal(t, presence.ReasonVenueClosed, out.Reason)
}

func TestPresenceService_GetSession_NotFound(t *testing.T) {
	f := newProtocolFixture(t, testVenue(openAllWeek()))

	session, err := f.presence.GetSession(context.Background(), testVenueID, "stranger")
	assert.Nil(t, session)
	assert.ErrorIs(t, err, domainerrors.ErrSessionNotFound)
}
