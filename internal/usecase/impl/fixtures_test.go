package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"venuegate/config"
	"venuegate/internal/domain/entity"
	"venuegate/internal/domain/geo"
	"venuegate/internal/infra/persistence/memory"
	"venuegate/internal/infra/qrcode"
	mockService "venuegate/internal/mocks/service"
	"venuegate/internal/usecase"

	"github.com/stretchr/testify/require"
)

const (
	testVenueID  = "venue-1"
	testQRCodeID = "qr-1"
	testUserID   = "user-1"
	venueLat     = 25.0330
	venueLng     = 121.5654
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Store.Timeout = time.Second
	cfg.Store.AuditTimeout = time.Second
	cfg.Store.Retry.MaxAttempts = 3
	cfg.Store.Retry.BaseDelay = time.Millisecond

	return cfg
}

// recordingMetrics keeps every observation for assertions.
type recordingMetrics struct {
	mu            sync.Mutex
	entries       []string
	transitions   []string
	auditFailures int
	storeAttempts map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{storeAttempts: make(map[string]int)}
}

func (m *recordingMetrics) ObserveEntry(step, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, step+":"+reason)
}

func (m *recordingMetrics) ObserveTransition(from, to, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, fmt.Sprintf("%s->%s:%s", from, to, reason))
}

func (m *recordingMetrics) ObserveAuditFailure(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auditFailures++
}

func (m *recordingMetrics) ObserveStoreCall(operation string, attempts int, _ time.Duration, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeAttempts[operation] += attempts
}

func (m *recordingMetrics) entryOutcomes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.entries...)
}

// testClock is a settable clock shared by the services under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// openAllWeek enables every weekday for the whole day.
func openAllWeek() entity.WeeklySchedule {
	schedule := entity.WeeklySchedule{}
	for day := time.Sunday; day <= time.Saturday; day++ {
		schedule[dayKey(day)] = entity.DaySchedule{Enabled: true, StartTime: "00:00", EndTime: "23:59"}
	}

	return schedule
}

func dayKey(day time.Weekday) string {
	return map[time.Weekday]string{
		time.Sunday:    "sunday",
		time.Monday:    "monday",
		time.Tuesday:   "tuesday",
		time.Wednesday: "wednesday",
		time.Thursday:  "thursday",
		time.Friday:    "friday",
		time.Saturday:  "saturday",
	}[day]
}

// testVenue is a 50 m radius rooftop bar, so 60 m effective radius and 10 minute tokens.
func testVenue(schedule entity.WeeklySchedule) *entity.Venue {
	return &entity.Venue{
		ID:           testVenueID,
		Name:         "Rooftop Bar",
		BusinessType: "rooftop bar",
		Latitude:     venueLat,
		Longitude:    venueLng,
		EventHub: &entity.EventHubSettings{
			Enabled:        true,
			QRCodeID:       testQRCodeID,
			LocationRadius: 50,
			Schedule:       schedule,
			Rules:          "18+ only",
			LocationTips:   "Enter from the lobby",
		},
	}
}

// northOf returns a location the given distance due north of the venue.
func northOf(meters, accuracy float64) usecase.Location {
	return usecase.Location{
		Latitude:  venueLat + meters/(geo.EarthRadiusMeters*math.Pi/180),
		Longitude: venueLng,
		Accuracy:  accuracy,
	}
}

func qrData(venueID, qrCodeID string) string {
	return fmt.Sprintf(`{"type":"venue_event","venueId":%q,"qrCodeId":%q}`, venueID, qrCodeID)
}

// protocolFixture wires the entry and presence services to one memory store.
type protocolFixture struct {
	store     *memory.Store
	publisher *mockService.MockEventPublisher
	metrics   *recordingMetrics
	clock     *testClock
	entry     *entryService
	presence  *presenceService
}

func newProtocolFixture(t *testing.T, venue *entity.Venue) *protocolFixture {
	t.Helper()

	store := memory.NewStore()
	if venue != nil {
		store.PutVenue(venue)
	}

	cfg := testConfig()
	publisher := mockService.NewMockEventPublisher(t)
	metrics := newRecordingMetrics()
	clock := &testClock{now: time.Date(2025, 3, 7, 20, 0, 0, 0, time.UTC)}

	entry := newEntryService(EntryServiceParams{
		Config:     cfg,
		TxManager:  store,
		VenueRepo:  store,
		TokenRepo:  store,
		AuditRepo:  store,
		SampleRepo: store,
		QRCodeSvc:  qrcode.NewQRCodeService(256, "M"),
		Publisher:  publisher,
		Metrics:    metrics,
		Logger:     testLogger(),
	})
	entry.now = clock.Now

	presenceSvc := newPresenceService(PresenceServiceParams{
		Config:       cfg,
		TxManager:    store,
		VenueRepo:    store,
		PresenceRepo: store,
		Publisher:    publisher,
		Metrics:      metrics,
		Logger:       testLogger(),
	})
	presenceSvc.now = clock.Now

	return &protocolFixture{
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		clock:     clock,
		entry:     entry,
		presence:  presenceSvc,
	}
}

// issue requests a nonce for testUserID at the given location and requires success.
func (f *protocolFixture) issue(t *testing.T, location usecase.Location) *usecase.IssueNonceOutput {
	t.Helper()

	out, err := f.entry.IssueNonce(context.Background(), &usecase.IssueNonceInput{
		StaticQRData: qrData(testVenueID, testQRCodeID),
		Location:     location,
		UserID:       testUserID,
	})
	require.NoError(t, err)
	require.True(t, out.Success, "issue nonce rejected: %s", out.Reason)

	return out
}
