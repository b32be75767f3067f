package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"venuegate/config"
	"venuegate/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocalHTTPPublisher_PostsPushMessage(t *testing.T) {
	var received PushMessage
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	event := &service.PresenceEvent{
		RequestID:  "req-1",
		Type:       service.EventPresenceChanged,
		UserID:     "u1",
		VenueID:    "v1",
		From:       "active",
		To:         "paused",
		OccurredAt: time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC),
	}

	publisher := NewLocalHTTPPublisher(server.URL, testLogger())
	require.NoError(t, publisher.PublishPresenceEvent(context.Background(), event))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, "req-1", received.Message.Attributes["request_id"])
	assert.Equal(t, service.EventPresenceChanged, received.Message.Attributes["type"])
	assert.NotEmpty(t, received.Message.MessageID)

	raw, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)
	var decoded service.PresenceEvent
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "paused", decoded.To)
	assert.Equal(t, "v1", decoded.VenueID)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, testLogger())
	err := publisher.PublishPresenceEvent(context.Background(), &service.PresenceEvent{Type: service.EventMockLocation})
	assert.ErrorContains(t, err, "503")
}

func TestNewEventPublisher_NotConfigured(t *testing.T) {
	publisher, err := NewEventPublisher(PublisherParams{
		Lc:     fxtest.NewLifecycle(t),
		Ctx:    context.Background(),
		Config: &config.Config{},
		Logger: testLogger(),
	})
	require.NoError(t, err)
	assert.IsType(t, &noopPublisher{}, publisher)
	assert.NoError(t, publisher.PublishPresenceEvent(context.Background(), &service.PresenceEvent{}))
}

func TestNewEventPublisher_Validation(t *testing.T) {
	tests := []struct {
		name   string
		pubsub *config.PubSubConfig
		errMsg string
	}{
		{"local without endpoint", &config.PubSubConfig{Provider: "local"}, "local endpoint is required"},
		{"google without project", &config.PubSubConfig{Provider: "google", TopicID: "t"}, "project ID is required"},
		{"google without topic", &config.PubSubConfig{Provider: "google", ProjectID: "p"}, "topic ID is required"},
		{"unknown", &config.PubSubConfig{Provider: "kafka"}, "unknown pubsub provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEventPublisher(PublisherParams{
				Lc:     fxtest.NewLifecycle(t),
				Ctx:    context.Background(),
				Config: &config.Config{PubSub: tt.pubsub},
				Logger: testLogger(),
			})
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

type capturingPublisher struct {
	ctx    context.Context
	closed bool
}

func (p *capturingPublisher) PublishPresenceEvent(ctx context.Context, _ *service.PresenceEvent) error {
	p.ctx = ctx

	return ctx.Err()
}

func (p *capturingPublisher) Close() error {
	p.closed = true

	return nil
}

func TestDetachedPublisher_OutlivesCanceledRequest(t *testing.T) {
	next := &capturingPublisher{}
	publisher := &detachedPublisher{next: next, timeout: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, publisher.PublishPresenceEvent(ctx, &service.PresenceEvent{Type: service.EventPresenceChanged}))
	deadline, ok := next.ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)

	require.NoError(t, publisher.Close())
	assert.True(t, next.closed)
}

func TestNewEventPublisher_LocalIsDetached(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	publisher, err := NewEventPublisher(PublisherParams{
		Lc:     lc,
		Ctx:    context.Background(),
		Config: &config.Config{PubSub: &config.PubSubConfig{Provider: "local", LocalEndpoint: "http://localhost:1/push"}},
		Logger: testLogger(),
	})
	require.NoError(t, err)

	detached, ok := publisher.(*detachedPublisher)
	require.True(t, ok)
	assert.Equal(t, defaultPublishTimeout, detached.timeout)
	assert.IsType(t, &localHTTPPublisher{}, detached.next)
	lc.RequireStart().RequireStop()
}
