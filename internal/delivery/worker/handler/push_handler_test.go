package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"venuegate/internal/domain/entity"
	"venuegate/internal/domain/service"
	mockRepo "venuegate/internal/mocks/repository"
	mockService "venuegate/internal/mocks/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type pushHandlerFixtures struct {
	handler         *PushHandler
	deviceRepo      *mockRepo.MockDeviceRepository
	notificationSvc *mockService.MockNotificationService
}

func createTestPushHandler(t *testing.T) pushHandlerFixtures {
	deviceRepo := mockRepo.NewMockDeviceRepository(t)
	notificationSvc := mockService.NewMockNotificationService(t)

	return pushHandlerFixtures{
		handler: &PushHandler{
			logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
			notificationSvc: notificationSvc,
			deviceRepo:      deviceRepo,
		},
		deviceRepo:      deviceRepo,
		notificationSvc: notificationSvc,
	}
}

func pushRequest(t *testing.T, event *service.PresenceEvent) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var msg PubSubMessage
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.MessageID = "m-1"
	msg.Message.Attributes = map[string]string{"request_id": "req-1"}
	body, err := json.Marshal(msg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/push", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return echo.New().NewContext(req, rec), rec
}

func changedEvent() *service.PresenceEvent {
	return &service.PresenceEvent{
		Type:       service.EventPresenceChanged,
		UserID:     "u1",
		VenueID:    "v1",
		EventID:    "v1_2025-03-01",
		From:       "active",
		To:         "paused",
		Reason:     "left_venue",
		OccurredAt: time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC),
	}
}

func TestHandlePush_PresenceChanged(t *testing.T) {
	fx := createTestPushHandler(t)
	devices := []*entity.UserDevice{
		{UserID: "u1", FCMToken: "t1", IsActive: true},
		{UserID: "u1", FCMToken: "t2", IsActive: true},
		{UserID: "u1", FCMToken: "t1", IsActive: true},
	}

	fx.deviceRepo.EXPECT().
		FindActiveDevicesByUser(mock.Anything, "u1").
		Return(devices, nil)
	fx.notificationSvc.EXPECT().
		SendBatchNotification(mock.Anything, []string{"t1", "t2"}, presenceNoticeTitle, mock.AnythingOfType("string"), mock.MatchedBy(func(data map[string]string) bool {
			return data["state"] == "paused" && data["venue_id"] == "v1"
		})).
		Return(1, 1, []string{"t2"}, nil)
	fx.deviceRepo.EXPECT().
		DeactivateDeviceByToken(mock.Anything, "t2").
		Return(nil)

	c, rec := pushRequest(t, changedEvent())
	require.NoError(t, fx.handler.HandlePush(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePush_DeviceLookupFailureIsRetried(t *testing.T) {
	fx := createTestPushHandler(t)

	fx.deviceRepo.EXPECT().
		FindActiveDevicesByUser(mock.Anything, "u1").
		Return(nil, assert.AnError)

	c, rec := pushRequest(t, changedEvent())
	require.NoError(t, fx.handler.HandlePush(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlePush_NoDevices(t *testing.T) {
	fx := createTestPushHandler(t)

	fx.deviceRepo.EXPECT().
		FindActiveDevicesByUser(mock.Anything, "u1").
		Return([]*entity.UserDevice{}, nil)

	c, rec := pushRequest(t, changedEvent())
	require.NoError(t, fx.handler.HandlePush(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePush_BatchesOf500(t *testing.T) {
	fx := createTestPushHandler(t)
	devices := make([]*entity.UserDevice, 0, 501)
	for i := range 501 {
		devices = append(devices, &entity.UserDevice{UserID: "u1", FCMToken: fmt.Sprintf("t%d", i), IsActive: true})
	}

	fx.deviceRepo.EXPECT().
		FindActiveDevicesByUser(mock.Anything, "u1").
		Return(devices, nil)
	fx.notificationSvc.EXPECT().
		SendBatchNotification(mock.Anything, mock.MatchedBy(func(tokens []string) bool { return len(tokens) == 500 }), mock.Anything, mock.Anything, mock.Anything).
		Return(500, 0, nil, nil).
		Once()
	fx.notificationSvc.EXPECT().
		SendBatchNotification(mock.Anything, []string{"t500"}, mock.Anything, mock.Anything, mock.Anything).
		Return(1, 0, nil, nil).
		Once()

	c, rec := pushRequest(t, changedEvent())
	require.NoError(t, fx.handler.HandlePush(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePush_MockLocationIsLogged(t *testing.T) {
	fx := createTestPushHandler(t)
	event := &service.PresenceEvent{Type: service.EventMockLocation, UserID: "u1", VenueID: "v1", Reason: "mock_location"}

	c, rec := pushRequest(t, event)
	require.NoError(t, fx.handler.HandlePush(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePush_BadPayload(t *testing.T) {
	fx := createTestPushHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/push", bytes.NewBufferString(`{"message":{"data":"%%%"}}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, fx.handler.HandlePush(echo.New().NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePush_RejectsUnverifiedPush(t *testing.T) {
	fx := createTestPushHandler(t)
	fx.handler.verifyPushAuth = true
	fx.handler.verifyToken = func(*http.Request) error { return assert.AnError }

	c, rec := pushRequest(t, changedEvent())
	require.NoError(t, fx.handler.HandlePush(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExtractRequestID(t *testing.T) {
	h := &PushHandler{}
	msg := &PubSubMessage{}

	assert.Equal(t, "from-event", h.extractRequestID(context.Background(), msg, &service.PresenceEvent{RequestID: "from-event"}))

	msg.Message.Attributes = map[string]string{"request_id": "from-attr"}
	assert.Equal(t, "from-attr", h.extractRequestID(context.Background(), msg, &service.PresenceEvent{RequestID: "from-event"}))

	assert.NotEmpty(t, h.extractRequestID(context.Background(), &PubSubMessage{}, &service.PresenceEvent{}))
}

func TestPresenceNotice_DefaultBody(t *testing.T) {
	body, data := presenceNotice(&service.PresenceEvent{Type: service.EventPresenceChanged, VenueID: "v1", To: "inactive"})

	assert.NotEmpty(t, body)
	assert.Equal(t, "inactive", data["state"])
	assert.NotContains(t, data, "event_id")
}
