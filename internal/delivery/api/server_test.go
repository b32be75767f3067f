package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"venuegate/config"
	apimiddleware "venuegate/internal/delivery/api/middleware"
	"venuegate/internal/delivery/api/response"
	"venuegate/internal/delivery/api/router"
	"venuegate/internal/delivery/api/router/handler"
	"venuegate/internal/domain/constants"
	"venuegate/internal/domain/entity"
	domainerrors "venuegate/internal/domain/errors"
	"venuegate/internal/domain/service"
	"venuegate/internal/infra/metrics"
	mockService "venuegate/internal/mocks/service"
	mockUsecase "venuegate/internal/mocks/usecase"
	"venuegate/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	userToken  = "user-token"
	adminToken = "admin-token"
	testNonce  = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
)

type apiFixtures struct {
	echo       *echo.Echo
	entryUC    *mockUsecase.MockEntryUsecase
	presenceUC *mockUsecase.MockPresenceUsecase
	deviceUC   *mockUsecase.MockDeviceUsecase
	venueUC    *mockUsecase.MockVenueUsecase
	limiter    *mockUsecase.MockRateLimiter
}

func createTestAPI(t *testing.T) apiFixtures {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	cfg.HTTP.MaxRequestBodySize = "100KB"
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"

	tokenSvc := mockService.NewMockTokenService(t)
	tokenSvc.EXPECT().ValidateToken(userToken).Return(&service.Claims{UserID: "u1"}, nil).Maybe()
	tokenSvc.EXPECT().ValidateToken(adminToken).Return(&service.Claims{UserID: "a1", Roles: []string{entity.RoleVenueAdmin.String()}}, nil).Maybe()
	tokenSvc.EXPECT().ValidateToken(mock.Anything).Return(nil, assert.AnError).Maybe()

	fx := apiFixtures{
		entryUC:    mockUsecase.NewMockEntryUsecase(t),
		presenceUC: mockUsecase.NewMockPresenceUsecase(t),
		deviceUC:   mockUsecase.NewMockDeviceUsecase(t),
		venueUC:    mockUsecase.NewMockVenueUsecase(t),
		limiter:    mockUsecase.NewMockRateLimiter(t),
	}
	fx.limiter.EXPECT().Allow(mock.Anything, mock.Anything, mock.Anything).Return(true).Maybe()

	m := metrics.New()
	fx.echo = newEcho(ServerParams{
		Cfg:     cfg,
		Logger:  logger,
		Metrics: m,
		RouterParams: router.RouterParams{
			EntryHandler:        handler.NewEntryHandler(handler.EntryHandlerParams{EntryUC: fx.entryUC, Logger: logger}),
			PresenceHandler:     handler.NewPresenceHandler(handler.PresenceHandlerParams{PresenceUC: fx.presenceUC, Logger: logger}),
			DeviceHandler:       handler.NewDeviceHandler(handler.DeviceHandlerParams{DeviceUC: fx.deviceUC, Logger: logger}),
			VenueHandler:        handler.NewVenueHandler(fx.venueUC),
			AuthMiddleware:      apimiddleware.NewAuthMiddleware(tokenSvc),
			RateLimitMiddleware: apimiddleware.NewRateLimitMiddleware(fx.limiter),
			Metrics:             m,
			Config:              cfg,
		},
	})

	return fx
}

func (fx apiFixtures) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	fx.echo.ServeHTTP(rec, req)

	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()

	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)

	return body
}

func location() map[string]float64 {
	return map[string]float64{"lat": 25.033, "lng": 121.5654, "accuracy": 15}
}

func TestHealth(t *testing.T) {
	fx := createTestAPI(t)

	rec := fx.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_MissingAndInvalidToken(t *testing.T) {
	fx := createTestAPI(t)

	rec := fx.do(http.MethodPost, "/v1/entry/nonce", "", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "MISSING_TOKEN", decodeError(t, rec).Error.Code)

	rec = fx.do(http.MethodPost, "/v1/entry/nonce", "forged", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_TOKEN", decodeError(t, rec).Error.Code)
}

func TestIssueNonce_Success(t *testing.T) {
	fx := createTestAPI(t)
	expiresAt := time.Date(2025, 3, 1, 20, 10, 0, 0, time.UTC)

	fx.entryUC.EXPECT().
		IssueNonce(mock.Anything, mock.MatchedBy(func(in *usecase.IssueNonceInput) bool {
			return in.UserID == "u1" && in.StaticQRData == "qr" && in.Location.Accuracy == 15
		})).
		Return(&usecase.IssueNonceOutput{Success: true, Nonce: testNonce, EventID: "v1_2025-03-01", VenueID: "v1", ExpiresAt: expiresAt, VenueRules: "no smoking"}, nil)

	rec := fx.do(http.MethodPost, "/v1/entry/nonce", userToken, map[string]any{"static_qr_data": "qr", "location": location()})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool                   `json:"success"`
		Data    handler.NonceResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, testNonce, body.Data.Nonce)
	assert.Equal(t, "no smoking", body.Data.VenueRules)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestIssueNonce_OutsideRadiusCarriesTips(t *testing.T) {
	fx := createTestAPI(t)

	fx.entryUC.EXPECT().
		IssueNonce(mock.Anything, mock.Anything).
		Return(&usecase.IssueNonceOutput{Reason: entity.ReasonOutsideRadius, Message: "too far", LocationTips: "stand by the bar", VenueRules: "be nice"}, nil)

	rec := fx.do(http.MethodPost, "/v1/entry/nonce", userToken, map[string]any{"static_qr_data": "qr", "location": location()})
	require.Equal(t, http.StatusForbidden, rec.Code)

	body := decodeError(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "outside_radius", body.Error.Code)
	data, ok := body.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "stand by the bar", data["location_tips"])
	assert.Equal(t, "be nice", data["venue_rules"])
}

func TestIssueNonce_ValidationError(t *testing.T) {
	fx := createTestAPI(t)

	rec := fx.do(http.MethodPost, "/v1/entry/nonce", userToken, map[string]any{
		"static_qr_data": "qr",
		"location":       map[string]float64{"lat": 95, "lng": 121.5},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	details, ok := body.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "lte", details["location.lat"])
	assert.Equal(t, "required", details["location.accuracy"])
}

func TestVerifyEntry_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		out        *usecase.VerifyEntryOutput
		wantStatus int
		wantRescan bool
	}{
		{"invalid token", &usecase.VerifyEntryOutput{Reason: entity.ReasonInvalidToken}, http.StatusNotFound, false},
		{"expired", &usecase.VerifyEntryOutput{Reason: entity.ReasonExpiredToken, RequiresRescan: true}, http.StatusGone, true},
		{"consumed", &usecase.VerifyEntryOutput{Reason: entity.ReasonTokenConsumed}, http.StatusConflict, false},
		{"binding", &usecase.VerifyEntryOutput{Reason: entity.ReasonInvalidBinding}, http.StatusForbidden, false},
		{"mock", &usecase.VerifyEntryOutput{Reason: entity.ReasonMockLocation, RequiresRescan: true}, http.StatusForbidden, true},
		{"invalid qr", &usecase.VerifyEntryOutput{Reason: entity.ReasonInvalidQR}, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAPI(t)
			fx.entryUC.EXPECT().VerifyEntry(mock.Anything, mock.Anything).Return(tt.out, nil)

			rec := fx.do(http.MethodPost, "/v1/entry/verify", userToken, map[string]any{"nonce": testNonce, "location": location()})
			require.Equal(t, tt.wantStatus, rec.Code)

			body := decodeError(t, rec)
			assert.Equal(t, string(tt.out.Reason), body.Error.Code)
			data, ok := body.Data.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.wantRescan, data["requires_rescan"])
		})
	}
}

func TestVerifyEntry_BadNonceFormat(t *testing.T) {
	fx := createTestAPI(t)

	rec := fx.do(http.MethodPost, "/v1/entry/verify", userToken, map[string]any{"nonce": "zz", "location": location()})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyEntry_StoreUnavailable(t *testing.T) {
	fx := createTestAPI(t)
	fx.entryUC.EXPECT().VerifyEntry(mock.Anything, mock.Anything).Return(nil, domainerrors.ErrStoreUnavailable)

	rec := fx.do(http.MethodPost, "/v1/entry/verify", userToken, map[string]any{"nonce": testNonce, "location": location()})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "STORE_UNAVAILABLE", decodeError(t, rec).Error.Code)
}

func TestRateLimited(t *testing.T) {
	fx := createTestAPI(t)
	fx.limiter.ExpectedCalls = nil
	fx.limiter.EXPECT().Allow(mock.Anything, constants.RoutePing, "u1").Return(false)

	rec := fx.do(http.MethodPost, "/v1/presence/ping", userToken, map[string]any{"venue_id": "v1", "location": location()})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", decodeError(t, rec).Error.Code)
}

func TestPing_TooFrequentIsOK(t *testing.T) {
	fx := createTestAPI(t)
	fx.presenceUC.EXPECT().
		ProcessPing(mock.Anything, mock.MatchedBy(func(in *usecase.PingInput) bool { return in.VenueID == "v1" && in.UserID == "u1" })).
		Return(&usecase.PingOutput{NewState: entity.PresenceActive, ProfileVisible: true, NextPingInterval: 2 * time.Minute, Reason: "too_frequent"}, nil)

	rec := fx.do(http.MethodPost, "/v1/presence/ping", userToken, map[string]any{"venue_id": "v1", "location": location(), "battery_level": 80})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data handler.PingResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 120, body.Data.NextPingIntervalSeconds)
	assert.Equal(t, "too_frequent", body.Data.Reason)
	assert.True(t, body.Data.ProfileVisible)
}

func TestGetSession_NotFound(t *testing.T) {
	fx := createTestAPI(t)
	fx.presenceUC.EXPECT().GetSession(mock.Anything, "v1", "u1").Return(nil, domainerrors.ErrSessionNotFound)

	rec := fx.do(http.MethodGet, "/v1/presence/v1", userToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SESSION_NOT_FOUND", decodeError(t, rec).Error.Code)
}

func TestRegisterDevice(t *testing.T) {
	fx := createTestAPI(t)
	fx.deviceUC.EXPECT().
		RegisterDevice(mock.Anything, "u1", &usecase.DeviceInfo{FCMToken: "fcm", DeviceID: "phone", Platform: "ios"}).
		Return(&entity.UserDevice{UserID: "u1", FCMToken: "fcm", DeviceID: "phone", Platform: "ios", IsActive: true}, nil)

	rec := fx.do(http.MethodPost, "/v1/devices", userToken, map[string]any{"fcm_token": "fcm", "device_id": "phone", "platform": "ios"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = fx.do(http.MethodPost, "/v1/devices", userToken, map[string]any{"fcm_token": "fcm", "device_id": "phone", "platform": "windows"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVenueQRCode_RequiresAdmin(t *testing.T) {
	fx := createTestAPI(t)

	rec := fx.do(http.MethodGet, "/v1/venues/v1/qrcode", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	fx.venueUC.EXPECT().GenerateVenueQR(mock.Anything, "v1").Return([]byte("\x89PNG"), nil)

	rec = fx.do(http.MethodGet, "/v1/venues/v1/qrcode", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
}

func TestMetricsEndpoint(t *testing.T) {
	fx := createTestAPI(t)
	fx.do(http.MethodGet, "/health", "", nil)

	rec := fx.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `venuegate_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
