// Package handler processes Pub/Sub push deliveries of presence events.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"venuegate/config"
	deliverycontext "venuegate/internal/delivery/context"
	"venuegate/internal/domain/constants"
	"venuegate/internal/domain/entity"
	"venuegate/internal/domain/repository"
	"venuegate/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// maxTokensPerBatch is the FCM multicast limit.
const maxTokensPerBatch = 500

const presenceNoticeTitle = "場地狀態更新"

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// retryableError wraps an error to indicate it should trigger a Pub/Sub retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// newRetryableError wraps an error as retryable
func newRetryableError(err error) error {
	return &retryableError{err: err}
}

// isRetryableError checks if an error is retryable
func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// PushHandler turns presence events into device notifications.
type PushHandler struct {
	verifyPushAuth  bool
	verifyToken     func(req *http.Request) error
	logger          *slog.Logger
	notificationSvc service.NotificationService
	deviceRepo      repository.DeviceRepository
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config          *config.Config
	Logger          *slog.Logger
	NotificationSvc service.NotificationService
	DeviceRepo      repository.DeviceRepository
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Push requests carry an OIDC token only when delivered by Google Pub/Sub.
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &PushHandler{
		verifyPushAuth:  verifyPushAuth,
		verifyToken:     verifyPubSubToken,
		logger:          params.Logger,
		notificationSvc: params.NotificationSvc,
		deviceRepo:      params.DeviceRepo,
	}
}

// HandlePush handles incoming Pub/Sub push messages.
// It answers 503 for retryable failures so Pub/Sub redelivers, and 200 otherwise.
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := h.verifyToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.PresenceEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse presence event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := h.extractRequestID(ctx, &pushMsg, &event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	if err := h.processEvent(ctx, &event); err != nil {
		reqLogger.Error("[Worker] Failed to process presence event",
			slog.String("type", event.Type),
			slog.String("venue_id", event.VenueID),
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	return c.NoContent(http.StatusOK)
}

// extractRequestID prefers message attributes, then the event, then the request context.
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.PresenceEvent) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	if event.RequestID != "" {
		return event.RequestID
	}

	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

func (h *PushHandler) processEvent(ctx context.Context, event *service.PresenceEvent) error {
	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)

	switch event.Type {
	case service.EventPresenceChanged:
		return h.notifyPresenceChange(ctx, event)

	case service.EventMockLocation:
		logger.Warn("[Worker] Mock location reported",
			slog.String("user_id", event.UserID),
			slog.String("venue_id", event.VenueID),
			slog.String("reason", event.Reason),
			slog.Time("occurred_at", event.OccurredAt),
		)

		return nil

	default:
		logger.Warn("[Worker] Ignoring unknown event type", slog.String("type", event.Type))

		return nil
	}
}

// notifyPresenceChange pushes the state change to every active device of the user and
// deactivates devices whose tokens FCM rejects.
func (h *PushHandler) notifyPresenceChange(ctx context.Context, event *service.PresenceEvent) error {
	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)

	if event.UserID == "" {
		return errors.New("presence event without user id")
	}

	devices, err := h.deviceRepo.FindActiveDevicesByUser(ctx, event.UserID)
	if err != nil {
		return newRetryableError(errors.Wrap(err, "failed to find devices"))
	}
	if len(devices) == 0 {
		logger.Debug("[Worker] No active devices to notify", slog.String("user_id", event.UserID))

		return nil
	}

	tokens := collectTokens(devices)
	body, data := presenceNotice(event)

	totalSent, totalFailed := 0, 0
	var invalidTokens []string
	for start := 0; start < len(tokens); start += maxTokensPerBatch {
		end := min(start+maxTokensPerBatch, len(tokens))

		sent, failed, invalid, err := h.notificationSvc.SendBatchNotification(ctx, tokens[start:end], presenceNoticeTitle, body, data)
		if err != nil {
			// Earlier batches are not resent; a retry only duplicates what was delivered.
			if totalSent == 0 {
				return newRetryableError(err)
			}
			logger.Warn("[Worker] Notification batch failed", slog.Int("batch_start", start), slog.Any("error", err))
			totalFailed += end - start

			continue
		}
		totalSent += sent
		totalFailed += failed
		invalidTokens = append(invalidTokens, invalid...)
	}

	h.deactivateInvalidTokens(ctx, invalidTokens)

	logger.Info("[Worker] Presence notice sent",
		slog.String("user_id", event.UserID),
		slog.String("venue_id", event.VenueID),
		slog.String("to", event.To),
		slog.Int("total_sent", totalSent),
		slog.Int("total_failed", totalFailed),
		slog.Int("invalid_tokens", len(invalidTokens)),
	)

	return nil
}

func (h *PushHandler) deactivateInvalidTokens(ctx context.Context, invalidTokens []string) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)

	for _, token := range invalidTokens {
		if err := h.deviceRepo.DeactivateDeviceByToken(ctx, token); err != nil && !errors.Is(err, repository.ErrDeviceNotFound) {
			logger.Warn("[Worker] Failed to deactivate invalid device", slog.Any("error", err))
		}
	}
}

// collectTokens returns the distinct FCM tokens of the devices.
func collectTokens(devices []*entity.UserDevice) []string {
	seen := make(map[string]struct{}, len(devices))
	tokens := make([]string, 0, len(devices))
	for _, device := range devices {
		if device.FCMToken == "" {
			continue
		}
		if _, dup := seen[device.FCMToken]; dup {
			continue
		}
		seen[device.FCMToken] = struct{}{}
		tokens = append(tokens, device.FCMToken)
	}

	return tokens
}

// presenceNotice builds the notification body and data payload of a presence change.
func presenceNotice(event *service.PresenceEvent) (string, map[string]string) {
	body := event.Message
	if body == "" {
		switch entity.PresenceState(event.To) {
		case entity.PresenceActive:
			body = "您已回到場地，個人檔案重新顯示"
		case entity.PresencePaused:
			body = "您似乎已離開場地，個人檔案暫時隱藏"
		default:
			body = "您的場地報到已結束，請重新掃描 QR Code"
		}
	}

	data := map[string]string{
		"type":     event.Type,
		"venue_id": event.VenueID,
		"state":    event.To,
	}
	if event.EventID != "" {
		data["event_id"] = event.EventID
	}
	if event.Reason != "" {
		data["reason"] = event.Reason
	}

	return body, data
}

// verifyPubSubToken verifies the OIDC token Google Pub/Sub attaches to push requests.
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found {
		return errors.New("invalid authorization header format")
	}

	// The audience is the URL of this endpoint
	scheme := "https"
	if req.TLS == nil {
		scheme = "http"
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	payload, err := idtoken.Validate(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
