package handler

import (
	"log/slog"
	"net/http"
	"time"

	"venuegate/internal/delivery/api/response"
	deliverycontext "venuegate/internal/delivery/context"
	"venuegate/internal/domain/entity"
	domainerrors "venuegate/internal/domain/errors"
	"venuegate/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PresenceHandlerParams holds dependencies for PresenceHandler, injected by Fx.
type PresenceHandlerParams struct {
	fx.In

	PresenceUC usecase.PresenceUsecase
	Logger     *slog.Logger
}

// PresenceHandler serves location pings and session reads.
type PresenceHandler struct {
	presenceUC usecase.PresenceUsecase
	logger     *slog.Logger
}

// NewPresenceHandler is the constructor for PresenceHandler
func NewPresenceHandler(params PresenceHandlerParams) *PresenceHandler {
	return &PresenceHandler{
		presenceUC: params.PresenceUC,
		logger:     params.Logger,
	}
}

// PingRequest is the body of POST /v1/presence/ping.
type PingRequest struct {
	VenueID       string           `json:"venue_id" validate:"required,max=128"`
	Location      *LocationRequest `json:"location" validate:"required"`
	BatteryLevel  *float64         `json:"battery_level" validate:"omitempty,gte=0,lte=100"`
	MovementSpeed *float64         `json:"movement_speed" validate:"omitempty,gte=0"`
}

// PingResponse is the presence state after a ping. too_frequent pings also answer 200.
type PingResponse struct {
	NewState                entity.PresenceState `json:"new_state"`
	StateChanged            bool                 `json:"state_changed"`
	ProfileVisible          bool                 `json:"profile_visible"`
	NextPingIntervalSeconds int                  `json:"next_ping_interval_seconds"`
	Reason                  string               `json:"reason,omitempty"`
	UserMessage             string               `json:"user_message,omitempty"`
}

// SessionResponse is the caller's session at a venue.
type SessionResponse struct {
	VenueID            string                   `json:"venue_id"`
	EventID            string                   `json:"event_id"`
	State              entity.PresenceState     `json:"state"`
	ProfileVisible     bool                     `json:"profile_visible"`
	JoinedAt           time.Time                `json:"joined_at"`
	LastPingAt         *time.Time               `json:"last_ping_at,omitempty"`
	TimeInVenueSeconds int64                    `json:"time_in_venue_seconds"`
	History            []entity.StateTransition `json:"history"`
}

// Ping handles POST /v1/presence/ping
func (h *PresenceHandler) Ping(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	var req PingRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.presenceUC.ProcessPing(c.Request().Context(), &usecase.PingInput{
		UserID:        userID,
		VenueID:       req.VenueID,
		Location:      req.Location.toLocation(),
		BatteryLevel:  req.BatteryLevel,
		MovementSpeed: req.MovementSpeed,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, PingResponse{
		NewState:                out.NewState,
		StateChanged:            out.StateChanged,
		ProfileVisible:          out.ProfileVisible,
		NextPingIntervalSeconds: int(out.NextPingInterval / time.Second),
		Reason:                  out.Reason,
		UserMessage:             out.UserMessage,
	})
}

// GetSession handles GET /v1/presence/:venueId
func (h *PresenceHandler) GetSession(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	venueID := c.Param("venueId")
	if venueID == "" {
		return response.BadRequest(c, "INVALID_ID", "Invalid venue ID")
	}

	session, err := h.presenceUC.GetSession(c.Request().Context(), venueID, userID)
	if err != nil {
		return err
	}

	view := SessionResponse{
		VenueID:            session.VenueID,
		EventID:            session.EventID,
		State:              session.State,
		ProfileVisible:     session.ProfileVisible,
		JoinedAt:           session.JoinedAt,
		TimeInVenueSeconds: session.TimeInVenueSeconds,
		History:            session.History,
	}
	if !session.LastPingAt.IsZero() {
		lastPingAt := session.LastPingAt
		view.LastPingAt = &lastPingAt
	}

	return response.Success(c, http.StatusOK, view)
}
