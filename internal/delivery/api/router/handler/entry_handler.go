package handler

import (
	"log/slog"
	"net/http"
	"time"

	"venuegate/internal/delivery/api/response"
	deliverycontext "venuegate/internal/delivery/context"
	domainerrors "venuegate/internal/domain/errors"
	"venuegate/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// EntryHandlerParams holds dependencies for EntryHandler, injected by Fx.
type EntryHandlerParams struct {
	fx.In

	EntryUC usecase.EntryUsecase
	Logger  *slog.Logger
}

// EntryHandler serves the two-step QR check-in.
type EntryHandler struct {
	entryUC usecase.EntryUsecase
	logger  *slog.Logger
}

// NewEntryHandler is the constructor for EntryHandler
func NewEntryHandler(params EntryHandlerParams) *EntryHandler {
	return &EntryHandler{
		entryUC: params.EntryUC,
		logger:  params.Logger,
	}
}

// NonceRequest is the body of POST /v1/entry/nonce.
type NonceRequest struct {
	StaticQRData string           `json:"static_qr_data" validate:"required,max=1024"`
	Location     *LocationRequest `json:"location" validate:"required"`
	SessionID    string           `json:"session_id" validate:"omitempty,max=128"`
}

// NonceResponse is returned when a nonce is issued.
type NonceResponse struct {
	Nonce      string    `json:"nonce"`
	EventID    string    `json:"event_id"`
	VenueID    string    `json:"venue_id"`
	ExpiresAt  time.Time `json:"expires_at"`
	VenueRules string    `json:"venue_rules,omitempty"`
}

// NonceRejection carries the hints that come with a refused nonce.
type NonceRejection struct {
	VenueRules   string `json:"venue_rules,omitempty"`
	LocationTips string `json:"location_tips,omitempty"`
}

// VerifyRequest is the body of POST /v1/entry/verify.
type VerifyRequest struct {
	Nonce    string           `json:"nonce" validate:"required,len=64,hexadecimal"`
	Location *LocationRequest `json:"location" validate:"required"`
}

// VerifyResponse is returned when the entry is verified.
type VerifyResponse struct {
	EventID string `json:"event_id"`
	VenueID string `json:"venue_id"`
}

// VerifyRejection tells the client whether the QR code must be scanned again.
type VerifyRejection struct {
	RequiresRescan bool `json:"requires_rescan"`
}

// IssueNonce handles POST /v1/entry/nonce
func (h *EntryHandler) IssueNonce(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	var req NonceRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.entryUC.IssueNonce(c.Request().Context(), &usecase.IssueNonceInput{
		StaticQRData: req.StaticQRData,
		Location:     req.Location.toLocation(),
		UserID:       userID,
		SessionID:    req.SessionID,
	})
	if err != nil {
		return err
	}

	if !out.Success {
		var data any
		if out.VenueRules != "" || out.LocationTips != "" {
			data = NonceRejection{VenueRules: out.VenueRules, LocationTips: out.LocationTips}
		}

		return response.Rejected(c, out.Reason, out.Message, data)
	}

	return response.Success(c, http.StatusOK, NonceResponse{
		Nonce:      out.Nonce,
		EventID:    out.EventID,
		VenueID:    out.VenueID,
		ExpiresAt:  out.ExpiresAt,
		VenueRules: out.VenueRules,
	})
}

// VerifyEntry handles POST /v1/entry/verify
func (h *EntryHandler) VerifyEntry(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	var req VerifyRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.entryUC.VerifyEntry(c.Request().Context(), &usecase.VerifyEntryInput{
		Nonce:    req.Nonce,
		Location: req.Location.toLocation(),
		UserID:   userID,
	})
	if err != nil {
		return err
	}

	if !out.Success {
		return response.Rejected(c, out.Reason, out.Message, VerifyRejection{RequiresRescan: out.RequiresRescan})
	}

	return response.Success(c, http.StatusOK, VerifyResponse{
		EventID: out.EventID,
		VenueID: out.VenueID,
	})
}
