package handler

import (
	"net/http"

	"venuegate/internal/delivery/api/response"
	"venuegate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// VenueHandler renders venue assets for venue staff.
type VenueHandler struct {
	venueUC usecase.VenueUsecase
}

// NewVenueHandler is the constructor for VenueHandler
func NewVenueHandler(venueUC usecase.VenueUsecase) *VenueHandler {
	return &VenueHandler{venueUC: venueUC}
}

// GetQRCode handles GET /v1/venues/:venueId/qrcode and answers a PNG.
func (h *VenueHandler) GetQRCode(c echo.Context) error {
	venueID := c.Param("venueId")
	if venueID == "" {
		return response.BadRequest(c, "INVALID_ID", "Invalid venue ID")
	}

	png, err := h.venueUC.GenerateVenueQR(c.Request().Context(), venueID)
	if err != nil {
		return err
	}

	c.Response().Header().Set("Cache-Control", "no-store")

	return c.Blob(http.StatusOK, "image/png", png)
}
