package handler

import (
	"net/http"

	"venuegate/internal/delivery/api/response"
	"venuegate/internal/delivery/api/validator"
	"venuegate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// LocationRequest is a client-reported GPS fix. Pointers keep 0 distinguishable from absent.
type LocationRequest struct {
	Latitude  *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
	Accuracy  *float64 `json:"accuracy" validate:"required,gte=0"`
}

// toLocation assumes the request was validated.
func (r *LocationRequest) toLocation() usecase.Location {
	return usecase.Location{
		Latitude:  *r.Latitude,
		Longitude: *r.Longitude,
		Accuracy:  *r.Accuracy,
	}
}

// bindAndValidate writes the 400 response itself and reports whether the handler may continue.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, response.BindingError(c, "INVALID_INPUT", "Invalid request body")
	}

	if err := c.Validate(req); err != nil {
		return false, response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed", validator.FieldErrors(err))
	}

	return true, nil
}
