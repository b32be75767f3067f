// Package router registers the API routes.
package router

import (
	"venuegate/config"
	"venuegate/internal/delivery/api/middleware"
	"venuegate/internal/delivery/api/router/handler"
	"venuegate/internal/domain/constants"
	"venuegate/internal/domain/entity"
	"venuegate/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	EntryHandler        *handler.EntryHandler
	PresenceHandler     *handler.PresenceHandler
	DeviceHandler       *handler.DeviceHandler
	VenueHandler        *handler.VenueHandler
	AuthMiddleware      *middleware.AuthMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware
	Metrics             *metrics.Metrics
	Config              *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	entryHandler        *handler.EntryHandler
	presenceHandler     *handler.PresenceHandler
	deviceHandler       *handler.DeviceHandler
	venueHandler        *handler.VenueHandler
	authMiddleware      *middleware.AuthMiddleware
	rateLimitMiddleware *middleware.RateLimitMiddleware
	metrics             *metrics.Metrics
	config              *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		entryHandler:        params.EntryHandler,
		presenceHandler:     params.PresenceHandler,
		deviceHandler:       params.DeviceHandler,
		venueHandler:        params.VenueHandler,
		authMiddleware:      params.AuthMiddleware,
		rateLimitMiddleware: params.RateLimitMiddleware,
		metrics:             params.Metrics,
		config:              params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	if r.config.Metrics.Enabled {
		e.GET(r.config.Metrics.Path, echo.WrapHandler(r.metrics.Handler()))
	}

	v1 := e.Group("/v1")
	v1.Use(r.authMiddleware.Authenticate)

	entryGroup := v1.Group("/entry")
	{
		entryGroup.POST("/nonce", r.entryHandler.IssueNonce, r.rateLimitMiddleware.Limit(constants.RouteNonce))
		entryGroup.POST("/verify", r.entryHandler.VerifyEntry, r.rateLimitMiddleware.Limit(constants.RouteVerify))
	}

	presenceGroup := v1.Group("/presence")
	{
		presenceGroup.POST("/ping", r.presenceHandler.Ping, r.rateLimitMiddleware.Limit(constants.RoutePing))
		presenceGroup.GET("/:venueId", r.presenceHandler.GetSession)
	}

	devicesGroup := v1.Group("/devices")
	{
		devicesGroup.POST("", r.deviceHandler.RegisterDevice)
		devicesGroup.GET("", r.deviceHandler.GetUserDevices)
	}

	venuesGroup := v1.Group("/venues")
	venuesGroup.Use(r.authMiddleware.RequireRole(entity.RoleVenueAdmin))
	{
		venuesGroup.GET("/:venueId/qrcode", r.venueHandler.GetQRCode)
	}
}
