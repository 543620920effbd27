// Package router registers the HTTP routes for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/resnplay/court-booking-api/internal/handler"
	"github.com/resnplay/court-booking-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication endpoints.  Register, login,
// refresh and logout live under /v1/auth and need no session; /v1/me
// requires a valid access token with either role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER", "PLAYER"),
	)
	auth.GET("/me", a.Me)
	auth.POST("/logout-all", a.LogoutAll)
}

// RegisterPublic registers the unauthenticated browse endpoints:
// court search and per-court slot availability.  Extra middleware
// (typically the Redis response cache) applies to these routes only.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/courts", p.ListCourts)
	g.GET("/courts/:id", p.GetCourt)
	g.GET("/courts/:id/slots/available", p.GetAvailableSlots)
}
