package router

import (
	"github.com/labstack/echo/v4"

	"github.com/resnplay/court-booking-api/internal/handler"
	"github.com/resnplay/court-booking-api/internal/middleware"
)

// RegisterPlayer registers the booking endpoints.  Claiming, paying,
// confirming and cancelling a booking require the PLAYER role; the
// booking detail endpoint accepts either role because the court's owner
// may inspect bookings on their court (the handler checks which one the
// caller is).
func RegisterPlayer(e *echo.Echo, h *handler.PlayerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("PLAYER"),
	)
	g.POST("/bookings/slot", h.CreateBooking)
	g.POST("/bookings/:id/pay", h.SimulatePayment)
	g.POST("/bookings/:id/confirm-payment", h.ConfirmPayment)
	g.PUT("/bookings/:id/cancel", h.CancelBooking)
	g.GET("/my-bookings", h.ListMyBookings)

	shared := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER", "PLAYER"),
	)
	shared.GET("/bookings/:id", h.GetBooking)
}
