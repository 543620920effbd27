package router

import (
	"github.com/labstack/echo/v4"

	"github.com/resnplay/court-booking-api/internal/handler"
	"github.com/resnplay/court-booking-api/internal/middleware"
)

// RegisterOwner registers owner-scoped endpoints under /v1.  All routes
// require a valid JWT and the OWNER role.  Owners manage their courts,
// generate and adjust slot calendars, and work the bookings on their
// courts.  Per-court ownership is checked inside the handlers.
func RegisterOwner(e *echo.Echo, h *handler.OwnerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)

	// Courts
	g.POST("/courts", h.CreateCourt)
	g.GET("/my-courts", h.ListMyCourts)
	g.PUT("/courts/:id", h.UpdateCourt)
	g.DELETE("/courts/:id", h.DeactivateCourt)

	// Slot calendar
	g.POST("/courts/:id/slots/generate", h.GenerateSlots)
	g.GET("/courts/:id/slots/manage", h.ListManagedSlots)
	g.DELETE("/courts/:id/slots", h.DeleteSlots)
	g.PATCH("/slots/:id", h.SetSlotAvailability)

	// Bookings on the owner's courts
	g.GET("/courts/:id/bookings", h.ListCourtBookings)
	g.PATCH("/bookings/:id/complete", h.CompleteBooking)
}
