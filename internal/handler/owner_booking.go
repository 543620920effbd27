package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/resnplay/court-booking-api/internal/model"
	"github.com/resnplay/court-booking-api/internal/repository"
)

// ListCourtBookings handles GET /v1/courts/:id/bookings.  Returns
// the court's bookings with each requester's contact details, earliest
// play date first.  Optional query params: status and date (YYYY-MM-DD).
func (h *OwnerHandler) ListCourtBookings(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courtID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	court, err := h.CourtRepo.GetByID(c.Request().Context(), courtID)
	if err != nil {
		if err == repository.ErrCourtNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if court.OwnerID != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your court"})
	}

	status := strings.ToLower(strings.TrimSpace(c.QueryParam("status")))
	var date *time.Time
	if s := c.QueryParam("date"); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		date = &d
	}

	items, err := h.BookingRepo.ListByCourt(c.Request().Context(), courtID, status, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CompleteBooking handles PATCH /v1/bookings/:id/complete.  After
// the play time has passed the owner closes the booking out; completed
// is terminal.
func (h *OwnerHandler) CompleteBooking(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()

	booking, err := h.BookingRepo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	courtOwner, err := h.BookingRepo.CourtOwner(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if courtOwner != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your court"})
	}

	if err := booking.CanComplete(time.Now().UTC()); err != nil {
		switch err {
		case model.ErrTooEarly:
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking cannot be completed in its current state"})
	}
	ok, err := h.BookingRepo.Complete(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "complete failed"})
	}
	if !ok {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking cannot be completed in its current state"})
	}
	updated, err := h.BookingRepo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}
