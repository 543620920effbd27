package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/resnplay/court-booking-api/internal/repository"
)

// ListCourts handles GET /v1/courts.  Players browse active courts,
// optionally filtered by city.
func (h *PublicHandler) ListCourts(c echo.Context) error {
	city := strings.TrimSpace(c.QueryParam("city"))
	items, err := h.CourtRepo.ListActive(c.Request().Context(), city)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetCourt handles GET /v1/courts/:id.  Deactivated courts are hidden
// from the public surface, indistinguishable from missing ones.
func (h *PublicHandler) GetCourt(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	court, err := h.CourtRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrCourtNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !court.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
	}
	return c.JSON(http.StatusOK, court)
}

// GetAvailableSlots handles GET /v1/courts/:id/slots/available.  Returns the
// court's open slots in the requested range; with no range params the
// next 7 days are shown.  A single ?date= narrows to one day.
func (h *PublicHandler) GetAvailableSlots(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	court, err := h.CourtRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrCourtNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !court.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
	}
	from, to, err := rangeParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	slots, err := h.SlotRepo.ListAvailable(c.Request().Context(), id, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"courtId":   id,
		"startDate": from.Format("2006-01-02"),
		"endDate":   to.Format("2006-01-02"),
		"slots":     slots,
	})
}
