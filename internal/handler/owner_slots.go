package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/resnplay/court-booking-api/internal/repository"
	"github.com/resnplay/court-booking-api/internal/schedule"
)

// GenerateSlots handles POST /v1/courts/:id/slots/generate.  It
// expands the court's operating hours over the requested date range
// into bookable slots, skipping any that already exist, so owners can
// re-run generation over overlapping ranges without duplicates.
func (h *OwnerHandler) GenerateSlots(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courtID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		StartDate    string `json:"startDate"`
		EndDate      string `json:"endDate"`
		SlotDuration int    `json:"slotDuration"` // minutes
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	from, err := parseDate(body.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "startDate must be YYYY-MM-DD"})
	}
	to, err := parseDate(body.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "endDate must be YYYY-MM-DD"})
	}
	duration := body.SlotDuration
	if duration == 0 {
		duration = schedule.DefaultSlotMinutes
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
	if !court.IsActive {
		return c.JSON(http.StatusConflict, echo.Map{"error": "court is deactivated"})
	}

	created, err := h.Generator.Generate(c.Request().Context(), court.ID, court.OperatingHours,
		court.PricePerHourCents, from, to, duration)
	if err != nil {
		switch err {
		case schedule.ErrInvalidRange, schedule.ErrInvalidDuration:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "slot generation failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"generatedCount": len(created),
		"slots":          created,
	})
}

// ListManagedSlots handles GET /v1/courts/:id/slots/manage.  The
// owner's calendar view: every slot in the range, with the active
// booking's requester details attached to taken slots.  Optional query
// params: startDate, endDate (YYYY-MM-DD, default the next 7 days) and
// status ("available" | "booked").
func (h *OwnerHandler) ListManagedSlots(c echo.Context) error {
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

	from, to, err := rangeParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	status := strings.ToLower(strings.TrimSpace(c.QueryParam("status")))

	slots, err := h.SlotRepo.ListForOwner(c.Request().Context(), courtID, from, to, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"slots": slots})
}

// SetSlotAvailability handles PATCH /v1/slots/:id.  Owners block
// a slot for maintenance or reopen a blocked one.  Slots carrying an
// active booking cannot be toggled in either direction; the booking has
// to be resolved first.
func (h *OwnerHandler) SetSlotAvailability(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	slotID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		IsAvailable *bool  `json:"isAvailable"`
		Reason      string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil || body.IsAvailable == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "isAvailable is required"})
	}

	ctx := c.Request().Context()
	slot, err := h.SlotRepo.GetByID(ctx, slotID)
	if err != nil {
		if err == repository.ErrSlotNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	court, err := h.CourtRepo.GetByID(ctx, slot.CourtID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if court.OwnerID != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your court"})
	}

	booked, err := h.BookingRepo.ActiveExistsBySlot(ctx, slotID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if booked {
		return c.JSON(http.StatusConflict, echo.Map{"error": "slot has an active booking"})
	}

	if err := h.SlotRepo.SetAvailability(ctx, slotID, *body.IsAvailable, strings.TrimSpace(body.Reason)); err != nil {
		if err == repository.ErrSlotNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.SlotRepo.GetByID(ctx, slotID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteSlots handles DELETE /v1/courts/:id/slots.  Bulk-removes the
// still-available slots in [startDate, endDate]; claimed or
// owner-blocked slots are untouched.
func (h *OwnerHandler) DeleteSlots(c echo.Context) error {
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

	from, err := parseDate(c.QueryParam("startDate"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "startDate must be YYYY-MM-DD"})
	}
	to, err := parseDate(c.QueryParam("endDate"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "endDate must be YYYY-MM-DD"})
	}
	n, err := h.SlotRepo.DeleteAvailableRange(c.Request().Context(), courtID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deletedCount": n})
}

// rangeParams reads optional startDate/endDate query params, defaulting
// to the next 7 days.  A single date param restricts to that one day.
func rangeParams(c echo.Context) (time.Time, time.Time, error) {
	if d := c.QueryParam("date"); d != "" {
		day, err := parseDate(d)
		if err != nil {
			return time.Time{}, time.Time{}, errDateFormat
		}
		return day, day, nil
	}
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	if s := c.QueryParam("startDate"); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return time.Time{}, time.Time{}, errDateFormat
		}
		from = d
		to = from.AddDate(0, 0, 7)
	}
	if s := c.QueryParam("endDate"); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return time.Time{}, time.Time{}, errDateFormat
		}
		to = d
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errDateRange
	}
	return from, to, nil
}
