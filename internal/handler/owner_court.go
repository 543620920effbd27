package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/resnplay/court-booking-api/internal/model"
	"github.com/resnplay/court-booking-api/internal/repository"
	"github.com/resnplay/court-booking-api/internal/schedule"
)

type courtReq struct {
	Name              string               `json:"name"`
	Description       string               `json:"description"`
	Address           string               `json:"address"`
	City              string               `json:"city"`
	PricePerHourCents uint32               `json:"pricePerHourCents"`
	OperatingHours    model.OperatingHours `json:"operatingHours"`
}

// validateCourtReq normalizes and checks a create/update payload.
// Returns a client-facing message when the payload is unusable.
func validateCourtReq(req *courtReq) string {
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	req.City = strings.TrimSpace(req.City)
	if req.Name == "" {
		return "name is required"
	}
	if req.Address == "" || req.City == "" {
		return "address and city are required"
	}
	if req.PricePerHourCents == 0 {
		return "pricePerHourCents must be positive"
	}
	if msg := validateHours(req.OperatingHours); msg != "" {
		return msg
	}
	return ""
}

// validateHours checks every window present in the payload parses and
// opens before it closes.  Absent windows are fine; the day is closed.
func validateHours(oh model.OperatingHours) string {
	check := func(day string, w *model.Window) string {
		if w == nil {
			return ""
		}
		open, err := schedule.ParseClock(w.Start)
		if err != nil {
			return "invalid " + day + " start time"
		}
		close, err := schedule.ParseClock(w.End)
		if err != nil {
			return "invalid " + day + " end time"
		}
		if close <= open {
			return day + " end time must be after start time"
		}
		return ""
	}
	days := []struct {
		name string
		w    *model.Window
	}{
		{"monday", oh.Monday}, {"tuesday", oh.Tuesday}, {"wednesday", oh.Wednesday},
		{"thursday", oh.Thursday}, {"friday", oh.Friday}, {"saturday", oh.Saturday},
		{"sunday", oh.Sunday},
	}
	for _, d := range days {
		if msg := check(d.name, d.w); msg != "" {
			return msg
		}
	}
	if oh.Start != "" || oh.End != "" {
		if msg := check("general", &model.Window{Start: oh.Start, End: oh.End}); msg != "" {
			return msg
		}
	}
	return ""
}

// CreateCourt handles POST /v1/courts.
func (h *OwnerHandler) CreateCourt(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req courtReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := validateCourtReq(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	court := &model.Court{
		OwnerID:           ownerID,
		Name:              req.Name,
		Description:       req.Description,
		Address:           req.Address,
		City:              req.City,
		PricePerHourCents: req.PricePerHourCents,
		OperatingHours:    req.OperatingHours,
	}
	if err := h.CourtRepo.Create(c.Request().Context(), court); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create court"})
	}
	return c.JSON(http.StatusCreated, court)
}

// ListMyCourts handles GET /v1/my-courts and returns all courts the
// authenticated owner manages, active or not.
func (h *OwnerHandler) ListMyCourts(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.CourtRepo.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateCourt handles PUT /v1/courts/:id.
func (h *OwnerHandler) UpdateCourt(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req courtReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := validateCourtReq(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	court := &model.Court{
		ID:                id,
		Name:              req.Name,
		Description:       req.Description,
		Address:           req.Address,
		City:              req.City,
		PricePerHourCents: req.PricePerHourCents,
		OperatingHours:    req.OperatingHours,
	}
	if err := h.CourtRepo.Update(c.Request().Context(), ownerID, court); err != nil {
		switch err {
		case repository.ErrCourtNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your court"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.CourtRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeactivateCourt handles DELETE /v1/courts/:id.  The court is
// soft-deleted: it disappears from player search while existing slots
// and bookings stay intact.
func (h *OwnerHandler) DeactivateCourt(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.CourtRepo.Deactivate(c.Request().Context(), id, ownerID); err != nil {
		switch err {
		case repository.ErrCourtNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your court"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivate failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
