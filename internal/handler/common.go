package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/resnplay/court-booking-api/internal/repository"
	"github.com/resnplay/court-booking-api/internal/schedule"
	"github.com/resnplay/court-booking-api/internal/service"
)

// OwnerHandler bundles repositories for owners to manage courts, slot
// calendars and bookings on their courts.
type OwnerHandler struct {
	CourtRepo   *repository.CourtRepo
	SlotRepo    *repository.TimeSlotRepo
	BookingRepo *repository.BookingRepo
	Generator   *schedule.Generator
}

// NewOwnerHandler constructs a new OwnerHandler and panics if any dependency is nil.
func NewOwnerHandler(courtRepo *repository.CourtRepo, slotRepo *repository.TimeSlotRepo, bookingRepo *repository.BookingRepo) *OwnerHandler {
	if courtRepo == nil || slotRepo == nil || bookingRepo == nil {
		panic("nil repository passed to NewOwnerHandler")
	}
	return &OwnerHandler{
		CourtRepo:   courtRepo,
		SlotRepo:    slotRepo,
		BookingRepo: bookingRepo,
		Generator:   schedule.NewGenerator(slotRepo),
	}
}

// PlayerHandler bundles dependencies for the player booking flow.
// Publisher may be nil when the message broker is not configured.
type PlayerHandler struct {
	CourtRepo   *repository.CourtRepo
	SlotRepo    *repository.TimeSlotRepo
	BookingRepo *repository.BookingRepo
	UserRepo    *repository.UserRepo
	Publisher   *service.BookingEventPublisher
}

// NewPlayerHandler constructs a new PlayerHandler and panics if any
// required dependency is nil.
func NewPlayerHandler(courtRepo *repository.CourtRepo, slotRepo *repository.TimeSlotRepo, bookingRepo *repository.BookingRepo, userRepo *repository.UserRepo, pub *service.BookingEventPublisher) *PlayerHandler {
	if courtRepo == nil || slotRepo == nil || bookingRepo == nil || userRepo == nil {
		panic("nil repository passed to NewPlayerHandler")
	}
	return &PlayerHandler{
		CourtRepo:   courtRepo,
		SlotRepo:    slotRepo,
		BookingRepo: bookingRepo,
		UserRepo:    userRepo,
		Publisher:   pub,
	}
}

// PublicHandler serves the unauthenticated browse endpoints.
type PublicHandler struct {
	CourtRepo *repository.CourtRepo
	SlotRepo  *repository.TimeSlotRepo
}

// NewPublicHandler constructs a new PublicHandler and panics if any dependency is nil.
func NewPublicHandler(courtRepo *repository.CourtRepo, slotRepo *repository.TimeSlotRepo) *PublicHandler {
	if courtRepo == nil || slotRepo == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{CourtRepo: courtRepo, SlotRepo: slotRepo}
}

// Shared validation errors whose text goes straight to the client.
var (
	errDateFormat = errors.New("dates must be YYYY-MM-DD")
	errDateRange  = errors.New("end date must not be before start date")
)

// getUserID extracts the user_id set by the JWT middleware and converts
// it to uint64.  JWT number claims arrive as float64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// parseDate parses a YYYY-MM-DD query or body value as a UTC date.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
