package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/resnplay/court-booking-api/internal/model"
	"github.com/resnplay/court-booking-api/internal/payment"
	"github.com/resnplay/court-booking-api/internal/queue"
	"github.com/resnplay/court-booking-api/internal/repository"
)

// CreateBooking handles POST /v1/bookings/slot.  The claim runs in a single
// transaction: load the slot with its court, run the eligibility
// checks, flip the slot to unavailable with a conditional update and
// insert the pending booking.  Of two racing claimants exactly one
// commits; the other gets 409.
func (h *PlayerHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		TimeSlotID uint64 `json:"timeSlotId"`
		Notes      string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil || body.TimeSlotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "timeSlotId is required"})
	}

	ctx := c.Request().Context()
	tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	slot, ownerID, courtActive, err := h.SlotRepo.GetForClaimTx(ctx, tx, body.TimeSlotID)
	if err != nil {
		if err == repository.ErrSlotNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !courtActive {
		return c.JSON(http.StatusConflict, echo.Map{"error": "court is deactivated"})
	}
	if ownerID == userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "owners cannot book their own court"})
	}
	if pastPlayDate(slot.Date, time.Now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot book a slot in the past"})
	}
	if !slot.IsAvailable {
		return c.JSON(http.StatusConflict, echo.Map{"error": "slot is not available"})
	}

	if err := h.SlotRepo.ClaimTx(ctx, tx, slot.ID); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot is not available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}

	booking := &model.Booking{
		UserID:           userID,
		CourtID:          slot.CourtID,
		TimeSlotID:       slot.ID,
		PlayDate:         slot.Date,
		StartTime:        slot.StartTime,
		EndTime:          slot.EndTime,
		TotalAmountCents: slot.PriceCents,
		Status:           model.BookingPending,
		PaymentStatus:    model.PaymentPending,
		Notes:            strings.TrimSpace(body.Notes),
	}
	if err := h.BookingRepo.CreateTx(ctx, tx, booking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
	committed = true

	return c.JSON(http.StatusCreated, booking)
}

// SimulatePayment handles POST /v1/bookings/:id/pay.  Runs the stub
// gateway against a pending booking and returns the minted payment
// reference, which the player then submits to the confirm endpoint.
func (h *PlayerHandler) SimulatePayment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		PaymentMethod string `json:"paymentMethod"`
	}
	_ = c.Bind(&body)
	method := strings.ToLower(strings.TrimSpace(body.PaymentMethod))
	if method == "" {
		method = "card"
	}

	booking, err := h.BookingRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if booking.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
	}
	if err := booking.CanConfirm(); err != nil {
		return confirmError(c, err)
	}

	res, err := payment.ProcessPayment(booking.TotalAmountCents, method)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// ConfirmPayment handles POST /v1/bookings/:id/confirm-payment.  The player
// submits the gateway reference; a conditional update moves the booking
// from pending to confirmed/paid so a concurrent confirm cannot apply
// twice.  On success the confirmation event is published to the broker;
// a broker outage never fails the request.
func (h *PlayerHandler) ConfirmPayment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		PaymentID     string `json:"paymentId"`
		PaymentMethod string `json:"paymentMethod"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.PaymentID = strings.TrimSpace(body.PaymentID)
	if !payment.ValidatePaymentID(body.PaymentID) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid paymentId"})
	}
	method := strings.ToLower(strings.TrimSpace(body.PaymentMethod))
	if method == "" {
		method = "card"
	}

	ctx := c.Request().Context()
	booking, err := h.BookingRepo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if booking.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
	}
	if err := booking.CanConfirm(); err != nil {
		return confirmError(c, err)
	}

	ok, err := h.BookingRepo.Confirm(ctx, id, body.PaymentID, method)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm failed"})
	}
	if !ok {
		// Lost a race; re-read to report the actual state.
		booking, err = h.BookingRepo.GetByID(ctx, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		return confirmError(c, booking.CanConfirm())
	}

	h.publishConfirmed(booking, body.PaymentID)

	confirmed, err := h.BookingRepo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, confirmed)
}

func confirmError(c echo.Context, err error) error {
	switch err {
	case nil:
		// The conditional update missed but the booking reads as
		// pending again; ask the client to retry.
		return c.JSON(http.StatusConflict, echo.Map{"error": "confirm conflicted, retry"})
	case model.ErrAlreadyConfirmed:
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already confirmed"})
	default:
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking cannot be confirmed in its current state"})
	}
}

// publishConfirmed assembles and publishes the confirmation event in
// the background.  Lookups use a detached context because the request
// that triggered them finishes immediately.
func (h *PlayerHandler) publishConfirmed(b model.Booking, paymentID string) {
	if h.Publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		user, err := h.UserRepo.GetByID(ctx, b.UserID)
		if err != nil {
			log.Printf("booking-confirmed: load user %d failed: %v", b.UserID, err)
			return
		}
		court, err := h.CourtRepo.GetByID(ctx, b.CourtID)
		if err != nil {
			log.Printf("booking-confirmed: load court %d failed: %v", b.CourtID, err)
			return
		}
		ev := queue.BookingConfirmedEvent{
			BookingID:        b.ID,
			UserID:           b.UserID,
			UserName:         user.FullName,
			UserEmail:        user.Email,
			CourtID:          b.CourtID,
			CourtName:        court.Name,
			CourtCity:        court.City,
			PlayDate:         b.PlayDate.Format("2006-01-02"),
			StartTime:        b.StartTime,
			EndTime:          b.EndTime,
			TotalAmountCents: b.TotalAmountCents,
			PaymentID:        paymentID,
			ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
		}
		if err := h.Publisher.PublishBookingConfirmed(ctx, ev); err != nil {
			log.Printf("booking-confirmed: publish for booking %d failed: %v", b.ID, err)
		}
	}()
}

// CancelBooking handles PUT /v1/bookings/:id/cancel.  Cancellation and
// the slot release commit together: the booking row locks first so
// concurrent cancels serialize, the lifecycle guard decides whether the
// cancellation window still permits it, and a paid booking gets its
// tiered refund computed before the state flips.
func (h *PlayerHandler) CancelBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.Bind(&body) // reason is optional

	ctx := c.Request().Context()
	tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := h.BookingRepo.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if booking.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
	}
	now := time.Now().UTC()
	if err := booking.CanCancel(now); err != nil {
		switch err {
		case model.ErrAlreadyCancelled:
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking is already cancelled"})
		case model.ErrCannotCancelCompleted:
			return c.JSON(http.StatusConflict, echo.Map{"error": "cannot cancel a completed booking"})
		case model.ErrCancellationWindowPassed:
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking cannot be cancelled"})
	}

	wasPaid := booking.PaymentStatus == model.PaymentPaid
	var refundCents uint32
	if wasPaid {
		refundCents = payment.CalculateRefund(booking.TotalAmountCents, booking.HoursUntilStart(now))
	}

	reason := strings.TrimSpace(body.Reason)
	if reason == "" {
		reason = "cancelled by player"
	}
	if err := h.BookingRepo.CancelTx(ctx, tx, id, reason, wasPaid, now); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if err := h.SlotRepo.ReleaseTx(ctx, tx, booking.TimeSlotID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	committed = true

	resp := echo.Map{
		"bookingId": id,
		"status":    model.BookingCancelled,
	}
	if wasPaid {
		if refundCents > 0 {
			if res, err := payment.ProcessRefund(derefOr(booking.PaymentID, ""), refundCents); err == nil {
				resp["refundReference"] = res.PaymentID
			}
		}
		resp["refundAmountCents"] = refundCents
	}
	return c.JSON(http.StatusOK, resp)
}

// ListMyBookings handles GET /v1/my-bookings.  Optional query params:
// status and upcoming=true.
func (h *PlayerHandler) ListMyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	status := strings.ToLower(strings.TrimSpace(c.QueryParam("status")))
	upcoming := c.QueryParam("upcoming") == "true"
	items, err := h.BookingRepo.ListByUser(c.Request().Context(), userID, status, upcoming)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/bookings/:id.  Visible to the player who
// made the booking and to the owner of the court it is on.
func (h *PlayerHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
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
	if booking.UserID != userID {
		ownerID, err := h.BookingRepo.CourtOwner(ctx, id)
		if err != nil || ownerID != userID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
		}
	}
	return c.JSON(http.StatusOK, booking)
}

func derefOr(s *string, def string) string {
	if s != nil {
		return *s
	}
	return def
}

// pastPlayDate reports whether the slot's calendar date is already
// over.  The comparison is date-only: a same-day slot stays bookable
// even after its start time has passed.
func pastPlayDate(date, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return date.Before(today)
}
