package model

import (
	"errors"
	"time"
)

// Booking status values.  Cancelled and completed are terminal.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Payment status values for a booking.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// CancellationWindowHours is the minimum gap between now and the slot
// start below which a booking can no longer be cancelled.
const CancellationWindowHours = 2

// Sentinel errors returned by the booking lifecycle guards.  Handlers
// translate these into HTTP responses; the guards themselves never
// touch the database.
var (
	ErrAlreadyConfirmed         = errors.New("booking already confirmed")
	ErrInvalidState             = errors.New("invalid booking state for this operation")
	ErrAlreadyCancelled         = errors.New("booking is already cancelled")
	ErrCannotCancelCompleted    = errors.New("cannot cancel completed booking")
	ErrCancellationWindowPassed = errors.New("cannot cancel booking less than 2 hours before start time")
	ErrTooEarly                 = errors.New("cannot complete booking before play time ends")
)

// Booking records a player's claim on a single time slot, as stored in
// the `bookings` table.  PlayDate, StartTime, EndTime and
// TotalAmountCents are denormalized copies taken from the slot when the
// booking is created so that later slot or price edits never alter a
// historical booking.
//
// Fields:
//  ID                 – primary key identifier.
//  UserID             – player who made the booking.
//  CourtID            – court being played.
//  TimeSlotID         – slot claimed by this booking.
//  PlayDate           – date of play (copied from the slot).
//  StartTime          – "HH:MM" start (copied from the slot).
//  EndTime            – "HH:MM" end (copied from the slot).
//  TotalAmountCents   – amount due in cents (copied from the slot).
//  Status             – pending | confirmed | cancelled | completed.
//  PaymentStatus      – pending | paid | failed | refunded.
//  PaymentID          – external payment reference, if any.
//  PaymentMethod      – e.g. card, upi, netbanking.
//  Notes              – free-form note from the player.
//  CancellationReason – why the booking was cancelled, if it was.
//  CancelledAt        – when the booking was cancelled (nullable).
//  CreatedAt          – timestamp of creation.
//  UpdatedAt          – timestamp of last update.
type Booking struct {
	ID                 uint64     `json:"id"`                           // bookings.id
	UserID             uint64     `json:"userId"`                       // bookings.user_id
	CourtID            uint64     `json:"courtId"`                      // bookings.court_id
	TimeSlotID         uint64     `json:"timeSlotId"`                   // bookings.time_slot_id
	PlayDate           time.Time  `json:"playDate"`                     // bookings.play_date
	StartTime          string     `json:"startTime"`                    // bookings.start_time
	EndTime            string     `json:"endTime"`                      // bookings.end_time
	TotalAmountCents   uint32     `json:"totalAmountCents"`             // bookings.total_amount_cents
	Status             string     `json:"status"`                       // bookings.status
	PaymentStatus      string     `json:"paymentStatus"`                // bookings.payment_status
	PaymentID          *string    `json:"paymentId,omitempty"`          // bookings.payment_id (nullable)
	PaymentMethod      *string    `json:"paymentMethod,omitempty"`      // bookings.payment_method (nullable)
	Notes              string     `json:"notes"`                        // bookings.notes
	CancellationReason *string    `json:"cancellationReason,omitempty"` // bookings.cancellation_reason (nullable)
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`        // bookings.cancelled_at (nullable)
	CreatedAt          time.Time  `json:"createdAt"`                    // bookings.created_at
	UpdatedAt          time.Time  `json:"updatedAt"`                    // bookings.updated_at
}

// StartsAt combines PlayDate and StartTime into a single UTC instant.
func (b *Booking) StartsAt() time.Time {
	return atClock(b.PlayDate, b.StartTime)
}

// EndsAt combines PlayDate and EndTime into a single UTC instant.
func (b *Booking) EndsAt() time.Time {
	return atClock(b.PlayDate, b.EndTime)
}

// HoursUntilStart returns the (possibly negative) number of hours
// between now and the booking's start.
func (b *Booking) HoursUntilStart(now time.Time) float64 {
	return b.StartsAt().Sub(now).Hours()
}

// CanConfirm reports whether the booking may move to confirmed.  Only a
// pending booking can be confirmed; confirming twice is a distinct
// error so clients can tell the difference.
func (b *Booking) CanConfirm() error {
	switch b.Status {
	case BookingPending:
		return nil
	case BookingConfirmed:
		return ErrAlreadyConfirmed
	default:
		return ErrInvalidState
	}
}

// CanCancel reports whether the booking may be cancelled at the given
// instant.  Terminal states are rejected first, then the cancellation
// window is enforced: less than CancellationWindowHours before the
// slot start the booking is locked in.
func (b *Booking) CanCancel(now time.Time) error {
	if b.Status == BookingCancelled {
		return ErrAlreadyCancelled
	}
	if b.Status == BookingCompleted {
		return ErrCannotCancelCompleted
	}
	if b.HoursUntilStart(now) < CancellationWindowHours {
		return ErrCancellationWindowPassed
	}
	return nil
}

// CanComplete reports whether the owner may mark the booking completed
// at the given instant.  Completion requires the play end time to have
// passed and is only meaningful for non-terminal bookings.
func (b *Booking) CanComplete(now time.Time) error {
	if b.Status == BookingCancelled {
		return ErrInvalidState
	}
	if b.Status == BookingCompleted {
		return ErrInvalidState
	}
	if b.EndsAt().After(now) {
		return ErrTooEarly
	}
	return nil
}

// atClock anchors an "HH:MM" clock string onto the given date in UTC.
// A malformed clock string yields midnight, which is the safe floor for
// the window checks above.
func atClock(date time.Time, clock string) time.Time {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}
