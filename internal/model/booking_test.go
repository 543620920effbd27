package model

import (
	"errors"
	"testing"
	"time"
)

// bookingAt builds a booking whose slot starts the given number of
// hours after the fixed "now" used by these tests.
var testNow = time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)

func bookingAt(status string, hoursFromNow float64) *Booking {
	start := testNow.Add(time.Duration(hoursFromNow * float64(time.Hour)))
	end := start.Add(time.Hour)
	return &Booking{
		Status:        status,
		PaymentStatus: PaymentPending,
		PlayDate:      time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:     start.Format("15:04"),
		EndTime:       end.Format("15:04"),
	}
}

func TestCanConfirm(t *testing.T) {
	tests := []struct {
		status  string
		wantErr error
	}{
		{BookingPending, nil},
		{BookingConfirmed, ErrAlreadyConfirmed},
		{BookingCancelled, ErrInvalidState},
		{BookingCompleted, ErrInvalidState},
	}
	for _, tt := range tests {
		b := &Booking{Status: tt.status}
		if err := b.CanConfirm(); !errors.Is(err, tt.wantErr) {
			t.Errorf("CanConfirm() on %s = %v, want %v", tt.status, err, tt.wantErr)
		}
	}
}

func TestCanCancel(t *testing.T) {
	tests := []struct {
		name    string
		booking *Booking
		wantErr error
	}{
		{"pending well before start", bookingAt(BookingPending, 48), nil},
		{"confirmed well before start", bookingAt(BookingConfirmed, 48), nil},
		{"exactly at the window edge", bookingAt(BookingConfirmed, 2), nil},
		{"inside the window", bookingAt(BookingConfirmed, 1.5), ErrCancellationWindowPassed},
		{"already started", bookingAt(BookingConfirmed, -1), ErrCancellationWindowPassed},
		{"already cancelled", bookingAt(BookingCancelled, 48), ErrAlreadyCancelled},
		{"completed", bookingAt(BookingCompleted, 48), ErrCannotCancelCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.booking.CanCancel(testNow); !errors.Is(err, tt.wantErr) {
				t.Errorf("CanCancel() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCanComplete(t *testing.T) {
	tests := []struct {
		name    string
		booking *Booking
		wantErr error
	}{
		// bookingAt adds one hour for the end time, so -2 ends exactly now.
		{"play ended an hour ago", bookingAt(BookingConfirmed, -3), nil},
		{"ends exactly now", bookingAt(BookingConfirmed, -1), nil},
		{"still playing", bookingAt(BookingConfirmed, -0.5), ErrTooEarly},
		{"not started yet", bookingAt(BookingConfirmed, 5), ErrTooEarly},
		{"cancelled booking", bookingAt(BookingCancelled, -3), ErrInvalidState},
		{"already completed is terminal", bookingAt(BookingCompleted, -3), ErrInvalidState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.booking.CanComplete(testNow); !errors.Is(err, tt.wantErr) {
				t.Errorf("CanComplete() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestHoursUntilStart(t *testing.T) {
	b := bookingAt(BookingPending, 26)
	if got := b.HoursUntilStart(testNow); got != 26 {
		t.Errorf("HoursUntilStart() = %v, want 26", got)
	}
	b = bookingAt(BookingPending, -2)
	if got := b.HoursUntilStart(testNow); got != -2 {
		t.Errorf("HoursUntilStart() = %v, want -2", got)
	}
}

func TestStartsAtEndsAt(t *testing.T) {
	b := &Booking{
		PlayDate:  time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "10:30",
	}
	wantStart := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 9, 7, 10, 30, 0, 0, time.UTC)
	if !b.StartsAt().Equal(wantStart) {
		t.Errorf("StartsAt() = %v, want %v", b.StartsAt(), wantStart)
	}
	if !b.EndsAt().Equal(wantEnd) {
		t.Errorf("EndsAt() = %v, want %v", b.EndsAt(), wantEnd)
	}
}
