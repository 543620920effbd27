package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/resnplay/court-booking-api/internal/repository"
)

func newPlayerTestHandler(t *testing.T) (*PlayerHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	h := NewPlayerHandler(
		repository.NewCourtRepo(db),
		repository.NewTimeSlotRepo(db),
		repository.NewBookingRepo(db),
		repository.NewUserRepo(db),
		nil,
	)
	return h, mock, func() { db.Close() }
}

func playerCtx(e *echo.Echo, method, target, body string, userID uint64) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("role", "PLAYER")
	return c, rec
}

var claimCols = []string{
	"id", "court_id", "slot_date", "start_time", "end_time",
	"price_cents", "is_available", "unavailability_reason", "created_at", "updated_at",
	"owner_id", "is_active",
}

func TestCreateBookingClaimsSlot(t *testing.T) {
	h, mock, done := newPlayerTestHandler(t)
	defer done()

	playDate := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	ts := time.Date(2029, 12, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM time_slots t").
		WillReturnRows(sqlmock.NewRows(claimCols).
			AddRow(7, 2, playDate, "09:00", "10:00", 5000, true, nil, ts, ts, 9, true))
	mock.ExpectExec("UPDATE time_slots SET is_available = 0").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectCommit()

	e := echo.New()
	c, rec := playerCtx(e, http.MethodPost, "/v1/bookings/slot",
		`{"timeSlotId":7,"notes":"evening game"}`, 5)
	if err := h.CreateBooking(c); err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body = %s", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"status":"pending"`) {
		t.Errorf("new booking should be pending; body = %s", body)
	}
	if !strings.Contains(body, `"totalAmountCents":5000`) {
		t.Errorf("booking should snapshot the slot price; body = %s", body)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateBookingLosesClaimRace(t *testing.T) {
	h, mock, done := newPlayerTestHandler(t)
	defer done()

	playDate := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	ts := time.Date(2029, 12, 1, 10, 0, 0, 0, time.UTC)

	// The slot still read as available but another claimant's update
	// landed first, so the conditional flip touches zero rows.
	mock.ExpectBegin()
	mock.ExpectQuery("FROM time_slots t").
		WillReturnRows(sqlmock.NewRows(claimCols).
			AddRow(7, 2, playDate, "09:00", "10:00", 5000, true, nil, ts, ts, 9, true))
	mock.ExpectExec("UPDATE time_slots SET is_available = 0").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	e := echo.New()
	c, rec := playerCtx(e, http.MethodPost, "/v1/bookings/slot", `{"timeSlotId":7}`, 5)
	if err := h.CreateBooking(c); err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409; body = %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "slot is not available") {
		t.Errorf("loser should see the unavailable message; body = %s", rec.Body)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

var bookingCols = []string{
	"id", "user_id", "court_id", "time_slot_id", "play_date", "start_time", "end_time",
	"total_amount_cents", "status", "payment_status", "payment_id", "payment_method",
	"notes", "cancellation_reason", "cancelled_at", "created_at", "updated_at",
}

func TestCancelBookingReleasesSlot(t *testing.T) {
	h, mock, done := newPlayerTestHandler(t)
	defer done()

	playDate := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	ts := time.Date(2029, 12, 1, 10, 0, 0, 0, time.UTC)

	// Cancellation and the slot release commit in one transaction: the
	// locked read, the booking update with the refund flag and the slot
	// flip back to available.
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(31, 5, 2, 7, playDate, "09:00", "10:00", 10000,
				"confirmed", "paid", "PAY_1693400000_AB12CD34EF", "card",
				"", nil, nil, ts, ts))
	mock.ExpectExec("UPDATE bookings SET status = 'cancelled'").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE time_slots SET is_available = 1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	e := echo.New()
	c, rec := playerCtx(e, http.MethodPut, "/v1/bookings/31/cancel", `{"reason":"rain"}`, 5)
	c.SetParamNames("id")
	c.SetParamValues("31")
	if err := h.CancelBooking(c); err != nil {
		t.Fatalf("CancelBooking() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"status":"cancelled"`) {
		t.Errorf("response should report cancelled; body = %s", body)
	}
	// Far enough out for the full-refund tier.
	if !strings.Contains(body, `"refundAmountCents":10000`) {
		t.Errorf("paid booking should refund in full; body = %s", body)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPastPlayDate(t *testing.T) {
	now := time.Date(2026, 9, 7, 22, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"yesterday", time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC), true},
		{"today, start time already passed", time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), false},
		{"tomorrow", time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pastPlayDate(tt.date, now); got != tt.want {
				t.Errorf("pastPlayDate(%s) = %v, want %v", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}
