package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestConfirmConditional(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewBookingRepo(db)

	mock.ExpectExec("UPDATE bookings SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := repo.Confirm(context.Background(), 31, "PAY_1693400000_AB12CD34EF", "card")
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if !ok {
		t.Error("pending booking should confirm")
	}

	// A second confirm finds the row no longer pending.
	mock.ExpectExec("UPDATE bookings SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = repo.Confirm(context.Background(), 31, "PAY_1693400000_AB12CD34EF", "card")
	if err != nil {
		t.Fatalf("second Confirm() error = %v", err)
	}
	if ok {
		t.Error("already-confirmed booking must not confirm again")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCompleteConditional(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewBookingRepo(db)

	mock.ExpectExec("UPDATE bookings SET status = 'completed'").
		WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := repo.Complete(context.Background(), 31)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if !ok {
		t.Error("confirmed booking should complete")
	}

	// The booking was cancelled between the handler's guard and the
	// update; the status clause keeps the terminal state intact.
	mock.ExpectExec("UPDATE bookings SET status = 'completed'").
		WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = repo.Complete(context.Background(), 31)
	if err != nil {
		t.Fatalf("Complete() on terminal booking error = %v", err)
	}
	if ok {
		t.Error("terminal booking must not complete")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
