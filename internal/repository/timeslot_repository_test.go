package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/resnplay/court-booking-api/internal/model"
)

var slotTestCols = []string{
	"id", "court_id", "slot_date", "start_time", "end_time",
	"price_cents", "is_available", "unavailability_reason", "created_at", "updated_at",
}

func TestCreateIfAbsent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewTimeSlotRepo(db)

	slot := &model.TimeSlot{
		CourtID:    1,
		Date:       time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		StartTime:  "09:00",
		EndTime:    "10:00",
		PriceCents: 5000,
	}

	mock.ExpectExec("INSERT INTO time_slots").
		WillReturnResult(sqlmock.NewResult(41, 1))
	created, err := repo.CreateIfAbsent(context.Background(), slot)
	if err != nil {
		t.Fatalf("CreateIfAbsent() error = %v", err)
	}
	if !created {
		t.Error("fresh slot should report created=true")
	}
	if slot.ID != 41 || !slot.IsAvailable {
		t.Errorf("slot after create = id %d available %v, want id 41 available", slot.ID, slot.IsAvailable)
	}

	// A concurrent generation run hit the unique index first.
	mock.ExpectExec("INSERT INTO time_slots").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '1-2026-09-07-09:00' for key 'uniq_court_date_start'"))
	created, err = repo.CreateIfAbsent(context.Background(), slot)
	if err != nil {
		t.Fatalf("duplicate CreateIfAbsent() error = %v, want nil", err)
	}
	if created {
		t.Error("duplicate key should report created=false, not an error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestClaimTxArbitration(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)
	repo := NewTimeSlotRepo(db)

	// Four claimants race for one slot: the conditional update touches
	// one row for the first and zero for everyone after.
	const claimants = 4
	for i := 0; i < claimants; i++ {
		mock.ExpectBegin()
	}
	mock.ExpectExec("UPDATE time_slots SET is_available = 0").
		WillReturnResult(sqlmock.NewResult(0, 1))
	for i := 1; i < claimants; i++ {
		mock.ExpectExec("UPDATE time_slots SET is_available = 0").
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	for i := 0; i < claimants; i++ {
		mock.ExpectRollback()
	}

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		wins, losses int
	)
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx, err := db.Begin()
			if err != nil {
				t.Errorf("begin: %v", err)
				return
			}
			defer tx.Rollback()
			err = repo.ClaimTx(context.Background(), tx, 7)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrConflict):
				losses++
			default:
				t.Errorf("ClaimTx() error = %v, want nil or ErrConflict", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("wins = %d, want exactly 1", wins)
	}
	if losses != claimants-1 {
		t.Errorf("losses = %d, want %d", losses, claimants-1)
	}
}

func TestReleaseThenListAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewTimeSlotRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE time_slots SET is_available = 1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := repo.ReleaseTx(context.Background(), tx, 7); err != nil {
		t.Fatalf("ReleaseTx() error = %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	ts := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM time_slots").
		WillReturnRows(sqlmock.NewRows(slotTestCols).
			AddRow(7, 1, day, "09:00", "10:00", 5000, true, nil, ts, ts))

	slots, err := repo.ListAvailable(context.Background(), 1, day, day)
	if err != nil {
		t.Fatalf("ListAvailable() error = %v", err)
	}
	if len(slots) != 1 || slots[0].ID != 7 {
		t.Fatalf("ListAvailable() = %+v, want the released slot 7", slots)
	}
	if !slots[0].IsAvailable {
		t.Error("released slot should read as available")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
