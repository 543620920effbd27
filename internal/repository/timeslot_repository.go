package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/resnplay/court-booking-api/internal/model"
)

// TimeSlotRepo persists time slots and guards the
// (court, date, start_time) uniqueness invariant.  Claiming a slot
// goes through a conditional UPDATE so that of two racing claimants
// exactly one wins; the loser sees ErrConflict, never a duplicate
// booking.
type TimeSlotRepo struct {
	db *sql.DB
}

// NewTimeSlotRepo returns a new TimeSlotRepo bound to the given database.
func NewTimeSlotRepo(db *sql.DB) *TimeSlotRepo { return &TimeSlotRepo{db: db} }

// DB exposes the underlying handle for transaction-owning handlers.
func (r *TimeSlotRepo) DB() *sql.DB { return r.db }

const slotColumns = `id, court_id, slot_date, start_time, end_time,
	price_cents, is_available, unavailability_reason, created_at, updated_at`

const dateFmt = "2006-01-02"

// CreateIfAbsent inserts the slot unless one already exists for the
// same (court, date, start time).  The unique index arbitrates
// concurrent generation: a duplicate-key error (1062) is reported as
// created=false, not as a failure, which keeps repeated generation
// over overlapping ranges idempotent.
func (r *TimeSlotRepo) CreateIfAbsent(ctx context.Context, slot *model.TimeSlot) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO time_slots (court_id, slot_date, start_time, end_time, price_cents, is_available)
		 VALUES (?, ?, ?, ?, ?, 1)`,
		slot.CourtID, slot.Date.Format(dateFmt), slot.StartTime, slot.EndTime, slot.PriceCents)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return false, nil
		}
		return false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, err
	}
	slot.ID = uint64(id)
	slot.IsAvailable = true
	return true, nil
}

// GetByID fetches a slot by id.  Returns ErrSlotNotFound when absent.
func (r *TimeSlotRepo) GetByID(ctx context.Context, id uint64) (model.TimeSlot, error) {
	var s model.TimeSlot
	var reason sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM time_slots WHERE id = ?`, id).Scan(
		&s.ID, &s.CourtID, &s.Date, &s.StartTime, &s.EndTime,
		&s.PriceCents, &s.IsAvailable, &reason, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.TimeSlot{}, ErrSlotNotFound
	}
	if err != nil {
		return model.TimeSlot{}, err
	}
	if reason.Valid {
		v := reason.String
		s.UnavailabilityReason = &v
	}
	return s, nil
}

// GetForClaimTx loads a slot together with its court's owner inside a
// claim transaction.  The court join also yields the court's active
// flag so a claim against a deactivated court can be rejected.
func (r *TimeSlotRepo) GetForClaimTx(ctx context.Context, tx *sql.Tx, id uint64) (model.TimeSlot, uint64, bool, error) {
	var s model.TimeSlot
	var reason sql.NullString
	var ownerID uint64
	var courtActive bool
	err := tx.QueryRowContext(ctx,
		`SELECT t.id, t.court_id, t.slot_date, t.start_time, t.end_time,
		        t.price_cents, t.is_available, t.unavailability_reason, t.created_at, t.updated_at,
		        c.owner_id, c.is_active
		 FROM time_slots t
		 JOIN courts c ON c.id = t.court_id
		 WHERE t.id = ?`, id).Scan(
		&s.ID, &s.CourtID, &s.Date, &s.StartTime, &s.EndTime,
		&s.PriceCents, &s.IsAvailable, &reason, &s.CreatedAt, &s.UpdatedAt,
		&ownerID, &courtActive)
	if err == sql.ErrNoRows {
		return model.TimeSlot{}, 0, false, ErrSlotNotFound
	}
	if err != nil {
		return model.TimeSlot{}, 0, false, err
	}
	if reason.Valid {
		v := reason.String
		s.UnavailabilityReason = &v
	}
	return s, ownerID, courtActive, nil
}

// ClaimTx flips the slot to unavailable if and only if it is still
// available.  The affected-row count is the arbitration point: zero
// rows means another claimant got there first (or the owner disabled
// the slot) and the caller receives ErrConflict.
func (r *TimeSlotRepo) ClaimTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE time_slots SET is_available = 0 WHERE id = ? AND is_available = 1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// ReleaseTx makes a slot claimable again after its booking was
// cancelled.  Any owner-set unavailability reason is cleared.
func (r *TimeSlotRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE time_slots SET is_available = 1, unavailability_reason = NULL WHERE id = ?`, id)
	return err
}

// SetAvailability lets an owner manually toggle a slot, recording an
// optional reason when disabling.  The handler is responsible for
// rejecting toggles on slots with an active booking.
func (r *TimeSlotRepo) SetAvailability(ctx context.Context, id uint64, available bool, reason string) error {
	var rs sql.NullString
	if !available && reason != "" {
		rs = sql.NullString{String: reason, Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE time_slots SET is_available = ?, unavailability_reason = ? WHERE id = ?`,
		available, rs, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the row is gone or the flag already had this value;
		// distinguish by re-checking existence.
		var exists uint64
		if err := r.db.QueryRowContext(ctx, `SELECT id FROM time_slots WHERE id = ?`, id).Scan(&exists); err == sql.ErrNoRows {
			return ErrSlotNotFound
		} else if err != nil {
			return err
		}
	}
	return nil
}

// ListAvailable returns available slots for a court in [from, to],
// ordered by date then start time.
func (r *TimeSlotRepo) ListAvailable(ctx context.Context, courtID uint64, from, to time.Time) ([]model.TimeSlot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+slotColumns+` FROM time_slots
		 WHERE court_id = ? AND slot_date BETWEEN ? AND ? AND is_available = 1
		 ORDER BY slot_date, start_time`,
		courtID, from.Format(dateFmt), to.Format(dateFmt))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.TimeSlot, 0)
	for rows.Next() {
		var s model.TimeSlot
		var reason sql.NullString
		if err := rows.Scan(&s.ID, &s.CourtID, &s.Date, &s.StartTime, &s.EndTime,
			&s.PriceCents, &s.IsAvailable, &reason, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if reason.Valid {
			v := reason.String
			s.UnavailabilityReason = &v
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// BookingSummary is the slice of booking data an owner sees next to an
// occupied slot in the management calendar.
type BookingSummary struct {
	BookingID uint64 `json:"bookingId"`
	Status    string `json:"status"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	UserPhone string `json:"userPhone,omitempty"`
}

// ManagedSlot is one row of the owner's slot calendar: the slot plus,
// when it is taken, the active booking's summary.
type ManagedSlot struct {
	Slot     model.TimeSlot  `json:"slot"`
	IsBooked bool            `json:"isBooked"`
	Booking  *BookingSummary `json:"booking,omitempty"`
}

// ListForOwner returns all slots of a court in [from, to] for the
// management view.  status filters to "available" or "booked"; any
// other value returns everything.  Slots that are unavailable because
// of an active (non-cancelled) booking carry that booking's summary;
// slots disabled by the owner come back with IsBooked=false.
func (r *TimeSlotRepo) ListForOwner(ctx context.Context, courtID uint64, from, to time.Time, status string) ([]ManagedSlot, error) {
	q := `SELECT t.id, t.court_id, t.slot_date, t.start_time, t.end_time,
	             t.price_cents, t.is_available, t.unavailability_reason, t.created_at, t.updated_at,
	             b.id, b.status, u.full_name, u.email, u.phone
	      FROM time_slots t
	      LEFT JOIN bookings b ON b.time_slot_id = t.id AND b.status <> 'cancelled'
	      LEFT JOIN users u ON u.id = b.user_id
	      WHERE t.court_id = ? AND t.slot_date BETWEEN ? AND ?`
	switch status {
	case "available":
		q += ` AND t.is_available = 1`
	case "booked":
		q += ` AND t.is_available = 0 AND b.id IS NOT NULL`
	}
	q += ` ORDER BY t.slot_date, t.start_time`
	rows, err := r.db.QueryContext(ctx, q, courtID, from.Format(dateFmt), to.Format(dateFmt))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ManagedSlot, 0)
	for rows.Next() {
		var ms ManagedSlot
		var reason sql.NullString
		var bID sql.NullInt64
		var bStatus, uName, uEmail, uPhone sql.NullString
		if err := rows.Scan(&ms.Slot.ID, &ms.Slot.CourtID, &ms.Slot.Date, &ms.Slot.StartTime, &ms.Slot.EndTime,
			&ms.Slot.PriceCents, &ms.Slot.IsAvailable, &reason, &ms.Slot.CreatedAt, &ms.Slot.UpdatedAt,
			&bID, &bStatus, &uName, &uEmail, &uPhone); err != nil {
			return nil, err
		}
		if reason.Valid {
			v := reason.String
			ms.Slot.UnavailabilityReason = &v
		}
		if bID.Valid {
			ms.IsBooked = true
			ms.Booking = &BookingSummary{
				BookingID: uint64(bID.Int64),
				Status:    bStatus.String,
				UserName:  uName.String,
				UserEmail: uEmail.String,
				UserPhone: uPhone.String,
			}
		}
		out = append(out, ms)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteAvailableRange bulk-deletes a court's still-available slots in
// [from, to] and reports how many were removed.  Claimed or disabled
// slots are left alone.
func (r *TimeSlotRepo) DeleteAvailableRange(ctx context.Context, courtID uint64, from, to time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM time_slots
		 WHERE court_id = ? AND slot_date BETWEEN ? AND ? AND is_available = 1`,
		courtID, from.Format(dateFmt), to.Format(dateFmt))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
