package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/resnplay/court-booking-api/internal/model"
)

// BookingRepo provides persistence for bookings.  Lifecycle decisions
// live in model.Booking; this layer only loads rows, applies the
// resulting transitions and keeps the slot/booking pair consistent by
// running the mutating statements inside handler-owned transactions.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for transaction-owning handlers.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, user_id, court_id, time_slot_id, play_date, start_time, end_time,
	total_amount_cents, status, payment_status, payment_id, payment_method,
	notes, cancellation_reason, cancelled_at, created_at, updated_at`

// CreateTx inserts a new pending booking within the claim transaction
// and populates the generated ID.  The denormalized play date, times
// and amount must already be copied onto the record from the slot.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, court_id, time_slot_id, play_date, start_time, end_time,
		                       total_amount_cents, status, payment_status, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.UserID, b.CourtID, b.TimeSlotID, b.PlayDate.Format(dateFmt), b.StartTime, b.EndTime,
		b.TotalAmountCents, b.Status, b.PaymentStatus, b.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID fetches a booking by id.  Returns ErrBookingNotFound when absent.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	return scanBooking(row)
}

// GetForUpdateTx loads a booking with a row lock so that concurrent
// transitions on the same booking serialize inside the transaction.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ? FOR UPDATE`, id)
	return scanBooking(row)
}

// CourtOwner resolves the owner of the court a booking belongs to.
func (r *BookingRepo) CourtOwner(ctx context.Context, bookingID uint64) (uint64, error) {
	var ownerID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT c.owner_id FROM bookings b JOIN courts c ON c.id = b.court_id WHERE b.id = ?`,
		bookingID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return 0, ErrBookingNotFound
	}
	return ownerID, err
}

// Confirm moves a pending booking to confirmed/paid, recording the
// gateway reference.  The WHERE clause keeps a double confirm from
// racing past the handler's guard; zero affected rows means the state
// changed underneath us and the caller re-reads to report why.
func (r *BookingRepo) Confirm(ctx context.Context, id uint64, paymentID, paymentMethod string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = ?, payment_status = ?, payment_id = ?, payment_method = ?
		 WHERE id = ? AND status = ?`,
		model.BookingConfirmed, model.PaymentPaid, paymentID, paymentMethod,
		id, model.BookingPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// CancelTx records the cancellation inside the transaction that also
// releases the slot.  When the booking had been paid its payment
// status flips to refunded; the refund amount itself is computed by
// the payment policy before this call and returned to the client.
func (r *BookingRepo) CancelTx(ctx context.Context, tx *sql.Tx, id uint64, reason string, wasPaid bool, at time.Time) error {
	pay := ""
	if wasPaid {
		pay = `, payment_status = 'refunded'`
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = 'cancelled', cancellation_reason = ?, cancelled_at = ?`+pay+`
		 WHERE id = ?`,
		reason, at.UTC().Format("2006-01-02 15:04:05"), id)
	return err
}

// Complete marks a booking completed.  Terminal; no further
// transitions are permitted afterwards.  The WHERE clause skips
// bookings that reached a terminal state after the handler's guard
// ran; zero affected rows tells the caller the transition did not
// apply.
func (r *BookingRepo) Complete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = 'completed'
		 WHERE id = ? AND status NOT IN ('cancelled', 'completed')`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ActiveExistsBySlot reports whether a non-cancelled booking currently
// references the slot.  Used to refuse owner toggles on booked slots
// and to decide whether a slot may return to available.
func (r *BookingRepo) ActiveExistsBySlot(ctx context.Context, slotID uint64) (bool, error) {
	var id uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM bookings WHERE time_slot_id = ? AND status <> 'cancelled' LIMIT 1`,
		slotID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// BookingDetail is a booking joined with its court, shaped for the
// player's booking list.
type BookingDetail struct {
	model.Booking
	CourtName string `json:"courtName"`
	CourtCity string `json:"courtCity"`
}

// ListByUser returns the player's bookings, newest play date first.
// status filters on booking status when non-empty; upcoming keeps only
// bookings whose play date is today or later.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64, status string, upcoming bool) ([]BookingDetail, error) {
	q := `SELECT b.id, b.user_id, b.court_id, b.time_slot_id, b.play_date, b.start_time, b.end_time,
	             b.total_amount_cents, b.status, b.payment_status, b.payment_id, b.payment_method,
	             b.notes, b.cancellation_reason, b.cancelled_at, b.created_at, b.updated_at,
	             c.name, c.city
	      FROM bookings b
	      JOIN courts c ON c.id = b.court_id
	      WHERE b.user_id = ?`
	args := []interface{}{userID}
	if status != "" {
		q += ` AND b.status = ?`
		args = append(args, status)
	}
	if upcoming {
		q += ` AND b.play_date >= CURDATE()`
	}
	q += ` ORDER BY b.play_date DESC, b.start_time DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		if err := scanBookingInto(rows, &d.Booking, &d.CourtName, &d.CourtCity); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// OwnerBookingDetail is a booking joined with the requesting player's
// contact details, shaped for the owner's per-court booking list.
type OwnerBookingDetail struct {
	model.Booking
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	UserPhone string `json:"userPhone,omitempty"`
}

// ListByCourt returns a court's bookings for its owner, earliest play
// date first.  status filters on booking status; date restricts to a
// single play date.
func (r *BookingRepo) ListByCourt(ctx context.Context, courtID uint64, status string, date *time.Time) ([]OwnerBookingDetail, error) {
	q := `SELECT b.id, b.user_id, b.court_id, b.time_slot_id, b.play_date, b.start_time, b.end_time,
	             b.total_amount_cents, b.status, b.payment_status, b.payment_id, b.payment_method,
	             b.notes, b.cancellation_reason, b.cancelled_at, b.created_at, b.updated_at,
	             u.full_name, u.email, u.phone
	      FROM bookings b
	      JOIN users u ON u.id = b.user_id
	      WHERE b.court_id = ?`
	args := []interface{}{courtID}
	if status != "" {
		q += ` AND b.status = ?`
		args = append(args, status)
	}
	if date != nil {
		q += ` AND b.play_date = ?`
		args = append(args, date.Format(dateFmt))
	}
	q += ` ORDER BY b.play_date, b.start_time`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]OwnerBookingDetail, 0)
	for rows.Next() {
		var d OwnerBookingDetail
		var phone sql.NullString
		if err := scanBookingInto(rows, &d.Booking, &d.UserName, &d.UserEmail, &phone); err != nil {
			return nil, err
		}
		d.UserPhone = phone.String
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanBooking(row rowScanner) (model.Booking, error) {
	var b model.Booking
	if err := scanBookingInto(row, &b); err != nil {
		if err == sql.ErrNoRows {
			return model.Booking{}, ErrBookingNotFound
		}
		return model.Booking{}, err
	}
	return b, nil
}

// scanBookingInto scans the booking columns plus any trailing extras
// supplied by the caller's join.
func scanBookingInto(row rowScanner, b *model.Booking, extra ...interface{}) error {
	var payID, payMethod, reason sql.NullString
	var cancelledAt sql.NullTime
	dest := []interface{}{
		&b.ID, &b.UserID, &b.CourtID, &b.TimeSlotID, &b.PlayDate, &b.StartTime, &b.EndTime,
		&b.TotalAmountCents, &b.Status, &b.PaymentStatus, &payID, &payMethod,
		&b.Notes, &reason, &cancelledAt, &b.CreatedAt, &b.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	if payID.Valid {
		v := payID.String
		b.PaymentID = &v
	}
	if payMethod.Valid {
		v := payMethod.String
		b.PaymentMethod = &v
	}
	if reason.Valid {
		v := reason.String
		b.CancellationReason = &v
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		b.CancelledAt = &t
	}
	return nil
}
