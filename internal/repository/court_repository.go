package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/resnplay/court-booking-api/internal/model"
)

// CourtRepo provides CRUD operations for courts.  Operating hours are
// stored as a JSON column and (de)serialized against
// model.OperatingHours.  Courts are soft-deleted by clearing
// is_active; historical slots and bookings keep pointing at the row.
type CourtRepo struct {
	db *sql.DB
}

// NewCourtRepo returns a new CourtRepo bound to the given database.
func NewCourtRepo(db *sql.DB) *CourtRepo { return &CourtRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *CourtRepo) DB() *sql.DB { return r.db }

const courtColumns = `id, owner_id, name, description, address, city,
	price_per_hour_cents, operating_hours, is_active, created_at, updated_at`

// Create inserts a new court and populates its generated ID.
func (r *CourtRepo) Create(ctx context.Context, c *model.Court) error {
	hours, err := json.Marshal(c.OperatingHours)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO courts (owner_id, name, description, address, city, price_per_hour_cents, operating_hours, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
		c.OwnerID, c.Name, c.Description, c.Address, c.City, c.PricePerHourCents, string(hours))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	c.IsActive = true
	return nil
}

// GetByID fetches a court by id.  Returns ErrCourtNotFound when the
// row does not exist.
func (r *CourtRepo) GetByID(ctx context.Context, id uint64) (model.Court, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+courtColumns+` FROM courts WHERE id = ?`, id)
	return scanCourt(row)
}

// ListByOwner returns all courts (active or not) belonging to an owner.
func (r *CourtRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Court, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+courtColumns+` FROM courts WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCourts(rows)
}

// ListActive returns active courts for the public browse endpoint,
// optionally filtered by city.
func (r *CourtRepo) ListActive(ctx context.Context, city string) ([]model.Court, error) {
	q := `SELECT ` + courtColumns + ` FROM courts WHERE is_active = 1`
	args := []interface{}{}
	if city != "" {
		q += ` AND city = ?`
		args = append(args, city)
	}
	q += ` ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCourts(rows)
}

// Update rewrites the mutable fields of a court owned by ownerID.
// Returns ErrCourtNotFound when the court does not exist and
// ErrForbidden when it belongs to someone else.
func (r *CourtRepo) Update(ctx context.Context, ownerID uint64, c *model.Court) error {
	if err := r.checkOwner(ctx, c.ID, ownerID); err != nil {
		return err
	}
	hours, err := json.Marshal(c.OperatingHours)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE courts SET name = ?, description = ?, address = ?, city = ?,
		        price_per_hour_cents = ?, operating_hours = ?
		 WHERE id = ? AND owner_id = ?`,
		c.Name, c.Description, c.Address, c.City, c.PricePerHourCents, string(hours),
		c.ID, ownerID)
	return err
}

// Deactivate soft-deletes a court.  Slots and bookings already taken
// remain untouched; the court just stops showing up for players.
func (r *CourtRepo) Deactivate(ctx context.Context, id, ownerID uint64) error {
	if err := r.checkOwner(ctx, id, ownerID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE courts SET is_active = 0 WHERE id = ? AND owner_id = ?`, id, ownerID)
	return err
}

// checkOwner resolves a court's owner and compares it to the caller.
func (r *CourtRepo) checkOwner(ctx context.Context, id, ownerID uint64) error {
	var actual uint64
	err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM courts WHERE id = ?`, id).Scan(&actual)
	if err == sql.ErrNoRows {
		return ErrCourtNotFound
	}
	if err != nil {
		return err
	}
	if actual != ownerID {
		return ErrForbidden
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCourt(row rowScanner) (model.Court, error) {
	var c model.Court
	var hours []byte
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.Address, &c.City,
		&c.PricePerHourCents, &hours, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Court{}, ErrCourtNotFound
	}
	if err != nil {
		return model.Court{}, err
	}
	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &c.OperatingHours); err != nil {
			return model.Court{}, err
		}
	}
	return c, nil
}

func collectCourts(rows *sql.Rows) ([]model.Court, error) {
	out := make([]model.Court, 0)
	for rows.Next() {
		c, err := scanCourt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
