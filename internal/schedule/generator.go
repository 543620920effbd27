// Package schedule turns a court's operating-hours configuration into
// discrete, non-overlapping time slots.  The expansion itself is pure;
// persistence goes through the SlotStore interface so that re-running
// generation over an overlapping range is idempotent: the store's
// create-if-absent guard silently skips slots that already exist.
package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/resnplay/court-booking-api/internal/model"
)

// DefaultSlotMinutes is used when a generation request does not specify
// a slot duration.
const DefaultSlotMinutes = 60

var (
	// ErrInvalidRange is returned when the end date precedes the start date.
	ErrInvalidRange = errors.New("end date must not be before start date")
	// ErrInvalidDuration is returned for zero or negative slot durations.
	ErrInvalidDuration = errors.New("slot duration must be a positive number of minutes")
)

// SlotTime is one candidate interval produced by expanding a single
// day's operating window.
type SlotTime struct {
	Start string
	End   string
}

// DaySlots expands one operating window into slot intervals of the
// given duration.  The walk starts at the window's open time and emits
// [cursor, cursor+duration) while the slot still fits entirely inside
// the window; a slot that would cross the close time is discarded, not
// truncated, so an uneven window leaves a trailing gap.  An inverted or
// zero-length window yields no slots.  Malformed clock strings are
// treated as a closed day.
func DaySlots(w model.Window, durationMin int) []SlotTime {
	if durationMin <= 0 {
		return nil
	}
	open, err := ParseClock(w.Start)
	if err != nil {
		return nil
	}
	close, err := ParseClock(w.End)
	if err != nil {
		return nil
	}
	var out []SlotTime
	for cur := open; cur+durationMin <= close; cur += durationMin {
		out = append(out, SlotTime{
			Start: FormatClock(cur),
			End:   FormatClock(cur + durationMin),
		})
	}
	return out
}

// SlotStore is the persistence guard the generator writes through.
// CreateIfAbsent must atomically create the slot unless one already
// exists for the same (court, date, start time); it reports whether a
// new row was created.  A uniqueness race between concurrent
// generation calls must surface as created=false, never as an error.
type SlotStore interface {
	CreateIfAbsent(ctx context.Context, slot *model.TimeSlot) (created bool, err error)
}

// Generator expands date ranges into persisted time slots for a court.
type Generator struct {
	Store SlotStore
}

// NewGenerator returns a Generator writing through the given store.
func NewGenerator(store SlotStore) *Generator {
	if store == nil {
		panic("nil store passed to NewGenerator")
	}
	return &Generator{Store: store}
}

// Generate walks every calendar day in [from, to] (inclusive, UTC
// date-only), resolves the court's operating window for that weekday
// and persists each candidate slot that does not already exist.  Days
// without a resolvable window contribute zero slots.  Each created
// slot snapshots priceCents, the court's current hourly price.  The
// returned slice contains only newly created slots; pre-existing slots
// in the range are neither returned nor re-priced.
func (g *Generator) Generate(ctx context.Context, courtID uint64, hours model.OperatingHours, priceCents uint32, from, to time.Time, durationMin int) ([]model.TimeSlot, error) {
	if durationMin <= 0 {
		return nil, ErrInvalidDuration
	}
	from = dateOnly(from)
	to = dateOnly(to)
	if to.Before(from) {
		return nil, ErrInvalidRange
	}
	var created []model.TimeSlot
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		w, open := hours.ForWeekday(day.Weekday())
		if !open {
			continue
		}
		for _, st := range DaySlots(w, durationMin) {
			slot := model.TimeSlot{
				CourtID:     courtID,
				Date:        day,
				StartTime:   st.Start,
				EndTime:     st.End,
				PriceCents:  priceCents,
				IsAvailable: true,
			}
			ok, err := g.Store.CreateIfAbsent(ctx, &slot)
			if err != nil {
				return created, err
			}
			if ok {
				created = append(created, slot)
			}
		}
	}
	return created, nil
}

// dateOnly strips the time component, keeping the calendar date in UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
