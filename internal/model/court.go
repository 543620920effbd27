package model

import "time"

// Court represents a bookable sports court as stored in the
// `courts` table.  A court belongs to exactly one owner, who is the
// only user allowed to mutate it.  Courts are never hard-deleted;
// deactivating a court sets IsActive to false so that historical
// slots and bookings keep a valid reference.
//
// Fields:
//  ID                – primary key identifier.
//  OwnerID           – user who owns and manages the court.
//  Name              – display name of the court.
//  Description       – optional free-form description.
//  Address           – street address.
//  City              – city the court is located in.
//  PricePerHourCents – hourly price in cents; copied onto slots at
//                      generation time, never live-joined.
//  OperatingHours    – per-weekday open/close windows (JSON column).
//  IsActive          – soft-delete flag.
//  CreatedAt         – timestamp of creation.
//  UpdatedAt         – timestamp of last update.
type Court struct {
	ID                uint64         `json:"id"`                // courts.id
	OwnerID           uint64         `json:"ownerId"`           // courts.owner_id
	Name              string         `json:"name"`              // courts.name
	Description       string         `json:"description"`       // courts.description
	Address           string         `json:"address"`           // courts.address
	City              string         `json:"city"`              // courts.city
	PricePerHourCents uint32         `json:"pricePerHourCents"` // courts.price_per_hour_cents
	OperatingHours    OperatingHours `json:"operatingHours"`    // courts.operating_hours (JSON)
	IsActive          bool           `json:"isActive"`          // courts.is_active
	CreatedAt         time.Time      `json:"createdAt"`         // courts.created_at
	UpdatedAt         time.Time      `json:"updatedAt"`         // courts.updated_at
}

// Window is an open/close pair of clock strings in 24h "HH:MM" form.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// OperatingHours describes when a court can be played on each weekday.
// A day without an entry falls back to the court-level Start/End pair;
// when neither is set the court is closed that day and slot generation
// skips it.  The JSON shape matches what owners submit:
//
//	{"monday": {"start": "09:00", "end": "22:00"}, ...}
//
// or the general form {"start": "09:00", "end": "22:00"}.
type OperatingHours struct {
	Monday    *Window `json:"monday,omitempty"`
	Tuesday   *Window `json:"tuesday,omitempty"`
	Wednesday *Window `json:"wednesday,omitempty"`
	Thursday  *Window `json:"thursday,omitempty"`
	Friday    *Window `json:"friday,omitempty"`
	Saturday  *Window `json:"saturday,omitempty"`
	Sunday    *Window `json:"sunday,omitempty"`
	Start     string  `json:"start,omitempty"`
	End       string  `json:"end,omitempty"`
}

// ForWeekday resolves the operating window for a weekday.  Day-specific
// entries win; otherwise the general Start/End pair applies.  The second
// return value is false when the court is closed that day.
func (oh OperatingHours) ForWeekday(d time.Weekday) (Window, bool) {
	var w *Window
	switch d {
	case time.Monday:
		w = oh.Monday
	case time.Tuesday:
		w = oh.Tuesday
	case time.Wednesday:
		w = oh.Wednesday
	case time.Thursday:
		w = oh.Thursday
	case time.Friday:
		w = oh.Friday
	case time.Saturday:
		w = oh.Saturday
	case time.Sunday:
		w = oh.Sunday
	}
	if w != nil && w.Start != "" && w.End != "" {
		return *w, true
	}
	if oh.Start != "" && oh.End != "" {
		return Window{Start: oh.Start, End: oh.End}, true
	}
	return Window{}, false
}
