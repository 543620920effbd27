package model

import "time"

// TimeSlot is a fixed-duration bookable interval on a specific date for
// a specific court, as stored in the `time_slots` table.  Slots are
// produced by the schedule generator and are unique per
// (court_id, slot_date, start_time); the database enforces that with a
// compound unique index so concurrent generation cannot duplicate them.
//
// PriceCents is a snapshot of the court's hourly price at generation
// time.  Changing the court's price later must not reprice existing
// slots, so the value is copied, not joined.
//
// Fields:
//  ID                   – primary key identifier.
//  CourtID              – court this slot belongs to.
//  Date                 – calendar date (date-only, stored as DATE).
//  StartTime            – "HH:MM" start of the interval.
//  EndTime              – "HH:MM" end of the interval.
//  PriceCents           – price snapshot in cents.
//  IsAvailable          – whether the slot can currently be claimed.
//  UnavailabilityReason – optional note when an owner disables a slot.
//  CreatedAt            – timestamp of creation.
//  UpdatedAt            – timestamp of last update.
type TimeSlot struct {
	ID                   uint64    `json:"id"`                             // time_slots.id
	CourtID              uint64    `json:"courtId"`                        // time_slots.court_id
	Date                 time.Time `json:"slotDate"`                       // time_slots.slot_date
	StartTime            string    `json:"startTime"`                      // time_slots.start_time
	EndTime              string    `json:"endTime"`                        // time_slots.end_time
	PriceCents           uint32    `json:"priceCents"`                     // time_slots.price_cents
	IsAvailable          bool      `json:"isAvailable"`                    // time_slots.is_available
	UnavailabilityReason *string   `json:"unavailabilityReason,omitempty"` // time_slots.unavailability_reason (nullable)
	CreatedAt            time.Time `json:"createdAt"`                      // time_slots.created_at
	UpdatedAt            time.Time `json:"updatedAt"`                      // time_slots.updated_at
}
