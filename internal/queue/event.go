// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking's payment is
// confirmed.  It carries enough information for downstream consumers to
// render the confirmation notice without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID        uint64 `json:"booking_id"`
	UserID           uint64 `json:"user_id"`
	UserName         string `json:"user_name"`
	UserEmail        string `json:"user_email"`
	CourtID          uint64 `json:"court_id"`
	CourtName        string `json:"court_name"`
	CourtCity        string `json:"court_city"`
	PlayDate         string `json:"play_date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	TotalAmountCents uint32 `json:"total_amount_cents"`
	PaymentID        string `json:"payment_id"`
	ConfirmedAt      string `json:"confirmed_at"`
}
