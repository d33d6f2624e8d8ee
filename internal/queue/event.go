// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// BookingCheckedInEvent is published when a booking is successfully checked
// in. It carries enough denormalized detail for downstream consumers to log
// or notify without querying the primary database.
type BookingCheckedInEvent struct {
	BookingID       uint64 `json:"booking_id"`
	GuestName       string `json:"guest_name"`
	CabinName       string `json:"cabin_name"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	NumNights       int    `json:"num_nights"`
	NumGuests       int    `json:"num_guests"`
	HasBreakfast    bool   `json:"has_breakfast"`
	TotalPriceCents int64  `json:"total_price_cents"`
	CheckedInAt     string `json:"checked_in_at"`
}
