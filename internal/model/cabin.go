package model

import "time"

// Cabin represents a bookable unit as stored in the `cabins` table. The name
// is unique; RegularPriceCents is the nightly rate and DiscountCents an
// advertised reduction that pricing does not apply automatically. ImageURL
// points at the media host and may be empty.
//
// Fields:
//
//	ID                – primary key identifier.
//	Name              – unique cabin name.
//	MaxCapacity       – maximum number of guests.
//	RegularPriceCents – nightly price in cents.
//	DiscountCents     – advertised discount in cents.
//	Description       – free-form description.
//	ImageURL          – durable URL on the media host, empty when unset.
//	CreatedAt         – timestamp of creation.
//	UpdatedAt         – timestamp of last update.
type Cabin struct {
	ID                uint64
	Name              string
	MaxCapacity       int
	RegularPriceCents int64
	DiscountCents     int64
	Description       string
	ImageURL          string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
