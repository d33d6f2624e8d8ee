package model

import "time"

// Guest represents the person a booking is made for, as stored in the
// `guests` table. Guests are deduplicated by email: creating a guest with a
// known email returns the existing row instead of erroring, which supports
// the OAuth sign-in flow of the booking frontend.
type Guest struct {
	ID          uint64
	FullName    string
	Email       string
	Nationality string
	NationalID  string
	CountryFlag string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
