package model

import "time"

// Default values used when the settings singleton is created lazily on first
// read. The minimum stay defaults to a single night so a fresh install
// accepts any booking; operators raise it per property. Breakfast price is
// stored in cents like every other money field.
const (
	DefaultMinBookingLength    = 1
	DefaultMaxBookingLength    = 90
	DefaultMaxGuestsPerBooking = 8
	DefaultBreakfastPriceCents = 1500
)

// Settings is the single global configuration record governing booking-length
// and guest-count limits. Exactly one row exists; the repository enforces
// this with a unique key on a constant `singleton` column.
type Settings struct {
	ID                  uint64
	MinBookingLength    int
	MaxBookingLength    int
	MaxGuestsPerBooking int
	BreakfastPriceCents int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ValidateSettingsPatch checks candidate values for the four updatable
// settings fields against their minimums. Nil pointers mean "not supplied"
// and always pass. It returns the name of the first offending field, or ""
// when every supplied value is acceptable.
func ValidateSettingsPatch(minLen, maxLen, maxGuests *int, breakfastCents *int64) string {
	if minLen != nil && *minLen < 1 {
		return "minBookingLength"
	}
	if maxLen != nil && *maxLen < 1 {
		return "maxBookingLength"
	}
	if maxGuests != nil && *maxGuests < 1 {
		return "maxGuestsPerBooking"
	}
	if breakfastCents != nil && *breakfastCents < 0 {
		return "breakfastPrice"
	}
	return ""
}
