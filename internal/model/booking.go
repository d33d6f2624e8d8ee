package model

import "time"

// Booking statuses. A booking is created as unconfirmed, becomes checked-in
// on arrival and checked-out on departure. Cancelled is an alternate terminal
// state that is only ever set at creation or through the allow-listed patch;
// no lifecycle transition produces it.
const (
	StatusUnconfirmed = "unconfirmed"
	StatusCheckedIn   = "checked-in"
	StatusCheckedOut  = "checked-out"
	StatusCancelled   = "cancelled"
)

// ValidStatus reports whether s is one of the known booking statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusUnconfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return true
	}
	return false
}

// CanCheckIn reports whether a booking in the given status may be checked in.
// Only unconfirmed bookings qualify.
func CanCheckIn(status string) bool { return status == StatusUnconfirmed }

// CanCheckOut reports whether a booking in the given status may be checked
// out. Only checked-in bookings qualify.
func CanCheckOut(status string) bool { return status == StatusCheckedIn }

// StatusBlocks reports whether a booking in the given status occupies its
// cabin for availability purposes. Checked-out and cancelled bookings never
// block a date range.
func StatusBlocks(status string) bool {
	return status != StatusCheckedOut && status != StatusCancelled
}

// RangesOverlap applies the inclusive-boundary overlap rule used for cabin
// availability: two ranges conflict when aStart <= bEnd AND aEnd >= bStart.
// Adjacency (one booking ending the day another starts) therefore counts as
// a conflict, so a same-day checkout/checkin clash cannot be created.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// Nights returns the number of nights between start and end, rounding any
// partial day up. Callers must reject end <= start before pricing; Nights
// returns 0 for such ranges.
func Nights(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	d := end.Sub(start)
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		nights++
	}
	return nights
}

// Booking mirrors the `bookings` table. Prices are stored in integer cents
// to avoid floating drift. CabinID and GuestID reference (never own) the
// cabin and guest rows; deleting either does not cascade to bookings.
type Booking struct {
	ID               uint64
	CabinID          uint64
	GuestID          uint64
	StartDate        time.Time
	EndDate          time.Time
	NumNights        int
	NumGuests        int
	CabinPriceCents  int64
	ExtrasPriceCents int64
	TotalPriceCents  int64
	Status           string
	HasBreakfast     bool
	IsPaid           bool
	Observations     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
