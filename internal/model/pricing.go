package model

// Price is the derived price breakdown for a booking, in integer cents.
type Price struct {
	CabinCents  int64
	ExtrasCents int64
	TotalCents  int64
}

// DerivePrice fills in the price fields a booking request left unspecified.
// When cabinCents is nil it is derived as regularPriceCents * numNights; the
// cabin discount is informational and deliberately not subtracted here.
// extrasCents defaults to 0 and totalCents to cabin + extras. Supplied values
// always win over derived ones.
func DerivePrice(regularPriceCents int64, numNights int, cabinCents, extrasCents, totalCents *int64) Price {
	var p Price
	if cabinCents != nil {
		p.CabinCents = *cabinCents
	} else {
		p.CabinCents = regularPriceCents * int64(numNights)
	}
	if extrasCents != nil {
		p.ExtrasCents = *extrasCents
	}
	if totalCents != nil {
		p.TotalCents = *totalCents
	} else {
		p.TotalCents = p.CabinCents + p.ExtrasCents
	}
	return p
}
