package model

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRangesOverlap(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"disjoint before", "2026-01-01", "2026-01-05", "2026-01-10", "2026-01-15", false},
		{"disjoint after", "2026-01-10", "2026-01-15", "2026-01-01", "2026-01-05", false},
		{"contained", "2026-01-03", "2026-01-04", "2026-01-01", "2026-01-10", true},
		{"containing", "2026-01-01", "2026-01-10", "2026-01-03", "2026-01-04", true},
		{"partial overlap", "2026-01-01", "2026-01-07", "2026-01-05", "2026-01-12", true},
		{"identical", "2026-01-01", "2026-01-07", "2026-01-01", "2026-01-07", true},
		// Inclusive boundaries: one range ending the day the other starts
		// still counts as a conflict.
		{"adjacent end/start", "2026-01-01", "2026-01-05", "2026-01-05", "2026-01-10", true},
		{"adjacent start/end", "2026-01-05", "2026-01-10", "2026-01-01", "2026-01-05", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RangesOverlap(day(tc.aStart), day(tc.aEnd), day(tc.bStart), day(tc.bEnd))
			if got != tc.want {
				t.Fatalf("RangesOverlap(%s..%s, %s..%s) = %v, want %v",
					tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
			}
		})
	}
}

func TestNights(t *testing.T) {
	if got := Nights(day("2026-01-01"), day("2026-01-04")); got != 3 {
		t.Fatalf("three full days: got %d nights, want 3", got)
	}
	if got := Nights(day("2026-01-01"), day("2026-01-02")); got != 1 {
		t.Fatalf("one day: got %d nights, want 1", got)
	}
	// Partial days round up.
	start := day("2026-01-01")
	end := start.Add(36 * time.Hour)
	if got := Nights(start, end); got != 2 {
		t.Fatalf("36 hours: got %d nights, want 2", got)
	}
	if got := Nights(day("2026-01-05"), day("2026-01-05")); got != 0 {
		t.Fatalf("zero-length range: got %d nights, want 0", got)
	}
	if got := Nights(day("2026-01-05"), day("2026-01-01")); got != 0 {
		t.Fatalf("inverted range: got %d nights, want 0", got)
	}
}

func TestLifecyclePredicates(t *testing.T) {
	if !CanCheckIn(StatusUnconfirmed) {
		t.Error("unconfirmed booking should be checkin-able")
	}
	for _, s := range []string{StatusCheckedIn, StatusCheckedOut, StatusCancelled} {
		if CanCheckIn(s) {
			t.Errorf("%s booking should not be checkin-able", s)
		}
	}
	if !CanCheckOut(StatusCheckedIn) {
		t.Error("checked-in booking should be checkout-able")
	}
	for _, s := range []string{StatusUnconfirmed, StatusCheckedOut, StatusCancelled} {
		if CanCheckOut(s) {
			t.Errorf("%s booking should not be checkout-able", s)
		}
	}
}

func TestStatusBlocks(t *testing.T) {
	if !StatusBlocks(StatusUnconfirmed) || !StatusBlocks(StatusCheckedIn) {
		t.Error("active statuses must block the cabin")
	}
	if StatusBlocks(StatusCheckedOut) || StatusBlocks(StatusCancelled) {
		t.Error("terminal statuses must not block the cabin")
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusUnconfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled} {
		if !ValidStatus(s) {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []string{"", "confirmed", "CHECKED-IN", "checkedout"} {
		if ValidStatus(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func i64(v int64) *int64 { return &v }

func TestDerivePriceDefaults(t *testing.T) {
	// A 3-night stay at 100 cents per night with nothing supplied.
	p := DerivePrice(100, 3, nil, nil, nil)
	if p.CabinCents != 300 {
		t.Errorf("cabin = %d, want 300", p.CabinCents)
	}
	if p.ExtrasCents != 0 {
		t.Errorf("extras = %d, want 0", p.ExtrasCents)
	}
	if p.TotalCents != 300 {
		t.Errorf("total = %d, want 300", p.TotalCents)
	}
}

func TestDerivePriceSuppliedWins(t *testing.T) {
	p := DerivePrice(100, 3, i64(250), i64(45), nil)
	if p.CabinCents != 250 {
		t.Errorf("cabin = %d, want supplied 250", p.CabinCents)
	}
	if p.ExtrasCents != 45 {
		t.Errorf("extras = %d, want supplied 45", p.ExtrasCents)
	}
	if p.TotalCents != 295 {
		t.Errorf("total = %d, want derived 295", p.TotalCents)
	}

	// A supplied total is taken verbatim even when it disagrees with the
	// components.
	p = DerivePrice(100, 3, nil, i64(45), i64(999))
	if p.TotalCents != 999 {
		t.Errorf("total = %d, want supplied 999", p.TotalCents)
	}
	if p.CabinCents != 300 {
		t.Errorf("cabin = %d, want derived 300", p.CabinCents)
	}
}

func TestDerivePriceDiscountNotApplied(t *testing.T) {
	// The discount never enters the derivation; callers pass the regular
	// price and get the undiscounted product back.
	p := DerivePrice(5000, 7, nil, nil, nil)
	if p.TotalCents != 35000 {
		t.Errorf("total = %d, want 35000", p.TotalCents)
	}
}
