package repository

import (
	"strings"
	"testing"
)

func strp(s string) *string { return &s }
func intp(v int) *int       { return &v }
func i64p(v int64) *int64   { return &v }
func boolp(v bool) *bool    { return &v }

func TestBuildBookingSetEmpty(t *testing.T) {
	set, args := buildBookingSet(BookingPatch{})
	if len(set) != 0 || len(args) != 0 {
		t.Fatalf("empty patch produced %v / %v", set, args)
	}
}

func TestBuildBookingSetAllowList(t *testing.T) {
	p := BookingPatch{
		Status:           strp("cancelled"),
		HasBreakfast:     boolp(true),
		IsPaid:           boolp(false),
		Observations:     strp("late arrival"),
		NumGuests:        intp(3),
		ExtrasPriceCents: i64p(4500),
		TotalPriceCents:  i64p(99500),
	}
	set, args := buildBookingSet(p)
	if len(set) != 7 || len(args) != 7 {
		t.Fatalf("full patch produced %d clauses, %d args", len(set), len(args))
	}
	joined := strings.Join(set, ", ")
	for _, col := range []string{"status", "has_breakfast", "is_paid", "observations",
		"num_guests", "extras_price_cents", "total_price_cents"} {
		if !strings.Contains(joined, col+" = ?") {
			t.Errorf("missing clause for %s in %q", col, joined)
		}
	}
	// Columns the allow-list must never touch.
	for _, col := range []string{"cabin_id", "guest_id", "start_date", "end_date",
		"num_nights", "cabin_price_cents", "created_at"} {
		if strings.Contains(joined, col) {
			t.Errorf("allow-list leaked column %s", col)
		}
	}
}

func TestBuildBookingSetClauseOrderMatchesArgs(t *testing.T) {
	p := BookingPatch{IsPaid: boolp(true), NumGuests: intp(2)}
	set, args := buildBookingSet(p)
	if len(set) != 2 || len(args) != 2 {
		t.Fatalf("got %v / %v", set, args)
	}
	if set[0] != "is_paid = ?" || set[1] != "num_guests = ?" {
		t.Fatalf("unexpected clause order %v", set)
	}
	if args[0] != true || args[1] != 2 {
		t.Fatalf("args out of order %v", args)
	}
}

func TestBuildSettingsSet(t *testing.T) {
	set, args := buildSettingsSet(SettingsPatch{})
	if len(set) != 0 || len(args) != 0 {
		t.Fatalf("empty patch produced %v / %v", set, args)
	}
	set, args = buildSettingsSet(SettingsPatch{
		MinBookingLength:    intp(3),
		BreakfastPriceCents: i64p(2000),
	})
	if len(set) != 2 || len(args) != 2 {
		t.Fatalf("got %v / %v", set, args)
	}
	if set[0] != "min_booking_length = ?" || set[1] != "breakfast_price_cents = ?" {
		t.Fatalf("unexpected clauses %v", set)
	}
}
