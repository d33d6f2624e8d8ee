package model

import "testing"

func intp(v int) *int { return &v }

func TestValidateSettingsPatch(t *testing.T) {
	if field := ValidateSettingsPatch(nil, nil, nil, nil); field != "" {
		t.Fatalf("empty patch flagged %q", field)
	}
	if field := ValidateSettingsPatch(intp(7), intp(90), intp(8), i64(1500)); field != "" {
		t.Fatalf("default values flagged %q", field)
	}
	if field := ValidateSettingsPatch(intp(0), nil, nil, nil); field != "minBookingLength" {
		t.Errorf("zero min length flagged %q", field)
	}
	if field := ValidateSettingsPatch(nil, intp(-1), nil, nil); field != "maxBookingLength" {
		t.Errorf("negative max length flagged %q", field)
	}
	if field := ValidateSettingsPatch(nil, nil, intp(0), nil); field != "maxGuestsPerBooking" {
		t.Errorf("zero max guests flagged %q", field)
	}
	if field := ValidateSettingsPatch(nil, nil, nil, i64(-1)); field != "breakfastPrice" {
		t.Errorf("negative breakfast price flagged %q", field)
	}
	// Free breakfast is allowed.
	if field := ValidateSettingsPatch(nil, nil, nil, i64(0)); field != "" {
		t.Errorf("zero breakfast price flagged %q", field)
	}
	// First offending field wins.
	if field := ValidateSettingsPatch(intp(0), intp(0), nil, nil); field != "minBookingLength" {
		t.Errorf("expected first offending field, got %q", field)
	}
}

func TestSettingsDefaults(t *testing.T) {
	if DefaultMinBookingLength != 1 || DefaultMaxBookingLength != 90 ||
		DefaultMaxGuestsPerBooking != 8 || DefaultBreakfastPriceCents != 1500 {
		t.Fatalf("canonical defaults changed: %d/%d/%d/%d",
			DefaultMinBookingLength, DefaultMaxBookingLength,
			DefaultMaxGuestsPerBooking, DefaultBreakfastPriceCents)
	}
}

// A short stay on a fresh store must clear the default length limits, so a
// 3-night booking against lazily created settings succeeds out of the box.
func TestDefaultsAllowShortStay(t *testing.T) {
	nights := Nights(day("2024-01-10"), day("2024-01-13"))
	if nights != 3 {
		t.Fatalf("nights = %d, want 3", nights)
	}
	if nights < DefaultMinBookingLength || nights > DefaultMaxBookingLength {
		t.Fatalf("3-night stay rejected by defaults [%d, %d]",
			DefaultMinBookingLength, DefaultMaxBookingLength)
	}
}
