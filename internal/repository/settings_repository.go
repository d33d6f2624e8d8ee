package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/wildoasis/booking-api/internal/model"
)

// SettingsRepo manages the single operational settings row. The table has a
// unique `singleton` column fixed at 1, so concurrent lazy creation cannot
// produce two rows: the losing INSERT IGNORE is a no-op and both callers
// read back the winner.
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo returns a new SettingsRepo bound to the given database.
func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

const settingsColumns = `id, min_booking_length, max_booking_length, max_guests_per_booking,
       breakfast_price_cents, created_at, updated_at`

func scanSettings(row interface{ Scan(...any) error }, s *model.Settings) error {
	return row.Scan(&s.ID, &s.MinBookingLength, &s.MaxBookingLength, &s.MaxGuestsPerBooking,
		&s.BreakfastPriceCents, &s.CreatedAt, &s.UpdatedAt)
}

// GetSingleton returns the settings row, creating it with defaults on first
// access.
func (r *SettingsRepo) GetSingleton(ctx context.Context) (model.Settings, error) {
	var s model.Settings
	err := scanSettings(r.db.QueryRowContext(ctx,
		`SELECT `+settingsColumns+` FROM settings WHERE singleton = 1`), &s)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return s, err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT IGNORE INTO settings
           (singleton, min_booking_length, max_booking_length, max_guests_per_booking, breakfast_price_cents)
         VALUES (1, ?, ?, ?, ?)`,
		model.DefaultMinBookingLength, model.DefaultMaxBookingLength,
		model.DefaultMaxGuestsPerBooking, model.DefaultBreakfastPriceCents)
	if err != nil {
		return s, err
	}
	err = scanSettings(r.db.QueryRowContext(ctx,
		`SELECT `+settingsColumns+` FROM settings WHERE singleton = 1`), &s)
	return s, err
}

// SettingsPatch carries the optional fields of a partial settings update.
type SettingsPatch struct {
	MinBookingLength    *int
	MaxBookingLength    *int
	MaxGuestsPerBooking *int
	BreakfastPriceCents *int64
}

func buildSettingsSet(p SettingsPatch) ([]string, []any) {
	set := make([]string, 0, 4)
	args := make([]any, 0, 4)
	if p.MinBookingLength != nil {
		set = append(set, "min_booking_length = ?")
		args = append(args, *p.MinBookingLength)
	}
	if p.MaxBookingLength != nil {
		set = append(set, "max_booking_length = ?")
		args = append(args, *p.MaxBookingLength)
	}
	if p.MaxGuestsPerBooking != nil {
		set = append(set, "max_guests_per_booking = ?")
		args = append(args, *p.MaxGuestsPerBooking)
	}
	if p.BreakfastPriceCents != nil {
		set = append(set, "breakfast_price_cents = ?")
		args = append(args, *p.BreakfastPriceCents)
	}
	return set, args
}

// UpdateFields applies a partial update to the singleton and returns the
// fresh row. The row is created with defaults first when it does not exist
// yet, so an update never 404s.
func (r *SettingsRepo) UpdateFields(ctx context.Context, p SettingsPatch) (model.Settings, error) {
	if _, err := r.GetSingleton(ctx); err != nil {
		return model.Settings{}, err
	}
	set, args := buildSettingsSet(p)
	if len(set) > 0 {
		if _, err := r.db.ExecContext(ctx,
			`UPDATE settings SET `+strings.Join(set, ", ")+` WHERE singleton = 1`, args...); err != nil {
			return model.Settings{}, err
		}
	}
	return r.GetSingleton(ctx)
}
