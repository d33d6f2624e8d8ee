package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/wildoasis/booking-api/internal/model"
)

var settingsRowCols = []string{
	"id", "min_booking_length", "max_booking_length", "max_guests_per_booking",
	"breakfast_price_cents", "created_at", "updated_at",
}

func defaultSettingsRow() *sqlmock.Rows {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(settingsRowCols).AddRow(
		int64(1), model.DefaultMinBookingLength, model.DefaultMaxBookingLength,
		model.DefaultMaxGuestsPerBooking, int64(model.DefaultBreakfastPriceCents), now, now)
}

// Two consecutive reads on an empty store create exactly one row: the first
// call inserts the defaults behind the singleton unique key, the second is
// a plain select with no further insert.
func TestGetSingletonLazyCreateOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewSettingsRepo(db)
	ctx := context.Background()

	selectSQL := regexp.QuoteMeta(`FROM settings WHERE singleton = 1`)

	mock.ExpectQuery(selectSQL).WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT IGNORE INTO settings`)).
		WithArgs(model.DefaultMinBookingLength, model.DefaultMaxBookingLength,
			model.DefaultMaxGuestsPerBooking, int64(model.DefaultBreakfastPriceCents)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(selectSQL).WillReturnRows(defaultSettingsRow())

	first, err := repo.GetSingleton(ctx)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	if first.MinBookingLength != 1 {
		t.Fatalf("min booking length = %d, want default 1", first.MinBookingLength)
	}
	if first.BreakfastPriceCents != 1500 {
		t.Fatalf("breakfast price = %d, want default 1500", first.BreakfastPriceCents)
	}

	mock.ExpectQuery(selectSQL).WillReturnRows(defaultSettingsRow())

	second, err := repo.GetSingleton(ctx)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if second != first {
		t.Fatalf("second read = %+v, want %+v", second, first)
	}

	// No second INSERT was expected; a stray one fails here.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
