package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/wildoasis/booking-api/internal/model"
)

var bookingRowCols = []string{
	"id", "cabin_id", "guest_id", "start_date", "end_date", "num_nights", "num_guests",
	"cabin_price_cents", "extras_price_cents", "total_price_cents", "status",
	"has_breakfast", "is_paid", "observations", "created_at", "updated_at",
}

func bookingRow(id int64, status string) *sqlmock.Rows {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(bookingRowCols).AddRow(
		id, int64(1), int64(2),
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC),
		3, 2, int64(300), int64(0), int64(300), status,
		false, false, "", now, now)
}

// Re-validating a booking's own date range must not count the booking as a
// conflict with itself, so the exclusion variant carries an id <> ? clause
// with the excluded ID bound first.
func TestFindOverlappingExcludingSkipsSelf(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewBookingRepo(db)

	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id <> ? AND cabin_id = ?`)).
		WithArgs(int64(42), int64(1), end, start).
		WillReturnRows(sqlmock.NewRows(bookingRowCols))

	got, err := repo.FindOverlappingExcluding(context.Background(), 1, 42, start, end)
	if err != nil {
		t.Fatalf("find overlapping: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no conflicts, got %d", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// Check-in guards the transition in the WHERE clause. A second check-in
// matches no row; the re-read then reports an invalid state rather than a
// missing booking, and check-out only succeeds from checked-in.
func TestCheckInThenCheckOutSequence(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewBookingRepo(db)
	ctx := context.Background()

	checkInSQL := regexp.QuoteMeta(`UPDATE bookings SET status = ?, is_paid = 1 WHERE id = ? AND status = ?`)
	checkOutSQL := regexp.QuoteMeta(`UPDATE bookings SET status = ? WHERE id = ? AND status = ?`)
	getSQL := regexp.QuoteMeta(`FROM bookings WHERE id = ?`)

	mock.ExpectExec(checkInSQL).
		WithArgs(model.StatusCheckedIn, int64(7), model.StatusUnconfirmed).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(getSQL).WithArgs(int64(7)).
		WillReturnRows(bookingRow(7, model.StatusCheckedIn))

	b, err := repo.CheckIn(ctx, 7, CheckInOverrides{})
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if b.Status != model.StatusCheckedIn {
		t.Fatalf("status = %q, want %q", b.Status, model.StatusCheckedIn)
	}

	// Second check-in updates no row; the booking still exists, so this is
	// an invalid state, not a lookup failure.
	mock.ExpectExec(checkInSQL).
		WithArgs(model.StatusCheckedIn, int64(7), model.StatusUnconfirmed).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(getSQL).WithArgs(int64(7)).
		WillReturnRows(bookingRow(7, model.StatusCheckedIn))

	if _, err := repo.CheckIn(ctx, 7, CheckInOverrides{}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second check-in error = %v, want ErrInvalidState", err)
	}

	mock.ExpectExec(checkOutSQL).
		WithArgs(model.StatusCheckedOut, int64(7), model.StatusCheckedIn).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(getSQL).WithArgs(int64(7)).
		WillReturnRows(bookingRow(7, model.StatusCheckedOut))

	b, err = repo.CheckOut(ctx, 7)
	if err != nil {
		t.Fatalf("check-out: %v", err)
	}
	if b.Status != model.StatusCheckedOut {
		t.Fatalf("status = %q, want %q", b.Status, model.StatusCheckedOut)
	}

	// An unknown ID surfaces not-found instead of invalid state.
	mock.ExpectExec(checkOutSQL).
		WithArgs(model.StatusCheckedOut, int64(99), model.StatusCheckedIn).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(getSQL).WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(bookingRowCols))

	if _, err := repo.CheckOut(ctx, 99); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("check-out of missing booking error = %v, want ErrBookingNotFound", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
