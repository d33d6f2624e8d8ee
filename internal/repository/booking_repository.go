package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/wildoasis/booking-api/internal/model"
)

// ErrBookingNotFound indicates that no booking row matched the lookup.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo provides persistence and availability queries for bookings.
// A booking references one cabin and one guest; the availability predicate
// treats two date ranges as conflicting under the inclusive-boundary rule
// (see model.RangesOverlap), so a checkout day can never double as another
// booking's checkin day on the same cabin.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying sql.DB so handlers can begin transactions that
// span the cabin lock, the overlap check and the insert.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, cabin_id, guest_id, start_date, end_date, num_nights, num_guests,
       cabin_price_cents, extras_price_cents, total_price_cents, status,
       has_breakfast, is_paid, observations, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }, b *model.Booking) error {
	return row.Scan(&b.ID, &b.CabinID, &b.GuestID, &b.StartDate, &b.EndDate, &b.NumNights, &b.NumGuests,
		&b.CabinPriceCents, &b.ExtrasPriceCents, &b.TotalPriceCents, &b.Status,
		&b.HasBreakfast, &b.IsPaid, &b.Observations, &b.CreatedAt, &b.UpdatedAt)
}

// overlapPredicate selects bookings on a cabin whose date range intersects
// [start, end] inclusively and whose status still blocks the cabin.
// Checked-out and cancelled bookings never conflict.
const overlapPredicate = `cabin_id = ?
  AND status NOT IN ('checked-out', 'cancelled')
  AND start_date <= ? AND end_date >= ?`

func (r *BookingRepo) queryOverlaps(ctx context.Context, q func(context.Context, string, ...any) (*sql.Rows, error), query string, args ...any) ([]model.Booking, error) {
	rows, err := q(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	overlaps := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		overlaps = append(overlaps, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return overlaps, nil
}

// FindOverlapping returns all bookings on the cabin that conflict with the
// candidate range. An empty slice means the range is available.
func (r *BookingRepo) FindOverlapping(ctx context.Context, cabinID uint64, start, end time.Time) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + overlapPredicate
	return r.queryOverlaps(ctx, r.db.QueryContext, q, cabinID, end, start)
}

// FindOverlappingExcluding is like FindOverlapping but omits the booking
// with the given ID from the conflict search. It is used when re-validating
// an existing booking, which must never conflict with itself.
func (r *BookingRepo) FindOverlappingExcluding(ctx context.Context, cabinID, excludeID uint64, start, end time.Time) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id <> ? AND ` + overlapPredicate
	return r.queryOverlaps(ctx, r.db.QueryContext, q, excludeID, cabinID, end, start)
}

// FindOverlappingTx runs the conflict search inside the caller's
// transaction. Booking creation calls this after locking the cabin row so
// the check-then-insert sequence is serialized per cabin.
func (r *BookingRepo) FindOverlappingTx(ctx context.Context, tx *sql.Tx, cabinID uint64, start, end time.Time) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + overlapPredicate
	return r.queryOverlaps(ctx, tx.QueryContext, q, cabinID, end, start)
}

// CreateTx inserts a new booking within the scope of an existing
// transaction. It populates the generated ID and DB-default fields on the
// provided model. The caller must commit or roll back the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings
      (cabin_id, guest_id, start_date, end_date, num_nights, num_guests,
       cabin_price_cents, extras_price_cents, total_price_cents, status,
       has_breakfast, is_paid, observations)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		b.CabinID, b.GuestID, b.StartDate, b.EndDate, b.NumNights, b.NumGuests,
		b.CabinPriceCents, b.ExtrasPriceCents, b.TotalPriceCents, b.Status,
		b.HasBreakfast, b.IsPaid, b.Observations)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	return scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, b.ID), b)
}

// GetByID retrieves a booking by its ID, returning ErrBookingNotFound when
// absent.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	var b model.Booking
	err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id), &b)
	if errors.Is(err, sql.ErrNoRows) {
		return b, ErrBookingNotFound
	}
	return b, err
}

// GuestSummary is the guest projection embedded in booking details.
type GuestSummary struct {
	ID          uint64 `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Nationality string `json:"nationality"`
	NationalID  string `json:"national_id"`
	CountryFlag string `json:"country_flag"`
}

// CabinSummary is the cabin projection embedded in booking details.
type CabinSummary struct {
	ID                uint64 `json:"id"`
	Name              string `json:"name"`
	MaxCapacity       int    `json:"max_capacity"`
	RegularPriceCents int64  `json:"regular_price_cents"`
}

// BookingDetail is a booking joined with its guest and cabin, as returned
// to the dashboard. The joins are explicit SQL lookups, not graph
// traversal; a dangling reference surfaces as a zero-valued summary.
type BookingDetail struct {
	ID               uint64       `json:"id"`
	StartDate        time.Time    `json:"start_date"`
	EndDate          time.Time    `json:"end_date"`
	NumNights        int          `json:"num_nights"`
	NumGuests        int          `json:"num_guests"`
	CabinPriceCents  int64        `json:"cabin_price_cents"`
	ExtrasPriceCents int64        `json:"extras_price_cents"`
	TotalPriceCents  int64        `json:"total_price_cents"`
	Status           string       `json:"status"`
	HasBreakfast     bool         `json:"has_breakfast"`
	IsPaid           bool         `json:"is_paid"`
	Observations     string       `json:"observations"`
	CreatedAt        time.Time    `json:"created_at"`
	Guest            GuestSummary `json:"guest"`
	Cabin            CabinSummary `json:"cabin"`
}

const bookingDetailQuery = `SELECT b.id, b.start_date, b.end_date, b.num_nights, b.num_guests,
       b.cabin_price_cents, b.extras_price_cents, b.total_price_cents, b.status,
       b.has_breakfast, b.is_paid, b.observations, b.created_at,
       g.id, g.full_name, g.email, g.nationality, g.national_id, g.country_flag,
       c.id, c.name, c.max_capacity, c.regular_price_cents
  FROM bookings b
  LEFT JOIN guests g ON g.id = b.guest_id
  LEFT JOIN cabins c ON c.id = b.cabin_id`

func scanBookingDetail(row interface{ Scan(...any) error }, d *BookingDetail) error {
	var (
		gID          sql.NullInt64
		gName        sql.NullString
		gEmail       sql.NullString
		gNationality sql.NullString
		gNationalID  sql.NullString
		gFlag        sql.NullString
		cID          sql.NullInt64
		cName        sql.NullString
		cCapacity    sql.NullInt64
		cPrice       sql.NullInt64
	)
	err := row.Scan(&d.ID, &d.StartDate, &d.EndDate, &d.NumNights, &d.NumGuests,
		&d.CabinPriceCents, &d.ExtrasPriceCents, &d.TotalPriceCents, &d.Status,
		&d.HasBreakfast, &d.IsPaid, &d.Observations, &d.CreatedAt,
		&gID, &gName, &gEmail, &gNationality, &gNationalID, &gFlag,
		&cID, &cName, &cCapacity, &cPrice)
	if err != nil {
		return err
	}
	if gID.Valid {
		d.Guest = GuestSummary{
			ID:          uint64(gID.Int64),
			FullName:    gName.String,
			Email:       gEmail.String,
			Nationality: gNationality.String,
			NationalID:  gNationalID.String,
			CountryFlag: gFlag.String,
		}
	}
	if cID.Valid {
		d.Cabin = CabinSummary{
			ID:                uint64(cID.Int64),
			Name:              cName.String,
			MaxCapacity:       int(cCapacity.Int64),
			RegularPriceCents: cPrice.Int64,
		}
	}
	return nil
}

// GetDetail returns a single booking joined with its guest and cabin.
func (r *BookingRepo) GetDetail(ctx context.Context, id uint64) (BookingDetail, error) {
	var d BookingDetail
	err := scanBookingDetail(r.db.QueryRowContext(ctx,
		bookingDetailQuery+` WHERE b.id = ?`, id), &d)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrBookingNotFound
	}
	return d, err
}

// ListAll returns every booking with guest and cabin details, newest first.
func (r *BookingRepo) ListAll(ctx context.Context) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, bookingDetailQuery+` ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		if err := scanBookingDetail(rows, &d); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// BookingPatch carries the allow-listed fields of the generic booking
// update. One named optional field per allowed key; anything else a client
// sends is dropped at the binding layer, silently. Nil pointers leave the
// column untouched.
type BookingPatch struct {
	Status           *string
	HasBreakfast     *bool
	IsPaid           *bool
	Observations     *string
	NumGuests        *int
	ExtrasPriceCents *int64
	TotalPriceCents  *int64
}

// buildBookingSet translates a patch into SET clauses and their arguments.
// Kept separate from UpdateFields so the allow-list mapping is testable
// without a database.
func buildBookingSet(p BookingPatch) ([]string, []any) {
	set := make([]string, 0, 7)
	args := make([]any, 0, 7)
	if p.Status != nil {
		set = append(set, "status = ?")
		args = append(args, *p.Status)
	}
	if p.HasBreakfast != nil {
		set = append(set, "has_breakfast = ?")
		args = append(args, *p.HasBreakfast)
	}
	if p.IsPaid != nil {
		set = append(set, "is_paid = ?")
		args = append(args, *p.IsPaid)
	}
	if p.Observations != nil {
		set = append(set, "observations = ?")
		args = append(args, *p.Observations)
	}
	if p.NumGuests != nil {
		set = append(set, "num_guests = ?")
		args = append(args, *p.NumGuests)
	}
	if p.ExtrasPriceCents != nil {
		set = append(set, "extras_price_cents = ?")
		args = append(args, *p.ExtrasPriceCents)
	}
	if p.TotalPriceCents != nil {
		set = append(set, "total_price_cents = ?")
		args = append(args, *p.TotalPriceCents)
	}
	return set, args
}

// UpdateFields applies an allow-listed partial update and returns the fresh
// row. An empty patch is a no-op that still returns the current booking.
func (r *BookingRepo) UpdateFields(ctx context.Context, id uint64, p BookingPatch) (model.Booking, error) {
	set, args := buildBookingSet(p)
	if len(set) > 0 {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx,
			`UPDATE bookings SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...); err != nil {
			return model.Booking{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// CheckInOverrides are the optional fields a check-in request may set
// alongside the status transition. They are applied only when explicitly
// provided.
type CheckInOverrides struct {
	HasBreakfast     *bool
	ExtrasPriceCents *int64
	TotalPriceCents  *int64
}

// CheckIn transitions an unconfirmed booking to checked-in and marks it
// paid, applying any overrides in the same statement. The status
// precondition lives in the WHERE clause, so a concurrent double check-in
// loses cleanly. When no row changes, the booking is re-read to distinguish
// ErrBookingNotFound from ErrInvalidState.
func (r *BookingRepo) CheckIn(ctx context.Context, id uint64, ov CheckInOverrides) (model.Booking, error) {
	set := []string{"status = ?", "is_paid = 1"}
	args := []any{model.StatusCheckedIn}
	if ov.HasBreakfast != nil {
		set = append(set, "has_breakfast = ?")
		args = append(args, *ov.HasBreakfast)
	}
	if ov.ExtrasPriceCents != nil {
		set = append(set, "extras_price_cents = ?")
		args = append(args, *ov.ExtrasPriceCents)
	}
	if ov.TotalPriceCents != nil {
		set = append(set, "total_price_cents = ?")
		args = append(args, *ov.TotalPriceCents)
	}
	args = append(args, id, model.StatusUnconfirmed)
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET `+strings.Join(set, ", ")+` WHERE id = ? AND status = ?`, args...)
	if err != nil {
		return model.Booking{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return model.Booking{}, err
		}
		return model.Booking{}, ErrInvalidState
	}
	return r.GetByID(ctx, id)
}

// CheckOut transitions a checked-in booking to checked-out, with the same
// precondition-in-WHERE pattern as CheckIn.
func (r *BookingRepo) CheckOut(ctx context.Context, id uint64) (model.Booking, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ? AND status = ?`,
		model.StatusCheckedOut, id, model.StatusCheckedIn)
	if err != nil {
		return model.Booking{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return model.Booking{}, err
		}
		return model.Booking{}, ErrInvalidState
	}
	return r.GetByID(ctx, id)
}

// Delete removes a booking unconditionally, from any state. There is no
// soft delete.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// RevenueRow is the projection used for revenue reporting: one row per
// booking created in the window.
type RevenueRow struct {
	CreatedAt        time.Time `json:"created_at"`
	TotalPriceCents  int64     `json:"total_price_cents"`
	ExtrasPriceCents int64     `json:"extras_price_cents"`
}

// CreatedAfter returns bookings created at or after `after` and no later
// than `until` (normally end of today), projected for revenue reporting.
func (r *BookingRepo) CreatedAfter(ctx context.Context, after, until time.Time) ([]RevenueRow, error) {
	const q = `SELECT created_at, total_price_cents, extras_price_cents
               FROM bookings
               WHERE created_at >= ? AND created_at <= ?
               ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, q, after, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RevenueRow, 0)
	for rows.Next() {
		var row RevenueRow
		if err := rows.Scan(&row.CreatedAt, &row.TotalPriceCents, &row.ExtrasPriceCents); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// StayRow is a booking joined with its guest's name, used for occupancy
// history.
type StayRow struct {
	ID              uint64    `json:"id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	NumNights       int       `json:"num_nights"`
	NumGuests       int       `json:"num_guests"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Status          string    `json:"status"`
	GuestFullName   string    `json:"guest_full_name"`
}

// StaysAfter returns stays whose start date falls in [after, today].
func (r *BookingRepo) StaysAfter(ctx context.Context, after, today time.Time) ([]StayRow, error) {
	const q = `SELECT b.id, b.start_date, b.end_date, b.num_nights, b.num_guests,
                      b.total_price_cents, b.status, COALESCE(g.full_name, '')
               FROM bookings b
               LEFT JOIN guests g ON g.id = b.guest_id
               WHERE b.start_date >= ? AND b.start_date <= ?
               ORDER BY b.start_date ASC`
	rows, err := r.db.QueryContext(ctx, q, after, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]StayRow, 0)
	for rows.Next() {
		var row StayRow
		if err := rows.Scan(&row.ID, &row.StartDate, &row.EndDate, &row.NumNights, &row.NumGuests,
			&row.TotalPriceCents, &row.Status, &row.GuestFullName); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ActivityRow is one arrival or departure for the dashboard's today view.
type ActivityRow struct {
	ID               uint64    `json:"id"`
	Status           string    `json:"status"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	NumNights        int       `json:"num_nights"`
	CreatedAt        time.Time `json:"created_at"`
	GuestFullName    string    `json:"guest_full_name"`
	GuestNationality string    `json:"guest_nationality"`
	GuestCountryFlag string    `json:"guest_country_flag"`
	GuestNationalID  string    `json:"guest_national_id"`
}

// TodayActivity returns today's arrivals (unconfirmed bookings starting in
// [today, today+24h)) and departures (checked-in bookings ending in the same
// window), joined with guest display fields and ordered by creation time
// ascending. `today` must be a UTC midnight.
func (r *BookingRepo) TodayActivity(ctx context.Context, today time.Time) ([]ActivityRow, error) {
	tomorrow := today.Add(24 * time.Hour)
	const q = `SELECT b.id, b.status, b.start_date, b.end_date, b.num_nights, b.created_at,
                      COALESCE(g.full_name, ''), COALESCE(g.nationality, ''),
                      COALESCE(g.country_flag, ''), COALESCE(g.national_id, '')
               FROM bookings b
               LEFT JOIN guests g ON g.id = b.guest_id
               WHERE (b.status = 'unconfirmed' AND b.start_date >= ? AND b.start_date < ?)
                  OR (b.status = 'checked-in' AND b.end_date >= ? AND b.end_date < ?)
               ORDER BY b.created_at ASC`
	rows, err := r.db.QueryContext(ctx, q, today, tomorrow, today, tomorrow)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ActivityRow, 0)
	for rows.Next() {
		var row ActivityRow
		if err := rows.Scan(&row.ID, &row.Status, &row.StartDate, &row.EndDate, &row.NumNights, &row.CreatedAt,
			&row.GuestFullName, &row.GuestNationality, &row.GuestCountryFlag, &row.GuestNationalID); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
