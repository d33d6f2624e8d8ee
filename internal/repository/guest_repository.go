package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/wildoasis/booking-api/internal/model"
)

// ErrGuestNotFound indicates that no guest row matched the lookup.
var ErrGuestNotFound = errors.New("guest not found")

// GuestRepo provides CRUD operations for guests. Guests are deduplicated by
// email: Create returns the existing row (and created=false) when the email
// is already known, which the OAuth sign-in flow relies on.
type GuestRepo struct {
	db *sql.DB
}

// NewGuestRepo returns a new GuestRepo bound to the given database.
func NewGuestRepo(db *sql.DB) *GuestRepo { return &GuestRepo{db: db} }

const guestColumns = `id, full_name, email, nationality, national_id, country_flag, created_at, updated_at`

func scanGuest(row interface{ Scan(...any) error }, g *model.Guest) error {
	return row.Scan(&g.ID, &g.FullName, &g.Email, &g.Nationality, &g.NationalID, &g.CountryFlag, &g.CreatedAt, &g.UpdatedAt)
}

// Create inserts a guest unless one with the same (normalized) email already
// exists, in which case the existing guest is returned with created=false.
// The existence check and insert race is resolved by the unique key on
// email: a concurrent duplicate insert surfaces as MySQL error 1062 and the
// winner's row is returned instead.
func (r *GuestRepo) Create(ctx context.Context, g *model.Guest) (created bool, err error) {
	g.Email = strings.ToLower(strings.TrimSpace(g.Email))
	existing, err := r.GetByEmail(ctx, g.Email)
	if err == nil {
		*g = existing
		return false, nil
	}
	if !errors.Is(err, ErrGuestNotFound) {
		return false, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO guests (full_name, email, nationality, national_id, country_flag) VALUES (?, ?, ?, ?, ?)`,
		g.FullName, g.Email, g.Nationality, g.NationalID, g.CountryFlag)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			existing, err2 := r.GetByEmail(ctx, g.Email)
			if err2 != nil {
				return false, err2
			}
			*g = existing
			return false, nil
		}
		return false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, err
	}
	g.ID = uint64(id)
	fresh, err := r.GetByID(ctx, g.ID)
	if err != nil {
		return false, err
	}
	*g = fresh
	return true, nil
}

// GetByEmail fetches a guest by normalized email. It returns
// ErrGuestNotFound when no row matches; callers in the OAuth flow treat that
// as "no guest yet", not as a failure.
func (r *GuestRepo) GetByEmail(ctx context.Context, email string) (model.Guest, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var g model.Guest
	err := scanGuest(r.db.QueryRowContext(ctx,
		`SELECT `+guestColumns+` FROM guests WHERE email = ? LIMIT 1`, email), &g)
	if errors.Is(err, sql.ErrNoRows) {
		return g, ErrGuestNotFound
	}
	return g, err
}

// GetByID fetches a guest by id, returning ErrGuestNotFound when absent.
func (r *GuestRepo) GetByID(ctx context.Context, id uint64) (model.Guest, error) {
	var g model.Guest
	err := scanGuest(r.db.QueryRowContext(ctx,
		`SELECT `+guestColumns+` FROM guests WHERE id = ? LIMIT 1`, id), &g)
	if errors.Is(err, sql.ErrNoRows) {
		return g, ErrGuestNotFound
	}
	return g, err
}

// ListAll returns every guest ordered by creation time descending (newest
// first). An empty slice, not an error, is returned when the table is empty.
func (r *GuestRepo) ListAll(ctx context.Context) ([]model.Guest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+guestColumns+` FROM guests ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	guests := make([]model.Guest, 0)
	for rows.Next() {
		var g model.Guest
		if err := scanGuest(rows, &g); err != nil {
			return nil, err
		}
		guests = append(guests, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return guests, nil
}

// GuestPatch carries the optional profile fields an update may change. Nil
// pointers leave the column untouched.
type GuestPatch struct {
	FullName    *string
	Nationality *string
	NationalID  *string
	CountryFlag *string
}

// UpdateFields applies a partial profile update and returns the fresh row.
// When the patch is empty the current row is returned unchanged.
func (r *GuestRepo) UpdateFields(ctx context.Context, id uint64, p GuestPatch) (model.Guest, error) {
	set := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if p.FullName != nil {
		set = append(set, "full_name = ?")
		args = append(args, *p.FullName)
	}
	if p.Nationality != nil {
		set = append(set, "nationality = ?")
		args = append(args, *p.Nationality)
	}
	if p.NationalID != nil {
		set = append(set, "national_id = ?")
		args = append(args, *p.NationalID)
	}
	if p.CountryFlag != nil {
		set = append(set, "country_flag = ?")
		args = append(args, *p.CountryFlag)
	}
	if len(set) > 0 {
		args = append(args, id)
		res, err := r.db.ExecContext(ctx,
			`UPDATE guests SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			return model.Guest{}, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			// Either absent or values identical; GetByID below settles it.
			if _, err := r.GetByID(ctx, id); err != nil {
				return model.Guest{}, err
			}
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a guest row. Bookings referencing the guest are not
// cascaded; referential cleanup is the caller's concern.
func (r *GuestRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM guests WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGuestNotFound
	}
	return nil
}
