package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/wildoasis/booking-api/internal/model"
)

// ErrCabinNotFound indicates that a cabin was not located in the DB.
var ErrCabinNotFound = errors.New("cabin not found")

// ErrCabinNameExists indicates a unique-key violation on the cabin name.
var ErrCabinNameExists = fmt.Errorf("%w: cabin name already exists", ErrConflict)

// CabinRepo manages persistence for cabins.
type CabinRepo struct {
	db *sql.DB
}

// NewCabinRepo constructs a CabinRepo with the given DB handle.
func NewCabinRepo(db *sql.DB) *CabinRepo { return &CabinRepo{db: db} }

// DB exposes the underlying sql.DB. It allows callers to begin transactions
// spanning multiple repositories.
func (r *CabinRepo) DB() *sql.DB { return r.db }

const cabinColumns = `id, name, max_capacity, regular_price_cents, discount_cents, description, image_url, created_at, updated_at`

func scanCabin(row interface{ Scan(...any) error }, c *model.Cabin) error {
	return row.Scan(&c.ID, &c.Name, &c.MaxCapacity, &c.RegularPriceCents, &c.DiscountCents,
		&c.Description, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt)
}

// Create inserts a new cabin and populates the generated ID and DB-default
// fields on the given model. A duplicate name maps to ErrCabinNameExists.
func (r *CabinRepo) Create(ctx context.Context, c *model.Cabin) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cabins (name, max_capacity, regular_price_cents, discount_cents, description, image_url) VALUES (?, ?, ?, ?, ?, ?)`,
		c.Name, c.MaxCapacity, c.RegularPriceCents, c.DiscountCents, c.Description, c.ImageURL)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrCabinNameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return scanCabin(r.db.QueryRowContext(ctx,
		`SELECT `+cabinColumns+` FROM cabins WHERE id = ?`, c.ID), c)
}

// GetByID retrieves a cabin by its ID. It returns ErrCabinNotFound if there
// is no matching row.
func (r *CabinRepo) GetByID(ctx context.Context, id uint64) (model.Cabin, error) {
	var c model.Cabin
	err := scanCabin(r.db.QueryRowContext(ctx,
		`SELECT `+cabinColumns+` FROM cabins WHERE id = ?`, id), &c)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrCabinNotFound
	}
	return c, err
}

// LockTx reads a cabin inside the given transaction with a row lock
// (SELECT ... FOR UPDATE). Booking creation uses this to serialize the
// availability check-then-insert sequence per cabin.
func (r *CabinRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Cabin, error) {
	var c model.Cabin
	err := scanCabin(tx.QueryRowContext(ctx,
		`SELECT `+cabinColumns+` FROM cabins WHERE id = ? FOR UPDATE`, id), &c)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrCabinNotFound
	}
	return c, err
}

// ListAll returns every cabin ordered by name. When no cabins exist it
// returns an empty slice and nil error.
func (r *CabinRepo) ListAll(ctx context.Context) ([]model.Cabin, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+cabinColumns+` FROM cabins ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cabins := make([]model.Cabin, 0)
	for rows.Next() {
		var c model.Cabin
		if err := scanCabin(rows, &c); err != nil {
			return nil, err
		}
		cabins = append(cabins, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cabins, nil
}

// CabinPatch carries the optional fields a cabin update may change. Nil
// pointers leave the column untouched.
type CabinPatch struct {
	Name              *string
	MaxCapacity       *int
	RegularPriceCents *int64
	DiscountCents     *int64
	Description       *string
	ImageURL          *string
}

// UpdateFields applies a partial update and returns the fresh row. Renaming
// onto an existing cabin name maps to ErrCabinNameExists.
func (r *CabinRepo) UpdateFields(ctx context.Context, id uint64, p CabinPatch) (model.Cabin, error) {
	set := make([]string, 0, 6)
	args := make([]any, 0, 7)
	if p.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *p.Name)
	}
	if p.MaxCapacity != nil {
		set = append(set, "max_capacity = ?")
		args = append(args, *p.MaxCapacity)
	}
	if p.RegularPriceCents != nil {
		set = append(set, "regular_price_cents = ?")
		args = append(args, *p.RegularPriceCents)
	}
	if p.DiscountCents != nil {
		set = append(set, "discount_cents = ?")
		args = append(args, *p.DiscountCents)
	}
	if p.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *p.Description)
	}
	if p.ImageURL != nil {
		set = append(set, "image_url = ?")
		args = append(args, *p.ImageURL)
	}
	if len(set) > 0 {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx,
			`UPDATE cabins SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "1062") {
				return model.Cabin{}, ErrCabinNameExists
			}
			return model.Cabin{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a cabin row, returning ErrCabinNotFound when absent.
// Bookings referencing the cabin stay in place.
func (r *CabinRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cabins WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCabinNotFound
	}
	return nil
}
