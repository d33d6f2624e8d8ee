package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wildoasis/booking-api/internal/model"
	"github.com/wildoasis/booking-api/internal/repository"
)

// GuestHandler bundles dependencies for guest profile endpoints. Creation
// and email lookup are public to support the booking site's OAuth sign-in;
// the management endpoints sit behind staff auth.
type GuestHandler struct {
	Guests *repository.GuestRepo
}

func NewGuestHandler(guests *repository.GuestRepo) *GuestHandler {
	return &GuestHandler{Guests: guests}
}

// ----- DTOs -----

type guestCreateReq struct {
	FullName    string `json:"full_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Nationality string `json:"nationality"`
	NationalID  string `json:"national_id"`
	CountryFlag string `json:"country_flag"`
}

type guestPatchReq struct {
	FullName    *string `json:"full_name"`
	Nationality *string `json:"nationality"`
	NationalID  *string `json:"national_id"`
	CountryFlag *string `json:"country_flag"`
}

type guestResp struct {
	ID          uint64    `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Nationality string    `json:"nationality"`
	NationalID  string    `json:"national_id"`
	CountryFlag string    `json:"country_flag"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toGuestResp(g model.Guest) guestResp {
	return guestResp{
		ID:          g.ID,
		FullName:    g.FullName,
		Email:       g.Email,
		Nationality: g.Nationality,
		NationalID:  g.NationalID,
		CountryFlag: g.CountryFlag,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// Create registers a guest, deduplicating by email. A known email returns
// the existing profile with 200 instead of a conflict, so repeated OAuth
// sign-ins of the same person stay idempotent.
func (h *GuestHandler) Create(c echo.Context) error {
	var req guestCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g := model.Guest{
		FullName:    req.FullName,
		Email:       req.Email,
		Nationality: req.Nationality,
		NationalID:  req.NationalID,
		CountryFlag: req.CountryFlag,
	}
	created, err := h.Guests.Create(ctx, &g)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create guest failed"})
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, toGuestResp(g))
}

// LookupByEmail finds a guest by email. A miss answers 200 with a null
// body rather than 404: the sign-in flow checks for existence and treats
// null as "register this guest next".
func (h *GuestHandler) LookupByEmail(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.QueryParam("email")))
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email query parameter required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Guests.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrGuestNotFound) {
			return c.JSON(http.StatusOK, nil)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup guest failed"})
	}
	return c.JSON(http.StatusOK, toGuestResp(g))
}

// List returns all guests, newest first.
func (h *GuestHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	guests, err := h.Guests.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list guests failed"})
	}
	out := make([]guestResp, 0, len(guests))
	for _, g := range guests {
		out = append(out, toGuestResp(g))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns a single guest.
func (h *GuestHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guest id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Guests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGuestNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "guest not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load guest failed"})
	}
	return c.JSON(http.StatusOK, toGuestResp(g))
}

// Update applies a partial profile update. Email is intentionally not
// updatable; it is the dedup key.
func (h *GuestHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guest id"})
	}
	var req guestPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name cannot be empty"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Guests.UpdateFields(ctx, id, repository.GuestPatch{
		FullName:    req.FullName,
		Nationality: req.Nationality,
		NationalID:  req.NationalID,
		CountryFlag: req.CountryFlag,
	})
	if err != nil {
		if errors.Is(err, repository.ErrGuestNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "guest not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update guest failed"})
	}
	return c.JSON(http.StatusOK, toGuestResp(g))
}

// Delete removes a guest profile. Bookings keep their guest_id reference;
// joined reads surface a zero-valued guest.
func (h *GuestHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guest id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Guests.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrGuestNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "guest not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete guest failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
