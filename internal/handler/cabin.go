package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wildoasis/booking-api/internal/media"
	"github.com/wildoasis/booking-api/internal/model"
	"github.com/wildoasis/booking-api/internal/repository"
)

// CabinHandler bundles dependencies for cabin catalog endpoints.
type CabinHandler struct {
	Cabins   *repository.CabinRepo
	Bookings *repository.BookingRepo
	Media    *media.Client
}

func NewCabinHandler(cabins *repository.CabinRepo, bookings *repository.BookingRepo, m *media.Client) *CabinHandler {
	return &CabinHandler{Cabins: cabins, Bookings: bookings, Media: m}
}

// ----- DTOs -----

type cabinCreateReq struct {
	Name              string `json:"name" validate:"required"`
	MaxCapacity       int    `json:"max_capacity" validate:"required,min=1"`
	RegularPriceCents int64  `json:"regular_price_cents" validate:"required,min=0"`
	DiscountCents     int64  `json:"discount_cents" validate:"min=0"`
	Description       string `json:"description"`
	ImageURL          string `json:"image_url"`
}

type cabinPatchReq struct {
	Name              *string `json:"name"`
	MaxCapacity       *int    `json:"max_capacity"`
	RegularPriceCents *int64  `json:"regular_price_cents"`
	DiscountCents     *int64  `json:"discount_cents"`
	Description       *string `json:"description"`
	ImageURL          *string `json:"image_url"`
}

type cabinResp struct {
	ID                uint64    `json:"id"`
	Name              string    `json:"name"`
	MaxCapacity       int       `json:"max_capacity"`
	RegularPriceCents int64     `json:"regular_price_cents"`
	DiscountCents     int64     `json:"discount_cents"`
	Description       string    `json:"description"`
	ImageURL          string    `json:"image_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toCabinResp(c model.Cabin) cabinResp {
	return cabinResp{
		ID:                c.ID,
		Name:              c.Name,
		MaxCapacity:       c.MaxCapacity,
		RegularPriceCents: c.RegularPriceCents,
		DiscountCents:     c.DiscountCents,
		Description:       c.Description,
		ImageURL:          c.ImageURL,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// Create adds a cabin to the catalog.
func (h *CabinHandler) Create(c echo.Context) error {
	var req cabinCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cab := model.Cabin{
		Name:              req.Name,
		MaxCapacity:       req.MaxCapacity,
		RegularPriceCents: req.RegularPriceCents,
		DiscountCents:     req.DiscountCents,
		Description:       req.Description,
		ImageURL:          req.ImageURL,
	}
	if err := h.Cabins.Create(ctx, &cab); err != nil {
		if errors.Is(err, repository.ErrCabinNameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "cabin name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create cabin failed"})
	}
	return c.JSON(http.StatusCreated, toCabinResp(cab))
}

// List returns the whole catalog ordered by name.
func (h *CabinHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cabins, err := h.Cabins.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list cabins failed"})
	}
	out := make([]cabinResp, 0, len(cabins))
	for _, cab := range cabins {
		out = append(out, toCabinResp(cab))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns a single cabin.
func (h *CabinHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cabin id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cab, err := h.Cabins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCabinNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cabin not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cabin failed"})
	}
	return c.JSON(http.StatusOK, toCabinResp(cab))
}

// Update applies a partial update to a cabin.
func (h *CabinHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cabin id"})
	}
	var req cabinPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
		}
		req.Name = &trimmed
	}
	if req.MaxCapacity != nil && *req.MaxCapacity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_capacity must be at least 1"})
	}
	if req.RegularPriceCents != nil && *req.RegularPriceCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "regular_price_cents cannot be negative"})
	}
	if req.DiscountCents != nil && *req.DiscountCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "discount_cents cannot be negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cab, err := h.Cabins.UpdateFields(ctx, id, repository.CabinPatch{
		Name:              req.Name,
		MaxCapacity:       req.MaxCapacity,
		RegularPriceCents: req.RegularPriceCents,
		DiscountCents:     req.DiscountCents,
		Description:       req.Description,
		ImageURL:          req.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCabinNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cabin not found"})
		case errors.Is(err, repository.ErrCabinNameExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "cabin name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update cabin failed"})
	}
	return c.JSON(http.StatusOK, toCabinResp(cab))
}

// Delete removes a cabin and, best effort, its hosted image. A missing or
// external image reference is not an error.
func (h *CabinHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cabin id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cab, err := h.Cabins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCabinNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cabin not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cabin failed"})
	}
	if err := h.Cabins.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCabinNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cabin not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete cabin failed"})
	}
	if h.Media != nil && cab.ImageURL != "" {
		if err := h.Media.Delete(ctx, cab.ImageURL); err != nil {
			c.Logger().Warnf("cabin %d: image delete failed: %v", id, err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

type availabilityResp struct {
	Available bool          `json:"available"`
	Conflicts []bookingResp `json:"conflicts"`
}

// Availability checks whether a candidate date range is free on the cabin.
// An exclude_booking query parameter ignores one existing booking, which
// lets the dashboard re-validate a booking being edited.
func (h *CabinHandler) Availability(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cabin id"})
	}
	start, err := parseDate(c.QueryParam("start"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start must be YYYY-MM-DD"})
	}
	end, err := parseDate(c.QueryParam("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end must be YYYY-MM-DD"})
	}
	if !end.After(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end must be after start"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Cabins.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCabinNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cabin not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cabin failed"})
	}

	var conflicts []model.Booking
	if raw := c.QueryParam("exclude_booking"); raw != "" {
		exclude, perr := strconv.ParseUint(raw, 10, 64)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exclude_booking"})
		}
		conflicts, err = h.Bookings.FindOverlappingExcluding(ctx, id, exclude, start, end)
	} else {
		conflicts, err = h.Bookings.FindOverlapping(ctx, id, start, end)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"})
	}
	out := make([]bookingResp, 0, len(conflicts))
	for _, b := range conflicts {
		out = append(out, toBookingResp(b))
	}
	return c.JSON(http.StatusOK, availabilityResp{Available: len(conflicts) == 0, Conflicts: out})
}

// parseDate parses a YYYY-MM-DD value as UTC midnight.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.UTC)
}
