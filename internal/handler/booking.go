package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wildoasis/booking-api/internal/model"
	"github.com/wildoasis/booking-api/internal/queue"
	"github.com/wildoasis/booking-api/internal/repository"
	queue_publisher "github.com/wildoasis/booking-api/internal/service"
)

// BookingHandler bundles dependencies for the booking lifecycle endpoints.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Cabins   *repository.CabinRepo
	Guests   *repository.GuestRepo
	Settings *repository.SettingsRepo
}

func NewBookingHandler(b *repository.BookingRepo, c *repository.CabinRepo, g *repository.GuestRepo, s *repository.SettingsRepo) *BookingHandler {
	return &BookingHandler{Bookings: b, Cabins: c, Guests: g, Settings: s}
}

// ----- DTOs -----

type bookingCreateReq struct {
	CabinID          uint64 `json:"cabin_id" validate:"required"`
	GuestID          uint64 `json:"guest_id" validate:"required"`
	StartDate        string `json:"start_date" validate:"required"`
	EndDate          string `json:"end_date" validate:"required"`
	NumGuests        int    `json:"num_guests" validate:"required,min=1"`
	HasBreakfast     bool   `json:"has_breakfast"`
	IsPaid           bool   `json:"is_paid"`
	Observations     string `json:"observations"`
	CabinPriceCents  *int64 `json:"cabin_price_cents"`
	ExtrasPriceCents *int64 `json:"extras_price_cents"`
	TotalPriceCents  *int64 `json:"total_price_cents"`
}

type bookingPatchReq struct {
	Status           *string `json:"status"`
	HasBreakfast     *bool   `json:"has_breakfast"`
	IsPaid           *bool   `json:"is_paid"`
	Observations     *string `json:"observations"`
	NumGuests        *int    `json:"num_guests"`
	ExtrasPriceCents *int64  `json:"extras_price_cents"`
	TotalPriceCents  *int64  `json:"total_price_cents"`
}

type checkInReq struct {
	HasBreakfast     *bool  `json:"has_breakfast"`
	ExtrasPriceCents *int64 `json:"extras_price_cents"`
	TotalPriceCents  *int64 `json:"total_price_cents"`
}

type bookingResp struct {
	ID               uint64    `json:"id"`
	CabinID          uint64    `json:"cabin_id"`
	GuestID          uint64    `json:"guest_id"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	NumNights        int       `json:"num_nights"`
	NumGuests        int       `json:"num_guests"`
	CabinPriceCents  int64     `json:"cabin_price_cents"`
	ExtrasPriceCents int64     `json:"extras_price_cents"`
	TotalPriceCents  int64     `json:"total_price_cents"`
	Status           string    `json:"status"`
	HasBreakfast     bool      `json:"has_breakfast"`
	IsPaid           bool      `json:"is_paid"`
	Observations     string    `json:"observations"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toBookingResp(b model.Booking) bookingResp {
	return bookingResp{
		ID:               b.ID,
		CabinID:          b.CabinID,
		GuestID:          b.GuestID,
		StartDate:        b.StartDate,
		EndDate:          b.EndDate,
		NumNights:        b.NumNights,
		NumGuests:        b.NumGuests,
		CabinPriceCents:  b.CabinPriceCents,
		ExtrasPriceCents: b.ExtrasPriceCents,
		TotalPriceCents:  b.TotalPriceCents,
		Status:           b.Status,
		HasBreakfast:     b.HasBreakfast,
		IsPaid:           b.IsPaid,
		Observations:     b.Observations,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

// Create makes a new unconfirmed booking. The availability check and the
// insert run in one transaction that first locks the cabin row, so two
// concurrent requests for overlapping ranges on the same cabin cannot both
// succeed.
func (h *BookingHandler) Create(c echo.Context) error {
	var req bookingCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be YYYY-MM-DD"})
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be YYYY-MM-DD"})
	}
	if !end.After(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be after start_date"})
	}
	if req.CabinPriceCents != nil && *req.CabinPriceCents < 0 ||
		req.ExtrasPriceCents != nil && *req.ExtrasPriceCents < 0 ||
		req.TotalPriceCents != nil && *req.TotalPriceCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "prices cannot be negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	settings, err := h.Settings.GetSingleton(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load settings failed"})
	}
	nights := model.Nights(start, end)
	if nights < settings.MinBookingLength || nights > settings.MaxBookingLength {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "stay length outside allowed range",
			"min":   settings.MinBookingLength,
			"max":   settings.MaxBookingLength,
		})
	}
	if req.NumGuests > settings.MaxGuestsPerBooking {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "too many guests for one booking",
			"max":   settings.MaxGuestsPerBooking,
		})
	}

	if _, err := h.Guests.GetByID(ctx, req.GuestID); err != nil {
		if errors.Is(err, repository.ErrGuestNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "guest not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load guest failed"})
	}

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	cabin, err := h.Cabins.LockTx(ctx, tx, req.CabinID)
	if err != nil {
		if errors.Is(err, repository.ErrCabinNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cabin not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lock cabin failed"})
	}
	if req.NumGuests > cabin.MaxCapacity {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "cabin capacity exceeded",
			"max":   cabin.MaxCapacity,
		})
	}

	conflicts, err := h.Bookings.FindOverlappingTx(ctx, tx, cabin.ID, start, end)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"})
	}
	if len(conflicts) > 0 {
		out := make([]bookingResp, 0, len(conflicts))
		for _, b := range conflicts {
			out = append(out, toBookingResp(b))
		}
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     "cabin is not available for the requested dates",
			"conflicts": out,
		})
	}

	price := model.DerivePrice(cabin.RegularPriceCents, nights,
		req.CabinPriceCents, req.ExtrasPriceCents, req.TotalPriceCents)

	booking := model.Booking{
		CabinID:          cabin.ID,
		GuestID:          req.GuestID,
		StartDate:        start,
		EndDate:          end,
		NumNights:        nights,
		NumGuests:        req.NumGuests,
		CabinPriceCents:  price.CabinCents,
		ExtrasPriceCents: price.ExtrasCents,
		TotalPriceCents:  price.TotalCents,
		Status:           model.StatusUnconfirmed,
		HasBreakfast:     req.HasBreakfast,
		IsPaid:           req.IsPaid,
		Observations:     req.Observations,
	}
	if err := h.Bookings.CreateTx(ctx, tx, &booking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.JSON(http.StatusCreated, toBookingResp(booking))
}

// List returns every booking joined with its guest and cabin, newest first.
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	details, err := h.Bookings.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	return c.JSON(http.StatusOK, details)
}

// Get returns one booking with its guest and cabin.
func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	detail, err := h.Bookings.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	return c.JSON(http.StatusOK, detail)
}

// Update applies the allow-listed partial update. Fields outside the
// allow-list are dropped by the typed DTO, never written.
func (h *BookingHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req bookingPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status != nil && !model.ValidStatus(*req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	if req.NumGuests != nil && *req.NumGuests < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "num_guests must be at least 1"})
	}
	if req.ExtrasPriceCents != nil && *req.ExtrasPriceCents < 0 ||
		req.TotalPriceCents != nil && *req.TotalPriceCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "prices cannot be negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.UpdateFields(ctx, id, repository.BookingPatch{
		Status:           req.Status,
		HasBreakfast:     req.HasBreakfast,
		IsPaid:           req.IsPaid,
		Observations:     req.Observations,
		NumGuests:        req.NumGuests,
		ExtrasPriceCents: req.ExtrasPriceCents,
		TotalPriceCents:  req.TotalPriceCents,
	})
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update booking failed"})
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// CheckIn transitions an unconfirmed booking to checked-in, marks it paid
// and applies optional breakfast or price overrides. A successful check-in
// publishes a BookingCheckedInEvent; publish failures never fail the
// request.
func (h *BookingHandler) CheckIn(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req checkInReq
	// An empty body binds cleanly and means no overrides; only malformed
	// input errors here.
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ExtrasPriceCents != nil && *req.ExtrasPriceCents < 0 ||
		req.TotalPriceCents != nil && *req.TotalPriceCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "prices cannot be negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.CheckIn(ctx, id, repository.CheckInOverrides{
		HasBreakfast:     req.HasBreakfast,
		ExtrasPriceCents: req.ExtrasPriceCents,
		TotalPriceCents:  req.TotalPriceCents,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrInvalidState):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not unconfirmed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check-in failed"})
	}

	go h.publishCheckedIn(b)

	return c.JSON(http.StatusOK, toBookingResp(b))
}

// publishCheckedIn enriches the booking with guest and cabin names and
// publishes the check-in event. Runs detached from the request.
func (h *BookingHandler) publishCheckedIn(b model.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	detail, err := h.Bookings.GetDetail(ctx, b.ID)
	if err != nil {
		return
	}
	_ = queue_publisher.PublishBookingCheckedIn(ctx, queue.BookingCheckedInEvent{
		BookingID:       b.ID,
		GuestName:       detail.Guest.FullName,
		CabinName:       detail.Cabin.Name,
		StartDate:       b.StartDate.Format("2006-01-02"),
		EndDate:         b.EndDate.Format("2006-01-02"),
		NumNights:       b.NumNights,
		NumGuests:       b.NumGuests,
		HasBreakfast:    b.HasBreakfast,
		TotalPriceCents: b.TotalPriceCents,
		CheckedInAt:     time.Now().UTC().Format(time.RFC3339),
	})
}

// CheckOut transitions a checked-in booking to checked-out.
func (h *BookingHandler) CheckOut(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.CheckOut(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrInvalidState):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not checked-in"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check-out failed"})
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Delete removes a booking from any state.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bookings.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete booking failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
