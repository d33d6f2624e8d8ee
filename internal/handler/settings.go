package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wildoasis/booking-api/internal/model"
	"github.com/wildoasis/booking-api/internal/repository"
)

// SettingsHandler serves the single operational settings record.
type SettingsHandler struct {
	Settings *repository.SettingsRepo
}

func NewSettingsHandler(s *repository.SettingsRepo) *SettingsHandler {
	return &SettingsHandler{Settings: s}
}

type settingsPatchReq struct {
	MinBookingLength    *int   `json:"min_booking_length"`
	MaxBookingLength    *int   `json:"max_booking_length"`
	MaxGuestsPerBooking *int   `json:"max_guests_per_booking"`
	BreakfastPriceCents *int64 `json:"breakfast_price_cents"`
}

type settingsResp struct {
	MinBookingLength    int       `json:"min_booking_length"`
	MaxBookingLength    int       `json:"max_booking_length"`
	MaxGuestsPerBooking int       `json:"max_guests_per_booking"`
	BreakfastPriceCents int64     `json:"breakfast_price_cents"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func toSettingsResp(s model.Settings) settingsResp {
	return settingsResp{
		MinBookingLength:    s.MinBookingLength,
		MaxBookingLength:    s.MaxBookingLength,
		MaxGuestsPerBooking: s.MaxGuestsPerBooking,
		BreakfastPriceCents: s.BreakfastPriceCents,
		UpdatedAt:           s.UpdatedAt,
	}
}

// Get returns the settings, creating them with defaults on first read.
func (h *SettingsHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Settings.GetSingleton(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load settings failed"})
	}
	return c.JSON(http.StatusOK, toSettingsResp(s))
}

// Update applies a partial update to the four settings fields.
func (h *SettingsHandler) Update(c echo.Context) error {
	var req settingsPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if field := model.ValidateSettingsPatch(req.MinBookingLength, req.MaxBookingLength,
		req.MaxGuestsPerBooking, req.BreakfastPriceCents); field != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid value", "field": field})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Settings.UpdateFields(ctx, repository.SettingsPatch{
		MinBookingLength:    req.MinBookingLength,
		MaxBookingLength:    req.MaxBookingLength,
		MaxGuestsPerBooking: req.MaxGuestsPerBooking,
		BreakfastPriceCents: req.BreakfastPriceCents,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update settings failed"})
	}
	return c.JSON(http.StatusOK, toSettingsResp(s))
}
