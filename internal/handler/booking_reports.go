package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wildoasis/booking-api/internal/repository"
)

// ReportHandler serves the dashboard's read-only aggregation endpoints.
// All of them are parameterized by "today", computed as UTC midnight at
// request time so a report near midnight cannot straddle two days.
type ReportHandler struct {
	Bookings *repository.BookingRepo
}

func NewReportHandler(b *repository.BookingRepo) *ReportHandler {
	return &ReportHandler{Bookings: b}
}

// todayUTC returns the current day truncated to UTC midnight.
func todayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// AfterDate returns bookings created between the given date and the end of
// today, projected for revenue reporting.
func (h *ReportHandler) AfterDate(c echo.Context) error {
	after, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	until := todayUTC().Add(24*time.Hour - time.Second)
	rows, err := h.Bookings.CreatedAfter(ctx, after, until)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load bookings failed"})
	}
	return c.JSON(http.StatusOK, rows)
}

// StaysAfterDate returns stays starting between the given date and today.
func (h *ReportHandler) StaysAfterDate(c echo.Context) error {
	after, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Bookings.StaysAfter(ctx, after, todayUTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load stays failed"})
	}
	return c.JSON(http.StatusOK, rows)
}

// TodayActivity returns today's arrivals and departures for the dashboard.
func (h *ReportHandler) TodayActivity(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Bookings.TodayActivity(ctx, todayUTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load activity failed"})
	}
	return c.JSON(http.StatusOK, rows)
}
