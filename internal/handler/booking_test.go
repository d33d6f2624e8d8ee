package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

// Broken override JSON on check-in must be rejected, not silently treated
// as an empty body carrying no overrides.
func TestCheckInRejectsMalformedBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/v1/bookings/check-in/7",
		strings.NewReader(`{"has_breakfast":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/bookings/check-in/:id")
	c.SetParamNames("id")
	c.SetParamValues("7")

	h := &BookingHandler{}
	if err := h.CheckIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// Negative price overrides are rejected before any database work.
func TestCheckInRejectsNegativeOverride(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/v1/bookings/check-in/7",
		strings.NewReader(`{"extras_price_cents":-100}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/bookings/check-in/:id")
	c.SetParamNames("id")
	c.SetParamValues("7")

	h := &BookingHandler{}
	if err := h.CheckIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
