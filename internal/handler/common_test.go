package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func ctxWithParam(id string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestPathID(t *testing.T) {
	if id, ok := pathID(ctxWithParam("42"), "id"); !ok || id != 42 {
		t.Errorf("pathID(42) = %d, %v", id, ok)
	}
	for _, bad := range []string{"", "0", "-1", "abc", "1.5"} {
		if _, ok := pathID(ctxWithParam(bad), "id"); ok {
			t.Errorf("pathID(%q) accepted", bad)
		}
	}
}

func TestSubjectID(t *testing.T) {
	e := echo.New()
	newCtx := func(v interface{}) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		if v != nil {
			c.Set("user_id", v)
		}
		return c
	}
	// JWT numeric claims arrive as float64.
	if got := subjectID(newCtx(float64(9))); got != 9 {
		t.Errorf("float64 claim: got %d", got)
	}
	if got := subjectID(newCtx(uint64(3))); got != 3 {
		t.Errorf("uint64: got %d", got)
	}
	if got := subjectID(newCtx("12")); got != 12 {
		t.Errorf("numeric string: got %d", got)
	}
	if got := subjectID(newCtx(nil)); got != 0 {
		t.Errorf("missing identity: got %d", got)
	}
	if got := subjectID(newCtx("nope")); got != 0 {
		t.Errorf("junk string: got %d", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2026-03-15")
	if err != nil {
		t.Fatalf("parseDate: %v", err)
	}
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !d.Equal(want) {
		t.Errorf("got %v, want %v", d, want)
	}
	if _, err := parseDate("15/03/2026"); err == nil {
		t.Error("wrong format accepted")
	}
	if _, err := parseDate(""); err == nil {
		t.Error("empty date accepted")
	}
}

func TestValidatorTags(t *testing.T) {
	v := NewValidator()
	err := v.Validate(&guestCreateReq{FullName: "Jonas Schmedtmann", Email: "jonas@example.com"})
	if err != nil {
		t.Errorf("valid guest rejected: %v", err)
	}
	if err := v.Validate(&guestCreateReq{FullName: "x", Email: "not-an-email"}); err == nil {
		t.Error("invalid email accepted")
	}
	if err := v.Validate(&registerReq{Email: "a@b.co", Password: "short", FullName: "A"}); err == nil {
		t.Error("short password accepted")
	}
	if err := v.Validate(&bookingCreateReq{CabinID: 1, GuestID: 1, StartDate: "2026-01-01", EndDate: "2026-01-08", NumGuests: 0}); err == nil {
		t.Error("zero guests accepted")
	}
}
