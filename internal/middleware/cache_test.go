package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/wildoasis/booking-api/internal/config"
)

func TestEncodeDecodePayload(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Add("X-Custom", "a")
	hdr.Add("X-Custom", "b")
	body := []byte(`{"id":1}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(bs)
	if !ok {
		t.Fatal("decode failed")
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" {
		t.Errorf("content type = %q", gotHdr.Get("Content-Type"))
	}
	if vals := gotHdr.Values("X-Custom"); len(vals) != 2 {
		t.Errorf("X-Custom values = %v", vals)
	}
	if string(gotBody) != `{"id":1}` {
		t.Errorf("body = %q", gotBody)
	}
}

func TestDecodePayloadGarbage(t *testing.T) {
	if _, _, _, ok := decodePayload(nil); ok {
		t.Error("nil payload decoded")
	}
	if _, _, _, ok := decodePayload([]byte("short")); ok {
		t.Error("truncated payload decoded")
	}
}

func TestCacheKeyFromStrategies(t *testing.T) {
	e := echo.New()
	newCtx := func(target string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/cabins")
		return c
	}
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	k1 := cacheKeyFrom(cfg, newCtx("/v1/cabins?x=1"))
	k2 := cacheKeyFrom(cfg, newCtx("/v1/cabins?x=2"))
	if k1 == k2 {
		t.Error("route_query must distinguish query strings")
	}

	cfg.KeyStrategy = "route"
	k3 := cacheKeyFrom(cfg, newCtx("/v1/cabins?x=1"))
	k4 := cacheKeyFrom(cfg, newCtx("/v1/cabins?x=2"))
	if k3 != k4 {
		t.Error("route strategy must ignore query strings")
	}
}

func TestCaptureWriterTracksFullSize(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	if _, err := cw.Write([]byte("abcdef")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if cw.size != 6 {
		t.Errorf("size = %d, want full body length 6", cw.size)
	}
	if cw.buf.Len() != 4 {
		t.Errorf("buffered = %d, want capped at 4", cw.buf.Len())
	}
	if rec.Body.String() != "abcdef" {
		t.Errorf("client body = %q, want untruncated", rec.Body.String())
	}
}

func TestCacheableSkipsOversizedBody(t *testing.T) {
	if !cacheable(http.StatusOK, 10, 0) {
		t.Error("no limit must allow any size")
	}
	if !cacheable(http.StatusOK, 10, 10) {
		t.Error("body at the limit must be cacheable")
	}
	if cacheable(http.StatusOK, 11, 10) {
		t.Error("body over the limit was captured truncated and must not be cached")
	}
	if cacheable(http.StatusNotFound, 5, 10) {
		t.Error("only 200 responses are cacheable")
	}
}

func TestCacheDisabledIsPassthrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/cabins", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("next handler not called")
	}
	if rec.Header().Get("X-Cache") != "" {
		t.Error("disabled cache must not set X-Cache")
	}
}

func TestRateLimitDisabledIsPassthrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("next handler not called")
	}
}

func TestBuildRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/bookings")
	c.Set("user_id", "7")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}
	if key := buildRateKey(cfg, c); key != "rl:ip:10.1.2.3" {
		t.Errorf("ip key = %q", key)
	}
	cfg.KeyStrategy = "user"
	if key := buildRateKey(cfg, c); key != "rl:user:7" {
		t.Errorf("user key = %q", key)
	}
	cfg.KeyStrategy = "user_route"
	if key := buildRateKey(cfg, c); key != "rl:user:7:route:GET /v1/bookings" {
		t.Errorf("user_route key = %q", key)
	}
}

func TestAsInt64(t *testing.T) {
	if asInt64(int64(5)) != 5 || asInt64(5) != 5 || asInt64(5.0) != 5 || asInt64("5") != 5 {
		t.Error("numeric conversions failed")
	}
	if asInt64("junk") != 0 || asInt64(nil) != 0 {
		t.Error("invalid inputs must map to 0")
	}
}
