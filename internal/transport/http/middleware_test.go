package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tripmaster/trip-scout/internal/kvstore"
	"github.com/tripmaster/trip-scout/internal/ratelimit"
)

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func TestRequireAJAXHeader(t *testing.T) {
	e := echo.New()
	handler := RequireAJAXHeader()(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scout/generate", nil)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("missing header: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/scout/generate", nil)
	req.Header.Set(echo.HeaderXRequestedWith, "XMLHttpRequest")
	rec = httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("with header: status = %d, want 200", rec.Code)
	}

	// Reads are exempt, they carry no state change to forge.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/trips", nil)
	rec = httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("GET: status = %d, want 200", rec.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := ratelimit.New(kvstore.New(""), map[string]ratelimit.Rule{
		RuleGenerate: {Limit: 2, Window: 5 * time.Minute},
	})
	e := echo.New()
	handler := RateLimit(limiter, RuleGenerate, ClientIP)(okHandler)

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/scout/generate", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		if err := handler(e.NewContext(req, rec)); err != nil {
			t.Fatalf("handler: %v", err)
		}
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := do(); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
	}
	rec := do()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	var body struct {
		Error      string `json:"error"`
		RetryAfter int    `json:"retry_after"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error == "" || body.RetryAfter <= 0 {
		t.Fatalf("body = %+v", body)
	}
}

func TestRateLimitUnknownRulePassesThrough(t *testing.T) {
	limiter := ratelimit.New(kvstore.New(""), nil)
	e := echo.New()
	handler := RateLimit(limiter, "unconfigured", ClientIP)(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/whatever", nil)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRateLimitCheckDoesNotRecord(t *testing.T) {
	limiter := ratelimit.New(kvstore.New(""), map[string]ratelimit.Rule{
		RuleLogin: {Limit: 1, Window: 5 * time.Minute},
	})
	e := echo.New()
	handler := RateLimitCheck(limiter, RuleLogin, ClientIP)(okHandler)

	// Check-only never consumes the allowance, so repeated requests pass
	// until a handler records a failure.
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		rec := httptest.NewRecorder()
		if err := handler(e.NewContext(req, rec)); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
	}

	limiter.Record(context.Background(), RuleLogin, "10.0.0.2")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 after a recorded failure", rec.Code)
	}
}
