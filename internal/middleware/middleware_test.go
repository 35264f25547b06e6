package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/provisionexpertax/taxportal/internal/config"
)

func TestLoggingMiddleware(t *testing.T) {
	orig := log.Logger
	buf := &bytes.Buffer{}
	log.Logger = zerolog.New(buf)
	defer func() { log.Logger = orig }()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-123")

	err := Logging()(func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("inside handler")
		return c.String(http.StatusOK, "ok")
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	out := buf.String()
	if strings.Count(out, `"request_id":"rid-123"`) != 2 {
		t.Fatalf("expected handler and access log lines to carry the request id, got %s", out)
	}
	if !strings.Contains(out, `"status":200`) || !strings.Contains(out, `"path":"/healthz"`) {
		t.Fatalf("expected status and path fields, got %s", out)
	}

	// ensure errors are propagated and logged
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-456")
	expected := errors.New("boom")
	err = Logging()(func(c echo.Context) error {
		return expected
	})(c)
	if !strings.Contains(buf.String(), `"request_id":"rid-456"`) || !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("expected second log entry at error level, got %s", buf.String())
	}
	if !errors.Is(err, expected) {
		t.Fatalf("expected error to bubble up")
	}
}

func TestSubmissionRateLimiter(t *testing.T) {
	cfg := config.RateLimitConfig{Requests: 1, Interval: time.Minute}
	mw := SubmissionRateLimiter(cfg)

	e := echo.New()
	nextCalls := 0
	next := func(c echo.Context) error {
		nextCalls++
		return c.NoContent(http.StatusOK)
	}

	send := func(mw echo.MiddlewareFunc, ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/contacts", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		_ = mw(next)(e.NewContext(req, rec))
		return rec.Code
	}

	if code := send(mw, "203.0.113.1"); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := send(mw, "203.0.113.1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected second request rejected, got %d", code)
	}
	// Other clients have their own bucket.
	if code := send(mw, "203.0.113.2"); code != http.StatusOK {
		t.Fatalf("expected other client to pass, got %d", code)
	}

	// zero config should behave as passthrough
	passthrough := SubmissionRateLimiter(config.RateLimitConfig{})
	for i := 0; i < 3; i++ {
		if code := send(passthrough, "203.0.113.1"); code != http.StatusOK {
			t.Fatalf("expected passthrough when limiter disabled, got %d", code)
		}
	}
	if nextCalls != 5 {
		t.Fatalf("expected next handler to be invoked 5 times, got %d", nextCalls)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	mw := RequireRole("admin")

	t.Run("anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		_ = mw(func(c echo.Context) error { return nil })(c)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("missing role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(ContextKeyUserID, "user-1")

		_ = mw(func(c echo.Context) error { return nil })(c)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("incorrect role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(ContextKeyUserID, "user-1")
		c.Set(ContextKeyUserRole, "client")

		_ = mw(func(c echo.Context) error { return nil })(c)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(ContextKeyUserID, "user-1")
		c.Set(ContextKeyUserRole, "admin")

		called := false
		if err := mw(func(c echo.Context) error {
			called = true
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !called {
			t.Fatalf("expected handler to run")
		}
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()
	handler := RequestID()

	t.Run("reuse incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "incoming")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			if RequestIDFromContext(c) != "incoming" {
				t.Fatalf("expected request id to be stored")
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Header().Get("X-Request-ID") != "incoming" {
			t.Fatalf("expected response header to propagate request id")
		}
	})

	t.Run("generate when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			rid := RequestIDFromContext(c)
			if rid == "" {
				t.Fatalf("expected generated request id")
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Header().Get("X-Request-ID") == "" {
			t.Fatalf("expected response header set")
		}
	})

	t.Run("replace malformed header", func(t *testing.T) {
		for _, incoming := range []string{"bad id\r\nx: y", strings.Repeat("a", 65)} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-ID", incoming)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := handler(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := rec.Header().Get("X-Request-ID"); got == incoming || got == "" {
				t.Fatalf("expected a generated request id, got %q", got)
			}
		}
	})
}

func TestVisitorTableStaysWithinCapacity(t *testing.T) {
	now := time.Now()

	t.Run("evicts least recently seen when nothing is idle", func(t *testing.T) {
		table := newVisitorTable(rate.Every(time.Minute), 1, time.Hour, 2)
		table.allow("10.0.0.1", now)
		table.allow("10.0.0.2", now.Add(time.Second))
		table.allow("10.0.0.3", now.Add(2*time.Second))
		if got := table.size(); got != 2 {
			t.Fatalf("expected 2 tracked clients, got %d", got)
		}

		if !table.allow("10.0.0.1", now.Add(3*time.Second)) {
			t.Fatalf("expected evicted client to start with a fresh bucket")
		}
		if table.allow("10.0.0.3", now.Add(4*time.Second)) {
			t.Fatalf("expected recently seen client to keep its spent bucket")
		}
		if got := table.size(); got != 2 {
			t.Fatalf("expected 2 tracked clients, got %d", got)
		}
	})

	t.Run("drops idle clients first", func(t *testing.T) {
		table := newVisitorTable(rate.Every(time.Minute), 1, time.Minute, 2)
		table.allow("10.0.0.1", now)
		table.allow("10.0.0.2", now)
		table.allow("10.0.0.3", now.Add(2*time.Minute))
		if got := table.size(); got != 1 {
			t.Fatalf("expected idle clients to be dropped, got %d tracked", got)
		}
	})

	t.Run("burst of distinct clients", func(t *testing.T) {
		table := newVisitorTable(rate.Every(time.Minute), 1, time.Hour, 50)
		for i := 0; i < 500; i++ {
			table.allow(fmt.Sprintf("10.1.%d.%d", i/256, i%256), now.Add(time.Duration(i)*time.Millisecond))
		}
		if got := table.size(); got != 50 {
			t.Fatalf("expected table capped at 50, got %d", got)
		}
	})
}
