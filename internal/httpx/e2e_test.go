package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"hello-users-api/internal/config"
	"hello-users-api/internal/logx"
)

func newE2EApp(cfg *config.Config) *fiber.App {
	app := NewApp()
	RegisterCommonMiddlewares(app, cfg, nil)
	Register(app)
	return app
}

func readAll(t *testing.T, res *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func TestE2E_Root(t *testing.T) {
	app := newE2EApp(nil)
	for _, target := range []string{"/", "/?q=1&lang=fr"} {
		req := httptest.NewRequest(http.MethodGet, target, strings.NewReader("ignored"))
		req.Header.Set("Accept", "application/json")
		res, err := app.Test(req)
		if err != nil {
			t.Fatalf("request error: %v", err)
		}
		if res.StatusCode != http.StatusOK {
			t.Fatalf("%s: unexpected status: %d", target, res.StatusCode)
		}
		if body := readAll(t, res); body != Greeting {
			t.Fatalf("%s: unexpected body: %q", target, body)
		}
		if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
			t.Fatalf("%s: unexpected content type: %q", target, ct)
		}
	}
}

func TestE2E_CreateUser(t *testing.T) {
	app := newE2EApp(nil)
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(`{"username":"alice"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status: %d", res.StatusCode)
	}
	if body := readAll(t, res); body != `{"id":1337,"username":"alice"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestE2E_CommonHeaders(t *testing.T) {
	app := newE2EApp(nil)
	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if got := res.Header.Get("X-Response-Time"); got == "" {
		t.Fatalf("missing X-Response-Time header")
	}
	if got := res.Header.Get("Server-Timing"); !strings.HasPrefix(got, "app;dur=") {
		t.Fatalf("missing or invalid Server-Timing header: %q", got)
	}
	if got := res.Header.Get(fiber.HeaderXRequestID); len(got) != 36 {
		t.Fatalf("expected uuid request id, got %q", got)
	}
}

func TestE2E_RoutingMisses(t *testing.T) {
	app := newE2EApp(nil)
	cases := []struct {
		method, path string
		status       int
		code         string
	}{
		{http.MethodGet, "/nope", http.StatusNotFound, "E_NOT_FOUND"},
		{http.MethodGet, "/users", http.StatusMethodNotAllowed, "E_METHOD_NOT_ALLOWED"},
		{http.MethodPost, "/", http.StatusMethodNotAllowed, "E_METHOD_NOT_ALLOWED"},
		{http.MethodDelete, "/users", http.StatusMethodNotAllowed, "E_METHOD_NOT_ALLOWED"},
	}
	for _, tc := range cases {
		res, err := app.Test(httptest.NewRequest(tc.method, tc.path, nil))
		if err != nil {
			t.Fatalf("%s %s: %v", tc.method, tc.path, err)
		}
		if res.StatusCode != tc.status {
			t.Fatalf("%s %s: status=%d want %d", tc.method, tc.path, res.StatusCode, tc.status)
		}
		var body map[string]any
		if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
			t.Fatalf("%s %s: decode: %v", tc.method, tc.path, err)
		}
		if body["code"] != tc.code {
			t.Fatalf("%s %s: unexpected body: %v", tc.method, tc.path, body)
		}
		if body["request_id"] == "" {
			t.Fatalf("%s %s: missing request id", tc.method, tc.path)
		}
	}
}

func TestE2E_RateLimit(t *testing.T) {
	cfg := &config.Config{}
	cfg.RateLimit.Max = 1
	cfg.RateLimit.WindowSec = 60
	app := newE2EApp(cfg)

	first, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	second, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if first.StatusCode != http.StatusOK || second.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("statuses=%d,%d", first.StatusCode, second.StatusCode)
	}
}

func TestE2E_PanicIsRecoveredAndLogged(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "access.log")
	logx.Init("info", "text", logx.WithFile(logPath))
	t.Cleanup(func() { logx.Init("info", "text") })

	app := NewApp()
	RegisterCommonMiddlewares(app, nil, nil)
	app.Get("/boom", func(c *fiber.Ctx) error { panic("boom") })

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", res.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["code"] != "E_INTERNAL" {
		t.Fatalf("unexpected body: %v", body)
	}

	_ = logx.Global().Close()
	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var found bool
	for _, line := range strings.Split(strings.TrimSpace(string(b)), "\n") {
		if strings.Contains(line, `"message":"access"`) && strings.Contains(line, `"path":"/boom"`) && strings.Contains(line, `"status":500`) {
			found = true
		}
	}
	if !found {
		t.Fatalf("panic request not access-logged with 500: %s", b)
	}
}

func TestE2E_EchoKeepsHTMLCharacters(t *testing.T) {
	app := newE2EApp(nil)
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(`{"username":"<"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if body := readAll(t, res); body != `{"id":1337,"username":"<"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		0:                                    "0",
		500 * time.Nanosecond:                "500ns",
		1500 * time.Nanosecond:               "1us",
		12 * time.Millisecond:                "12ms",
		time.Second:                          "1s",
		90 * time.Second:                     "1m30s",
		26*time.Hour + 3*time.Minute:         "1d2h",
		time.Hour + 5*time.Millisecond:       "1h5ms",
		2*time.Second + 250*time.Millisecond: "2s250ms",
	}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Fatalf("FormatDuration(%v)=%q want %q", in, got, want)
		}
	}
}
