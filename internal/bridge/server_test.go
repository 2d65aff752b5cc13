package bridge

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"algogrid/config"
	"algogrid/internal/functions"
	"algogrid/internal/openalgo"
)

func TestNormalizeAddress(t *testing.T) {
	cases := map[string]string{
		"":               "127.0.0.1:8800",
		":9000":          "127.0.0.1:9000",
		"0.0.0.0:8800":   "0.0.0.0:8800",
		"localhost:8800": "localhost:8800",
	}

	for input, want := range cases {
		if got := normalizeAddress(input); got != want {
			t.Fatalf("normalizeAddress(%q) = %q, want %q", input, got, want)
		}
	}
}

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	store := openalgo.NewStore(openalgo.Settings{})
	svc := functions.NewService(store, openalgo.NewClient(time.Second, nil))

	srv := NewServer(config.ServerConfig{
		Address: ":9000",
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond: 100,
			BurstSize:         100,
		},
	}, svc)

	router, err := srv.buildRouter()
	if err != nil {
		t.Fatalf("buildRouter returned error: %v", err)
	}
	return srv, router
}

func callFn(t *testing.T, router http.Handler, name string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(http.MethodPost, "/fn/"+name, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeGrid(t *testing.T, w *httptest.ResponseRecorder) [][]string {
	t.Helper()
	var resp struct {
		Grid [][]string `json:"grid"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return resp.Grid
}

func TestHealthz(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestUnknownFunction(t *testing.T) {
	_, router := newTestServer(t)

	w := callFn(t, router, "does_not_exist", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestDispatchSetAPIAndStatus(t *testing.T) {
	_, router := newTestServer(t)

	w := callFn(t, router, "set_api", `{"args": ["secret-key-1", "v1", "http://127.0.0.1:5000"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	g := decodeGrid(t, w)
	if !strings.HasPrefix(g[0][0], "Configuration updated") {
		t.Fatalf("grid = %v", g)
	}

	w = callFn(t, router, "status", "")
	g = decodeGrid(t, w)
	if g[0][0] != "API Key" || g[0][1] != "Set" {
		t.Fatalf("status grid = %v", g)
	}
}

func TestDispatchReturnsErrorGridWithoutKey(t *testing.T) {
	_, router := newTestServer(t)

	w := callFn(t, router, "funds", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, error grids travel as 200", w.Code)
	}
	g := decodeGrid(t, w)
	if len(g) != 1 || !strings.Contains(g[0][0], "API Key is not set") {
		t.Fatalf("grid = %v", g)
	}
}

func TestDispatchRejectsBadBody(t *testing.T) {
	_, router := newTestServer(t)

	w := callFn(t, router, "quotes", `{"args": "not-a-list"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	store := openalgo.NewStore(openalgo.Settings{})
	svc := functions.NewService(store, openalgo.NewClient(time.Second, nil))
	srv := NewServer(config.ServerConfig{
		Address: ":9000",
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond: 1,
			BurstSize:         2,
		},
	}, svc)
	router, err := srv.buildRouter()
	if err != nil {
		t.Fatalf("buildRouter returned error: %v", err)
	}

	var last int
	for i := 0; i < 5; i++ {
		w := callFn(t, router, "get_config", "")
		last = w.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("status after burst = %d, want 429", last)
	}
}

func TestServerDefaults(t *testing.T) {
	store := openalgo.NewStore(openalgo.Settings{})
	svc := functions.NewService(store, openalgo.NewClient(time.Second, nil))

	srv := NewServer(config.ServerConfig{}, svc)
	if srv.Address() != "127.0.0.1:8800" {
		t.Fatalf("address = %q", srv.Address())
	}
	if srv.cfg.RateLimit.RequestsPerSecond != 10 || srv.cfg.RateLimit.BurstSize != 20 {
		t.Fatalf("rate limit defaults = %+v", srv.cfg.RateLimit)
	}
}
