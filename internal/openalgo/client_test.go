package openalgo

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"algogrid/internal/grid"
)

func TestPostDecodesSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %s", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"apikey":"k"`) {
			t.Errorf("payload not serialized: %s", body)
		}
		w.Write([]byte(`{"status": "success", "data": {"ltp": 2500}}`))
	}))
	defer srv.Close()

	client := NewClient(time.Second, nil)
	decoded, apiErr := client.Post(context.Background(), srv.URL, map[string]any{"apikey": "k"})
	if apiErr != nil {
		t.Fatalf("unexpected error: %v", apiErr)
	}

	om, ok := decoded.(*grid.OrderedMap)
	if !ok {
		t.Fatalf("expected ordered map, got %T", decoded)
	}
	if status, _ := om.Get("status"); status != "success" {
		t.Fatalf("status = %v", status)
	}
}

func TestPostHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(time.Second, nil)
	_, apiErr := client.Post(context.Background(), srv.URL, map[string]any{"apikey": "k"})
	if apiErr == nil {
		t.Fatal("expected error")
	}
	if apiErr.Kind != ErrorHTTP || apiErr.StatusCode != 401 {
		t.Fatalf("unexpected error classification: %+v", apiErr)
	}
	if apiErr.Message != "HTTP Error 401: Unauthorized" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestPostDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := NewClient(time.Second, nil)
	_, apiErr := client.Post(context.Background(), srv.URL, map[string]any{"apikey": "k"})
	if apiErr == nil || apiErr.Kind != ErrorDecode {
		t.Fatalf("expected decode error, got %+v", apiErr)
	}
	if !strings.HasPrefix(apiErr.Message, "JSON Decode Error: ") {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestPostConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	client := NewClient(time.Second, nil)
	_, apiErr := client.Post(context.Background(), endpoint, map[string]any{"apikey": "k"})
	if apiErr == nil || apiErr.Kind != ErrorTransport {
		t.Fatalf("expected transport error, got %+v", apiErr)
	}
	if !strings.HasPrefix(apiErr.Message, "URL Error: ") {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestPostTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(50*time.Millisecond, nil)
	_, apiErr := client.Post(context.Background(), srv.URL, map[string]any{"apikey": "k"})
	if apiErr == nil || apiErr.Kind != ErrorTransport {
		t.Fatalf("expected transport error, got %+v", apiErr)
	}
	if apiErr.Message != "URL Error: request timed out" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestPostRecordsDebugLog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "success"}`))
	}))
	defer srv.Close()

	debug := NewDebugLog()
	client := NewClient(time.Second, debug)

	if _, ok := debug.LastRequest(); ok {
		t.Fatal("debug log should start empty")
	}

	_, apiErr := client.Post(context.Background(), srv.URL, map[string]any{"apikey": "secret1234", "symbol": "SBIN"})
	if apiErr != nil {
		t.Fatalf("unexpected error: %v", apiErr)
	}

	req, ok := debug.LastRequest()
	if !ok {
		t.Fatal("request not recorded")
	}
	if req.Seq != 1 || req.Endpoint != srv.URL {
		t.Fatalf("unexpected request record: %+v", req)
	}
	if req.Payload["symbol"] != "SBIN" {
		t.Fatalf("payload not copied: %+v", req.Payload)
	}

	resp, ok := debug.LastResponse()
	if !ok {
		t.Fatal("response not recorded")
	}
	if resp.ID != req.ID || resp.StatusCode != 200 || resp.Err != "" {
		t.Fatalf("unexpected response record: %+v", resp)
	}
	if debug.Count() != 1 {
		t.Fatalf("count = %d", debug.Count())
	}
}

func TestAPIErrorIsError(t *testing.T) {
	var err error = &APIError{Kind: ErrorHTTP, StatusCode: 500, Message: "HTTP Error 500: Internal Server Error"}
	if err.Error() != "HTTP Error 500: Internal Server Error" {
		t.Fatalf("Error() = %q", err.Error())
	}
}
