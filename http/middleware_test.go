package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTimeoutMiddlewarePassesFastRequests(t *testing.T) {
	handler := TimeoutMiddleware(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("unexpected response: %d %q", w.Code, w.Body.String())
	}
}

func TestTimeoutMiddlewareTimesOutSlowHandler(t *testing.T) {
	release := make(chan struct{})
	handler := TimeoutMiddleware(20*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		// This write lands after the deadline; it must be discarded
		// rather than appended to the timeout response.
		w.Write([]byte("late"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	close(release)
	time.Sleep(20 * time.Millisecond)

	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "request timeout") {
		t.Fatalf("unexpected body: %q", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "late") {
		t.Fatalf("late handler write leaked into the response: %q", w.Body.String())
	}
}

func TestTimeoutMiddlewareKeepsCompletedResponse(t *testing.T) {
	handler := TimeoutMiddleware(20*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("done"))
		time.Sleep(60 * time.Millisecond)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	// The handler responded before the deadline; no 504 may be
	// appended on top of the finished body.
	if w.Code != http.StatusOK || w.Body.String() != "done" {
		t.Fatalf("unexpected response: %d %q", w.Code, w.Body.String())
	}
}
