package web

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dcorpo/intel/internal/auth"
	"github.com/dcorpo/intel/internal/brief/publisher"
	"github.com/dcorpo/intel/internal/newsroom"
	"github.com/dcorpo/intel/internal/storage/sqlite"
	"github.com/dcorpo/intel/internal/subscriber"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "intel.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})

	sessions, err := auth.NewService(store, auth.Config{
		SessionKey: []byte(strings.Repeat("k", 32)),
	})
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}

	return Config{
		Briefs:      store,
		Sessions:    sessions,
		Newsroom:    newsroom.NewController(store, nil, publisher.New(store, nil), nil),
		Subscribers: subscriber.NewService(store, nil),
		Location:    time.UTC,
	}
}

func TestNewServerValidation(t *testing.T) {
	if _, err := NewServer(Config{}); err == nil {
		t.Fatal("expected error for empty config")
	}

	server, err := NewServer(testConfig(t))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if server.addr != defaultAddr {
		t.Fatalf("expected default addr, got %q", server.addr)
	}
}

func TestHandlerRouteSurface(t *testing.T) {
	handler := NewHandler(testConfig(t))

	cases := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{name: "home", method: http.MethodGet, path: "/", want: http.StatusOK},
		{name: "archive", method: http.MethodGet, path: "/archive", want: http.StatusOK},
		{name: "health", method: http.MethodGet, path: "/healthz", want: http.StatusOK},
		{name: "stylesheet", method: http.MethodGet, path: "/static/site.css", want: http.StatusOK},
		{name: "admin redirects anonymous", method: http.MethodGet, path: "/admin", want: http.StatusFound},
		{name: "login page", method: http.MethodGet, path: "/admin/login", want: http.StatusOK},
		{name: "unknown path", method: http.MethodGet, path: "/nope", want: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, httptest.NewRequest(tc.method, tc.path, nil))
			if recorder.Code != tc.want {
				t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, recorder.Code)
			}
		})
	}
}

func TestHandlerEchoesRequestID(t *testing.T) {
	handler := NewHandler(testConfig(t))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if recorder.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
}
