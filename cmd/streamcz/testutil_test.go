package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mockServer builds an httptest.Server standing in for streamczd. Every
// Expect* call adds a check run against each incoming request before the
// response handler.
type mockServer struct {
	t       *testing.T
	checks  []func(r *http.Request)
	handler http.HandlerFunc
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	return &mockServer{t: t}
}

func (m *mockServer) check(fn func(r *http.Request)) *mockServer {
	m.checks = append(m.checks, fn)
	return m
}

func (m *mockServer) ExpectPath(path string) *mockServer {
	return m.check(func(r *http.Request) {
		assert.Equal(m.t, path, r.URL.Path, "unexpected request path")
	})
}

func (m *mockServer) ExpectMethod(method string) *mockServer {
	return m.check(func(r *http.Request) {
		assert.Equal(m.t, method, r.Method, "unexpected request method")
	})
}

func (m *mockServer) ExpectGET() *mockServer { return m.ExpectMethod(http.MethodGet) }
func (m *mockServer) ExpectPOST() *mockServer { return m.ExpectMethod(http.MethodPost) }
func (m *mockServer) ExpectPATCH() *mockServer { return m.ExpectMethod(http.MethodPatch) }

// ExpectQuery checks a query parameter; "" expects it absent or empty.
func (m *mockServer) ExpectQuery(key, value string) *mockServer {
	return m.check(func(r *http.Request) {
		assert.Equal(m.t, value, r.URL.Query().Get(key), "unexpected query parameter %s", key)
	})
}

// CaptureBody decodes the JSON request body into v.
func (m *mockServer) CaptureBody(v any) *mockServer {
	return m.check(func(r *http.Request) {
		assert.Equal(m.t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(m.t, json.NewDecoder(r.Body).Decode(v), "decode request body")
	})
}

func (m *mockServer) Handler(h func(w http.ResponseWriter, r *http.Request)) *mockServer {
	m.handler = h
	return m
}

func (m *mockServer) RespondJSON(v any) *mockServer {
	return m.Handler(func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(m.t, w, v)
	})
}

// RespondError answers with code and a raw body, the way the API reports
// failures.
func (m *mockServer) RespondError(code int, body string) *mockServer {
	return m.Handler(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	})
}

// Build starts the server. Close it with defer srv.Close().
func (m *mockServer) Build() *httptest.Server {
	m.t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, check := range m.checks {
			check(r)
		}
		if m.handler != nil {
			m.handler(w, r)
		}
	}))
}

func respondJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON response: %v", err)
	}
}

// withServerURL points the CLI at url until the returned func runs.
func withServerURL(url string) func() {
	old := serverURL
	serverURL = url
	return func() { serverURL = old }
}
