package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// MockFileServer serves canned files over HTTP for download and catalog tests
type MockFileServer struct {
	Server   *httptest.Server
	mu       sync.Mutex
	files    map[string][]byte
	requests []string
	delay    time.Duration
}

// NewMockFileServer creates a file server that is closed with the test
func NewMockFileServer(t *testing.T) *MockFileServer {
	t.Helper()

	m := &MockFileServer{files: make(map[string][]byte)}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handler))
	t.Cleanup(m.Server.Close)
	return m
}

func (m *MockFileServer) handler(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requests = append(m.requests, r.URL.Path)
	body, ok := m.files[r.URL.Path]
	delay := m.delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// SetFile registers body to be served at path
func (m *MockFileServer) SetFile(path string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	m.files[path] = body
}

// SetDelay makes every response wait d before it is written
func (m *MockFileServer) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// URL returns the absolute URL for path
func (m *MockFileServer) URL(path string) string {
	return m.Server.URL + "/" + strings.TrimPrefix(path, "/")
}

// GetRequestCount returns the number of requests made to a path
func (m *MockFileServer) GetRequestCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	count := 0
	for _, req := range m.requests {
		if req == path {
			count++
		}
	}
	return count
}
