// Package testutil provides test helper functions for unit and integration tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

// LoadTestJSON loads a JSON file from the testdata directory.
// The filename should be relative to the testdata directory.
func LoadTestJSON(t *testing.T, filename string) []byte {
	t.Helper()

	// Get the path to testdata relative to this file
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}

	// Navigate to project root (testutil is in test/testutil)
	projectRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")
	testDataPath := filepath.Join(projectRoot, "test", "testdata", filename)

	data, err := os.ReadFile(testDataPath)
	if err != nil {
		t.Fatalf("Failed to load test file %s: %v", filename, err)
	}
	return data
}

// RouteResponse is a canned reply of a fake search API for one destination.
type RouteResponse struct {
	Status int
	Body   []byte
}

// SearchAPI is a fake flight-search API keyed by the fly_to parameter.
// Destinations without a canned reply get an empty result set.
type SearchAPI struct {
	Server *httptest.Server

	mu        sync.Mutex
	responses map[string]RouteResponse
	requests  []*http.Request
}

// NewSearchAPI starts a fake search API that is closed when the test ends.
func NewSearchAPI(t *testing.T) *SearchAPI {
	t.Helper()

	api := &SearchAPI{responses: make(map[string]RouteResponse)}
	api.Server = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.Server.Close)
	return api
}

// Respond sets the reply for searches to destination.
func (a *SearchAPI) Respond(destination string, status int, body []byte) *SearchAPI {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses[destination] = RouteResponse{Status: status, Body: body}
	return a
}

// URL returns the base URL to configure a client with.
func (a *SearchAPI) URL() string {
	return a.Server.URL
}

// Requests returns a copy of the requests received so far.
func (a *SearchAPI) Requests() []*http.Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*http.Request(nil), a.requests...)
}

func (a *SearchAPI) serve(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.requests = append(a.requests, r.Clone(r.Context()))
	resp, ok := a.responses[r.URL.Query().Get("fly_to")]
	a.mu.Unlock()

	if !ok {
		resp = RouteResponse{Status: http.StatusOK, Body: []byte(`{"currency":"USD","data":[]}`)}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}
