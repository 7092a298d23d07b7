package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/pollstand/testutil"
)

func newTestRouter(t *testing.T) *http.ServeMux {
	t.Helper()
	return NewRouter(testutil.SetupTestDB(t), testutil.GetTestConfig())
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/health", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Body.String() != "OK" {
		t.Errorf("Expected OK body, got %q", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Body.String() != "pollstand API v1" {
		t.Errorf("Unexpected root body: %q", w.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestRouter(t)

	// PATCH is not registered for /polls/{id}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("PATCH", "/polls/some-id", nil, nil))
	testutil.AssertStatus(t, w, http.StatusMethodNotAllowed)
}

func TestPublicListingBeatsWildcard(t *testing.T) {
	mux := newTestRouter(t)

	// /polls/public must route to the listing, not to GetPoll with
	// id="public" (which would 404)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/polls/public", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestUnknownPollRoutesToResults(t *testing.T) {
	mux := newTestRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/polls/does-not-exist", nil, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
