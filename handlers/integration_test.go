package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/pollstand/models"
	"github.com/danielhkuo/pollstand/testutil"
)

// TestPollLifecycle drives a poll through its whole life over HTTP:
// create, appear in listings, collect votes, get edited, get deleted.
func TestPollLifecycle(t *testing.T) {
	h, cfg, _ := setupServer(t)

	// Create
	body := validPollBody()
	body.Description = "Pick one"
	pollID := createPoll(t, h, cfg, "creator-1", body)

	// Visible in the public listing
	w := httptest.NewRecorder()
	h.ServeHTTP(w, testutil.MakeRequest("GET", "/polls/public", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var listing models.ListPollsResponse
	testutil.AssertJSON(t, w, &listing)
	if len(listing.Polls) != 1 || listing.Polls[0].ID != pollID {
		t.Fatalf("Poll missing from public listing: %+v", listing.Polls)
	}

	// Fetch to learn the option ids
	w = httptest.NewRecorder()
	h.ServeHTTP(w, testutil.MakeRequest("GET", "/polls/"+pollID, nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var detail models.PollResponse
	testutil.AssertJSON(t, w, &detail)
	if detail.Description != "Pick one" || len(detail.Options) != 2 {
		t.Fatalf("Unexpected detail: %+v", detail)
	}

	// Two voters: one anonymous, one authenticated
	w = httptest.NewRecorder()
	h.ServeHTTP(w, testutil.MakeRequest("POST", "/polls/"+pollID+"/votes",
		models.CastVoteRequest{OptionID: detail.Options[0].ID, Fingerprint: "fp-1"}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, testutil.MakeRequest("POST", "/polls/"+pollID+"/votes",
		models.CastVoteRequest{OptionID: detail.Options[1].ID}, authHeaders(cfg, "voter-1")))
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Results reflect both votes
	w = httptest.NewRecorder()
	h.ServeHTTP(w, testutil.MakeRequest("GET", "/polls/"+pollID, nil, nil))
	testutil.AssertJSON(t, w, &detail)
	if detail.VoteCount != 2 {
		t.Errorf("Expected 2 votes, got %d", detail.VoteCount)
	}
	for _, o := range detail.Options {
		if o.VoteCount != 1 || o.Percent != 50.0 {
			t.Errorf("Expected an even split, got %+v", o)
		}
	}

	// Creator pauses the poll; further votes are refused
	update := validPollBody()
	update.IsActive = false
	update.Options = []models.OptionSpecRequest{
		{ID: detail.Options[0].ID, Text: detail.Options[0].Text},
		{ID: detail.Options[1].ID, Text: detail.Options[1].Text},
	}
	w = httptest.NewRecorder()
	h.ServeHTTP(w, testutil.MakeRequest("PUT", "/polls/"+pollID, update, authHeaders(cfg, "creator-1")))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, testutil.MakeRequest("POST", "/polls/"+pollID+"/votes",
		models.CastVoteRequest{OptionID: detail.Options[0].ID, Fingerprint: "fp-late"}, nil))
	testutil.AssertStatus(t, w, http.StatusConflict)

	// Vote counts on kept options survived the edit
	w = httptest.NewRecorder()
	h.ServeHTTP(w, testutil.MakeRequest("GET", "/polls/"+pollID, nil, nil))
	testutil.AssertJSON(t, w, &detail)
	if detail.VoteCount != 2 {
		t.Errorf("Edit must not change vote counts, got %d", detail.VoteCount)
	}

	// Delete, then every read is a 404
	w = httptest.NewRecorder()
	h.ServeHTTP(w, testutil.MakeRequest("DELETE", "/polls/"+pollID, nil, authHeaders(cfg, "creator-1")))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, testutil.MakeRequest("GET", "/polls/"+pollID, nil, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, testutil.MakeRequest("GET", "/polls/public", nil, nil))
	testutil.AssertJSON(t, w, &listing)
	if len(listing.Polls) != 0 {
		t.Errorf("Deleted poll still listed: %+v", listing.Polls)
	}
}
