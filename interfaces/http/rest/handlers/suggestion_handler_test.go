package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mapkeeper/application/suggest"
	"mapkeeper/domain/quote"
)

// memStore is an in-memory ports.QuoteStore double for handler tests
type memStore struct {
	quotes    []quote.Quote
	neighbors map[string][]string
}

func (s *memStore) Get(id string) (quote.Quote, bool) {
	for _, q := range s.quotes {
		if q.ID == id {
			return q, true
		}
	}
	return quote.Quote{}, false
}

func (s *memStore) All() []quote.Quote { return s.quotes }

func (s *memStore) Neighbors(id string) []string { return s.neighbors[id] }

func (s *memStore) Random() (quote.Quote, bool) {
	if len(s.quotes) == 0 {
		return quote.Quote{}, false
	}
	return s.quotes[0], true
}

func (s *memStore) Len() int { return len(s.quotes) }

func testStore() *memStore {
	return &memStore{
		quotes: []quote.Quote{
			{ID: "q1", Text: "the unexamined life is not worth living", Author: "Socrates"},
			{ID: "q2", Text: "know thyself", Author: "Socrates"},
			{ID: "q3", Text: "wisdom begins in wonder", Author: "Socrates"},
		},
		neighbors: map[string][]string{
			"q1": {"q2", "q3"},
		},
	}
}

func zeroJitter() float64 { return 0 }

func newSuggestionHandler(store *memStore) *SuggestionHandler {
	svc := suggest.NewService(store, suggest.NewRanker(zeroJitter), 20, zap.NewNop())
	return NewSuggestionHandler(svc, zap.NewNop())
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestSuggest_WithSeed(t *testing.T) {
	h := newSuggestionHandler(testStore())

	rec := postJSON(t, h.Suggest, `{"seed_id":"q1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SuggestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "q1", resp.Seed.ID)
	require.Len(t, resp.Suggestions, 2)
	assert.Equal(t, "q2", resp.Suggestions[0].ID, "closest neighbor ranks first")
	assert.Empty(t, resp.Message)
}

func TestSuggest_EmptyBodyPicksRandomSeed(t *testing.T) {
	h := newSuggestionHandler(testStore())

	rec := postJSON(t, h.Suggest, ``)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SuggestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Seed.ID)
}

func TestSuggest_UnknownSeedIsNotFound(t *testing.T) {
	h := newSuggestionHandler(testStore())

	rec := postJSON(t, h.Suggest, `{"seed_id":"nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSuggest_ExhaustedReturnsEmptyListWithMessage(t *testing.T) {
	h := newSuggestionHandler(testStore())

	rec := postJSON(t, h.Suggest, `{"seed_id":"q1","recent_ids":["q2","q3"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SuggestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Suggestions)
	assert.Equal(t, "no suggestions available", resp.Message)
	assert.Contains(t, rec.Body.String(), `"suggestions":[]`, "exhaustion serializes as an empty list, not null")
}

func TestSuggest_EmptyCorpusIsNotFound(t *testing.T) {
	h := newSuggestionHandler(&memStore{})

	rec := postJSON(t, h.Suggest, `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSuggest_MalformedBody(t *testing.T) {
	h := newSuggestionHandler(testStore())

	rec := postJSON(t, h.Suggest, `{"seed_id":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
