package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mapkeeper/domain/quote"
)

func TestNew_ValidatesRecords(t *testing.T) {
	_, err := New([]quote.Quote{{ID: "q1"}}, nil)
	assert.Error(t, err, "empty text should invalidate the snapshot")

	_, err = New([]quote.Quote{
		{ID: "q1", Text: "a"},
		{ID: "q1", Text: "b"},
	}, nil)
	assert.Error(t, err, "duplicate ids should invalidate the snapshot")
}

func TestStore_Lookups(t *testing.T) {
	s, err := New([]quote.Quote{
		{ID: "q1", Text: "first"},
		{ID: "q2", Text: "second"},
	}, map[string][]string{"q1": {"q2", "q-gone"}})
	require.NoError(t, err)

	q, ok := s.Get("q1")
	assert.True(t, ok)
	assert.Equal(t, "first", q.Text)

	_, ok = s.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"q2", "q-gone"}, s.Neighbors("q1"))
	assert.Empty(t, s.Neighbors("q2"))
	assert.Equal(t, 2, s.Len())

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "q1", all[0].ID)
	assert.Equal(t, "q2", all[1].ID)

	r, ok := s.Random()
	assert.True(t, ok)
	assert.Contains(t, []string{"q1", "q2"}, r.ID)
}

func TestLoad_FromFiles(t *testing.T) {
	dir := t.TempDir()
	quotesPath := filepath.Join(dir, "quotes.jsonl")
	neighborsPath := filepath.Join(dir, "neighbors.json")

	quotesJSONL := `{"id":"q1","text":"the unexamined life is not worth living","author":"Socrates","tags":[]}
{"id":"q2","text":"know thyself","author":"Socrates","tags":["delphi"]}
`
	require.NoError(t, os.WriteFile(quotesPath, []byte(quotesJSONL), 0o644))
	require.NoError(t, os.WriteFile(neighborsPath, []byte(`{"q1":["q2"]}`), 0o644))

	s := Load(quotesPath, neighborsPath, zap.NewNop())
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"q2"}, s.Neighbors("q1"))

	q, ok := s.Get("q2")
	assert.True(t, ok)
	assert.Equal(t, []string{"delphi"}, q.Tags)
}

func TestLoad_CorpusFailureLeavesStoreEmpty(t *testing.T) {
	dir := t.TempDir()
	quotesPath := filepath.Join(dir, "quotes.jsonl")

	// Second line is malformed: the whole snapshot is rejected, not truncated.
	bad := `{"id":"q1","text":"fine"}
{not json}
`
	require.NoError(t, os.WriteFile(quotesPath, []byte(bad), 0o644))

	s := Load(quotesPath, filepath.Join(dir, "neighbors.json"), zap.NewNop())
	assert.Zero(t, s.Len())

	_, ok := s.Random()
	assert.False(t, ok)
}

func TestLoad_MissingNeighborsIsAdvisory(t *testing.T) {
	dir := t.TempDir()
	quotesPath := filepath.Join(dir, "quotes.jsonl")
	require.NoError(t, os.WriteFile(quotesPath, []byte(`{"id":"q1","text":"fine"}`+"\n"), 0o644))

	s := Load(quotesPath, filepath.Join(dir, "does-not-exist.json"), zap.NewNop())
	assert.Equal(t, 1, s.Len())
	assert.Empty(t, s.Neighbors("q1"))
}
