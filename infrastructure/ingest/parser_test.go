package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleClippings = `The Republic (Plato)
- Your Highlight on page 37 | Location 562-563 | Added on Monday, January 1, 2024 12:00:00 PM

The beginning is the most important part of the work.
==========
Meditations by Marcus Aurelius
- Your Highlight on Location 120-121 | Added on January 2, 2024

You have power over your mind, not outside events.
==========
The Republic (Plato)
- Your Note on page 37 | Location 562 | Added on Monday, January 1, 2024 12:05:00 PM

Note: revisit this chapter
==========
Untitled Fragment
- Your Highlight on Location 12 | Added on someday, who knows

Fragments survive their contexts.
==========
`

func TestParseClippings(t *testing.T) {
	p := NewParser()

	quotes, err := p.ParseClippings(strings.NewReader(sampleClippings))
	require.NoError(t, err)
	require.Len(t, quotes, 3, "bare notes are skipped")

	first := quotes[0]
	assert.Equal(t, "quote_000001", first.ID)
	assert.Equal(t, "The beginning is the most important part of the work.", first.Text)
	assert.Equal(t, "The Republic", first.BookTitle)
	assert.Equal(t, "Plato", first.Author)
	require.NotNil(t, first.Page)
	assert.Equal(t, 37, *first.Page)
	require.NotNil(t, first.Location)
	assert.Equal(t, 562, *first.Location)
	assert.Equal(t, "2024-01-01T12:00:00Z", first.AddedAt)
	assert.Equal(t, "Kindle", first.Source)

	second := quotes[1]
	assert.Equal(t, "quote_000002", second.ID)
	assert.Equal(t, "Meditations", second.BookTitle)
	assert.Equal(t, "Marcus Aurelius", second.Author, "the by-author pattern parses")
	assert.Nil(t, second.Page)
	assert.Equal(t, "2024-01-02T00:00:00Z", second.AddedAt)

	third := quotes[2]
	assert.Equal(t, "Untitled Fragment", third.BookTitle)
	assert.Empty(t, third.Author)
	assert.Equal(t, "someday, who knows", third.AddedAt, "unparseable dates pass through unchanged")
}

func TestParseClippings_SkipsShortSections(t *testing.T) {
	p := NewParser()

	quotes, err := p.ParseClippings(strings.NewReader("The Republic (Plato)\n- Your Highlight\n==========\n"))
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestParseTitleLine(t *testing.T) {
	title, author := parseTitleLine("The Republic (Plato)")
	assert.Equal(t, "The Republic", title)
	assert.Equal(t, "Plato", author)

	title, author = parseTitleLine("Meditations by Marcus Aurelius")
	assert.Equal(t, "Meditations", title)
	assert.Equal(t, "Marcus Aurelius", author)

	title, author = parseTitleLine("Collected Fragments")
	assert.Equal(t, "Collected Fragments", title)
	assert.Empty(t, author)
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2024-01-01T12:00:00Z", normalizeDate("Monday, January 1, 2024 12:00:00 PM"))
	assert.Equal(t, "2024-01-01T00:00:00Z", normalizeDate("1/1/2024"))
	assert.Equal(t, "2024-01-01T12:00:00Z", normalizeDate("2024-01-01 12:00:00"))
	assert.Equal(t, "not a date", normalizeDate("not a date"))
}

func TestParseCSV(t *testing.T) {
	p := NewParser()

	csvData := `Highlight,Book Title,Book Author,Location,Tags,Color,Highlighted At
"The beginning is the most important part of the work.",The Republic,Plato,562,"philosophy; beginnings",yellow,2024-01-01
"",Empty Book,Nobody,1,,,
"You have power over your mind.",Meditations,Marcus Aurelius,Location 120,stoicism,,"January 2, 2024"
`

	quotes, err := p.ParseCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, quotes, 2, "rows without highlight text are skipped")

	first := quotes[0]
	assert.Equal(t, "The Republic", first.BookTitle)
	assert.Equal(t, "Plato", first.Author)
	require.NotNil(t, first.Location)
	assert.Equal(t, 562, *first.Location)
	assert.Equal(t, []string{"philosophy", "beginnings"}, first.Tags)
	assert.Equal(t, "yellow", first.Color)
	assert.Equal(t, "2024-01-01T00:00:00Z", first.AddedAt)

	second := quotes[1]
	require.NotNil(t, second.Location)
	assert.Equal(t, 120, *second.Location, "location extracts the first number from a range")
}

func TestParseCSV_SniffsDelimiter(t *testing.T) {
	p := NewParser()

	quotes, err := p.ParseCSV(strings.NewReader("highlight\tauthor\nknow thyself\tSocrates\n"))
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "Socrates", quotes[0].Author)
}

func TestParser_UUIDs(t *testing.T) {
	p := NewParser(WithUUIDs())

	quotes, err := p.ParseClippings(strings.NewReader(sampleClippings))
	require.NoError(t, err)
	require.NotEmpty(t, quotes)
	assert.NotContains(t, quotes[0].ID, "quote_")
	assert.NotEqual(t, quotes[0].ID, quotes[1].ID)
}

func TestWriteJSONL(t *testing.T) {
	p := NewParser()
	quotes, err := p.ParseClippings(strings.NewReader(sampleClippings))
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, WriteJSONL(&b, quotes))

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	assert.Len(t, lines, len(quotes))
	assert.Contains(t, lines[0], `"id":"quote_000001"`)
	assert.Contains(t, lines[0], `"book_title":"The Republic"`)
}
