// Package ingest converts Kindle highlight exports into the corpus quote
// format. It understands the standard "My Clippings.txt" layout and CSV
// exports with flexible column naming.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"mapkeeper/domain/quote"
)

// sectionSeparator is the line Kindle writes between clippings.
const sectionSeparator = "=========="

// Parser converts raw highlight exports into quote records. IDs are
// sequential by default so repeated runs over the same file are stable.
type Parser struct {
	counter int
	useUUID bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithUUIDs switches id generation from sequential counters to random UUIDs,
// for merging exports from several devices without collisions.
func WithUUIDs() Option {
	return func(p *Parser) {
		p.useUUID = true
	}
}

// NewParser creates a highlight parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFile parses a highlights file, dispatching on the extension: .csv is
// treated as a CSV export, everything else as a clippings TXT file.
func (p *Parser) ParseFile(path string) ([]quote.Quote, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open highlights file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return p.ParseCSV(f)
	}
	return p.ParseClippings(f)
}

// ParseClippings parses the standard "My Clippings.txt" format: sections
// separated by a ========== line, each holding a title line, a metadata line,
// and the highlight text.
func (p *Parser) ParseClippings(r io.Reader) ([]quote.Quote, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read clippings: %w", err)
	}

	var quotes []quote.Quote
	for _, section := range strings.Split(string(data), sectionSeparator) {
		q, ok := p.parseSection(section)
		if !ok {
			continue
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// parseSection parses one clipping. Sections with fewer than three lines,
// empty highlights, and bare notes are skipped.
func (p *Parser) parseSection(section string) (quote.Quote, bool) {
	var lines []string
	for _, line := range strings.Split(section, "\n") {
		// Kindle exports carry a BOM on the first clipping
		line = strings.TrimSpace(strings.TrimPrefix(line, "\ufeff"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 3 {
		return quote.Quote{}, false
	}

	bookTitle, author := parseTitleLine(lines[0])
	location, page, addedAt := parseMetaLine(lines[1])

	text := strings.TrimSpace(strings.Join(lines[2:], "\n"))
	if text == "" || strings.HasPrefix(text, "Note:") {
		return quote.Quote{}, false
	}

	return quote.Quote{
		ID:        p.nextID(),
		Text:      text,
		Author:    author,
		BookTitle: bookTitle,
		Page:      page,
		Location:  location,
		AddedAt:   addedAt,
		Tags:      []string{},
		Source:    "Kindle",
	}, true
}

var (
	parenTitleRe = regexp.MustCompile(`^(.+?)\s*\(([^)]+)\)$`)
	byTitleRe    = regexp.MustCompile(`(?i)^(.+?)\s+by\s+(.+)$`)
)

// parseTitleLine splits "Book Title (Author)" or "Book Title by Author" into
// its parts. A line matching neither pattern is all title.
func parseTitleLine(line string) (bookTitle, author string) {
	if m := parenTitleRe.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	if m := byTitleRe.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return strings.TrimSpace(line), ""
}

var (
	locationRe = regexp.MustCompile(`Location (\d+)`)
	pageRe     = regexp.MustCompile(`page (\d+)`)
	addedOnRe  = regexp.MustCompile(`Added on (.+)$`)
)

// parseMetaLine extracts location, page, and timestamp from a clipping's
// metadata line.
func parseMetaLine(line string) (location, page *int, addedAt string) {
	if m := locationRe.FindStringSubmatch(line); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			location = &n
		}
	}
	if m := pageRe.FindStringSubmatch(line); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			page = &n
		}
	}
	if m := addedOnRe.FindStringSubmatch(line); m != nil {
		addedAt = normalizeDate(strings.TrimSpace(m[1]))
	}
	return location, page, addedAt
}

var weekdayRe = regexp.MustCompile(`^(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday),?\s*`)

// dateLayouts are the timestamp shapes seen in Kindle exports.
var dateLayouts = []string{
	"January 2, 2006 3:04:05 PM",
	"January 2, 2006",
	"1/2/2006 3:04:05 PM",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// normalizeDate converts a Kindle timestamp to RFC 3339. Unparseable dates
// pass through unchanged rather than being dropped.
func normalizeDate(s string) string {
	cleaned := weekdayRe.ReplaceAllString(s, "")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Format(time.RFC3339)
		}
	}
	return s
}

// nextID returns the id for the next parsed quote.
func (p *Parser) nextID() string {
	if p.useUUID {
		return uuid.NewString()
	}
	p.counter++
	return fmt.Sprintf("quote_%06d", p.counter)
}

// WriteJSONL writes quotes in the corpus line format, one JSON object per
// line.
func WriteJSONL(w io.Writer, quotes []quote.Quote) error {
	enc := json.NewEncoder(w)
	for _, q := range quotes {
		if err := enc.Encode(q); err != nil {
			return fmt.Errorf("encode quote %s: %w", q.ID, err)
		}
	}
	return nil
}
