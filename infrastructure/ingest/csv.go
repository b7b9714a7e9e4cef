package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"mapkeeper/domain/quote"
)

// columnAliases maps each quote field to the header names CSV exports use
// for it, in priority order. Matching is case-insensitive.
var columnAliases = map[string][]string{
	"highlight":      {"highlight", "text", "quote", "content"},
	"book_title":     {"book title", "title", "book", "book_title"},
	"author":         {"book author", "author", "book_author"},
	"location":       {"location"},
	"note":           {"note", "notes"},
	"color":          {"color", "colour"},
	"tags":           {"tags", "tag"},
	"highlighted_at": {"highlighted at", "highlighted_at", "date", "timestamp"},
}

var (
	firstNumberRe = regexp.MustCompile(`(\d+)`)
	tagSplitRe    = regexp.MustCompile(`[,;|]`)
)

// ParseCSV parses a CSV highlights export. The delimiter is sniffed from the
// header line; rows without highlight text are skipped.
func (p *Parser) ParseCSV(r io.Reader) ([]quote.Quote, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = sniffDelimiter(string(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var quotes []quote.Quote
	for _, row := range rows[1:] {
		q, ok := p.parseCSVRow(header, row)
		if !ok {
			continue
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// sniffDelimiter picks the delimiter from the first line, trying comma, tab,
// and semicolon in order.
func sniffDelimiter(content string) rune {
	line := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}
	for _, d := range []rune{',', '\t', ';'} {
		if strings.ContainsRune(line, d) {
			return d
		}
	}
	return ','
}

// parseCSVRow maps one CSV row onto a quote via the column aliases.
func (p *Parser) parseCSVRow(header, row []string) (quote.Quote, bool) {
	values := make(map[string]string, len(header))
	for i, name := range header {
		if i >= len(row) {
			break
		}
		if v := strings.TrimSpace(row[i]); v != "" {
			values[name] = v
		}
	}

	find := func(field string) string {
		for _, name := range columnAliases[field] {
			if v, ok := values[name]; ok {
				return v
			}
		}
		return ""
	}

	text := find("highlight")
	switch strings.ToLower(text) {
	case "", "n/a", "null", "none":
		return quote.Quote{}, false
	}

	var location *int
	if raw := find("location"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			location = &n
		} else if m := firstNumberRe.FindString(raw); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				location = &n
			}
		}
	}

	tags := []string{}
	if raw := find("tags"); raw != "" {
		for _, tag := range tagSplitRe.Split(raw, -1) {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	var addedAt string
	if raw := find("highlighted_at"); raw != "" {
		addedAt = normalizeDate(raw)
	}

	return quote.Quote{
		ID:        p.nextID(),
		Text:      text,
		Author:    find("author"),
		BookTitle: find("book_title"),
		Location:  location,
		AddedAt:   addedAt,
		Tags:      tags,
		Notes:     find("note"),
		Source:    "Kindle",
		Color:     find("color"),
	}, true
}
