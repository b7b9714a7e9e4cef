// Command ingest converts a Kindle highlights export (My Clippings.txt or a
// CSV export) into the quotes.jsonl corpus format.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"mapkeeper/infrastructure/ingest"
	"mapkeeper/pkg/utils"
)

func main() {
	useUUIDs := flag.Bool("uuid", false, "generate UUID quote ids instead of sequential counters")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(1)
	}
	inputPath := flag.Arg(0)
	outputPath := flag.Arg(1)

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	var opts []ingest.Option
	if *useUUIDs {
		opts = append(opts, ingest.WithUUIDs())
	}
	parser := ingest.NewParser(opts...)

	quotes, err := parser.ParseFile(inputPath)
	if err != nil {
		logger.Fatal("Failed to parse highlights", zap.String("input", inputPath), zap.Error(err))
	}
	if len(quotes) == 0 {
		logger.Fatal("No quotes found in input file", zap.String("input", inputPath))
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal("Failed to create output directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		logger.Fatal("Failed to create output file", zap.String("output", outputPath), zap.Error(err))
	}
	defer out.Close()

	if err := ingest.WriteJSONL(out, quotes); err != nil {
		logger.Fatal("Failed to write corpus", zap.String("output", outputPath), zap.Error(err))
	}

	authors := make(map[string]int)
	books := make(map[string]int)
	var earliest, latest time.Time
	for _, q := range quotes {
		authors[q.Author]++
		books[q.BookTitle]++
		if t, err := utils.ParseRFC3339(q.AddedAt); err == nil {
			if earliest.IsZero() || t.Before(earliest) {
				earliest = t
			}
			if t.After(latest) {
				latest = t
			}
		}
	}

	fields := []zap.Field{
		zap.String("output", outputPath),
		zap.Int("quotes", len(quotes)),
		zap.Int("authors", len(authors)),
		zap.Int("books", len(books)),
	}
	if !earliest.IsZero() {
		fields = append(fields,
			zap.String("earliest", earliest.Format("2006-01-02")),
			zap.String("latest", latest.Format("2006-01-02")),
		)
	}
	logger.Info("Corpus written", fields...)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: ingest [flags] <input> <output.jsonl>\n\n")
	fmt.Fprintf(os.Stderr, "Input formats:\n")
	fmt.Fprintf(os.Stderr, "  TXT: standard Kindle \"My Clippings.txt\" export\n")
	fmt.Fprintf(os.Stderr, "  CSV: exports with columns like Highlight, Book Title, Book Author\n\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	flag.PrintDefaults()
}
