// Package output writes assembled publication records to files.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aluiziolira/go-scrape-scholar/models"
)

// Writer is the interface for record output.
type Writer interface {
	Write(records []*models.PublicationRecord) error
	Close() error
	Validate() error
}

// JSONWriter writes records as a single indented JSON array.
type JSONWriter struct {
	filename string
	mu       sync.Mutex
	written  bool
}

// NewJSONWriter initialises the JSON writer.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}
	return &JSONWriter{filename: filename}, nil
}

// Write serialises all records in one pass. The output is a JSON array of
// record objects in assembler order; empty optional fields are omitted.
func (jw *JSONWriter) Write(records []*models.PublicationRecord) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json records: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(jw.filename, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	jw.written = true
	return nil
}

// Close is a no-op; Write persists the full array at once.
func (jw *JSONWriter) Close() error {
	return nil
}

// Validate ensures the JSON file exists and has data.
func (jw *JSONWriter) Validate() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if !jw.written {
		return fmt.Errorf("no records written")
	}
	info, err := os.Stat(jw.filename)
	if err != nil {
		return fmt.Errorf("stat json file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("json file is empty")
	}
	return nil
}

// CSVWriter writes records to CSV.
type CSVWriter struct {
	file    *os.File
	writer  *csv.Writer
	mu      sync.Mutex
	written bool
}

// NewCSVWriter initialises a CSV writer and writes the header row.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	header := []string{"title", "authors", "abstract", "venue", "volume", "pages", "publisher", "year", "citation_count", "detail_url", "enrich_error", "scraped_at"}
	if err := writer.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVWriter{
		file:   f,
		writer: writer,
	}, nil
}

// Write appends records to the CSV output.
func (cw *CSVWriter) Write(records []*models.PublicationRecord) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	for _, record := range records {
		year := ""
		if record.Year != 0 {
			year = strconv.Itoa(record.Year)
		}
		row := []string{
			record.Title,
			strings.Join(record.Authors, "; "),
			record.Abstract,
			record.Venue,
			record.Volume,
			record.Pages,
			record.Publisher,
			year,
			strconv.Itoa(record.CitationCount),
			record.DetailURL,
			record.EnrichError,
			record.ScrapedAt.Format(time.RFC3339),
		}
		if err := cw.writer.Write(row); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	if len(records) > 0 {
		cw.written = true
	}
	return nil
}

// Close flushes and closes the file handle.
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// Validate ensures the file has content besides the header. The header is
// written at construction, so the size check alone cannot tell an empty run
// from a populated one.
func (cw *CSVWriter) Validate() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if !cw.written {
		return fmt.Errorf("no records written")
	}
	info, err := cw.file.Stat()
	if err != nil {
		return fmt.Errorf("stat csv file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("csv file is empty")
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
