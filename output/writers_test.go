package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/aluiziolira/go-scrape-scholar/models"
)

func sampleRecords() []*models.PublicationRecord {
	scrapedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	return []*models.PublicationRecord{
		{
			Title:         "Deep Things",
			Authors:       []string{"Jane Doe", "John Smith"},
			Abstract:      "An abstract about deep things.",
			Venue:         "Journal of Things",
			Volume:        "12",
			Pages:         "45-67",
			Publisher:     "Acme Press",
			Year:          2023,
			CitationCount: 142,
			DetailURL:     "https://scholar.google.com/citations?view_op=view_citation&citation_for_view=u:p1",
			ScrapedAt:     scrapedAt,
		},
		{
			Title:         "Shallow Things",
			Authors:       []string{"Jane Doe"},
			Year:          2021,
			CitationCount: 0,
			DetailURL:     "https://scholar.google.com/citations?view_op=view_citation&citation_for_view=u:p2",
			EnrichError:   "fetch https://scholar.google.com/citations?view_op=view_citation&citation_for_view=u:p2: status 500",
			ScrapedAt:     scrapedAt,
		},
	}
}

func TestJSONWriterRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "papers.json")
	writer, err := NewJSONWriter(filename)
	if err != nil {
		t.Fatalf("new json writer: %v", err)
	}

	records := sampleRecords()
	if err := writer.Write(records); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	var parsed []*models.PublicationRecord
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if !reflect.DeepEqual(records, parsed) {
		t.Fatalf("round trip mismatch:\n wrote %+v\n read  %+v", records[0], parsed[0])
	}
}

func TestJSONWriterValidateBeforeWrite(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "papers.json")
	writer, err := NewJSONWriter(filename)
	if err != nil {
		t.Fatalf("new json writer: %v", err)
	}
	if err := writer.Validate(); err == nil {
		t.Fatalf("expected validation failure before any write")
	}
}

func TestCSVWriterValidateBeforeWrite(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "papers.csv")
	writer, err := NewCSVWriter(filename)
	if err != nil {
		t.Fatalf("new csv writer: %v", err)
	}
	defer writer.Close()

	// The header alone leaves the file non-empty, so validation must track
	// record writes rather than file size.
	if err := writer.Validate(); err == nil {
		t.Fatalf("expected validation failure before any write")
	}
	if err := writer.Write(nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writer.Validate(); err == nil {
		t.Fatalf("expected validation failure after an empty write")
	}
}

func TestCSVWriter(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "papers.csv")
	writer, err := NewCSVWriter(filename)
	if err != nil {
		t.Fatalf("new csv writer: %v", err)
	}

	if err := writer.Write(sampleRecords()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(filename)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2 records", len(rows))
	}
	if rows[1][0] != "Deep Things" {
		t.Errorf("first record title = %q", rows[1][0])
	}
	if rows[1][1] != "Jane Doe; John Smith" {
		t.Errorf("first record authors = %q", rows[1][1])
	}
	if rows[2][10] == "" {
		t.Errorf("degraded record should carry its enrich error")
	}
}

func TestDualWriter(t *testing.T) {
	dir := t.TempDir()
	jsonFile := filepath.Join(dir, "papers.json")
	csvFile := filepath.Join(dir, "papers.csv")

	writer, err := NewDualWriter(jsonFile, csvFile)
	if err != nil {
		t.Fatalf("new dual writer: %v", err)
	}
	if err := writer.Write(sampleRecords()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	for _, filename := range []string{jsonFile, csvFile} {
		info, err := os.Stat(filename)
		if err != nil {
			t.Fatalf("stat %s: %v", filename, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s is empty", filename)
		}
	}
}
