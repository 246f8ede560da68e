// Package models defines data structures for the scraper.
package models

import "time"

// ProfileCandidate is one entry from the "User profiles for ..." block on a
// Scholar search page. Consumed once to pick a profile by index.
type ProfileCandidate struct {
	Name    string `json:"name"`
	UserID  string `json:"user_id"`
	Snippet string `json:"snippet,omitempty"`
}

// PublicationStub is the minimal data parsed from one listing-page row.
// CitedBy and Year are kept as raw snippets; parsing happens downstream.
type PublicationStub struct {
	Title     string `json:"title"`
	Authors   string `json:"authors,omitempty"`
	Venue     string `json:"venue,omitempty"`
	CitedBy   string `json:"cited_by,omitempty"`
	Year      string `json:"year,omitempty"`
	DetailURL string `json:"detail_url"`
}

// PublicationRecord is a stub merged with its detail-page fields. A record
// whose detail fetch or parse failed keeps the stub fields and carries the
// failure in EnrichError.
type PublicationRecord struct {
	Title         string    `json:"title"`
	Authors       []string  `json:"authors,omitempty"`
	Abstract      string    `json:"abstract,omitempty"`
	Venue         string    `json:"venue,omitempty"`
	Volume        string    `json:"volume,omitempty"`
	Pages         string    `json:"pages,omitempty"`
	Publisher     string    `json:"publisher,omitempty"`
	Year          int       `json:"year,omitempty"`
	CitationCount int       `json:"citation_count"`
	DetailURL     string    `json:"detail_url"`
	EnrichError   string    `json:"enrich_error,omitempty"`
	ScrapedAt     time.Time `json:"scraped_at"`
}

// Degraded reports whether enrichment failed for this record.
func (r *PublicationRecord) Degraded() bool {
	return r.EnrichError != ""
}

// ScrapeResult holds the overall result of one run.
type ScrapeResult struct {
	Profile       ProfileCandidate
	Records       []*PublicationRecord
	StartTime     time.Time
	EndTime       time.Time
	PageCount     int
	RequestCount  int
	EnrichedCount int
	DegradedCount int
	RetryCount    int
	ErrorsByType  map[string]int
}
