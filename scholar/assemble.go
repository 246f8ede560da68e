package scholar

import (
	"time"

	"github.com/aluiziolira/go-scrape-scholar/models"
	"github.com/aluiziolira/go-scrape-scholar/parser"
)

// assemble joins stub order with enrichment outcomes, matched by detail-link
// identity. The returned sequence preserves the scanner's order regardless of
// the order in which enrichment completed.
func assemble(stubs []models.PublicationStub, outcomes map[string]enrichOutcome, scrapedAt time.Time) []*models.PublicationRecord {
	records := make([]*models.PublicationRecord, 0, len(stubs))
	for _, stub := range stubs {
		record := recordFromStub(stub, scrapedAt)
		outcome, ok := outcomes[stub.DetailURL]
		switch {
		case !ok:
			record.EnrichError = "detail page was not fetched"
		case outcome.err != nil:
			record.EnrichError = outcome.err.Error()
		default:
			applyDetail(record, outcome.detail)
		}
		records = append(records, record)
	}
	return records
}

func recordFromStub(stub models.PublicationStub, scrapedAt time.Time) *models.PublicationRecord {
	record := &models.PublicationRecord{
		Title:         stub.Title,
		Venue:         stub.Venue,
		CitationCount: parser.ParseCount(stub.CitedBy),
		DetailURL:     stub.DetailURL,
		ScrapedAt:     scrapedAt,
	}
	if stub.Authors != "" {
		record.Authors = parser.SplitAuthors(stub.Authors)
	}
	if year, ok := parser.ParseYear(stub.Year); ok {
		record.Year = year
	}
	return record
}

// applyDetail overlays detail-page fields onto a stub-seeded record. Detail
// values win when present; the listing truncates author lists and venue names.
func applyDetail(record *models.PublicationRecord, detail parser.PaperDetail) {
	if len(detail.Authors) > 0 {
		record.Authors = detail.Authors
	}
	// The year cutoff was already applied to listing snippets at scan time
	// and is not re-checked here. A detail date that disagrees with the
	// listing snippet replaces it, even if it falls below the cutoff.
	if detail.Year != 0 {
		record.Year = detail.Year
	}
	if detail.Venue != "" {
		record.Venue = detail.Venue
	}
	if detail.Volume != "" {
		record.Volume = detail.Volume
	}
	if detail.Pages != "" {
		record.Pages = detail.Pages
	}
	if detail.Publisher != "" {
		record.Publisher = detail.Publisher
	}
	if detail.Abstract != "" {
		record.Abstract = detail.Abstract
	}
	if detail.CitationCount > record.CitationCount {
		record.CitationCount = detail.CitationCount
	}
}
