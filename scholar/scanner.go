package scholar

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aluiziolira/go-scrape-scholar/models"
	"github.com/aluiziolira/go-scrape-scholar/parser"
)

// seenCacheSize bounds the detail-link dedupe cache. Profiles rarely exceed
// a few thousand publications.
const seenCacheSize = 4096

// ScanPublications walks the paginated publication listing of one profile and
// returns the stubs kept by the limit policy, in listing order. Listing pages
// are fetched sequentially; the politeness delay between them comes from the
// collector's limit rule. A listing fetch failure is fatal for the run.
func (c *Client) ScanPublications(ctx context.Context, userID string) ([]models.PublicationStub, error) {
	col, err := c.newCollector("listing", 1, c.cfg.Delay, false)
	if err != nil {
		return nil, err
	}
	fetcher := newPageFetcher(col)

	seen, err := lru.New[string, struct{}](seenCacheSize)
	if err != nil {
		return nil, fmt.Errorf("init seen cache: %w", err)
	}

	var stubs []models.PublicationStub
	start := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, err := fetcher.fetch(c.listingURL(userID, start))
		if err != nil {
			return nil, err
		}
		atomic.AddInt64(&c.pageCount, 1)

		rows, rawRows := parser.ListingRows(doc.Selection, c.baseURL)
		if rawRows == 0 {
			break
		}

		stop := false
		for _, row := range rows {
			// Offset pagination can repeat a row when the profile
			// changes between page fetches.
			if _, dup := seen.Get(row.DetailURL); dup {
				continue
			}
			seen.Add(row.DetailURL, struct{}{})

			switch Decide(row.Year, c.cfg.YearLimit, len(stubs), c.cfg.MaxPapers) {
			case StopBefore:
				slog.Info("year cutoff reached",
					slog.String("title", row.Title),
					slog.String("year", row.Year),
					slog.Int("year_limit", c.cfg.YearLimit),
				)
				stop = true
			case StopAfter:
				stubs = append(stubs, row)
				c.Metrics.AddStubs(1)
				stop = true
			default:
				stubs = append(stubs, row)
				c.Metrics.AddStubs(1)
			}
			if stop {
				break
			}
		}
		if stop {
			break
		}

		// A short page means the listing is exhausted. The raw row count
		// drives both checks: the site paginates over every row it
		// served, including ones we could not parse.
		if rawRows < c.cfg.PageSize {
			break
		}
		start += rawRows
	}

	return stubs, nil
}
