package scholar

import (
	"context"

	"github.com/aluiziolira/go-scrape-scholar/models"
	"github.com/aluiziolira/go-scrape-scholar/parser"
)

// FindProfiles searches Scholar for author profiles matching name. The
// candidates are returned in page order.
func (c *Client) FindProfiles(ctx context.Context, name string) ([]models.ProfileCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	col, err := c.newCollector("search", 1, c.cfg.Delay, false)
	if err != nil {
		return nil, err
	}

	doc, err := newPageFetcher(col).fetch(c.searchURL(name))
	if err != nil {
		return nil, err
	}

	return parser.ProfileCandidates(doc.Selection, c.baseURL), nil
}

// SelectProfile picks one candidate by index. An empty candidate list yields
// ErrNoProfileFound; an index outside the list yields InvalidProfileIndexError
// rather than silently falling back to the first candidate.
func SelectProfile(candidates []models.ProfileCandidate, index int) (models.ProfileCandidate, error) {
	if len(candidates) == 0 {
		return models.ProfileCandidate{}, ErrNoProfileFound
	}
	if index < 0 || index >= len(candidates) {
		return models.ProfileCandidate{}, InvalidProfileIndexError{Index: index, Count: len(candidates)}
	}
	return candidates[index], nil
}
