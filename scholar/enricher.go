package scholar

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/aluiziolira/go-scrape-scholar/models"
	"github.com/aluiziolira/go-scrape-scholar/parser"
)

// enrichOutcome is the result of one detail-page fetch, keyed by detail URL
// at the collection point.
type enrichOutcome struct {
	detail parser.PaperDetail
	err    error
}

// EnrichAll fetches every stub's detail page across the worker pool and
// returns the assembled records in stub order. Enrichment failure is local: a
// stub whose fetch or parse fails yields a degraded record carrying the stub
// fields and the failure, never an aborted batch.
func (c *Client) EnrichAll(ctx context.Context, stubs []models.PublicationStub) []*models.PublicationRecord {
	if len(stubs) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	outcomes := make(map[string]enrichOutcome, len(stubs))
	var mu sync.Mutex
	record := func(detailURL string, o enrichOutcome) {
		mu.Lock()
		outcomes[detailURL] = o
		mu.Unlock()
	}

	col, err := c.newCollector("detail", c.cfg.NumWorkers, c.cfg.DetailDelay, true)
	if err == nil {
		retry := newRetryTracker(c.cfg.MaxRetries, c.cfg.RetryBackoff, c.cfg.RetryBackoffMax)

		col.OnResponse(func(r *colly.Response) {
			detailURL := r.Request.URL.String()
			doc, err := goqueryDocument(r)
			if err != nil {
				record(detailURL, enrichOutcome{err: err})
				return
			}
			detail, parseErr := parser.DetailFields(doc.Selection)
			record(detailURL, enrichOutcome{detail: detail, err: parseErr})
		})

		col.OnError(func(r *colly.Response, visitErr error) {
			statusCode := 0
			detailURL := ""
			if r != nil {
				statusCode = r.StatusCode
				if r.Request != nil && r.Request.URL != nil {
					detailURL = r.Request.URL.String()
				}
			}
			c.recordError(detailURL, visitErr, statusCode)

			// Retries re-enter the same collector, so the politeness
			// limit still applies to them.
			if wait, ok := retry.next(detailURL); ok && ctx.Err() == nil {
				atomic.AddInt64(&c.retryCount, 1)
				c.Metrics.IncRetries()
				slog.Debug("retrying detail page",
					slog.String("url", detailURL),
					slog.Duration("backoff", wait),
				)
				if sleepCtx(ctx, wait) == nil {
					if err := col.Visit(detailURL); err == nil {
						return
					}
				}
			}
			record(detailURL, enrichOutcome{err: FetchError{URL: detailURL, StatusCode: statusCode, Err: visitErr}})
		})

		for _, stub := range stubs {
			if ctxErr := ctx.Err(); ctxErr != nil {
				record(stub.DetailURL, enrichOutcome{err: ctxErr})
				continue
			}
			if visitErr := col.Visit(stub.DetailURL); visitErr != nil {
				record(stub.DetailURL, enrichOutcome{err: FetchError{URL: stub.DetailURL, Err: visitErr}})
			}
		}
		col.Wait()
	} else {
		for _, stub := range stubs {
			record(stub.DetailURL, enrichOutcome{err: err})
		}
	}

	records := assemble(stubs, outcomes, time.Now())
	for _, rec := range records {
		if rec.Degraded() {
			c.Metrics.IncDegraded()
		} else {
			c.Metrics.IncEnriched()
		}
	}
	return records
}

// sleepCtx waits for d or until ctx is cancelled, returning the context error
// when cancellation cut the wait short.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryTracker caps retry attempts per detail URL with exponential backoff.
type retryTracker struct {
	mu       sync.Mutex
	attempts map[string]int

	max        int
	backoff    time.Duration
	backoffMax time.Duration
}

func newRetryTracker(max int, backoff, backoffMax time.Duration) *retryTracker {
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}
	return &retryTracker{
		attempts:   make(map[string]int),
		max:        max,
		backoff:    backoff,
		backoffMax: backoffMax,
	}
}

// next reports whether another attempt is allowed for url, and the backoff to
// wait before it.
func (t *retryTracker) next(url string) (time.Duration, bool) {
	if t.max == 0 {
		return 0, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	attempt := t.attempts[url]
	if attempt >= t.max {
		return 0, false
	}
	attempt++
	t.attempts[url] = attempt

	delay := t.backoff * time.Duration(1<<(attempt-1))
	if t.backoffMax > 0 && delay > t.backoffMax {
		delay = t.backoffMax
	}
	return delay, true
}
