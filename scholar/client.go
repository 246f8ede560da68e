// Package scholar implements the Google Scholar profile scraping pipeline:
// profile search, paginated publication listing, and parallel detail-page
// enrichment.
package scholar

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/aluiziolira/go-scrape-scholar/config"
	"github.com/aluiziolira/go-scrape-scholar/models"
)

// Client runs the scraping pipeline against one Scholar instance.
type Client struct {
	cfg       *config.Config
	baseURL   *url.URL
	transport http.RoundTripper
	Metrics   *Metrics

	requestCount int64
	pageCount    int64
	retryCount   int64

	mu           sync.Mutex
	errorsByType map[string]int
}

// NewClient builds a client configured from cfg.
func NewClient(cfg *config.Config) (*Client, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	return &Client{
		cfg:     cfg,
		baseURL: parsed,
		transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   cfg.Timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		Metrics:      NewMetrics(),
		errorsByType: make(map[string]int),
	}, nil
}

// WithTransport replaces the HTTP transport used by all collectors. Intended
// for tests.
func (c *Client) WithTransport(rt http.RoundTripper) {
	c.transport = rt
}

// Run executes the full pipeline for one author name.
func (c *Client) Run(ctx context.Context, author string) (*models.ScrapeResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	candidates, err := c.FindProfiles(ctx, author)
	if err != nil {
		return nil, err
	}
	profile, err := SelectProfile(candidates, c.cfg.ProfileIndex)
	if err != nil {
		return nil, err
	}
	slog.Info("profile selected",
		slog.String("name", profile.Name),
		slog.String("user_id", profile.UserID),
		slog.Int("candidates", len(candidates)),
	)

	stubs, err := c.ScanPublications(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}
	slog.Info("listing scan complete",
		slog.Int("stubs", len(stubs)),
		slog.Int64("pages", atomic.LoadInt64(&c.pageCount)),
	)

	records := c.EnrichAll(ctx, stubs)

	result := &models.ScrapeResult{
		Profile:      profile,
		Records:      records,
		StartTime:    start,
		EndTime:      time.Now(),
		PageCount:    int(atomic.LoadInt64(&c.pageCount)),
		RequestCount: int(atomic.LoadInt64(&c.requestCount)),
		RetryCount:   int(atomic.LoadInt64(&c.retryCount)),
		ErrorsByType: c.snapshotErrors(),
	}
	for _, record := range records {
		if record.Degraded() {
			result.DegradedCount++
		} else {
			result.EnrichedCount++
		}
	}
	return result, nil
}

// newCollector builds a collector for one pipeline phase. Listing and search
// pages run sequentially (parallelism 1, politeness delay); detail pages run
// on the async worker pool.
func (c *Client) newCollector(phase string, parallelism int, delay time.Duration, async bool) (*colly.Collector, error) {
	col := colly.NewCollector(
		colly.UserAgent(c.cfg.UserAgent),
		colly.AllowedDomains(c.baseURL.Host),
	)
	col.Async = async
	col.AllowURLRevisit = true
	col.IgnoreRobotsTxt = true
	col.SetRequestTimeout(c.cfg.Timeout)
	col.WithTransport(c.transport)

	if parallelism < 1 {
		parallelism = 1
	}
	if err := col.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: parallelism,
		Delay:       delay,
		RandomDelay: c.cfg.RandomDelay,
	}); err != nil {
		return nil, fmt.Errorf("configure rate limits: %w", err)
	}

	col.OnRequest(func(r *colly.Request) {
		r.Ctx.Put("start", time.Now())
		atomic.AddInt64(&c.requestCount, 1)
		c.Metrics.IncRequest(phase)
	})
	col.OnResponse(func(r *colly.Response) {
		if start, ok := r.Request.Ctx.GetAny("start").(time.Time); ok {
			c.Metrics.ObserveDuration(time.Since(start))
		}
	})

	return col, nil
}

// recordError accounts one failed request under its error category.
func (c *Client) recordError(pageURL string, err error, statusCode int) {
	label := errorTypeLabel(err, statusCode)
	c.mu.Lock()
	c.errorsByType[label]++
	c.mu.Unlock()
	c.Metrics.IncError(label)
	slog.Error("request error",
		slog.String("url", pageURL),
		slog.String("category", label),
		slog.Any("error", err),
	)
}

func (c *Client) snapshotErrors() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.errorsByType))
	for k, v := range c.errorsByType {
		out[k] = v
	}
	return out
}

// pageFetcher serializes document fetches over one synchronous collector,
// capturing the parsed page or failure of the most recent visit.
type pageFetcher struct {
	col *colly.Collector

	doc *goquery.Document
	err error
}

func newPageFetcher(col *colly.Collector) *pageFetcher {
	f := &pageFetcher{col: col}
	col.OnResponse(func(r *colly.Response) {
		doc, err := goqueryDocument(r)
		if err != nil {
			f.err = err
			return
		}
		f.doc = doc
	})
	col.OnError(func(r *colly.Response, err error) {
		statusCode := 0
		pageURL := ""
		if r != nil {
			statusCode = r.StatusCode
			if r.Request != nil && r.Request.URL != nil {
				pageURL = r.Request.URL.String()
			}
		}
		f.err = FetchError{URL: pageURL, StatusCode: statusCode, Err: err}
	})
	return f
}

// fetch retrieves and parses one page. The collector must be synchronous.
func (f *pageFetcher) fetch(pageURL string) (*goquery.Document, error) {
	f.doc, f.err = nil, nil

	visitErr := f.col.Visit(pageURL)
	if f.err != nil {
		return nil, f.err
	}
	if visitErr != nil {
		return nil, FetchError{URL: pageURL, Err: visitErr}
	}
	if f.doc == nil {
		return nil, FetchError{URL: pageURL, Err: fmt.Errorf("no response received")}
	}
	return f.doc, nil
}

func goqueryDocument(r *colly.Response) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
	if err != nil {
		return nil, fmt.Errorf("parse response body: %w", err)
	}
	return doc, nil
}

func (c *Client) searchURL(author string) string {
	q := url.Values{}
	q.Set("hl", "en")
	q.Set("as_sdt", "0,5")
	q.Set("q", author)
	q.Set("btnG", "")
	return c.baseURL.String() + "/scholar?" + q.Encode()
}

func (c *Client) listingURL(userID string, start int) string {
	q := url.Values{}
	q.Set("user", userID)
	q.Set("hl", "en")
	q.Set("view_op", "list_works")
	q.Set("sortby", "pubdate")
	q.Set("cstart", strconv.Itoa(start))
	q.Set("pagesize", strconv.Itoa(c.cfg.PageSize))
	return c.baseURL.String() + "/citations?" + q.Encode()
}
