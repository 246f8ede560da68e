package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds scraper configuration.
type Config struct {
	BaseURL      string
	AuthorName   string
	ProfileIndex int
	MaxPapers    int
	YearLimit    int // 0 disables the year cutoff
	PageSize     int
	NumWorkers   int

	Delay       time.Duration // between listing-page requests
	DetailDelay time.Duration // between detail-page requests per worker slot
	RandomDelay time.Duration
	Timeout     time.Duration

	MaxRetries      int
	RetryBackoff    time.Duration
	RetryBackoffMax time.Duration

	OutputFile   string
	OutputFormat string // json, csv, or dual
	UserAgent    string
	MetricsAddr  string
	Verbose      bool
}

// DefaultConfig returns conservative defaults for scraping Scholar politely.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "https://scholar.google.com",
		ProfileIndex:    0,
		MaxPapers:       20,
		YearLimit:       0,
		PageSize:        100,
		NumWorkers:      4,
		Delay:           time.Second,
		DetailDelay:     500 * time.Millisecond,
		RandomDelay:     0,
		Timeout:         15 * time.Second,
		MaxRetries:      0,
		RetryBackoff:    200 * time.Millisecond,
		RetryBackoffMax: 2 * time.Second,
		OutputFile:      "",
		OutputFormat:    "json",
		UserAgent:       "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		MetricsAddr:     "",
		Verbose:         false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.ProfileIndex < 0 {
		return fmt.Errorf("profile index cannot be negative")
	}
	if c.MaxPapers <= 0 {
		return fmt.Errorf("max papers must be positive")
	}
	if c.YearLimit < 0 {
		return fmt.Errorf("year limit cannot be negative")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive")
	}
	if c.NumWorkers <= 0 {
		return fmt.Errorf("num workers must be positive")
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	if c.DetailDelay < 0 {
		return fmt.Errorf("detail delay cannot be negative")
	}
	if c.RandomDelay < 0 {
		return fmt.Errorf("random delay cannot be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry backoff cannot be negative")
	}
	if c.RetryBackoffMax < 0 {
		return fmt.Errorf("retry backoff max cannot be negative")
	}
	if c.RetryBackoffMax > 0 && c.RetryBackoff > c.RetryBackoffMax {
		return fmt.Errorf("retry backoff (%s) cannot exceed retry backoff max (%s)", c.RetryBackoff, c.RetryBackoffMax)
	}
	if c.OutputFormat != "json" && c.OutputFormat != "csv" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be json, csv, or dual")
	}
	if c.OutputFile == "" && c.OutputFormat != "json" {
		return fmt.Errorf("output format %s requires an output file", c.OutputFormat)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}
