package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aluiziolira/go-scrape-scholar/config"
	"github.com/aluiziolira/go-scrape-scholar/models"
	"github.com/aluiziolira/go-scrape-scholar/output"
	"github.com/aluiziolira/go-scrape-scholar/scholar"
)

func main() {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	defaultCfg := config.DefaultConfig()
	papersDefault := defaultCfg.MaxPapers
	if value, ok, err := config.EnvInt("SCHOLAR_MAX_PAPERS"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SCHOLAR_MAX_PAPERS: %v\n", err)
		os.Exit(1)
	} else if ok {
		papersDefault = value
	}
	workersDefault := defaultCfg.NumWorkers
	if value, ok, err := config.EnvInt("SCHOLAR_WORKERS"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SCHOLAR_WORKERS: %v\n", err)
		os.Exit(1)
	} else if ok {
		workersDefault = value
	}
	outputDefault := defaultCfg.OutputFile
	if value, ok := config.EnvString("SCHOLAR_OUTPUT"); ok {
		outputDefault = value
	}
	baseURLDefault := defaultCfg.BaseURL
	if value, ok := config.EnvString("SCHOLAR_BASE_URL"); ok {
		baseURLDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("SCHOLAR_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	maxPapers := flag.Int("max-papers", papersDefault, "Maximum number of papers to collect")
	yearLimit := flag.Int("year-limit", 0, "Stop at the first paper older than this year (0 disables)")
	numWorkers := flag.Int("num-workers", workersDefault, "Number of parallel workers for detail pages")
	profileIndex := flag.Int("profile-index", 0, "Which profile candidate to use (0 for first)")
	outputFile := flag.String("output", outputDefault, "Output file path (console only when empty)")
	outputFormat := flag.String("format", "json", "Output format: json, csv, or dual")
	delayMs := flag.Int("delay", 1000, "Delay between listing-page requests (milliseconds)")
	detailDelayMs := flag.Int("detail-delay", 500, "Delay between detail-page requests per worker (milliseconds)")
	randomDelayMs := flag.Int("random-delay", 0, "Random jitter added to delays (milliseconds)")
	timeoutSec := flag.Int("timeout", 15, "HTTP request timeout (seconds)")
	maxRetries := flag.Int("max-retries", 0, "Maximum retry attempts per detail page")
	baseURL := flag.String("base-url", baseURLDefault, "Scholar base URL")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] \"Author Name\"\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	author := strings.Join(flag.Args(), " ")

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := defaultCfg
	cfg.AuthorName = author
	cfg.BaseURL = *baseURL
	cfg.MaxPapers = *maxPapers
	cfg.YearLimit = *yearLimit
	cfg.NumWorkers = *numWorkers
	cfg.ProfileIndex = *profileIndex
	cfg.OutputFile = *outputFile
	cfg.OutputFormat = strings.ToLower(*outputFormat)
	cfg.Delay = time.Duration(*delayMs) * time.Millisecond
	cfg.DetailDelay = time.Duration(*detailDelayMs) * time.Millisecond
	cfg.RandomDelay = time.Duration(*randomDelayMs) * time.Millisecond
	cfg.Timeout = time.Duration(*timeoutSec) * time.Second
	cfg.MaxRetries = *maxRetries
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting scholar scrape",
		slog.String("author", cfg.AuthorName),
		slog.Int("max_papers", cfg.MaxPapers),
		slog.Int("year_limit", cfg.YearLimit),
		slog.Int("workers", cfg.NumWorkers),
	)

	client, err := scholar.NewClient(cfg)
	if err != nil {
		slog.Error("initialising client", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, waiting for in-flight work to finish")
	}()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" && client.Metrics != nil {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(client.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	result, err := client.Run(ctx, cfg.AuthorName)
	if err != nil {
		slog.Error("scrape failed", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.OutputFile != "" {
		writer, err := createWriter(cfg.OutputFormat, cfg.OutputFile)
		if err != nil {
			slog.Error("creating writer", slog.Any("error", err))
			os.Exit(1)
		}
		if err := writer.Write(result.Records); err != nil {
			slog.Error("writing output", slog.Any("error", err))
			os.Exit(1)
		}
		if err := writer.Close(); err != nil {
			slog.Error("close writer", slog.Any("error", err))
			os.Exit(1)
		}
		if err := writer.Validate(); err != nil {
			slog.Error("output validation failed", slog.Any("error", err))
			os.Exit(1)
		}
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printReport(result)
	printSummary(result, cfg.OutputFile)
}

func createWriter(format, filename string) (output.Writer, error) {
	switch format {
	case "json":
		return output.NewJSONWriter(filename)
	case "csv":
		return output.NewCSVWriter(filename)
	case "dual":
		csvFilename := strings.TrimSuffix(filename, ".json") + ".csv"
		return output.NewDualWriter(filename, csvFilename)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func printReport(result *models.ScrapeResult) {
	fmt.Printf("\n=== Research summary for %s ===\n", result.Profile.Name)
	for i, record := range result.Records {
		fmt.Printf("\n--- Paper %d: %s ---\n", i+1, truncate(record.Title, 80))
		if record.Year != 0 {
			fmt.Printf("Year: %d\n", record.Year)
		}
		fmt.Printf("Citations: %d\n", record.CitationCount)
		if len(record.Authors) > 0 {
			fmt.Printf("Authors: %s\n", strings.Join(record.Authors, ", "))
		}
		if record.Venue != "" {
			fmt.Printf("Venue: %s\n", record.Venue)
		}
		if record.Abstract != "" {
			fmt.Printf("Abstract: %s\n", truncate(record.Abstract, 500))
		}
		if record.Degraded() {
			fmt.Printf("Enrichment failed: %s\n", record.EnrichError)
		}
	}
}

func printSummary(result *models.ScrapeResult, outputFile string) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Scrape complete")
	fmt.Printf("  Profile:       %s (%s)\n", result.Profile.Name, result.Profile.UserID)
	fmt.Printf("  Papers:        %d\n", len(result.Records))
	fmt.Printf("  Enriched:      %d\n", result.EnrichedCount)
	fmt.Printf("  Degraded:      %d\n", result.DegradedCount)
	fmt.Printf("  Pages:         %d\n", result.PageCount)
	fmt.Printf("  Requests:      %d\n", result.RequestCount)
	fmt.Printf("  Retries:       %d\n", result.RetryCount)
	if len(result.ErrorsByType) > 0 {
		fmt.Printf("  Error types:   %v\n", result.ErrorsByType)
	}
	fmt.Printf("  Duration:      %v\n", result.EndTime.Sub(result.StartTime).Round(time.Millisecond))
	if outputFile != "" {
		fmt.Printf("  Output file:   %s\n", outputFile)
	}
	fmt.Println(separator)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
