package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"kindcli/internal/browser"
	"kindcli/internal/config"
	"kindcli/internal/exporter"
	"kindcli/internal/infrastructure"
	"kindcli/internal/kind"
)

const dateLayout = "2006-01-02"

func main() {
	var logger *slog.Logger
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC RECOVERED: %v\n", r)
			fmt.Printf("Stack trace:\n%s\n", debug.Stack())
			if logger != nil {
				logger.Error("Collector panicked",
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())))
			}
			os.Exit(1)
		}
	}()

	fromStr := flag.String("from", "", "start date (YYYY-MM-DD)")
	toStr := flag.String("to", "", "end date (YYYY-MM-DD), defaults to today")
	startYear := flag.Int("start-year", 0, "first year of a multi-year batch (overrides -from/-to)")
	endYear := flag.Int("end-year", 0, "last year of a multi-year batch, defaults to start-year")
	typesStr := flag.String("types", string(kind.TypeInvestmentWarning),
		"comma-separated disclosure types")
	marketStr := flag.String("market", string(kind.MarketAll), "market scope: all | main | growth")
	maxPages := flag.Int("max-pages", 0, "page cap per sub-range, 0 walks every page")
	outFile := flag.String("out", "", "output CSV filename (defaults to a timestamped name in data/reports)")
	xlsx := flag.Bool("xlsx", false, "also write the result as a spreadsheet")
	headless := flag.Bool("headless", true, "run browser headless")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		fmt.Printf("Error: Failed to initialize paths: %v\n", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		fmt.Printf("Error: Failed to create required directories: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Warning: Failed to load config, using defaults: %v\n", err)
		cfg = config.Default()
	}
	if flagPassed(flag.CommandLine, "headless") {
		cfg.Browser.Headless = *headless
	}
	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = paths.GetLogPath("collector.log")
	}

	logger, err = infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Printf("Warning: Failed to initialize logger, using default: %v\n", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.NewRunContext(ctx)

	sc, err := buildSearchConfig(*fromStr, *toStr, *typesStr, *marketStr, *maxPages, cfg.Collector.PageSize)
	if err != nil {
		logger.Error("Invalid arguments", slog.String("error", err.Error()))
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	factory := func(ctx context.Context) (kind.Source, func(), error) {
		sess, err := browser.NewSession(ctx, cfg.Browser, paths, logger)
		if err != nil {
			return nil, nil, err
		}
		return kind.NewPortal(sess, cfg.Collector, logger), sess.Close, nil
	}
	collector := kind.NewCollector(factory, cfg.Collector, logger)
	records := exporter.NewRecordExporter(paths)

	var exitCode int
	if *startYear > 0 {
		exitCode = runYears(ctx, collector, records, paths, sc, *startYear, *endYear, *xlsx, logger)
	} else {
		exitCode = runRange(ctx, collector, records, paths, sc, *outFile, *xlsx, logger)
	}
	os.Exit(exitCode)
}

// flagPassed reports whether a flag was set explicitly on the command line,
// so flag defaults never clobber config-file or environment values.
func flagPassed(fs *flag.FlagSet, name string) bool {
	passed := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})
	return passed
}

// buildSearchConfig parses the CLI date, type and market arguments.
func buildSearchConfig(fromStr, toStr, typesStr, marketStr string, maxPages, pageSize int) (kind.SearchConfig, error) {
	sc := kind.SearchConfig{
		PageSize: pageSize,
		MaxPages: maxPages,
	}

	switch marketStr {
	case string(kind.MarketAll), "":
		sc.Market = kind.MarketAll
	case string(kind.MarketMain):
		sc.Market = kind.MarketMain
	case string(kind.MarketGrowth):
		sc.Market = kind.MarketGrowth
	default:
		return sc, fmt.Errorf("unknown market %q (want all, main or growth)", marketStr)
	}

	for _, t := range strings.Split(typesStr, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		sc.Types = append(sc.Types, kind.DisclosureType(t))
	}

	if fromStr != "" {
		start, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return sc, fmt.Errorf("invalid -from date %q: %w", fromStr, err)
		}
		end := time.Now().UTC().Truncate(24 * time.Hour)
		if toStr != "" {
			end, err = time.Parse(dateLayout, toStr)
			if err != nil {
				return sc, fmt.Errorf("invalid -to date %q: %w", toStr, err)
			}
		}
		sc.Range = kind.DateRange{Start: start, End: end}
		if err := sc.Range.Validate(); err != nil {
			return sc, err
		}
	}

	return sc, nil
}

// runRange collects one date range and writes its report. Partial results
// are still exported when collection fails midway.
func runRange(ctx context.Context, collector *kind.Collector, records *exporter.RecordExporter,
	paths *config.Paths, sc kind.SearchConfig, outFile string, xlsx bool, logger *slog.Logger) int {

	if sc.Range.Start.IsZero() {
		fmt.Println("Error: -from is required (or use -start-year for a yearly batch)")
		return 1
	}

	collected, collectErr := collector.Collect(ctx, sc)
	if collectErr != nil {
		logger.Error("Collection finished with errors",
			slog.String("error", collectErr.Error()),
			slog.Int("records", len(collected)))
	}
	logStats(logger, collected)

	if len(collected) == 0 && collectErr != nil {
		return 1
	}

	name := outFile
	var err error
	if name == "" {
		name, err = records.ExportRange(collected, sc.Range)
	} else {
		err = exporter.NewCSVWriter(paths).WriteSimpleCSV(name,
			exporter.RecordHeaders, exporter.RecordRows(collected))
	}
	if err != nil {
		logger.Error("Export failed", slog.String("error", err.Error()))
		return 1
	}
	logger.Info("Report written", slog.String("file", name), slog.Int("records", len(collected)))

	if xlsx {
		if err := exporter.NewXLSXWriter(paths).WriteRecords(name, collected); err != nil {
			logger.Error("Spreadsheet export failed", slog.String("error", err.Error()))
			return 1
		}
	}

	if collectErr != nil {
		return 1
	}
	return 0
}

// runYears collects whole calendar years, one session each, writing a
// per-year report plus a combined one.
func runYears(ctx context.Context, collector *kind.Collector, records *exporter.RecordExporter,
	paths *config.Paths, sc kind.SearchConfig, startYear, endYear int, xlsx bool, logger *slog.Logger) int {

	if endYear <= 0 {
		endYear = startYear
	}

	byYear, combined, collectErr := collector.CollectYears(ctx, sc, startYear, endYear)
	if collectErr != nil {
		logger.Error("Yearly collection finished with errors",
			slog.String("error", collectErr.Error()))
	}
	logStats(logger, combined)

	exitCode := 0
	if collectErr != nil {
		exitCode = 1
	}

	for year := startYear; year <= endYear; year++ {
		yearRecords, ok := byYear[year]
		if !ok {
			continue
		}
		name, err := records.ExportYear(year, yearRecords)
		if err != nil {
			logger.Error("Year export failed",
				slog.Int("year", year), slog.String("error", err.Error()))
			exitCode = 1
			continue
		}
		logger.Info("Year report written",
			slog.String("file", name), slog.Int("records", len(yearRecords)))
	}

	name, err := records.ExportCombined(startYear, endYear, combined)
	if err != nil {
		logger.Error("Combined export failed", slog.String("error", err.Error()))
		return 1
	}
	logger.Info("Combined report written",
		slog.String("file", name), slog.Int("records", len(combined)))

	if xlsx {
		if err := exporter.NewXLSXWriter(paths).WriteRecords(name, combined); err != nil {
			logger.Error("Spreadsheet export failed", slog.String("error", err.Error()))
			return 1
		}
	}
	return exitCode
}

// logStats emits the summary statistics of a collected record set.
func logStats(logger *slog.Logger, records []kind.DisclosureRecord) {
	stats := kind.Summarize(records)
	logger.Info("Collection summary",
		slog.Int("total", stats.Total),
		slog.Int("companies", stats.Companies),
		slog.String("earliest", stats.EarliestDate),
		slog.String("latest", stats.LatestDate),
		slog.Int("designations", stats.DesignationCounts[kind.Designation]),
		slog.Int("cancellations", stats.DesignationCounts[kind.Cancellation]),
		slog.Float64("redesignation_ratio", stats.RedesignationRatio),
		slog.Float64("preferred_ratio", stats.PreferredRatio))
	for _, c := range stats.TopCompanies {
		logger.Info("Top company", slog.String("company", c.Name), slog.Int("count", c.Count))
	}
}
