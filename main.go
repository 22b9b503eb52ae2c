package main

import (
	"errors"
	"flag"
	"os"
	"time"

	"rental-analyzer/api"
	"rental-analyzer/cache"
	"rental-analyzer/config"
	"rental-analyzer/models"
	"rental-analyzer/providers/rentcast"
	"rental-analyzer/providers/zillow"
	"rental-analyzer/services"
	"rental-analyzer/storage"
	"rental-analyzer/utils"
)

func main() {
	serve := flag.Bool("serve", false, "start the HTTP API instead of a one-shot batch")
	zipsFlag := flag.String("zips", "", "comma-separated ZIP codes (overrides ZIP_CODES)")
	flag.Parse()

	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Rental Property Analyzer starting ===")
	logger.Info("Config: cache ttl %dd | batch cap %d | timeout %ds | premium leniency %.2f",
		cfg.CacheTTLDays, cfg.MaxBatchSize, cfg.RequestTimeoutSec, cfg.PremiumLeniency)

	store, err := cache.NewBadgerStore(cfg.CacheDir, time.Duration(cfg.CacheTTLDays)*24*time.Hour, logger)
	if err != nil {
		logger.Error("Failed to open cache at %s: %v", cfg.CacheDir, err)
		os.Exit(1)
	}
	defer store.Close()

	timeout := time.Duration(cfg.RequestTimeoutSec) * time.Second

	var listings services.ListingSource
	var rents services.RentSource

	zillowClient, err := zillow.New(cfg.ZillowAPIKey, timeout, logger)
	switch {
	case err == nil:
		listings = zillowClient
	case errors.Is(err, zillow.ErrMissingAPIKey) && cfg.SampleDataOnly:
		logger.Warn("ZILLOW_API_KEY not set; running on sample data only")
	default:
		logger.Error("Zillow client: %v", err)
		os.Exit(1)
	}

	rentcastClient, err := rentcast.New(cfg.RentcastAPIKey, timeout,
		cfg.BedroomPremiumStandard, cfg.BedroomPremiumPremium, logger)
	switch {
	case err == nil:
		rents = rentcastClient
	case errors.Is(err, rentcast.ErrMissingAPIKey) && cfg.SampleDataOnly:
		logger.Warn("RENTCAST_API_KEY not set; running on sample data only")
	default:
		logger.Error("RentCast client: %v", err)
		os.Exit(1)
	}

	analyzer := services.NewAnalyzer(cfg, listings, rents, store, logger)

	if *serve {
		logger.Info("Listening on :%s", cfg.Port)
		if err := api.NewRouter(analyzer, logger).Run(":" + cfg.Port); err != nil {
			logger.Error("HTTP server: %v", err)
			os.Exit(1)
		}
		return
	}

	zips := cfg.ZipCodes
	if *zipsFlag != "" {
		zips = config.SplitZips(*zipsFlag)
	}
	if len(zips) == 0 {
		logger.Error("No ZIP codes: set ZIP_CODES or pass -zips")
		os.Exit(1)
	}

	report, err := analyzer.Analyze(models.BatchRequest{
		ZipCodes:    zips,
		Assumptions: models.DefaultAssumptions(),
	})
	if err != nil {
		logger.Error("Analysis failed: %v", err)
		os.Exit(1)
	}

	if report.SampleData {
		logger.Warn("Report contains sample data (placeholder listings, not live market data)")
	}
	for _, d := range report.Diagnostics {
		logger.Warn("ZIP %s [%s]: %s", d.ZipCode, d.Stage, d.Detail)
	}

	if err := exportResults(cfg, report.Results, logger); err != nil {
		logger.Error("Export failed: %v", err)
		os.Exit(1)
	}

	logger.Info("=== Done: %d ZIPs, %d qualifying properties ===", report.ZipCount, len(report.Results))
}

// exportResults writes the report to both configured flat-file backends.
func exportResults(cfg *config.Config, results []models.Result, logger *utils.Logger) error {
	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		return err
	}
	if err := writeAndClose(csvWriter, results); err != nil {
		return err
	}
	logger.Info("Wrote %d results to %s", len(results), cfg.CSVOutputPath)

	xlsxWriter, err := storage.NewXLSXWriter(cfg.XLSXOutputPath)
	if err != nil {
		return err
	}
	if err := writeAndClose(xlsxWriter, results); err != nil {
		return err
	}
	logger.Info("Wrote %d results to %s", len(results), cfg.XLSXOutputPath)
	return nil
}

func writeAndClose(w storage.ResultWriter, results []models.Result) error {
	if err := w.Write(results); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
