package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jvilchesf/ny-realstates/config"
	"github.com/jvilchesf/ny-realstates/fetcher/socrata"
	"github.com/jvilchesf/ny-realstates/services"
	"github.com/jvilchesf/ny-realstates/storage"
	"github.com/jvilchesf/ny-realstates/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== NYC Job Application Filings Pipeline starting ===")
	logger.Info("Config — years: %d-%d | raw file: %s | chunk: %d bytes",
		cfg.YearFrom, cfg.YearTo, cfg.RawDataFile, cfg.DownloadChunkBytes)

	if err := cfg.EnsureDirs(); err != nil {
		logger.Error("Failed to create data directories: %v", err)
		os.Exit(1)
	}

	fetcher := socrata.New(cfg, logger)
	if err := fetcher.Fetch(context.Background(), cfg.RawDataPath()); err != nil {
		logger.Error("Download failed: %v", err)
		os.Exit(1)
	}

	loader := services.NewLoader(logger)
	df, err := loader.Load(cfg.RawDataPath())
	if err != nil {
		logger.Error("Load failed: %v", err)
		os.Exit(1)
	}

	transformer := services.NewTransformer(cfg, logger)
	result, err := transformer.Transform(df)
	if err != nil {
		logger.Error("Transform failed: %v", err)
		os.Exit(1)
	}
	if result.Empty() {
		logger.Warn("No data to process. Exiting.")
		return
	}

	csvWriter := storage.NewCSVWriter(cfg.ProcessedDataPath())
	logger.Info("Saving processed data to %s...", cfg.ProcessedDataPath())
	if err := csvWriter.Write(result.Aggregated); err != nil {
		logger.Error("Processed CSV write failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Processed data saved: %s records", utils.FormatCount(result.Aggregated.Nrow()))

	if cfg.PostgresEnabled() {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), logger)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			os.Exit(1)
		}
		defer pgWriter.Close()

		if err := pgWriter.Write(result.Aggregated); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
			os.Exit(1)
		}
		logger.Info("Aggregated filings stored in PostgreSQL (table: filings_summary)")
	}

	indicators := services.NewIndicatorService(logger)
	logger.Info("Creating visualizations...")
	long, err := indicators.Melt(result.Filtered)
	if err != nil {
		logger.Error("Indicator reshape failed: %v", err)
		os.Exit(1)
	}
	counts := indicators.MonthlyCounts(long)

	chartWriter := storage.NewChartWriter(cfg.ChartPath())
	if err := chartWriter.Write(counts); err != nil {
		logger.Error("Chart render failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Visualization saved to %s", cfg.ChartPath())

	fmt.Printf("\n  Pipeline completed successfully.\n")
	fmt.Printf("  Processed data → %s | Chart → %s\n\n",
		cfg.ProcessedDataPath(), cfg.ChartPath())
}
