// Command lcgrants-import loads the grants CSV and stores it as the SQLite
// read model used by DATA_BACKEND=sqlite.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"lcgrants/internal/cli"
	"lcgrants/internal/dataset"
	applog "lcgrants/internal/log"
	"lcgrants/internal/storage"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(applog.ComponentImport)
	cfg := cli.LoadAndValidateConfig(logger)

	csvPath := flag.String("csv", cfg.DataPath, "grants CSV to import")
	dbPath := flag.String("db", cfg.SQLiteDBPath, "SQLite database to write")
	flag.Parse()

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	start := time.Now()
	ds, err := dataset.Load(ctx, dataset.CSVSource{Path: dataset.ResolvePath(*csvPath)})
	if err != nil {
		logger.Error("Failed to load CSV", applog.FieldError, err, "path", *csvPath)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(*dbPath)
	if err != nil {
		logger.Error("Failed to open SQLite database", applog.FieldError, err, "path", *dbPath)
		os.Exit(1)
	}
	defer repo.Close()

	if err := repo.ImportGrants(ctx, ds); err != nil {
		logger.Error("Import failed", applog.FieldError, err, applog.FieldOperation, applog.OpImport)
		repo.Close()
		os.Exit(1)
	}

	rec, err := repo.LastImport(ctx)
	if err != nil {
		logger.Warn("Could not read import record", applog.FieldError, err)
	}
	logger.Info("Import complete",
		applog.FieldSource, ds.Source(),
		applog.FieldRows, ds.Len(),
		"grand_total", rec.GrandTotal,
		"db", *dbPath,
		applog.FieldDuration, time.Since(start).Milliseconds())
}
