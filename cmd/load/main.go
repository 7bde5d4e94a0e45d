// Command load bulk-inserts the generated dictionaries into the lookup
// database. It is run offline after the extractor has produced its output
// artifacts; the extraction pipeline itself never touches the database.
//
// Flags:
//
//	--config   path to YAML config file (default: CONFIG_PATH or ./config.yaml)
//	--dry-run  read artifacts without writing to the database
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/idolinguo/idoeo-extractor/internal/adapter/postgres"
	"github.com/idolinguo/idoeo-extractor/internal/adapter/postgres/dictstore"
	"github.com/idolinguo/idoeo-extractor/internal/app"
	"github.com/idolinguo/idoeo-extractor/internal/bidix"
	"github.com/idolinguo/idoeo-extractor/internal/config"
	"github.com/idolinguo/idoeo-extractor/internal/pipeline"
)

func main() {
	configFlag := flag.String("config", "", "path to YAML config file")
	dryRunFlag := flag.Bool("dry-run", false, "read artifacts without writing to the database")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	if cfg.Database.DSN == "" {
		logger.Error("database.dsn not configured")
		os.Exit(1)
	}

	paths := pipeline.NewPaths(cfg.Pipeline.WorkDir, cfg.Pipeline.OutDir)

	monodix, err := pipeline.ReadJSONL[bidix.MonodixEntry](paths.Monodix)
	if err != nil {
		logger.Error("read monodix", slog.String("error", err.Error()))
		os.Exit(1)
	}
	surface, err := pipeline.ReadJSONL[bidix.SurfaceEntry](paths.Bidix)
	if err != nil {
		logger.Error("read bidix", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("artifacts read",
		slog.Int("monodix", len(monodix)),
		slog.Int("bidix", len(surface)),
	)

	if *dryRunFlag {
		logger.Info("dry run, nothing written")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	store := dictstore.New(pool)

	inserted, err := store.BulkInsertLemmas(ctx, monodix)
	if err != nil {
		logger.Error("insert lemmas", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("lemmas loaded", slog.Int("inserted", inserted), slog.Int("skipped", len(monodix)-inserted))

	inserted, err = store.BulkInsertTranslations(ctx, surface)
	if err != nil {
		logger.Error("insert translations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("translations loaded", slog.Int("inserted", inserted), slog.Int("skipped", len(surface)-inserted))
}
