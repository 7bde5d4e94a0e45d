// Command extractor rebuilds the Ido↔Esperanto dictionaries from MediaWiki
// dumps. It runs the extraction pipeline stage by stage, caching completed
// stages and resuming after failures.
//
// Flags:
//
//	--config      path to YAML config file (default: CONFIG_PATH or ./config.yaml)
//	--force       rerun all stages regardless of cache
//	--from-stage  force rerun of the named stage and its descendants
//	--status      print the per-stage status table and exit
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/idolinguo/idoeo-extractor/internal/app"
	"github.com/idolinguo/idoeo-extractor/internal/config"
	"github.com/idolinguo/idoeo-extractor/internal/pipeline"
)

func main() {
	configFlag := flag.String("config", "", "path to YAML config file")
	forceFlag := flag.Bool("force", false, "rerun all stages regardless of cache")
	fromStageFlag := flag.String("from-stage", "", "force rerun of the named stage and its descendants")
	statusFlag := flag.Bool("status", false, "print per-stage status and exit")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)
	logger.Info("extractor starting", slog.String("version", app.BuildVersion()))

	paths := pipeline.NewPaths(cfg.Pipeline.WorkDir, cfg.Pipeline.OutDir)
	stages := pipeline.BuildStages(logger, cfg)

	m, err := pipeline.NewManager(logger, paths.StateFile, stages)
	if err != nil {
		logger.Error("init pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *statusFlag {
		printStatus(m)
		return
	}

	// Cancellation at page boundaries: SIGINT/SIGTERM stop the pipeline
	// between pages; the interrupted stage discards its uncommitted output
	// and any earlier artifact stays in place.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := pipeline.RunOptions{Force: *forceFlag, FromStage: *fromStageFlag}
	if err := m.Run(ctx, opts); err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("pipeline completed")
}

func printStatus(m *pipeline.Manager) {
	fmt.Printf("%-24s %-10s %s\n", "STAGE", "STATUS", "ERROR")
	for _, row := range m.Status() {
		fmt.Printf("%-24s %-10s %s\n", row.Name, row.Status, row.Error)
	}
}
