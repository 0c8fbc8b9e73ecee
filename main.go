package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/valyala/fasthttp"

	"loan-feature-engine/internal/config"
	"loan-feature-engine/internal/dataset"
	"loan-feature-engine/internal/engine"
	"loan-feature-engine/internal/handler"
	"loan-feature-engine/internal/logger"
	"loan-feature-engine/internal/sink"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	input := flag.String("in", "", "CSV dataset to process; when empty the HTTP server is started")
	output := flag.String("out", "features.csv", "CSV file for computed features in batch mode")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	opts := engine.Options{Workers: cfg.Workers, Logger: log}

	if *input != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := runBatch(ctx, cfg, opts, *input, *output, log); err != nil {
			log.Fatal("Batch failed", "error", err)
		}
		return
	}

	log.Info("Feature engine starting", "port", cfg.Port)
	if err := fasthttp.ListenAndServe(":"+cfg.Port, handler.New(opts, log).Handle); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}

func runBatch(ctx context.Context, cfg config.Config, opts engine.Options, input, output string, log *logger.Logger) error {
	rows, err := dataset.Load(input, log)
	if err != nil {
		return err
	}

	// One clock reading for the whole run so every row shares the same window.
	now := time.Now()
	batch, err := engine.ProcessRows(ctx, rows, now, opts)
	if err != nil {
		return err
	}

	sinks := []sink.Sink{sink.NewCSV(output)}
	if cfg.PostgresDSN != "" {
		pg, err := sink.NewPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		sinks = append(sinks, pg)
	}

	for _, s := range sinks {
		defer s.Close()
	}
	for _, s := range sinks {
		if err := s.Write(ctx, rows, batch.Results, batch.Features); err != nil {
			return err
		}
	}

	log.Info("Batch completed",
		"rows", len(rows),
		"messages", len(batch.Messages),
		"outcome", batch.Outcome,
		"output", output,
	)
	return nil
}
