package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-rentcast/pkg/config"
	"github.com/goliatone/go-rentcast/pkg/logging"
	"github.com/goliatone/go-rentcast/pkg/stubserver"
)

func main() {
	cfg, err := config.LoadStub()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		addrFlag      = flag.String("addr", cfg.Addr, "HTTP listen address")
		tableFlag     = flag.String("prices", cfg.PriceTable, "YAML price table (embedded default if empty)")
		levelFlag     = flag.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
		noModelFlag   = flag.Bool("no-model", false, "serve without a price table; every prediction fails")
		shutdownGrace = flag.Duration("grace", 5*time.Second, "Shutdown grace period")
	)
	flag.Parse()

	logger := logging.New(os.Stderr, *levelFlag)
	defer func() { _ = logger.Sync() }()

	var table *stubserver.PriceTable
	if !*noModelFlag {
		if *tableFlag != "" {
			table, err = stubserver.LoadPriceTable(*tableFlag)
		} else {
			table, err = stubserver.DefaultPriceTable()
		}
		if err != nil {
			log.Fatalf("price table: %v", err)
		}
	}

	srv := stubserver.New(
		stubserver.WithPriceTable(table),
		stubserver.WithLogger(logger),
	)
	httpServer := &http.Server{
		Addr:    *addrFlag,
		Handler: srv.Handler(),
	}

	logger.Infow("listening", "addr", *addrFlag, "model_loaded", table != nil)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errChan:
		log.Fatalf("listen: %v", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), *shutdownGrace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
