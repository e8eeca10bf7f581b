package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-rentcast/pkg/config"
	"github.com/goliatone/go-rentcast/pkg/controller"
	"github.com/goliatone/go-rentcast/pkg/formstate"
	"github.com/goliatone/go-rentcast/pkg/logging"
	"github.com/goliatone/go-rentcast/pkg/predict"
	"github.com/goliatone/go-rentcast/pkg/renderers/tui"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	flag.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "prediction service URL")
	flag.StringVar(&cfg.Form, "form", cfg.Form, "form definition file (YAML or JSON, embedded default if empty)")
	flag.StringVar(&cfg.Templates, "templates", cfg.Templates, "directory holding screen.tpl and summary.tpl (embedded if empty)")
	flag.DurationVar(&cfg.Animation, "duration", cfg.Animation, "price count-up duration")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP timeout (0 waits indefinitely)")
	flag.BoolVar(&cfg.Validate, "validate", cfg.Validate, "validate requests and responses against the /predict contract")
	flag.Parse()

	if err := cfg.Check(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New(os.Stderr, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	def, err := loadDefinition(cfg.Form)
	if err != nil {
		log.Fatalf("form: %v", err)
	}

	clientOpts := []predict.Option{
		predict.WithEndpoint(cfg.Endpoint),
		predict.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.Validate {
		contract, err := predict.LoadContract(ctx)
		if err != nil {
			log.Fatalf("contract: %v", err)
		}
		clientOpts = append(clientOpts, predict.WithContractValidation(contract))
	}

	ctrl, err := controller.New(
		predict.NewClient(clientOpts...),
		controller.WithLogger(logger),
		controller.WithAnimationDuration(cfg.Animation),
	)
	if err != nil {
		log.Fatalf("controller: %v", err)
	}

	session, err := tui.New(def, ctrl,
		tui.WithOutput(os.Stdout),
		tui.WithTemplateDir(cfg.Templates),
	)
	if err != nil {
		log.Fatalf("session: %v", err)
	}

	logger.Debugw("session ready", "endpoint", cfg.Endpoint, "form", def.Title)

	if err := session.Run(ctx); err != nil {
		if errors.Is(err, tui.ErrAborted) || errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stdout, "Bye.")
			return
		}
		log.Fatalf("run: %v", err)
	}
}

func loadDefinition(path string) (formstate.Definition, error) {
	if path == "" {
		return formstate.DefaultDefinition()
	}
	return formstate.LoadDefinitionFile(path)
}
