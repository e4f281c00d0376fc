package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ecomworks/orderflow/internal/notification/config"
	"github.com/ecomworks/orderflow/internal/notification/subscriber"
	"github.com/ecomworks/orderflow/pkg/bootstrap"
	"github.com/ecomworks/orderflow/pkg/config/configloader"
	pkgnats "github.com/ecomworks/orderflow/pkg/nats"
)

const serviceName = "notification"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	nc, err := pkgnats.NewClient(cfg.Nats.Url, cfg.Nats.Timeout)
	if err != nil {
		return err
	}
	defer nc.Close()
	logger.Info("Successfully connected to NATS", slog.String("url", cfg.Nats.Url))

	js, err := pkgnats.NewJetStreamContext(nc)
	if err != nil {
		return err
	}

	if err := subscriber.Start(ctx, js, cfg.Subscriber, logger); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("subscriber failed: %w", err)
	}
	return nil
}
