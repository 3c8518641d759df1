package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auraz-storefront/internal/bus"
	"auraz-storefront/internal/config"
	"auraz-storefront/internal/gateway"
	"auraz-storefront/internal/mirror"
	"auraz-storefront/internal/store"
	"auraz-storefront/internal/syncctl"
	"github.com/redis/go-redis/v9"
)

const requestTimeout = 15 * time.Second

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, closeBackend, err := mirrorBackend(cfg)
	if err != nil {
		logger.Fatalf("init mirror: %v", err)
	}
	defer closeBackend()
	m := mirror.New(backend, logger)
	if !m.Available(ctx) {
		logger.Printf("mirror backend %q unavailable, state will not survive a restart", cfg.MirrorBackend)
	}

	events, err := eventBus(cfg, logger)
	if err != nil {
		logger.Fatalf("init bus: %v", err)
	}
	defer events.Close()

	client := gateway.New(cfg.APIBaseURL, requestTimeout, logger)

	st := store.New(store.Deps{
		Mirror: m,
		Remote: client,
		Bus:    events,
		Logger: logger,
	}, store.WithPaymentTTL(cfg.PaymentTTL))
	defer st.Close()

	st.Hydrate(ctx)
	if err := st.Listen(ctx); err != nil {
		logger.Fatalf("subscribe to storage events: %v", err)
	}

	opts := syncctl.Options{Interval: cfg.SyncInterval, Logger: logger}
	if cfg.SyncFallbackMirror {
		opts.FallbackMirror = m
	}
	ctl := syncctl.New(client, st, opts)
	if err := ctl.Start(ctx); err != nil {
		logger.Fatalf("start sync: %v", err)
	}
	defer ctl.Stop()

	d := st.Diagnostics(ctx)
	logger.Printf("storefront ready origin=%s api=%s products=%d users=%d orders=%d",
		st.Origin(), cfg.APIBaseURL, d.Products, d.Users, d.Orders)

	<-ctx.Done()
	logger.Printf("shutting down")
}

func mirrorBackend(cfg config.Config) (mirror.Backend, func(), error) {
	switch cfg.MirrorBackend {
	case "memory":
		return mirror.NewMemory(), func() {}, nil
	case "file":
		return mirror.NewFile(cfg.MirrorDir), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		return mirror.NewRedis(client), func() { _ = client.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown mirror backend %q", cfg.MirrorBackend)
}

func eventBus(cfg config.Config, logger *log.Logger) (bus.Bus, error) {
	switch cfg.BusBackend {
	case "memory":
		return bus.NewMemory(), nil
	case "nats":
		nc, err := bus.NewNATS(cfg.NATSURL, logger)
		if err != nil {
			return nil, err
		}
		return nc, nil
	}
	return nil, fmt.Errorf("unknown bus backend %q", cfg.BusBackend)
}
