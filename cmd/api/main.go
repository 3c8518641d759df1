package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"auraz-storefront/internal/config"
	"auraz-storefront/internal/db"
	"auraz-storefront/internal/httpserver"
	changesrepo "auraz-storefront/internal/repository/changes"
	orderrepo "auraz-storefront/internal/repository/order"
	productrepo "auraz-storefront/internal/repository/product"
	userrepo "auraz-storefront/internal/repository/user"
	authsvc "auraz-storefront/internal/service/auth"
	changessvc "auraz-storefront/internal/service/changes"
	ordersvc "auraz-storefront/internal/service/order"
	productsvc "auraz-storefront/internal/service/product"
	usersvc "auraz-storefront/internal/service/user"
	"github.com/gin-gonic/gin"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	adminHash := cfg.AdminPasswordHash
	if adminHash == "" && cfg.AdminPassword != "" {
		adminHash, err = authsvc.HashPassword(cfg.AdminPassword)
		if err != nil {
			logger.Fatalf("hash admin password: %v", err)
		}
	}
	if !cfg.AdminEnabled() {
		logger.Printf("admin account disabled: set ADMIN_EMAIL and ADMIN_PASSWORD to enable it")
	}
	if !cfg.SessionsEnabled() {
		if cfg.AdminEnabled() {
			logger.Fatalf("JWT_SECRET is required when the admin account is enabled")
		}
		logger.Printf("JWT_SECRET not set: logins will be refused until it is configured")
	}

	userRepo := userrepo.NewPostgres(dbpool, logger)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	changesRepo := changesrepo.NewPostgres(dbpool, logger)

	authService := authsvc.New(userRepo, authsvc.Options{
		AdminEmail:        cfg.AdminEmail,
		AdminPasswordHash: adminHash,
		JWTSecret:         []byte(cfg.JWTSecret),
		SessionTTL:        cfg.SessionTTL,
	})

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AuthSvc:     authService,
		UserSvc:     usersvc.New(userRepo),
		ProductSvc:  productsvc.New(productRepo),
		OrderSvc:    ordersvc.New(orderRepo),
		SyncSvc:     changessvc.New(changesRepo),
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
