package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	healthhandlers "github.com/Brownie44l1/kasgo/internal/api/handlers"
	"github.com/Brownie44l1/kasgo/internal/config"
	"github.com/Brownie44l1/kasgo/internal/db"
	"github.com/Brownie44l1/kasgo/internal/handlers"
	"github.com/Brownie44l1/kasgo/internal/logging"
	"github.com/Brownie44l1/kasgo/internal/metrics"
	"github.com/Brownie44l1/kasgo/internal/repository"
	"github.com/Brownie44l1/kasgo/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gateway:", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()
	log.Info("configuration loaded", zap.String("chain_id", cfg.ChainID))

	// 2. Build the API services
	svcs, err := service.New(cfg, log)
	if err != nil {
		return fmt.Errorf("build services: %w", err)
	}

	deps := handlers.GatewayDeps{
		KIP7:    svcs.KIP7,
		History: svcs.History,
		Node:    svcs.Node,
		Logger:  log.Named("gateway"),
	}
	checks := map[string]healthhandlers.Pinger{}

	// 3. Optional transfer archive
	if cfg.ArchiveEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err := db.NewPool(ctx, cfg.DBUrl, log)
		if err != nil {
			cancel()
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		repo := repository.NewTransferRepository(pool)
		err = repo.EnsureSchema(ctx)
		cancel()
		if err != nil {
			return err
		}

		deps.Archiver = service.NewArchiver(svcs.History, repo, log.Named("archive"))
		deps.ArchiveReader = repo
		checks["database"] = pool
	} else {
		log.Info("DB_URL not set, transfer archive disabled")
	}

	// 4. Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), metrics.GinMiddleware())

	healthhandlers.NewHealthHandler(checks).RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	var middleware []gin.HandlerFunc
	if cfg.AuthEnabled() {
		middleware = append(middleware, handlers.AuthMiddleware(cfg.GatewayJWTSecret))
	} else {
		log.Warn("GATEWAY_JWT_SECRET not set, /api/v1 is open")
	}
	handlers.NewGatewayHandler(deps).RegisterRoutes(router, middleware...)

	// 5. Start server with graceful shutdown
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("gateway listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case sig := <-quit:
		log.Info("shutting down", zap.Stringer("signal", sig))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}
