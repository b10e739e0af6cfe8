package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baharkarakas/balance-ledger/internal/api"
	"github.com/baharkarakas/balance-ledger/internal/cache"
	"github.com/baharkarakas/balance-ledger/internal/config"
	"github.com/baharkarakas/balance-ledger/internal/db"
	"github.com/baharkarakas/balance-ledger/internal/logger"
	"github.com/baharkarakas/balance-ledger/internal/metrics"
	"github.com/baharkarakas/balance-ledger/internal/repository"
	"github.com/baharkarakas/balance-ledger/internal/repository/postgres"
	"github.com/baharkarakas/balance-ledger/internal/services"
	"github.com/baharkarakas/balance-ledger/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, dbPool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	// The cache connects lazily; if Redis is down every lookup is a miss and
	// the ledger serves as the source of truth.
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.Cache.DefaultTTL)
	defer cacheClient.Close()

	repos := postgres.NewRepositories(dbPool)
	trx := repository.NewCachedTransactions(repos.Transactions, cacheClient, cfg.Cache.TransactionsTTL)

	wp := worker.NewPool(4)
	defer wp.Stop()

	balanceSvc := services.NewBalanceService(repos.Users, trx, repos.AuditLogs, cacheClient, cfg.Cache.BalanceTTL, wp)
	userSvc := services.NewUserService(repos.Users, trx, balanceSvc)

	metrics.Init()
	r := api.NewRouter(cfg, userSvc, balanceSvc, trx)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
