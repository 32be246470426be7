// Package main runs the swap engine daemon: it wires storage, chain
// access and the intent façade, and serves the HTTP API plus metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"solana-swap-engine/internal/config"
	"solana-swap-engine/internal/engine"
	"solana-swap-engine/internal/executor"
	"solana-swap-engine/internal/jupiter"
	"solana-swap-engine/internal/observability"
	"solana-swap-engine/internal/relay"
	"solana-swap-engine/internal/solana"
	"solana-swap-engine/internal/storage"
	chstore "solana-swap-engine/internal/storage/clickhouse"
	"solana-swap-engine/internal/storage/memory"
	"solana-swap-engine/internal/storage/migrations"
	pgstore "solana-swap-engine/internal/storage/postgres"
	redisstore "solana-swap-engine/internal/storage/redis"
	"solana-swap-engine/internal/vault"
)

func main() {
	configPath := flag.String("config", os.Getenv("SWAP_ENGINE_CONFIG"), "Path to YAML config file")
	listenAddr := flag.String("listen-addr", ":8080", "HTTP API listen address")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := buildLogger(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := buildStores(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to create stores")
	}
	defer cleanup()

	v, err := vault.New(stores.wallets, cfg.EncryptionPassphrase)
	if err != nil {
		logger.WithError(err).Fatal("failed to create vault")
	}

	rpc := solana.NewHTTPClient(cfg.RPCEndpoint)

	var ws solana.WSClient
	if cfg.WSEndpoint != "" {
		wsClient, err := solana.NewWSClient(ctx, cfg.WSEndpoint, nil)
		if err != nil {
			// Polling covers confirmation without the fast path.
			logger.WithError(err).Warn("websocket unavailable, confirming via polling only")
		} else {
			ws = wsClient
			defer wsClient.Close()
		}
	}

	var confirmerOpts []solana.ConfirmerOption
	if cfg.ConfirmPollInterval > 0 {
		confirmerOpts = append(confirmerOpts, solana.WithPollInterval(cfg.ConfirmPollInterval))
	}
	confirmer := solana.NewConfirmer(rpc, ws, confirmerOpts...)

	metrics := observability.NewMetrics("")

	routerOpts := []relay.Option{relay.WithLogger(logger), relay.WithMetrics(metrics)}
	if len(cfg.RelayEndpoints) > 0 {
		routerOpts = append(routerOpts, relay.WithEndpoints(cfg.RelayEndpoints))
	}
	router := relay.NewRouter(rpc, routerOpts...)

	exec := executor.New(executor.Deps{
		Vault:     v,
		RPC:       rpc,
		Quoter:    jupiter.NewClient(jupiter.WithBaseURL(cfg.JupiterBaseURL)),
		Submitter: router,
		Confirmer: confirmer,
		Settings:  stores.settings,
		Positions: stores.positions,
		Trades:    stores.trades,
		Metrics:   metrics,
		Logger:    logger,
	})

	eng := engine.New(engine.Deps{
		Vault:     v,
		Trader:    exec,
		Settings:  stores.settings,
		Positions: stores.positions,
		Tracker:   engine.NewTracker(stores.pending),
		RPC:       rpc,
		Logger:    logger,
	})

	api := newAPIServer(eng, logger)

	mux := http.NewServeMux()
	mux.Handle("/v1/intent", api)
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:         *listenAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", *listenAddr).Info("http server listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("initiating graceful shutdown")
	case err := <-errCh:
		logger.WithError(err).Error("http server stopped")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("forced shutdown")
	}
	cancel()

	logger.Info("shutdown complete")
}

// buildLogger configures logrus per config: JSON or text, stdout plus
// optional rotated file output.
func buildLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.JSONFormat {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if cfg.File != "" {
		logger.SetOutput(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
	}
	return logger
}

// engineStores holds the selected storage backends.
type engineStores struct {
	wallets   storage.WalletStore
	settings  storage.SettingsStore
	positions storage.PositionStore
	pending   storage.PendingActionStore
	trades    storage.TradeLogStore // nil disables the trade log
}

// buildStores selects backends per config and runs migrations.
func buildStores(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*engineStores, func(), error) {
	if cfg.UseMemory {
		return &engineStores{
			wallets:   memory.NewWalletStore(),
			settings:  memory.NewSettingsStore(),
			positions: memory.NewPositionStore(),
			pending:   memory.NewPendingActionStore(),
			trades:    memory.NewTradeLogStore(),
		}, func() {}, nil
	}

	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	cleanups = append(cleanups, pool.Close)

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	stores := &engineStores{
		wallets:   pgstore.NewWalletStore(pool),
		settings:  pgstore.NewSettingsStore(pool),
		positions: pgstore.NewPositionStore(pool),
		pending:   memory.NewPendingActionStore(),
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		cleanups = append(cleanups, func() { client.Close() })
		stores.pending = redisstore.NewPendingActionStore(client)
	} else {
		logger.Info("redis_addr not set, pending actions held in memory")
	}

	if cfg.ClickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, cfg.ClickhouseDSN)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		cleanups = append(cleanups, func() { conn.Close() })

		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		stores.trades = chstore.NewTradeLogStore(conn)
	} else {
		logger.Info("clickhouse_dsn not set, trade log disabled")
	}

	return stores, cleanup, nil
}
