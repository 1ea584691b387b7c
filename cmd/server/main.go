package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/sheikh-saqib/haulage-ledger/internal/cache/memory"
	rediscache "github.com/sheikh-saqib/haulage-ledger/internal/cache/redis"
	"github.com/sheikh-saqib/haulage-ledger/internal/config"
	"github.com/sheikh-saqib/haulage-ledger/internal/events/kafka"
	"github.com/sheikh-saqib/haulage-ledger/internal/handler/rest"
	"github.com/sheikh-saqib/haulage-ledger/internal/interfaces"
	"github.com/sheikh-saqib/haulage-ledger/internal/ledger"
	"github.com/sheikh-saqib/haulage-ledger/internal/logging"
	"github.com/sheikh-saqib/haulage-ledger/internal/reports"
	memstore "github.com/sheikh-saqib/haulage-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/haulage-ledger/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("open ledger store")
	}
	defer closeStore()

	cache, err := openCache(cfg)
	if err != nil {
		logger.WithError(err).Fatal("open report cache")
	}

	opts := []ledger.Option{ledger.WithLogger(logger)}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := kafka.NewPublisher(cfg.Kafka.Brokers)
		defer publisher.Close()
		opts = append(opts, ledger.WithPublisher(publisher, cfg.Kafka.Topic))
	}
	ledgerService := ledger.NewLedger(store, opts...)
	reporter := reports.NewReporter(store, cache, logger)

	handler := rest.NewLedgerHandler(ledgerService, reporter, logger, cfg.Company.Name)
	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("shutdown http server")
		}
	}()

	logger.WithFields(logrus.Fields{
		"addr":  cfg.HTTP.Addr,
		"store": cfg.Store.Driver,
		"cache": cfg.Cache.Driver,
	}).Info("starting server")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("http server")
	}
}

func openStore(ctx context.Context, cfg *config.Config) (interfaces.LedgerStore, func(), error) {
	if cfg.Store.Driver != "postgres" {
		return memstore.NewMemoryLedgerStore(), func() {}, nil
	}

	db, err := postgres.Open(ctx, cfg.Store.DSN)
	if err != nil {
		return nil, nil, err
	}
	store := postgres.NewPostgresLedgerStore(db)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, func() { db.Close() }, nil
}

func openCache(cfg *config.Config) (interfaces.ReportCache, error) {
	if cfg.Cache.Driver == "redis" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return rediscache.New(client, "haul:", cfg.Redis.TTL), nil
	}
	return memory.New(cfg.Cache.Size)
}
