package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirsalarsafaei/sqlc-pgx-monitoring/dbtracer"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"payflow/config"
	"payflow/internal/payments"
	"payflow/internal/payments/workers"
)

func main() {
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := setupLogger(appConfig)

	if appConfig.Telemetry.Enabled {
		cleanup, err := config.InitTracer(appConfig.Telemetry)
		if err != nil {
			log.Fatal(err)
		}
		defer cleanup()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := setupRedisClient(appConfig)
	queue := payments.NewWorkQueue(redisClient)

	store, closeStore := setupStore(appConfig, redisClient, logger)
	defer closeStore()

	httpClient := setupHttpClient(appConfig)
	gateway := payments.NewProcessorGateway(
		httpClient,
		appConfig.Processor.DefaultURL,
		appConfig.Processor.FallbackURL,
		appConfig.Processor.PaymentTimeout,
		appConfig.Processor.HealthTimeout,
		logger,
	)
	router := payments.NewFallbackRouter(gateway)

	monitor := workers.NewProcessorHealthMonitor(gateway, appConfig.Processor.HealthInterval, logger)
	go monitor.Run(ctx)

	pool := workers.NewWorkerPool(
		queue,
		router,
		store,
		appConfig.Worker.Count,
		appConfig.Worker.MaxConcurrentCalls,
		logger,
	)

	logger.Info("starting worker pool",
		"instance", uuid.NewString(),
		"workers", appConfig.Worker.Count,
		"maxConcurrentCalls", appConfig.Worker.MaxConcurrentCalls,
	)
	pool.Run(ctx)
	logger.Info("worker pool stopped")
}

// setupHttpClient leaves the client timeout unset: per-call deadlines come
// from the gateway's contexts, which differ between payment calls and probes.
func setupHttpClient(appConfig *config.AppConfig) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   500 * time.Millisecond,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        256,
		MaxIdleConnsPerHost: 256,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  true,
	}

	var rt http.RoundTripper = transport
	if appConfig.Telemetry.Enabled {
		rt = otelhttp.NewTransport(transport)
	}

	return &http.Client{Transport: rt}
}

func setupStore(appConfig *config.AppConfig, redisClient *redis.Client, logger *slog.Logger) (payments.AccountingStore, func()) {
	if appConfig.Store != nil && appConfig.Store.Backend == "postgres" {
		dbpool := setupDbPool(appConfig)
		return payments.NewPostgresStore(dbpool, logger), dbpool.Close
	}
	return payments.NewRedisStore(redisClient, logger), func() {}
}

func setupDbPool(appConfig *config.AppConfig) *pgxpool.Pool {
	dbConfig, err := pgxpool.ParseConfig(appConfig.Postgres.URL)
	if err != nil {
		log.Fatalf("Failed to parse Postgres URL: %v", err)
	}

	if appConfig.Telemetry.Enabled {
		dbTracer, _ := dbtracer.NewDBTracer("payments")
		dbConfig.ConnConfig.Tracer = dbTracer
	}

	dbpool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	return dbpool
}

func setupRedisClient(appConfig *config.AppConfig) *redis.Client {
	opt, err := redis.ParseURL(appConfig.Redis.URL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}

	redisClient := redis.NewClient(opt)

	if appConfig.Telemetry.Enabled {
		if err := redisotel.InstrumentTracing(redisClient); err != nil {
			panic(err)
		}

		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			panic(err)
		}
	}

	return redisClient
}

func setupLogger(appConfig *config.AppConfig) *slog.Logger {
	logLevel := slog.LevelInfo
	if appConfig.Log != nil {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(appConfig.Log.Level)); err == nil {
			logLevel = lvl
		}
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}
