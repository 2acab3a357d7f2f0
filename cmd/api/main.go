package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"payflow/config"
	"payflow/internal/payments"
	"payflow/internal/payments/handlers"
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

	redisClient := setupRedisClient(appConfig)
	queue := payments.NewWorkQueue(redisClient)

	store, closeStore := setupStore(appConfig, redisClient, logger)
	defer closeStore()

	aggregator := payments.NewSummaryAggregator(store, appConfig.Summary.ReadTimeout, logger)

	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = jsonSerializer{}
	if appConfig.Telemetry.Enabled {
		e.Use(otelecho.Middleware(appConfig.Telemetry.ServiceName))
	}
	e.Use(middleware.Recover())

	paymentHandler := handlers.NewPaymentHandler(queue)
	summaryHandler := handlers.NewSummaryHandler(aggregator)
	purgeHandler := handlers.NewPurgeHandler(store, queue)

	e.POST("/payments", paymentHandler.Handle)
	e.GET("/payments-summary", summaryHandler.Handle)
	e.POST("/purge", purgeHandler.Handle)
	e.POST("/purge-payments", purgeHandler.Handle)
	e.GET("/health", handlers.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	logger.Info("starting api server", "host", appConfig.Server.Host, "port", appConfig.Server.Port)
	if err := e.Start(fmt.Sprintf("%s:%d", appConfig.Server.Host, appConfig.Server.Port)); err != nil {
		log.Fatal(err)
	}
}

// jsonSerializer swaps echo's encoding/json for goccy's drop-in replacement.
type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	return json.NewDecoder(c.Request().Body).Decode(i)
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
