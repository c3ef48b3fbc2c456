package di

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"FuelDesk/internal/domain/repository"
	"FuelDesk/internal/handler/api"
	"FuelDesk/internal/handler/web"
	internalrepo "FuelDesk/internal/repository"
	"FuelDesk/internal/service/forecast"
	"FuelDesk/internal/usecase"
	pkgch "FuelDesk/pkg/clickhouse"
	"FuelDesk/pkg/config"
	xhttp "FuelDesk/pkg/http"
	pkgkafka "FuelDesk/pkg/kafka"
	"FuelDesk/pkg/logger"
	"FuelDesk/pkg/metrics"
	"FuelDesk/pkg/ratelimit"
	"FuelDesk/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(logger.String("env", cfg.Environment)), nil
}

// ProvideRegistry creates the Prometheus registry served on the metrics path.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

// ProvideForecastGateway creates the client of the forecasting service.
func ProvideForecastGateway(cfg *config.Config) repository.ForecastGateway {
	return forecast.New(cfg.Forecast.APIRoot, xhttp.NewClient(xhttp.WithTimeout(cfg.Forecast.Timeout)))
}

// ProvideStateStore creates the console state container.
func ProvideStateStore(cfg *config.Config) *usecase.StateStore {
	return usecase.NewStateStore(cfg.Forecast.DropStale)
}

// ProvideDispatcher creates the dispatcher use case.
func ProvideDispatcher(
	gw repository.ForecastGateway,
	store *usecase.StateStore,
	m repository.Metrics,
	l *logger.Logger,
) *usecase.Dispatcher {
	return usecase.NewDispatcher(gw, store, m, l)
}

// ProvideConsole creates the console use case.
func ProvideConsole(
	d *usecase.Dispatcher,
	store *usecase.StateStore,
	m repository.Metrics,
	l *logger.Logger,
) *usecase.Console {
	return usecase.NewConsole(d, store, m, l)
}

// ProvideRateLimiter creates the action rate limiter. A nil limiter disables limiting.
func ProvideRateLimiter(cfg *config.Config, l *logger.Logger) (ratelimit.Limiter, func(), error) {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return nil, func() {}, nil
	}

	switch rl.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		l.Info("rate limiter: redis", logger.String("addr", cfg.Redis.Addr))
		cleanup := func() { _ = client.Close() }
		return ratelimit.NewRedis(client, rl.Prefix, rl.Capacity, rl.RefillPerSec), cleanup, nil
	default:
		return ratelimit.NewMemory(rl.Capacity, rl.RefillPerSec), func() {}, nil
	}
}

// ProvideClickHouseClient creates a ClickHouse client and the journal table.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithCompression(cfg.ClickHouse.Compression),
		pkgch.WithPool(cfg.ClickHouse.MaxOpenConns, cfg.ClickHouse.MaxOpenConns/2+1, 5*time.Minute),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := append([]string{"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database},
		internalrepo.JournalSchema(journalTable(cfg))...)
	if err := client.InitSchema(ctx, stmts); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithClientID(cfg.Kafka.ClientID),
		pkgkafka.WithBatchTimeout(cfg.Kafka.BatchTimeout),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideJournalRecorder creates the dispatch journal for the configured
// backend. Only the backend in use is connected.
func ProvideJournalRecorder(cfg *config.Config, m repository.Metrics, l *logger.Logger) (*usecase.JournalRecorder, func(), error) {
	var (
		pub     repository.JournalPublisher
		storage repository.JournalStorage
		closeCH func()
	)

	switch cfg.Journal.Backend {
	case usecase.JournalKafka:
		producer, err := ProvideKafkaProducer(cfg)
		if err != nil {
			return nil, nil, err
		}
		pub = internalrepo.NewKafkaJournalPublisher(producer, cfg.Journal.Topic)
		l.Info("journal: kafka", logger.Strings("brokers", cfg.Kafka.Brokers), logger.String("topic", cfg.Journal.Topic))
	case usecase.JournalClickHouse:
		client, err := ProvideClickHouseClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		storage = internalrepo.NewClickHouseJournalStorage(client.DB(), journalTable(cfg))
		closeCH = func() { _ = client.Close() }
		l.Info("journal: clickhouse", logger.String("table", journalTable(cfg)))
	}

	rec := usecase.NewJournalRecorder(pub, storage, m, l, cfg.Journal.Backend, cfg.Journal.Buffer)
	cleanup := func() {
		rec.Close()
		if closeCH != nil {
			closeCH()
		}
	}
	return rec, cleanup, nil
}

func journalTable(cfg *config.Config) string {
	return cfg.ClickHouse.Database + "." + cfg.Journal.Table
}

// ProvideStateHub creates the websocket hub streaming console state.
func ProvideStateHub(l *logger.Logger, console *usecase.Console) *api.StateHub {
	return api.NewStateHub(l, console)
}

// ProvideConsoleHandler creates the JSON API handler.
func ProvideConsoleHandler(l *logger.Logger, console *usecase.Console, limiter ratelimit.Limiter, hub *api.StateHub) *api.ConsoleEchoHandler {
	return api.NewConsoleEchoHandler(l, console, limiter, hub)
}

// ProvidePageHandler creates the page handler.
func ProvidePageHandler(l *logger.Logger, console *usecase.Console, limiter ratelimit.Limiter) *web.PageHandler {
	return web.NewPageHandler(l, console, limiter)
}

// ProvideRenderer parses the page templates.
func ProvideRenderer() (*web.Renderer, error) {
	return web.NewRenderer()
}

// ProvideHTTPServer creates the echo server with every route registered.
func ProvideHTTPServer(
	cfg *config.Config,
	l *logger.Logger,
	reg *prometheus.Registry,
	renderer *web.Renderer,
	apiHandler *api.ConsoleEchoHandler,
	pageHandler *web.PageHandler,
) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(xhttp.Handlers{apiHandler, pageHandler},
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS, cfg.Server.CORSOrigins...),
		xhttp.WithMetrics(metricsPath, reg, reg, cfg.Metrics.SlowThreshold),
		xhttp.WithRenderer(renderer),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	httpServer *xhttp.Server,
	console *usecase.Console,
	journal *usecase.JournalRecorder,
) *server.App {
	return server.New(cfg, l, httpServer, console, journal)
}
