// Binary apiserver runs the judgment ingestion and analysis HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/application/analysis"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/config"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/database/postgres"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/database/redis"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/dictstore"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/storage/minio"
	httpserver "github.com/lexanalitica/Sentencia-Intelligence/internal/interfaces/http"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/interfaces/http/handlers"
)

const (
	defaultConfigPath    = "configs/config.yaml"
	defaultMigrationsDir = "migrations"
)

// Injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	migrationsDir := flag.String("migrations", defaultMigrationsDir, "path to SQL migrations (empty to skip)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger = logger.Named("apiserver")
	logger.Info("starting sentencia API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port))

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "sentencia",
		Subsystem:            "api",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize metrics collector", logging.Err(err))
		os.Exit(1)
	}
	appMetrics := prometheus.NewAppMetrics(collector)

	conn, err := postgres.NewConnection(postgresConfig(cfg.Database), logger)
	if err != nil {
		logger.Error("failed to connect to postgres", logging.Err(err))
		os.Exit(1)
	}
	defer conn.Close()

	if *migrationsDir != "" {
		if err := conn.RunMigrations(*migrationsDir); err != nil {
			logger.Error("failed to run migrations", logging.Err(err))
			os.Exit(1)
		}
	}

	corpusRepo := repositories.NewPostgresCorpusRepo(conn, logger)
	analysisRepo := repositories.NewPostgresAnalysisRepo(conn, logger)

	redisClient, err := redis.NewClient(redisConfig(cfg.Redis), logger)
	if err != nil {
		logger.Error("failed to connect to redis", logging.Err(err))
		os.Exit(1)
	}
	defer redisClient.Close()
	resultCache := redis.NewAnalysisCache(redis.NewCache(redisClient, logger), cfg.Redis.TTL)

	producer, err := kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers}, logger)
	if err != nil {
		logger.Error("failed to create kafka producer", logging.Err(err))
		os.Exit(1)
	}
	defer producer.Close()
	publisher := kafka.NewEventPublisher(producer, "apiserver")

	topicManager, err := kafka.NewTopicManager(cfg.Kafka.Brokers, logger)
	if err != nil {
		logger.Error("failed to connect to kafka", logging.Err(err))
		os.Exit(1)
	}
	defer topicManager.Close()
	{
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := topicManager.EnsureDefaultTopics(ctx); err != nil {
			logger.Warn("failed to ensure kafka topics", logging.Err(err))
		}
		cancel()
	}

	minioClient, err := minio.NewClient(minioConfig(cfg.MinIO), logger)
	if err != nil {
		logger.Error("failed to connect to object storage", logging.Err(err))
		os.Exit(1)
	}
	defer minioClient.Close()
	judgments := minio.NewJudgmentStore(
		minio.NewObjectRepository(minioClient, logger),
		minioClient.BucketFor("documents"),
		logger,
	)

	dictStore, err := dictstore.NewStore(cfg.Dictionary, logger, appMetrics)
	if err != nil {
		logger.Error("failed to load phrase dictionary", logging.Err(err))
		os.Exit(1)
	}
	defer dictStore.Close()

	analysisSvc, err := analysis.NewService(analysisRepo, resultCache, publisher, appMetrics, logger,
		analysis.WithDictionary(dictStore.Dictionary(), dictStore.TierTable()),
		analysis.WithCalibration(cfg.Calibration),
		analysis.WithConcurrency(cfg.Worker.Concurrency),
	)
	if err != nil {
		logger.Error("failed to build analysis service", logging.Err(err))
		os.Exit(1)
	}

	healthHandler := handlers.NewHealthHandler(version, logger, appMetrics)
	healthHandler.Register("postgres", conn.HealthCheck)
	healthHandler.Register("redis", redisClient.Ping)
	healthHandler.Register("kafka", func(ctx context.Context) error {
		_, err := topicManager.ListTopics(ctx)
		return err
	})
	healthHandler.Register("minio", func(ctx context.Context) error {
		_, err := minioClient.HealthCheck(ctx)
		return err
	})

	router := httpserver.NewRouter(httpserver.RouterConfig{
		CorpusHandler: handlers.NewCorpusHandler(
			corpusRepo, &judgmentContentStore{store: judgments}, analysisSvc, publisher, logger),
		AnalysisHandler:   handlers.NewAnalysisHandler(analysisSvc, analysisRepo, logger),
		DictionaryHandler: handlers.NewDictionaryHandler(dictStore),
		HealthHandler:     healthHandler,
		MetricsHandler:    collector.Handler(),
		Mode:              cfg.Server.Mode,
		Logger:            logger,
		Metrics:           appMetrics,
	})

	server := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", logging.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", logging.Err(err))
		}
	}

	if err := server.Stop(context.Background()); err != nil {
		logger.Error("http server shutdown error", logging.Err(err))
	}
	logger.Info("sentencia API server stopped")
}

// loadConfig reads the file at path, falling back to environment variables
// when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "config file %s not found, using environment\n", path)
		return config.LoadFromEnv()
	}
	return config.Load(path)
}
