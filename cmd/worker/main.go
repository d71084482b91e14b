// Binary worker consumes analysis requests from Kafka and runs the corpus
// analysis pipeline in the background.  Results are persisted and announced
// exactly as if the analysis had run inside the API server.
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
	"github.com/lexanalitica/Sentencia-Intelligence/internal/domain/document"
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
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/errors"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/types/common"
)

const (
	defaultConfigPath = "configs/config.yaml"
	defaultHealthPort = 8081
)

// Injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	healthPort := flag.Int("health-port", defaultHealthPort, "port for health and metrics endpoints")
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
	logger = logger.Named("worker")
	logger.Info("starting sentencia worker",
		logging.String("version", version),
		logging.Int("concurrency", cfg.Worker.Concurrency))

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "sentencia",
		Subsystem:            "worker",
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
	publisher := kafka.NewEventPublisher(producer, "worker")

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

	job := &analysisJob{
		corpora:   corpusRepo,
		judgments: judgments,
		analyzer:  analysisSvc,
		logger:    logger,
	}

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:         cfg.Kafka.Brokers,
		GroupID:         cfg.Kafka.GroupID,
		Topics:          []string{kafka.TopicAnalysisRequested},
		AutoOffsetReset: cfg.Kafka.AutoOffsetReset,
		RetryConfig: kafka.RetryConfig{
			MaxRetries:      cfg.Worker.MaxRetries,
			RetryBackoff:    time.Second,
			MaxRetryBackoff: 30 * time.Second,
			DeadLetterTopic: kafka.TopicDeadLetterAnalysis,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to create kafka consumer", logging.Err(err))
		os.Exit(1)
	}
	defer consumer.Close()

	if err := consumer.Subscribe(kafka.TopicAnalysisRequested, job.Handle); err != nil {
		logger.Error("failed to subscribe", logging.Err(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		logger.Error("failed to start consumer", logging.Err(err))
		os.Exit(1)
	}

	healthHandler := handlers.NewHealthHandler(version, logger, appMetrics)
	healthHandler.Register("postgres", conn.HealthCheck)
	healthHandler.Register("redis", redisClient.Ping)
	healthHandler.Register("minio", func(ctx context.Context) error {
		_, err := minioClient.HealthCheck(ctx)
		return err
	})

	healthSrv := httpserver.NewServer(
		config.ServerConfig{Port: *healthPort},
		httpserver.NewRouter(httpserver.RouterConfig{
			HealthHandler:  healthHandler,
			MetricsHandler: collector.Handler(),
			Mode:           "release",
			Logger:         logger,
			Metrics:        appMetrics,
		}),
		logger,
	)
	go func() {
		if err := healthSrv.Start(); err != nil {
			logger.Error("health server failed", logging.Err(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("received shutdown signal", logging.String("signal", sig.String()))

	cancel()
	if err := consumer.Close(); err != nil {
		logger.Error("consumer shutdown error", logging.Err(err))
	}
	if err := healthSrv.Stop(context.Background()); err != nil {
		logger.Error("health server shutdown error", logging.Err(err))
	}
	logger.Info("sentencia worker stopped")
}

// analysisJob processes one analysis.requested event: load the corpus, pull
// judgment text from the blob store, and run the pipeline.  The service
// persists the result and emits analysis.completed on its own.
type analysisJob struct {
	corpora   document.Repository
	judgments *minio.JudgmentStore
	analyzer  analysis.Service
	logger    logging.Logger
}

func (j *analysisJob) Handle(ctx context.Context, msg *common.Message) error {
	envelope, err := kafka.MessageToEventEnvelope(msg)
	if err != nil {
		return err
	}
	var payload kafka.AnalysisRequestedPayload
	if err := envelope.DecodePayload(&payload); err != nil {
		return err
	}
	if payload.CorpusID == "" {
		return errors.New(errors.ErrCodeValidation, "analysis request without corpus id")
	}

	start := time.Now()
	corpus, err := j.corpora.FindByID(ctx, common.ID(payload.CorpusID))
	if err != nil {
		return err
	}
	j.hydrate(ctx, corpus)

	result, err := j.analyzer.AnalyzeCorpus(ctx, corpus)
	if err != nil {
		return err
	}

	j.logger.Info("corpus analyzed",
		logging.String("corpus_id", payload.CorpusID),
		logging.String("analysis_id", result.ID.String()),
		logging.String("risk_level", string(result.Risk.Level)),
		logging.Duration("duration", time.Since(start)))
	return nil
}

// hydrate fills document content from the blob store.  Unreadable blobs keep
// empty content; the pipeline reports those documents as skipped.
func (j *analysisJob) hydrate(ctx context.Context, corpus *document.Corpus) {
	for i := range corpus.Documents {
		if corpus.Documents[i].Content != "" {
			continue
		}
		content, err := j.judgments.Get(ctx, corpus.ID.String(), corpus.Documents[i].ID.String())
		if err != nil {
			j.logger.Warn("failed to hydrate document content",
				logging.String("corpus_id", corpus.ID.String()),
				logging.String("document_id", corpus.Documents[i].ID.String()),
				logging.Err(err))
			continue
		}
		corpus.Documents[i].Content = content
	}
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

func postgresConfig(cfg config.DatabaseConfig) postgres.PostgresConfig {
	return postgres.PostgresConfig{
		Host:         cfg.Host,
		Port:         cfg.Port,
		Database:     cfg.DBName,
		Username:     cfg.User,
		Password:     cfg.Password,
		SSLMode:      cfg.SSLMode,
		MaxOpenConns: cfg.MaxConns,
	}
}

func redisConfig(cfg config.RedisConfig) *redis.Config {
	return &redis.Config{
		Mode:     "standalone",
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func minioConfig(cfg config.MinIOConfig) *minio.MinIOConfig {
	return &minio.MinIOConfig{
		Endpoint:        cfg.Endpoint,
		AccessKeyID:     cfg.AccessKey,
		SecretAccessKey: cfg.SecretKey,
		UseSSL:          cfg.UseSSL,
		DefaultBucket:   cfg.Bucket,
		Buckets:         minio.BucketConfig{Documents: cfg.Bucket},
	}
}
