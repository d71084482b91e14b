package main

import (
	"context"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/config"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/database/postgres"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/database/redis"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/storage/minio"
)

// judgmentContentStore narrows the judgment store to the handler's content
// port, dropping the stored-object metadata the handlers do not need.
type judgmentContentStore struct {
	store *minio.JudgmentStore
}

func (s *judgmentContentStore) Put(ctx context.Context, corpusID, documentID, name, content string) error {
	_, err := s.store.Put(ctx, corpusID, documentID, name, content)
	return err
}

func (s *judgmentContentStore) Get(ctx context.Context, corpusID, documentID string) (string, error) {
	return s.store.Get(ctx, corpusID, documentID)
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
