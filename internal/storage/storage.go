// Package storage opens the kv driver named by configuration.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jask/vitaflow/internal/config"
	"github.com/jask/vitaflow/internal/kv"
	"github.com/jask/vitaflow/internal/kv/file"
	"github.com/jask/vitaflow/internal/kv/memory"
	"github.com/jask/vitaflow/internal/kv/postgres"
	"github.com/jask/vitaflow/internal/kv/s3"
	"github.com/jask/vitaflow/internal/kv/sqlite"
)

// Driver identifies a concrete kv.Store implementation.
type Driver string

const (
	DriverMemory   Driver = "memory"   // in-process only (tests / ephemeral runs)
	DriverFile     Driver = "file"     // one JSON document on disk
	DriverSQLite   Driver = "sqlite"   // embedded sqlite file
	DriverPostgres Driver = "postgres" // PostgreSQL server
	DriverS3       Driver = "s3"       // one object per key in a bucket
)

// Open builds the configured driver and wraps it with metrics and debug
// logging. observer may be nil.
func Open(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger, observer kv.Observer) (*kv.Instrumented, error) {
	store, err := openDriver(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Debug("storage opened", zap.String("driver", cfg.Driver), zap.String("target", Describe(cfg)))
	}
	return kv.Instrument(store, observer, logger), nil
}

// The store is only valid when err is nil.
func openDriver(ctx context.Context, cfg config.StorageConfig) (kv.Store, error) {
	switch Driver(cfg.Driver) {
	case DriverMemory:
		return memory.New(), nil
	case DriverFile:
		return file.Open(cfg.File.Path)
	case "", DriverSQLite:
		return sqlite.Open(cfg.SQLite.Path)
	case DriverPostgres:
		return postgres.Open(ctx, cfg.Postgres.DSN, cfg.Postgres.Table)
	case DriverS3:
		return s3.New(ctx, s3.Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			Prefix:          cfg.S3.Prefix,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %s", cfg.Driver)
	}
}

// Describe names where the configured driver keeps its data, without secrets.
func Describe(cfg config.StorageConfig) string {
	switch Driver(cfg.Driver) {
	case DriverMemory:
		return "memory"
	case DriverFile:
		return cfg.File.Path
	case "", DriverSQLite:
		return cfg.SQLite.Path
	case DriverPostgres:
		return "postgres table " + cfg.Postgres.Table
	case DriverS3:
		return fmt.Sprintf("s3://%s/%s", cfg.S3.Bucket, cfg.S3.Prefix)
	}
	return cfg.Driver
}
