package config

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/careerpilot/careerpilot/internal/store"
)

// Storage is the opened persistence layer: the document store holding the
// users and currentUser collections, plus the local LLM event log.
type Storage struct {
	KV store.KV

	// Events is nil for the memory backend.
	Events store.EventRepo

	db *store.Store
}

// OpenStorage opens the configured backend. Every backend except memory
// also opens the local SQLite database for the LLM event log.
func OpenStorage(ctx context.Context, cfg StorageConfig, log *zap.Logger) (*Storage, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Backend == BackendMemory {
		return &Storage{KV: store.NewMemoryKV()}, nil
	}

	path := cfg.Path
	if path == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		path = p
	} else if err := store.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := store.Open(ctx, path, log)
	if err != nil {
		return nil, err
	}
	s := &Storage{Events: db.EventRepo(), db: db}

	switch cfg.Backend {
	case BackendSQLite:
		s.KV = db.KV()
	case BackendRedis:
		s.KV, err = store.NewRedisKV(ctx, store.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	case BackendPostgres:
		s.KV, err = store.NewPostgresKV(ctx, cfg.PostgresDSN)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}

	log.Debug("storage opened",
		zap.String("backend", cfg.Backend),
		zap.String("event_log", path),
	)
	return s, nil
}

// Close releases the document store and the event log database.
func (s *Storage) Close() error {
	var errs []error
	if s.KV != nil {
		errs = append(errs, s.KV.Close())
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	return errors.Join(errs...)
}
