package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresKVSchema = `CREATE TABLE IF NOT EXISTS kv_documents (
	doc_key    TEXT PRIMARY KEY,
	doc_value  BYTEA NOT NULL,
	updated_at BIGINT NOT NULL
)`

// PostgresKV implements KV on a PostgreSQL table through a pgx pool.
type PostgresKV struct {
	pool *pgxpool.Pool
}

// NewPostgresKV connects to dsn and creates the document table if needed.
func NewPostgresKV(ctx context.Context, dsn string) (*PostgresKV, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresKVSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create document table: %w", err)
	}

	return &PostgresKV{pool: pool}, nil
}

func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args := kvGetQuery(dialect.Postgres, key)
	var value []byte
	err := p.pool.QueryRow(ctx, query, args...).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get document %q: %w", key, err)
	}
	return value, true, nil
}

func (p *PostgresKV) Put(ctx context.Context, key string, value []byte) error {
	query, args := kvPutQuery(dialect.Postgres, key, value, time.Now().UTC())
	if _, err := p.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("put document %q: %w", key, err)
	}
	return nil
}

func (p *PostgresKV) Delete(ctx context.Context, key string) error {
	query, args := kvDeleteQuery(dialect.Postgres, key)
	if _, err := p.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete document %q: %w", key, err)
	}
	return nil
}

func (p *PostgresKV) Close() error {
	p.pool.Close()
	return nil
}
