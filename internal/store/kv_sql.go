package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const (
	kvTable      = "kv_documents"
	kvColKey     = "doc_key"
	kvColValue   = "doc_value"
	kvColUpdated = "updated_at"
)

// The document queries are shared by the SQLite and Postgres backends; only
// the dialect (placeholders, quoting) differs.

func kvGetQuery(d, key string) (string, []any) {
	return entsql.Dialect(d).
		Select(kvColValue).
		From(entsql.Table(kvTable)).
		Where(entsql.EQ(kvColKey, key)).
		Query()
}

func kvPutQuery(d, key string, value []byte, now time.Time) (string, []any) {
	return entsql.Dialect(d).
		Insert(kvTable).
		Columns(kvColKey, kvColValue, kvColUpdated).
		Values(key, value, now.UnixNano()).
		OnConflict(
			entsql.ConflictColumns(kvColKey),
			entsql.ResolveWithNewValues(),
		).
		Query()
}

func kvDeleteQuery(d, key string) (string, []any) {
	return entsql.Dialect(d).
		Delete(kvTable).
		Where(entsql.EQ(kvColKey, key)).
		Query()
}

// sqliteKV implements KV on the kv_documents table of a Store.
type sqliteKV struct {
	db *sql.DB
}

func (k *sqliteKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args := kvGetQuery(dialect.SQLite, key)
	var value []byte
	err := k.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get document %q: %w", key, err)
	}
	return value, true, nil
}

func (k *sqliteKV) Put(ctx context.Context, key string, value []byte) error {
	query, args := kvPutQuery(dialect.SQLite, key, value, time.Now().UTC())
	if _, err := k.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("put document %q: %w", key, err)
	}
	return nil
}

func (k *sqliteKV) Delete(ctx context.Context, key string) error {
	query, args := kvDeleteQuery(dialect.SQLite, key)
	if _, err := k.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete document %q: %w", key, err)
	}
	return nil
}

// Close is a no-op for the KV view of a Store; the Store owns the database.
func (k *sqliteKV) Close() error { return nil }
