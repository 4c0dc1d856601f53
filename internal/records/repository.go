// Package records persists the users and currentUser collections as JSON
// documents in a key-value store.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/careerpilot/careerpilot/internal/career"
	"github.com/careerpilot/careerpilot/internal/store"
)

// Fixed document keys.
const (
	UsersKey       = "users"
	CurrentUserKey = "currentUser"
)

// Repository loads and saves the two collections. There are no
// transactions: concurrent writers race and the last write wins.
type Repository interface {
	// LoadAccounts returns every registered account. A missing or corrupt
	// users document yields an empty slice.
	LoadAccounts(ctx context.Context) ([]career.Account, error)

	// SaveAccounts replaces the users document.
	SaveAccounts(ctx context.Context, accounts []career.Account) error

	// LoadSession returns the persisted session, or nil when there is none
	// or the document is corrupt.
	LoadSession(ctx context.Context) (*career.Session, error)

	// SaveSession replaces the currentUser document.
	SaveSession(ctx context.Context, s career.Session) error

	// ClearSession removes the currentUser document.
	ClearSession(ctx context.Context) error
}

// KVRepository implements Repository over a store.KV.
type KVRepository struct {
	kv  store.KV
	log *zap.Logger
	now func() time.Time
}

// NewKVRepository creates a repository over kv. log may be nil.
func NewKVRepository(kv store.KV, log *zap.Logger) *KVRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &KVRepository{kv: kv, log: log, now: time.Now}
}

func (r *KVRepository) LoadAccounts(ctx context.Context) ([]career.Account, error) {
	var accounts []career.Account
	ok, err := r.load(ctx, UsersKey, &accounts)
	if err != nil {
		return nil, err
	}
	if !ok || accounts == nil {
		return []career.Account{}, nil
	}
	return accounts, nil
}

func (r *KVRepository) SaveAccounts(ctx context.Context, accounts []career.Account) error {
	if accounts == nil {
		accounts = []career.Account{}
	}
	return r.save(ctx, UsersKey, accounts)
}

func (r *KVRepository) LoadSession(ctx context.Context) (*career.Session, error) {
	var s *career.Session
	ok, err := r.load(ctx, CurrentUserKey, &s)
	if err != nil || !ok {
		return nil, err
	}
	if s != nil && s.Email == "" {
		r.log.Warn("stored session has no email; ignoring it", zap.String("key", CurrentUserKey))
		return nil, nil
	}
	return s, nil
}

func (r *KVRepository) SaveSession(ctx context.Context, s career.Session) error {
	return r.save(ctx, CurrentUserKey, s)
}

func (r *KVRepository) ClearSession(ctx context.Context) error {
	if err := r.kv.Delete(ctx, CurrentUserKey); err != nil {
		return fmt.Errorf("clear %s: %w", CurrentUserKey, err)
	}
	return nil
}

// load decodes the document at key into out. It reports false when the
// document is absent or corrupt. Storage errors are returned; parse errors
// are not.
func (r *KVRepository) load(ctx context.Context, key string, out any) (bool, error) {
	raw, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		r.quarantine(ctx, key, raw, err)
		return false, nil
	}
	return true, nil
}

// quarantine copies a corrupt document aside before it is treated as
// empty, so the next save does not destroy the only copy.
func (r *KVRepository) quarantine(ctx context.Context, key string, raw []byte, parseErr error) {
	backup := key + ".corrupt." + strconv.FormatInt(r.now().UnixNano(), 10)
	fields := []zap.Field{
		zap.String("key", key),
		zap.Int("bytes", len(raw)),
		zap.Error(parseErr),
	}

	if err := r.kv.Put(ctx, backup, raw); err != nil {
		r.log.Warn("corrupt document treated as empty; backup failed",
			append(fields, zap.NamedError("backup_error", err))...)
		return
	}
	r.log.Warn("corrupt document treated as empty",
		append(fields, zap.String("backup", backup))...)
}

func (r *KVRepository) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
