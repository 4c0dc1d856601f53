// Package app wires configuration, logging, storage and services into one
// value for a single CLI invocation.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/careerpilot/careerpilot/internal/account"
	"github.com/careerpilot/careerpilot/internal/config"
	"github.com/careerpilot/careerpilot/internal/guidance"
	"github.com/careerpilot/careerpilot/internal/llm"
	"github.com/careerpilot/careerpilot/internal/logging"
	"github.com/careerpilot/careerpilot/internal/records"
	"github.com/careerpilot/careerpilot/internal/session"
	"github.com/careerpilot/careerpilot/internal/store"
)

var (
	// ErrNoEventLog is returned by Events for backends without an event log.
	ErrNoEventLog = errors.New("LLM event log is not available with the memory backend")

	// ErrLLMNotConfigured is returned by Advisor when no usable provider
	// configuration was found.
	ErrLLMNotConfigured = errors.New("LLM provider not configured")
)

// Options override the loaded configuration. Zero values keep it.
type Options struct {
	// ConfigPath is the TOML file. Empty means config.DefaultConfigPath().
	ConfigPath string

	// DBPath overrides storage.path.
	DBPath string

	// Provider overrides llm.provider.
	Provider string

	// Ephemeral switches storage to the in-memory backend. Nothing
	// outlives the process.
	Ephemeral bool

	// LLMProvider, when set, is used instead of building one from config.
	LLMProvider llm.Provider

	// Logger, when set, is used instead of building one from config.
	Logger *zap.Logger
}

// App holds everything a command needs. The session is restored on Open.
type App struct {
	Config  config.Config
	Log     *zap.Logger
	Session *session.Service

	storage *config.Storage
	ownLog  bool

	mu       sync.Mutex
	provider llm.Provider
	advisor  *guidance.Advisor
}

// Open loads configuration, opens storage and restores the session.
func Open(ctx context.Context, opts Options) (*App, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if opts.DBPath != "" {
		cfg.Storage.Path = opts.DBPath
	}
	if opts.Provider != "" {
		cfg.LLM.Provider = opts.Provider
	}
	if opts.Ephemeral {
		cfg.Storage.Backend = config.BackendMemory
	}

	a := &App{Config: cfg, Log: opts.Logger, provider: opts.LLMProvider}
	if a.Log == nil {
		if a.Log, err = logging.New(cfg.Log); err != nil {
			return nil, err
		}
		a.ownLog = true
	}

	a.storage, err = config.OpenStorage(ctx, cfg.Storage, a.Log)
	if err != nil {
		a.closeLog()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	repo := records.NewKVRepository(a.storage.KV, a.Log.Named("records"))
	accounts := account.NewManager(repo, a.Log.Named("account"))
	a.Session = session.NewService(accounts, repo, a.Log.Named("session"))
	if err := a.Session.Restore(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Advisor returns the guidance advisor, building the LLM provider on first
// use so commands that never call the model work without an API key.
func (a *App) Advisor(ctx context.Context) (*guidance.Advisor, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.advisor != nil {
		return a.advisor, nil
	}
	if a.provider == nil {
		if err := a.Config.LLM.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLLMNotConfigured, err)
		}
		p, err := llm.NewProvider(ctx, a.Config.LLM, a.storage.Events, a.Log.Named("llm"))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", guidance.ErrServiceUnavailable, err)
		}
		a.provider = p
	}
	a.advisor = guidance.NewAdvisor(a.provider, guidance.DefaultConfig(), a.Log.Named("guidance"))
	return a.advisor, nil
}

// Events returns the LLM event log.
func (a *App) Events() (store.EventRepo, error) {
	if a.storage.Events == nil {
		return nil, ErrNoEventLog
	}
	return a.storage.Events, nil
}

// Close releases storage and flushes the logger.
func (a *App) Close() error {
	var err error
	if a.storage != nil {
		err = a.storage.Close()
	}
	a.closeLog()
	return err
}

func (a *App) closeLog() {
	if a.ownLog {
		_ = a.Log.Sync()
	}
}
