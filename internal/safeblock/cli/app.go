package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/haukened/safe-block/internal/safeblock/common/clock"
	"github.com/haukened/safe-block/internal/safeblock/common/log"
	"github.com/haukened/safe-block/internal/safeblock/config"
	"github.com/haukened/safe-block/internal/safeblock/domain"
	"github.com/haukened/safe-block/internal/safeblock/gateways/enforcement"
	"github.com/haukened/safe-block/internal/safeblock/repos/blocklist/bloom"
	"github.com/haukened/safe-block/internal/safeblock/repos/blocklist/lru"
	"github.com/haukened/safe-block/internal/safeblock/repos/reference"
	"github.com/haukened/safe-block/internal/safeblock/repos/settings"
	"github.com/haukened/safe-block/internal/safeblock/repos/settings/bolt"
	"github.com/haukened/safe-block/internal/safeblock/services/compiler"
	"github.com/haukened/safe-block/internal/safeblock/services/lifecycle"
	"github.com/haukened/safe-block/internal/safeblock/services/matcher"
)

// Enforcer is an enforcement point that can also list what it holds.
type Enforcer interface {
	lifecycle.Enforcer
	Rules() []domain.EnforcementRule
}

// Application holds the wired components a command works with.
type Application struct {
	Config    *config.AppConfig
	Store     settings.Repository
	Enforcer  Enforcer
	Lifecycle *lifecycle.Lifecycle
	Matcher   *matcher.Matcher
	logger    log.Logger
}

// Build constructs all components and wires them together. The committed
// settings are pushed to the enforcer before Build returns.
func Build(cfg *config.AppConfig, logger log.Logger) (*Application, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	ref, err := buildReference(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference list: %w", err)
	}

	store, err := openStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}

	app, err := wire(cfg, store, ref, logger)
	if err != nil {
		return nil, errors.Join(err, store.Close())
	}
	return app, nil
}

func wire(cfg *config.AppConfig, store settings.Repository, ref *domain.ReferenceList, logger log.Logger) (*Application, error) {
	enf, err := buildEnforcer(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open ruleset: %w", err)
	}

	codec, err := lifecycle.NewCodec(cfg.PasswordCodec)
	if err != nil {
		return nil, err
	}

	lc, err := lifecycle.Open(lifecycle.Options{
		Store:    store,
		Enforcer: enf,
		Compiler: compiler.New(ref, logger),
		Codec:    codec,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	cache, err := lru.New(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create decision cache: %w", err)
	}
	m := matcher.New(matcher.Options{
		Reference: ref,
		Cache:     cache,
		Bloom:     bloom.NewFactory(),
		FPRate:    cfg.BloomFPRate,
		Logger:    logger,
	})
	lc.Subscribe(m.Update)

	if err := lc.Sync(); err != nil {
		return nil, err
	}

	logger.Info(map[string]any{
		"db_path":    cfg.DBPath,
		"rules_path": cfg.RulesPath,
		"reference":  ref.Len(),
		"state":      lc.State().String(),
	}, "application_ready")

	return &Application{
		Config:    cfg,
		Store:     store,
		Enforcer:  enf,
		Lifecycle: lc,
		Matcher:   m,
		logger:    logger,
	}, nil
}

func buildReference(cfg *config.AppConfig, logger log.Logger) (*domain.ReferenceList, error) {
	format, err := reference.ParseFormat(cfg.ReferenceFormat)
	if err != nil {
		return nil, err
	}
	return reference.Load(cfg.ReferenceFile, format, logger)
}

func openStore(path string) (settings.Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return bolt.New(path, clock.RealClock{})
}

func buildEnforcer(cfg *config.AppConfig, logger log.Logger) (Enforcer, error) {
	if cfg.RulesPath == "" {
		return enforcement.NewMemory(), nil
	}
	return enforcement.NewFile(cfg.RulesPath, logger)
}

// Close releases the settings store.
func (a *Application) Close() error {
	if a == nil || a.Store == nil {
		return nil
	}
	return a.Store.Close()
}
