package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/innovation-earth/iepsite/internal/config"
	"github.com/innovation-earth/iepsite/internal/db"
	"github.com/innovation-earth/iepsite/internal/localstore"
	"github.com/innovation-earth/iepsite/internal/logging"
	"github.com/innovation-earth/iepsite/internal/projects"
	"github.com/innovation-earth/iepsite/internal/remote"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `iepsite init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the logger from config. --verbose forces debug level.
func newLogger(cfg *config.Config) (logging.Logger, error) {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	return logging.New(logging.Config{Level: level, Development: cfg.Log.Development})
}

// stack is the storage shared by the server and the projects commands.
type stack struct {
	cfg    *config.Config
	log    logging.Logger
	db     *db.DB
	local  *localstore.Store
	remote remote.Collection
	repo   *projects.Repository
	close  []func() error
}

// openStack loads config and opens the local and remote stores.
func openStack(ctx context.Context) (*stack, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s := &stack{cfg: cfg, log: log, db: database, local: localstore.NewStore(database)}
	s.close = append(s.close, database.Close)

	rc, closeRemote, err := openRemote(ctx, cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	if closeRemote != nil {
		s.close = append(s.close, closeRemote)
	}
	s.remote = rc
	s.repo = projects.NewRepository(rc, s.local, log, cfg.Remote.Timeout)
	return s, nil
}

// openRemote creates the remote collection selected by remote.driver. It
// returns a nil Collection when no driver is configured.
func openRemote(ctx context.Context, cfg *config.Config) (remote.Collection, func() error, error) {
	switch cfg.Remote.Driver {
	case config.RemoteNone:
		return nil, nil, nil
	case config.RemoteMemory:
		return remote.NewMemory(), nil, nil
	case config.RemoteFirestore:
		fs, err := remote.NewFirestore(ctx, remote.FirestoreConfig{
			ProjectID:       cfg.Remote.ProjectID,
			Collection:      cfg.Remote.Collection,
			CredentialsFile: cfg.Remote.CredentialsFile,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to firestore: %w", err)
		}
		return fs, fs.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown remote driver %q", cfg.Remote.Driver)
	}
}

// storeName describes where project reads come from.
func (s *stack) storeName() string {
	if s.remote == nil {
		return "local store " + s.db.Path()
	}
	return fmt.Sprintf("%s collection %q (local fallback %s)", s.cfg.Remote.Driver, s.cfg.Remote.Collection, s.db.Path())
}

// Close releases everything opened by openStack, last opened first.
func (s *stack) Close() error {
	var errs []error
	for i := len(s.close) - 1; i >= 0; i-- {
		if err := s.close[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.log.Sync()
	return errors.Join(errs...)
}
