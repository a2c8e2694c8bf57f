package config

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"reelarchitect/internal/auth"
	"reelarchitect/internal/history"
	"reelarchitect/internal/session"
	"reelarchitect/models"
)

const signInTimeout = 30 * time.Second

// HistoryBackend is the identity provider and store factory for the
// configured HISTORY_BACKEND.
type HistoryBackend struct {
	Name     string
	Provider auth.Provider
	Open     session.StoreFactory
	close    func() error
}

// Close releases whatever the backend holds open.
func (b *HistoryBackend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// NewHistoryBackend wires the history backend named in cfg.
//
// With Supabase each signed-in user gets their own client carrying their
// access token, so row-level security scopes every query to that user. The
// token is refreshed through the same provider before it expires. The
// sqlite and memory backends share one store and hand out local identities.
func NewHistoryBackend(cfg *Config, log *logrus.Logger) (*HistoryBackend, error) {
	switch cfg.HistoryBackend {
	case BackendSupabase:
		url, key := cfg.SupabaseURL, cfg.SupabaseAnonKey
		provider := auth.NewSupabaseProvider(url, key, signInTimeout)
		log.WithField("supabase_url", url).Info("Using Supabase history backend.")
		return &HistoryBackend{
			Name:     BackendSupabase,
			Provider: provider,
			Open: func(identity models.UserIdentity) (history.Store, error) {
				tables, err := auth.NewUserTables(url, key, identity, provider, log)
				if err != nil {
					return nil, fmt.Errorf("error initializing Supabase client: %w", err)
				}
				return history.NewSupabaseStore(tables), nil
			},
		}, nil

	case BackendSQLite:
		store, err := history.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.WithField("path", cfg.SQLitePath).Info("Using SQLite history backend.")
		return &HistoryBackend{
			Name:     BackendSQLite,
			Provider: auth.LocalProvider{},
			Open:     shared(store),
			close:    store.Close,
		}, nil

	case BackendMemory:
		log.Warn("Using in-memory history backend; history is lost on restart.")
		return &HistoryBackend{
			Name:     BackendMemory,
			Provider: auth.LocalProvider{},
			Open:     shared(history.NewMemoryStore()),
		}, nil
	}
	return nil, fmt.Errorf("unsupported HISTORY_BACKEND: %q", cfg.HistoryBackend)
}

func shared(store history.Store) session.StoreFactory {
	return func(models.UserIdentity) (history.Store, error) { return store, nil }
}
