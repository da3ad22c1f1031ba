package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/hotspot-cli/internal/model"
	"github.com/sells-group/hotspot-cli/internal/store"
)

// initStore opens the configured store and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "hotspot.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.Pool.MaxConns,
			MinConns: cfg.Store.Pool.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// loadIncidents reads the incidents matching the params' filters.
func loadIncidents(ctx context.Context, st store.Store, district, category string) ([]model.Incident, error) {
	incidents, err := st.ListIncidents(ctx, store.IncidentFilter{
		District: district,
		Category: category,
	})
	if err != nil {
		return nil, eris.Wrap(err, "load incidents")
	}
	if len(incidents) == 0 {
		return nil, eris.New("no incidents in store; run `hotspot import` first")
	}
	return incidents, nil
}
