package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mind-engage/mindengage-courseware/internal/config"
	"github.com/mind-engage/mindengage-courseware/internal/db"
	"github.com/mind-engage/mindengage-courseware/internal/journal"
	"github.com/mind-engage/mindengage-courseware/internal/storage"
)

// backend is the configured persistence: a KV for standalone state and a
// journal for learner events.
type backend struct {
	kv      storage.KV
	journal journal.Recorder
	db      *sql.DB
}

func openBackend(ctx context.Context, c config.Config) (*backend, error) {
	switch c.StoreDriver {
	case config.StoreMemory:
		return &backend{kv: storage.NewMemoryKV(), journal: &journal.Memory{}}, nil
	case config.StoreFS:
		fs, err := storage.NewFSStore(c.StorePath)
		if err != nil {
			return nil, fmt.Errorf("fs store: %w", err)
		}
		return &backend{kv: fs, journal: journal.Nop{}}, nil
	case config.StoreSQLite, config.StorePostgres:
		dbh, err := db.Open(ctx, db.Driver(c.StoreDriver), c.StoreDSN)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
		return &backend{kv: storage.NewSQLStore(dbh), journal: journal.NewSQLRepo(dbh), db: dbh}, nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", c.StoreDriver)
	}
}

func (b *backend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
