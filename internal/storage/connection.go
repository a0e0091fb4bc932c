// Package storage persists quotes, peer offers, portfolio lots, and spotted
// promotions in an embedded BadgerDB document store via badgerhold.
//
// Quote and offer history is strictly append-only: keys are allocated from a
// badger sequence, so insertion order is total and historical rows are never
// touched again. Readers never block writers.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/timshannon/badgerhold/v4"

	"github.com/brmiles/milhas-radar/internal/common"
	"github.com/brmiles/milhas-radar/internal/config"
)

// DB manages the Badger database connection shared by all stores.
type DB struct {
	store  *badgerhold.Store
	logger *common.Logger
}

// Open creates the database directory if needed and opens the store.
func Open(logger *common.Logger, cfg *config.BadgerConfig) (*DB, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	logger.Debug().Str("path", cfg.Path).Msg("opening Badger database")

	options := badgerhold.DefaultOptions
	options.Dir = cfg.Path
	options.ValueDir = cfg.Path
	options.Logger = nil // silence badger's own logger

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return &DB{store: store, logger: logger}, nil
}

// Store returns the underlying badgerhold store.
func (d *DB) Store() *badgerhold.Store {
	return d.store
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}
