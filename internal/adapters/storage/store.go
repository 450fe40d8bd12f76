// Package storage provides the string key-value backends that persist
// player progress.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/netninja/internal/config"
	"github.com/okian/netninja/pkg/metrics"
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value under key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// Open builds the store selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.StoreDriver {
	case config.DriverMemory:
		s = NewMemory()
	case config.DriverFile:
		s, err = NewFile(cfg.StorePath, opts...)
	case config.DriverSQLite:
		s, err = NewSQLite(ctx, cfg.StorePath)
	case config.DriverRedis:
		s, err = NewRedis(ctx, cfg.RedisAddr)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.StoreDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	return Instrument(cfg.StoreDriver, s), nil
}

// Instrument wraps s so every call records its latency under driver.
func Instrument(driver string, s Store) Store {
	return &instrumented{driver: driver, next: s}
}

type instrumented struct {
	driver string
	next   Store
}

func (i *instrumented) observe(op string, start time.Time) {
	metrics.RecordStorageLatency(i.driver, op, float64(time.Since(start).Microseconds())/1000)
}

func (i *instrumented) Get(ctx context.Context, key string) (string, error) {
	defer i.observe("get", time.Now())
	return i.next.Get(ctx, key)
}

func (i *instrumented) Set(ctx context.Context, key, value string) error {
	defer i.observe("set", time.Now())
	return i.next.Set(ctx, key, value)
}

func (i *instrumented) Delete(ctx context.Context, key string) error {
	defer i.observe("delete", time.Now())
	return i.next.Delete(ctx, key)
}

func (i *instrumented) Close() error { return i.next.Close() }
