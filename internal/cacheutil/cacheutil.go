// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
)

// Entry describes a stored cache artifact. Key is the encoded (hashed) key,
// Location is where the backing store keeps it (a path, an S3 URI, ...).
type Entry struct {
	Key      string
	Location string
	ModTime  time.Time
	Size     int64
}

// Dir resolves the base cache directory.
// Precedence:
//  1. LINKCTL_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/linkctl
//
// Returns ("", false) if a base cannot be resolved.
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("LINKCTL_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "linkctl"), true
	}
	return "", false
}

// Enabled returns true unless LINKCTL_CACHE explicitly disables persistence
// ("0"/"false"). A disabled cache still memoizes within a run, in memory.
func Enabled() bool {
	enabled, _ := os.LookupEnv("LINKCTL_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// EnsureBaseDir creates the base cache directory if caching is enabled and
// a base path can be resolved. Returns the path, whether it is usable, and an
// error if creation failed.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}
	base, ok := Dir()
	if !ok {
		return "", false, nil
	}
	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	return base, true, nil
}

// Cache memoizes computed payloads in a Store, keyed by the MD5 of a clear
// text identifier. A payload is served while its age is strictly less than
// the max age passed to GetOrCompute. Afterwards it is recomputed and
// overwritten. There is no locking; one process at a time is assumed.
type Cache struct {
	store     Store
	now       func() time.Time
	onRefresh func(identifier string, previous, current []byte)
}

// Option customizes a Cache.
type Option func(*Cache)

// WithClock overrides the wall clock used to age entries.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithRefreshHook registers fn to be called whenever a stale entry is
// replaced. fn receives the previous and the freshly computed payloads.
func WithRefreshHook(fn func(identifier string, previous, current []byte)) Option {
	return func(c *Cache) { c.onRefresh = fn }
}

// New returns a Cache backed by store.
func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCompute returns the payload stored for identifier when it is younger
// than maxAge. Otherwise compute is invoked, and its result is written to the
// store and returned. Errors from compute are returned untouched and nothing
// is written. Storage errors are returned wrapped.
func (c *Cache) GetOrCompute(
	ctx context.Context,
	identifier string,
	compute func(context.Context) ([]byte, error),
	maxAge time.Duration) ([]byte, error) {

	key := encodeKey(identifier)

	modTime, exists, err := c.store.Stat(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to stat cache entry %s: %w", key, err)
	}

	if exists && c.now().Sub(modTime) < maxAge {
		data, err := c.store.Read(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read cache entry %s: %w", key, err)
		}
		log.Debugf("cache hit: %s (%s)", key, identifier)
		return data, nil
	}

	// Only bother reading the stale payload if somebody wants to see it.
	var previous []byte
	if exists && c.onRefresh != nil {
		if previous, err = c.store.Read(ctx, key); err != nil {
			return nil, fmt.Errorf("failed to read cache entry %s: %w", key, err)
		}
	}

	log.Debugf("cache miss: %s (%s)", key, identifier)
	data, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.store.Write(ctx, key, data); err != nil {
		return nil, fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}

	if previous != nil {
		c.onRefresh(identifier, previous, data)
	}

	return data, nil
}

// GetOrComputeValue is the typed form of GetOrCompute. Values are stored as
// JSON, so T must round trip through encoding/json.
func GetOrComputeValue[T any](
	ctx context.Context,
	c *Cache,
	identifier string,
	compute func(context.Context) (T, error),
	maxAge time.Duration) (T, error) {

	var zero T

	data, err := c.GetOrCompute(ctx, identifier, func(ctx context.Context) ([]byte, error) {
		v, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize cache value: %w", err)
		}
		return b, nil
	}, maxAge)
	if err != nil {
		return zero, err
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, fmt.Errorf("failed to deserialize cache value: %w", err)
	}
	return v, nil
}

// EncodeKey hashes k with MD5 and returns the hex string. This is the name an
// identifier is stored under.
func EncodeKey(k string) string {
	return encodeKey(k)
}

// encodeKey hashes k with MD5 and returns the hex string.
func encodeKey(k string) string {
	h := md5.New()
	_, _ = h.Write([]byte(k))
	return hex.EncodeToString(h.Sum(nil))
}
