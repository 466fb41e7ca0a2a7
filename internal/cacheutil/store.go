// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Store is the storage backend behind a Cache. Keys are already encoded and
// safe to use as file or object names.
type Store interface {
	// Stat reports the last write time of key. exists is false, with a nil
	// error, when there is no entry.
	Stat(ctx context.Context, key string) (modTime time.Time, exists bool, err error)
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}

// Lister is implemented by stores that can enumerate their entries.
type Lister interface {
	List(ctx context.Context) ([]Entry, error)
}

// FileStore keeps one file per key in a single directory. The file
// modification time is the age signal.
type FileStore struct {
	Dir string
}

// NewFileStore returns a FileStore rooted at dir. The directory is created on
// first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.Dir, key)
}

func (s *FileStore) Stat(_ context.Context, key string) (time.Time, bool, error) {
	info, err := os.Stat(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	if info.IsDir() {
		return time.Time{}, false, fmt.Errorf("%s is a directory", s.path(key))
	}
	return info.ModTime(), true, nil
}

func (s *FileStore) Read(_ context.Context, key string) ([]byte, error) {
	return os.ReadFile(s.path(key))
}

// Write stores data for key, creating the directory as needed.
func (s *FileStore) Write(_ context.Context, key string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(s.path(key), data, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// List returns every regular file in the directory, oldest first. A missing
// directory is an empty cache.
func (s *FileStore) List(_ context.Context) ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Key:      de.Name(),
			Location: s.path(de.Name()),
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})
	}
	sortEntries(entries)
	return entries, nil
}

type memoryRecord struct {
	data    []byte
	modTime time.Time
}

// MemoryStore keeps entries in a map. Write times come from the supplied
// clock so tests can age entries without sleeping.
type MemoryStore struct {
	mu      sync.Mutex
	now     func() time.Time
	records map[string]memoryRecord
}

// NewMemoryStore returns an empty MemoryStore. A nil clock means time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		now:     now,
		records: map[string]memoryRecord{},
	}
}

func (s *MemoryStore) Stat(_ context.Context, key string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[key]
	return r.modTime, ok, nil
}

func (s *MemoryStore) Read(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("no cache entry %s: %w", key, fs.ErrNotExist)
	}
	return append([]byte(nil), r.data...), nil
}

func (s *MemoryStore) Write(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = memoryRecord{
		data:    append([]byte(nil), data...),
		modTime: s.now(),
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]Entry, 0, len(s.records))
	for k, r := range s.records {
		entries = append(entries, Entry{
			Key:      k,
			Location: "memory:" + k,
			ModTime:  r.modTime,
			Size:     int64(len(r.data)),
		})
	}
	sortEntries(entries)
	return entries, nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ModTime.Equal(entries[j].ModTime) {
			return entries[i].Key < entries[j].Key
		}
		return entries[i].ModTime.Before(entries[j].ModTime)
	})
}
