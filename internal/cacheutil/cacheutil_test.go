// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cacheutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable clock shared by a Cache and a MemoryStore.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

// counter returns a compute func that yields a different payload each call.
func counter(calls *int) func(context.Context) ([]byte, error) {
	return func(context.Context) ([]byte, error) {
		*calls++
		return []byte(fmt.Sprintf("value-%d", *calls)), nil
	}
}

func TestEncodeKey(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", encodeKey(""))
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", encodeKey("abc"))
	assert.Equal(t, encodeKey("abc"), EncodeKey("abc"))
}

func TestGetOrCompute_MemoizesWithinMaxAge(t *testing.T) {
	clock := newClock()
	c := New(NewMemoryStore(clock.Now), WithClock(clock.Now))
	ctx := context.Background()

	var calls int
	first, err := c.GetOrCompute(ctx, "k", counter(&calls), time.Hour)
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	second, err := c.GetOrCompute(ctx, "k", counter(&calls), time.Hour)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "value-1", string(second))
	assert.Equal(t, 1, calls)
}

func TestGetOrCompute_RecomputesWhenStale(t *testing.T) {
	tests := []struct {
		name    string
		advance time.Duration
		maxAge  time.Duration
		want    string
	}{
		{name: "age equal to max age is stale", advance: time.Hour, maxAge: time.Hour, want: "value-2"},
		{name: "age beyond max age is stale", advance: 2 * time.Hour, maxAge: time.Hour, want: "value-2"},
		{name: "zero max age always recomputes", advance: 0, maxAge: 0, want: "value-2"},
		{name: "just under max age is fresh", advance: time.Hour - time.Second, maxAge: time.Hour, want: "value-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newClock()
			store := NewMemoryStore(clock.Now)
			c := New(store, WithClock(clock.Now))
			ctx := context.Background()

			var calls int
			_, err := c.GetOrCompute(ctx, "k", counter(&calls), tt.maxAge)
			require.NoError(t, err)

			clock.Advance(tt.advance)
			got, err := c.GetOrCompute(ctx, "k", counter(&calls), tt.maxAge)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))

			// Whatever was returned is what is stored now.
			stored, err := store.Read(ctx, encodeKey("k"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(stored))
		})
	}
}

func TestGetOrCompute_DistinctIdentifiers(t *testing.T) {
	c := New(NewMemoryStore(nil))
	ctx := context.Background()

	var calls int
	a, err := c.GetOrCompute(ctx, "a", counter(&calls), time.Hour)
	require.NoError(t, err)
	b, err := c.GetOrCompute(ctx, "b", counter(&calls), time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, calls)
}

func TestGetOrCompute_ComputeErrorIsNotStored(t *testing.T) {
	store := NewMemoryStore(nil)
	c := New(store)
	ctx := context.Background()

	boom := errors.New("boom")
	_, err := c.GetOrCompute(ctx, "k", func(context.Context) ([]byte, error) {
		return nil, boom
	}, time.Hour)
	assert.ErrorIs(t, err, boom)

	_, exists, err := store.Stat(ctx, encodeKey("k"))
	require.NoError(t, err)
	assert.False(t, exists)
}

type brokenStore struct {
	statErr  error
	writeErr error
}

func (s brokenStore) Stat(context.Context, string) (time.Time, bool, error) {
	return time.Time{}, false, s.statErr
}

func (s brokenStore) Read(context.Context, string) ([]byte, error) {
	return nil, errors.New("unreachable")
}

func (s brokenStore) Write(context.Context, string, []byte) error {
	return s.writeErr
}

func TestGetOrCompute_StorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	diskErr := errors.New("disk on fire")

	var calls int
	_, err := New(brokenStore{statErr: diskErr}).GetOrCompute(ctx, "k", counter(&calls), time.Hour)
	assert.ErrorIs(t, err, diskErr)
	assert.Equal(t, 0, calls, "compute must not run when the store cannot be read")

	_, err = New(brokenStore{writeErr: diskErr}).GetOrCompute(ctx, "k", counter(&calls), time.Hour)
	assert.ErrorIs(t, err, diskErr)
	assert.Equal(t, 1, calls)
}

func TestGetOrCompute_RefreshHook(t *testing.T) {
	clock := newClock()

	var gotID string
	var gotPrev, gotCur []byte
	hooks := 0
	c := New(NewMemoryStore(clock.Now), WithClock(clock.Now), WithRefreshHook(func(id string, prev, cur []byte) {
		hooks++
		gotID, gotPrev, gotCur = id, prev, cur
	}))
	ctx := context.Background()

	var calls int
	_, err := c.GetOrCompute(ctx, "k", counter(&calls), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, hooks, "first generation is not a refresh")

	clock.Advance(time.Minute)
	_, err = c.GetOrCompute(ctx, "k", counter(&calls), time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 1, hooks)
	assert.Equal(t, "k", gotID)
	assert.Equal(t, "value-1", string(gotPrev))
	assert.Equal(t, "value-2", string(gotCur))
}

func TestGetOrComputeValue(t *testing.T) {
	type payload struct {
		Name  string
		Count int
	}

	c := New(NewMemoryStore(nil))
	ctx := context.Background()

	calls := 0
	compute := func(context.Context) (payload, error) {
		calls++
		return payload{Name: "awesome", Count: calls}, nil
	}

	first, err := GetOrComputeValue(ctx, c, "typed", compute, time.Hour)
	require.NoError(t, err)
	second, err := GetOrComputeValue(ctx, c, "typed", compute, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, payload{Name: "awesome", Count: 1}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestFileStore_GetOrCompute(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	c := New(NewFileStore(dir))
	ctx := context.Background()

	var calls int
	got, err := c.GetOrCompute(ctx, "https://api.github.com/repos/a/b", counter(&calls), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "value-1", string(got))

	// The directory was created and the file is named after the hashed key.
	data, err := os.ReadFile(filepath.Join(dir, encodeKey("https://api.github.com/repos/a/b")))
	require.NoError(t, err)
	assert.Equal(t, "value-1", string(data))

	got, err = c.GetOrCompute(ctx, "https://api.github.com/repos/a/b", counter(&calls), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "value-1", string(got))
	assert.Equal(t, 1, calls)
}

func TestFileStore_ModTimeIsTheAgeSignal(t *testing.T) {
	dir := t.TempDir()
	c := New(NewFileStore(dir))
	ctx := context.Background()

	var calls int
	_, err := c.GetOrCompute(ctx, "k", counter(&calls), time.Hour)
	require.NoError(t, err)

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, encodeKey("k")), old, old))

	got, err := c.GetOrCompute(ctx, "k", counter(&calls), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "value-2", string(got))
	assert.Equal(t, 2, calls)
}

func TestFileStore_List(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "bbb", []byte("12345")))
	require.NoError(t, store.Write(ctx, "aaa", []byte("1")))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	older := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "bbb"), older, older))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "bbb", entries[0].Key)
	assert.Equal(t, int64(5), entries[0].Size)
	assert.Equal(t, "aaa", entries[1].Key)
	assert.Equal(t, filepath.Join(dir, "aaa"), entries[1].Location)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	entries, err := NewFileStore(filepath.Join(t.TempDir(), "nope")).List(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileStore_WriteFailsWhenDirIsAFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	err := NewFileStore(file).Write(context.Background(), "k", []byte("v"))
	assert.Error(t, err)
}

func TestDir(t *testing.T) {
	t.Setenv("LINKCTL_CACHE_DIR", "/tmp/somewhere")
	dir, ok := Dir()
	assert.True(t, ok)
	assert.Equal(t, "/tmp/somewhere", dir)

	t.Setenv("LINKCTL_CACHE_DIR", "")
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	t.Setenv("HOME", "/tmp/home")
	dir, ok = Dir()
	if ok {
		assert.Equal(t, "linkctl", filepath.Base(dir))
	}
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"1", true},
		{"true", true},
		{"0", false},
		{"false", false},
	}
	for _, tt := range tests {
		t.Run("LINKCTL_CACHE="+tt.value, func(t *testing.T) {
			t.Setenv("LINKCTL_CACHE", tt.value)
			assert.Equal(t, tt.want, Enabled())
		})
	}
}

func TestEnsureBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "linkctl")
	t.Setenv("LINKCTL_CACHE_DIR", base)
	t.Setenv("LINKCTL_CACHE", "")

	got, ok, err := EnsureBaseDir()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, base, got)
	assert.DirExists(t, base)

	t.Setenv("LINKCTL_CACHE", "0")
	_, ok, err = EnsureBaseDir()
	assert.NoError(t, err)
	assert.False(t, ok)
}
