// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/linkctl/internal/cacheutil"
	"github.com/staranto/linkctl/internal/meta"
	"github.com/staranto/linkctl/internal/output"
)

type cacheEntry struct {
	Key      string    `json:"key" yaml:"key"`
	Location string    `json:"location" yaml:"location"`
	ModTime  time.Time `json:"mod_time" yaml:"mod_time"`
	Size     int64     `json:"size" yaml:"size"`
	Fresh    bool      `json:"fresh" yaml:"fresh"`
}

// CacheLsCommandAction lists the entries of the configured cache store.
func CacheLsCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	settings := BuildSettings(cmd)
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := NewCacheStore(ctx, settings.Cache)
	if err != nil {
		return err
	}
	lister, ok := store.(cacheutil.Lister)
	if !ok {
		return fmt.Errorf("the %s cache cannot list its entries", settings.Cache.Backend)
	}

	listed, err := lister.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list cache: %w", err)
	}

	now := time.Now()
	entries := make([]cacheEntry, 0, len(listed))
	for _, e := range listed {
		entries = append(entries, cacheEntry{
			Key:      e.Key,
			Location: e.Location,
			ModTime:  e.ModTime,
			Size:     e.Size,
			Fresh:    now.Sub(e.ModTime) < settings.Cache.TTL,
		})
	}

	if settings.Output != "text" {
		return output.Emit(stdout(cmd), settings.Output, entries)
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		state := "stale"
		if e.Fresh {
			state = "fresh"
		}
		rows = append(rows, []string{
			e.Key,
			humanize.Time(e.ModTime),
			humanize.Bytes(uint64(e.Size)), //nolint:gosec
			state,
		})
	}

	padding, _ := m.Config.GetInt("padding", 1)
	output.TableWriter(stdout(cmd), []string{"KEY", "AGE", "SIZE", "STATE"}, rows, cmd.Bool("titles"), padding)
	return nil
}

// CacheCommandBuilder constructs the cli.Command for "cache" and its
// subcommands.
func CacheCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	flags := NewOutputFlags("cache", meta.Config.Source)
	flags = append(flags, NewTableFlags("cache", meta.Config.Source)...)
	flags = append(flags, NewCacheFlags("cache", meta.Config.Source)...)

	return &cli.Command{
		Name:  "cache",
		Usage: "inspect the response cache",
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "list cache entries",
				UsageText: `linkctl cache ls [options]`,
				Metadata: map[string]any{
					"meta": meta,
				},
				Flags:  flags,
				Action: CacheLsCommandAction,
			},
		},
	}
}
