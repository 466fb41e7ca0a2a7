// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/linkctl/internal/audit"
	"github.com/staranto/linkctl/internal/cacheutil"
	"github.com/staranto/linkctl/internal/github"
	"github.com/staranto/linkctl/internal/meta"
	"github.com/staranto/linkctl/internal/output"
)

// AuditCommandAction is the action handler for the "audit" subcommand. It
// reads the list, wires the cache, client and auditor, and emits either the
// annotation batch or the structured report.
func AuditCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	settings := BuildSettings(cmd)
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	listPath := resolvePath(m, settings.ListPath)
	document, err := os.ReadFile(listPath)
	if err != nil {
		return fmt.Errorf("failed to read list: %w", err)
	}

	store, err := NewCacheStore(ctx, settings.Cache)
	if err != nil {
		return err
	}
	cache := cacheutil.New(store, cacheutil.WithRefreshHook(github.LogRefresh))

	client, err := github.NewClient(settings.APIHost, settings.Token, cache,
		github.WithUserAgent(settings.UserAgent),
		github.WithCacheTTL(settings.Cache.TTL),
	)
	if err != nil {
		return err
	}

	// Status lines share stdout with annotations, but not with a structured
	// report.
	statusOut := stdout(cmd)
	if settings.Output != "text" {
		statusOut = stderr(cmd)
	}
	printer := output.NewPrinter(statusOut, settings.Color, &m.Config)

	report, err := audit.New(&settings, client, printer).Run(ctx, string(document))
	if err != nil {
		return err
	}
	log.WithField("ok", report.Count(audit.StatusOK)).
		WithField("abandoned", report.Count(audit.StatusAbandoned)).
		WithField("skipped", report.Count(audit.StatusSkipped)).
		Infof("audited %s", settings.ListPath)

	if settings.Output == "text" {
		return audit.WriteAnnotations(stdout(cmd), report.Annotations)
	}
	return output.Emit(stdout(cmd), settings.Output, report)
}

// AuditCommandBuilder constructs the cli.Command for "audit", wiring
// metadata, flags, and the action handler.
func AuditCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	flags := NewAuditFlags("audit", meta.Config.Source)
	flags = append(flags, NewOutputFlags("audit", meta.Config.Source)...)
	flags = append(flags, NewCacheFlags("audit", meta.Config.Source)...)

	return &cli.Command{
		Name:      "audit",
		Usage:     "flag abandoned repositories in a markdown list",
		UsageText: `linkctl audit [--list README.md] [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  flags,
		Action: AuditCommandAction,
	}
}
