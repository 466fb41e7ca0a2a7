// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/linkctl/internal/aws"
	"github.com/staranto/linkctl/internal/cacheutil"
	"github.com/staranto/linkctl/internal/config"
	"github.com/staranto/linkctl/internal/meta"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// BuildSettings collects the run parameters from the command's flags. Flags
// the command does not define are left at their defaults.
func BuildSettings(cmd *cli.Command) config.Settings {
	s := config.DefaultSettings()

	if hasFlag(cmd, "list") {
		s.ListPath = cmd.String("list")
	}
	s.AnnotationFile = cmd.String("annotation-file")
	if hasFlag(cmd, "host") {
		s.LinkHost = cmd.String("host")
	}
	s.APIHost = cmd.String("api-host")
	s.Token = cmd.String("token")
	s.UserAgent = cmd.String("user-agent")
	if hasFlag(cmd, "max-age") {
		s.MaxAge = cmd.Duration("max-age")
	}
	if hasFlag(cmd, "throttle") {
		s.Throttle = cmd.Duration("throttle")
	}
	if hasFlag(cmd, "level") {
		s.AnnotationLevel = cmd.String("level")
	}
	if hasFlag(cmd, "output") {
		s.Output = cmd.String("output")
	}
	s.Color = cmd.Bool("color")

	if hasFlag(cmd, "cache-backend") {
		s.Cache.Backend = cmd.String("cache-backend")
	}
	if hasFlag(cmd, "cache-ttl") {
		s.Cache.TTL = cmd.Duration("cache-ttl")
	}
	s.Cache.Dir = cmd.String("cache-dir")
	s.Cache.Bucket = cmd.String("cache-bucket")
	s.Cache.Prefix = cmd.String("cache-prefix")
	s.Cache.Region = cmd.String("aws-region")
	s.Cache.Profile = cmd.String("aws-profile")
	s.Cache.Endpoint = cmd.String("s3-endpoint")

	// LINKCTL_CACHE=0 keeps memoization but drops persistence.
	if s.Cache.Backend == "file" && !cacheutil.Enabled() {
		log.Debug("persistent cache disabled, using memory store")
		s.Cache.Backend = "memory"
	}
	if s.Cache.Dir == "" {
		s.Cache.Dir, _ = cacheutil.Dir()
	}

	return s
}

// NewCacheStore returns the store selected by cs.Backend.
func NewCacheStore(ctx context.Context, cs config.CacheSettings) (cacheutil.Store, error) {
	switch cs.Backend {
	case "memory":
		return cacheutil.NewMemoryStore(nil), nil
	case "s3":
		return aws.NewCacheStore(ctx, cs.Bucket, cs.Prefix,
			aws.WithProfile(cs.Profile),
			aws.WithRegion(cs.Region),
			aws.WithEndpoint(cs.Endpoint),
		)
	case "file", "":
		if cs.Dir == "" {
			return nil, fmt.Errorf("no cache directory, set --cache-dir or LINKCTL_CACHE_DIR")
		}
		log.Debugf("file cache: %s", cs.Dir)
		return cacheutil.NewFileStore(cs.Dir), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cs.Backend)
	}
}

// resolvePath anchors a relative path at the starting directory.
func resolvePath(m meta.Meta, path string) string {
	if filepath.IsAbs(path) || m.StartingDir == "" {
		return path
	}
	return filepath.Join(m.StartingDir, path)
}

// stdout returns the root command's writer so tests can capture output.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

func hasFlag(cmd *cli.Command, name string) bool {
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			if n == name {
				return true
			}
		}
	}
	return false
}
