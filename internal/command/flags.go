// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/linkctl/internal/config"
	"github.com/staranto/linkctl/internal/github"
	"github.com/staranto/linkctl/internal/output"
)

// NameSpacedValueChain returns a source chain that consults envs in order and
// then key in the config file at path, first beneath ns and then at the top
// level.
func NameSpacedValueChain(ns string, key string, path string, envs ...string) cli.ValueSourceChain {
	var chain []cli.ValueSource
	for _, e := range envs {
		chain = append(chain, cli.EnvVar(e))
	}
	chain = append(chain,
		yaml.YAML(ns+"."+key, altsrc.StringSourcer(path)),
		yaml.YAML(key, altsrc.StringSourcer(path)),
	)
	return cli.NewValueSourceChain(chain...)
}

// NewAuditFlags returns the flags specific to the audit command.
func NewAuditFlags(ns string, path string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:      "list",
			Aliases:   []string{"l"},
			Usage:     "markdown list to audit",
			TakesFile: true,
			Sources:   NameSpacedValueChain(ns, "list", path, "LINKCTL_LIST"),
			Value:     config.DefaultListPath,
			Validator: func(value string) error {
				return FlagValidators(value, NotEmptyValidator, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:    "annotation-file",
			Usage:   "file= value of annotations. Defaults to the list path",
			Sources: NameSpacedValueChain(ns, "annotation-file", path),
		},
		&cli.StringFlag{
			Name:    "host",
			Usage:   "only links to this host are audited",
			Sources: NameSpacedValueChain(ns, "host", path),
			Value:   config.DefaultLinkHost,
			Validator: func(value string) error {
				return FlagValidators(value, NotEmptyValidator, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:    "api-host",
			Usage:   "GitHub API base URL",
			Sources: NameSpacedValueChain(ns, "api-host", path, "GH_API_HOST"),
			Value:   github.DefaultAPIHost,
		},
		&cli.StringFlag{
			Name:        "token",
			Usage:       "GitHub personal access token",
			Sources:     cli.NewValueSourceChain(cli.EnvVar("GH_PA_TOKEN")),
			HideDefault: true,
		},
		&cli.StringFlag{
			Name:    "user-agent",
			Usage:   "User-Agent header sent to the API",
			Sources: NameSpacedValueChain(ns, "user-agent", path),
			Value:   github.DefaultUserAgent,
		},
		&cli.DurationFlag{
			Name:    "max-age",
			Usage:   "time since the last push after which a repository is abandoned",
			Sources: NameSpacedValueChain(ns, "max-age", path),
			Value:   config.DefaultMaxAge,
			Validator: func(value time.Duration) error {
				return FlagValidators(value, PositiveDurationValidator)
			},
		},
		&cli.DurationFlag{
			Name:    "throttle",
			Usage:   "pause after every uncached API request",
			Sources: NameSpacedValueChain(ns, "throttle", path),
			Value:   config.DefaultThrottle,
			Validator: func(value time.Duration) error {
				return FlagValidators(value, NonNegativeDurationValidator)
			},
		},
		&cli.StringFlag{
			Name:    "level",
			Usage:   "annotation level (notice, warning, error)",
			Sources: NameSpacedValueChain(ns, "level", path),
			Value:   config.DefaultAnnotationLevel,
			Validator: func(value string) error {
				return FlagValidators(value, LevelValidator)
			},
		},
	}
}

// NewOutputFlags returns the flags shared by commands that print results.
func NewOutputFlags(ns string, path string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (text, json, yaml)",
			Sources: NameSpacedValueChain(ns, "output", path),
			Value:   config.DefaultOutput,
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: NameSpacedValueChain(ns, "color", path),
			Value:   output.IsTerminal(os.Stdout),
		},
	}
}

// NewTableFlags returns the flags of commands that render a table.
func NewTableFlags(ns string, path string) []cli.Flag {
	return []cli.Flag{
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show column titles",
			Sources: NameSpacedValueChain(ns, "titles", path),
			Value:   true,
		},
	}
}

// NewCacheFlags returns the flags that select and configure the cache store.
func NewCacheFlags(ns string, path string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "cache-backend",
			Usage:   "cache store (file, memory, s3)",
			Sources: NameSpacedValueChain(ns, "cache-backend", path, "LINKCTL_CACHE_BACKEND"),
			Value:   config.DefaultCacheBackend,
			Validator: func(value string) error {
				return FlagValidators(value, BackendValidator)
			},
		},
		&cli.StringFlag{
			Name:      "cache-dir",
			Usage:     "directory of the file cache",
			TakesFile: true,
			Sources:   NameSpacedValueChain(ns, "cache-dir", path, "LINKCTL_CACHE_DIR"),
		},
		&cli.DurationFlag{
			Name:    "cache-ttl",
			Usage:   "how long an API response is served from the cache",
			Sources: NameSpacedValueChain(ns, "cache-ttl", path),
			Value:   config.DefaultCacheTTL,
			Validator: func(value time.Duration) error {
				return FlagValidators(value, NonNegativeDurationValidator)
			},
		},
		&cli.StringFlag{
			Name:    "cache-bucket",
			Usage:   "S3 bucket of the s3 cache",
			Sources: NameSpacedValueChain(ns, "cache-bucket", path, "LINKCTL_CACHE_BUCKET"),
		},
		&cli.StringFlag{
			Name:    "cache-prefix",
			Usage:   "S3 key prefix of the s3 cache",
			Sources: NameSpacedValueChain(ns, "cache-prefix", path, "LINKCTL_CACHE_PREFIX"),
			Value:   "linkctl/",
		},
		&cli.StringFlag{
			Name:    "aws-region",
			Usage:   "AWS region of the s3 cache. Overrides the AWS config chain",
			Sources: NameSpacedValueChain(ns, "aws-region", path),
		},
		&cli.StringFlag{
			Name:    "aws-profile",
			Usage:   "AWS shared config profile of the s3 cache",
			Sources: NameSpacedValueChain(ns, "aws-profile", path),
		},
		&cli.StringFlag{
			Name:    "s3-endpoint",
			Usage:   "S3 compatible endpoint (MinIO, LocalStack)",
			Sources: NameSpacedValueChain(ns, "s3-endpoint", path),
		},
	}
}
