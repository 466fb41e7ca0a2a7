// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

const (
	DefaultListPath        = "README.md"
	DefaultLinkHost        = "github.com"
	DefaultMaxAge          = 4 * 365 * 24 * time.Hour
	DefaultThrottle        = time.Second
	DefaultCacheTTL        = time.Hour
	DefaultAnnotationLevel = "warning"
	DefaultOutput          = "text"
	DefaultCacheBackend    = "file"
)

var (
	// AnnotationLevels are the workflow command severities CI understands.
	AnnotationLevels = []string{"notice", "warning", "error"}
	// Outputs are the supported --output values.
	Outputs = []string{"text", "json", "yaml"}
	// CacheBackends are the supported cache stores.
	CacheBackends = []string{"file", "memory", "s3"}
)

// CacheSettings selects and configures the cache store.
type CacheSettings struct {
	Backend  string
	Dir      string
	TTL      time.Duration
	Bucket   string
	Prefix   string
	Region   string
	Profile  string
	Endpoint string
}

// Settings holds everything an audit run needs. It is built once per
// invocation and handed to each component.
type Settings struct {
	// ListPath is the markdown list to audit.
	ListPath string
	// AnnotationFile is the file= value of annotations. Defaults to ListPath.
	AnnotationFile string
	// LinkHost restricts which links are audited.
	LinkHost  string
	APIHost   string
	Token     string
	UserAgent string
	// MaxAge is how long since the last push before a repo is abandoned.
	MaxAge time.Duration
	// Throttle is slept after every uncached API call.
	Throttle        time.Duration
	AnnotationLevel string
	Output          string
	Color           bool
	Cache           CacheSettings
}

// DefaultSettings returns Settings with every default applied. Token is left
// empty.
func DefaultSettings() Settings {
	return Settings{
		ListPath:        DefaultListPath,
		LinkHost:        DefaultLinkHost,
		MaxAge:          DefaultMaxAge,
		Throttle:        DefaultThrottle,
		AnnotationLevel: DefaultAnnotationLevel,
		Output:          DefaultOutput,
		Cache: CacheSettings{
			Backend: DefaultCacheBackend,
			TTL:     DefaultCacheTTL,
		},
	}
}

// Validate checks Settings for values no run could succeed with.
func (s *Settings) Validate() error {
	var errs []error

	if s.ListPath == "" {
		errs = append(errs, errors.New("list path must not be empty"))
	}
	if s.LinkHost == "" {
		errs = append(errs, errors.New("link host must not be empty"))
	}
	if s.MaxAge <= 0 {
		errs = append(errs, fmt.Errorf("max age must be positive, got %s", s.MaxAge))
	}
	if s.Throttle < 0 {
		errs = append(errs, fmt.Errorf("throttle must not be negative, got %s", s.Throttle))
	}
	if s.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("cache ttl must not be negative, got %s", s.Cache.TTL))
	}
	if !slices.Contains(AnnotationLevels, s.AnnotationLevel) {
		errs = append(errs, fmt.Errorf("annotation level must be one of %v", AnnotationLevels))
	}
	if !slices.Contains(Outputs, s.Output) {
		errs = append(errs, fmt.Errorf("output must be one of %v", Outputs))
	}
	if !slices.Contains(CacheBackends, s.Cache.Backend) {
		errs = append(errs, fmt.Errorf("cache backend must be one of %v", CacheBackends))
	}
	if s.Cache.Backend == "s3" && s.Cache.Bucket == "" {
		errs = append(errs, errors.New("cache bucket is required for the s3 cache backend"))
	}

	return errors.Join(errs...)
}

// AnnotationFileName returns AnnotationFile, falling back to ListPath.
func (s *Settings) AnnotationFileName() string {
	if s.AnnotationFile != "" {
		return s.AnnotationFile
	}
	return s.ListPath
}
