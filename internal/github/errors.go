// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingToken means GH_PA_TOKEN is unset. It is a setup failure.
	ErrMissingToken = errors.New("could not retrieve GitHub Personal Access Token, please set the environment variable GH_PA_TOKEN")

	// ErrFetch is matched by every *FetchError.
	ErrFetch = errors.New("fetch failed")

	// ErrField is matched by every *FieldError.
	ErrField = errors.New("invalid field")

	// ErrRepoURL means a link is not of the form <host>/<owner>/<name>.
	ErrRepoURL = errors.New("not a repository URL")
)

// FetchError reports any failure to obtain a usable record: transport, HTTP
// status, cache storage, decoding, or an empty payload.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed: %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// StatusError is the cause of a FetchError when GitHub answers with anything
// other than 200.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP code: %d", e.StatusCode)
}

// FieldError reports a record field that is missing or of the wrong type.
type FieldError struct {
	Field    string
	Expected string
	Missing  bool
}

func (e *FieldError) Error() string {
	if e.Missing {
		return fmt.Sprintf("field '%s' is missing", e.Field)
	}
	return fmt.Sprintf("field '%s' is not a %s", e.Field, e.Expected)
}

func (e *FieldError) Is(target error) bool { return target == ErrField }
