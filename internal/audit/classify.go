// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"errors"
	"fmt"
	"time"

	"github.com/staranto/linkctl/internal/github"
)

// ErrTimestamp means pushed_at could not be parsed.
var ErrTimestamp = errors.New("invalid timestamp")

// Verdict is the outcome of classifying one repository record.
type Verdict struct {
	FullName  string
	LastPush  time.Time
	Archived  bool
	Abandoned bool
}

// Classify validates the fields the audit needs and applies the decision
// rule: abandoned when now - pushed_at > maxAge, or when archived.
// Missing or mistyped fields are github.ErrField errors; a pushed_at that is
// not RFC 3339 is ErrTimestamp.
func Classify(record github.Record, now time.Time, maxAge time.Duration) (Verdict, error) {
	fullName, err := record.String("full_name")
	if err != nil {
		return Verdict{}, err
	}

	pushedAt, err := record.String("pushed_at")
	if err != nil {
		return Verdict{}, err
	}

	archived, err := record.Bool("archived")
	if err != nil {
		return Verdict{}, err
	}

	lastPush, err := time.Parse(time.RFC3339, pushedAt)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: pushed_at %q: %v", ErrTimestamp, pushedAt, err)
	}

	return Verdict{
		FullName:  fullName,
		LastPush:  lastPush,
		Archived:  archived,
		Abandoned: now.Sub(lastPush) > maxAge || archived,
	}, nil
}
