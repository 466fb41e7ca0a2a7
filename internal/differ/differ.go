// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"sort"

	"github.com/yudai/gojsondiff"
)

// Summarize compares two JSON object documents and returns one line per
// changed top-level field, sorted by field name. Modified scalars are shown
// as "field: old -> new"; additions and deletions are prefixed with + and -.
func Summarize(previous, current []byte) ([]string, error) {
	diff, err := gojsondiff.New().Compare(previous, current)
	if err != nil {
		return nil, fmt.Errorf("failed to compare documents: %w", err)
	}

	if !diff.Modified() {
		return nil, nil
	}

	var lines []string
	for _, delta := range diff.Deltas() {
		switch d := delta.(type) {
		case *gojsondiff.Modified:
			lines = append(lines, fmt.Sprintf("%s: %v -> %v", d.PostPosition(), d.OldValue, d.NewValue))
		case *gojsondiff.Added:
			lines = append(lines, fmt.Sprintf("+%s", d.PostPosition()))
		case *gojsondiff.Deleted:
			lines = append(lines, fmt.Sprintf("-%s", d.PrePosition()))
		case gojsondiff.PostDelta:
			// Nested objects and arrays; just name them.
			lines = append(lines, fmt.Sprintf("%s: changed", d.PostPosition()))
		}
	}

	sort.Strings(lines)
	return lines, nil
}
