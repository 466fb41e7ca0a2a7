// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package differ

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		previous string
		current  string
		want     []string
	}{
		{
			name:     "identical",
			previous: `{"archived":false,"pushed_at":"2020-01-01T00:00:00Z"}`,
			current:  `{"archived":false,"pushed_at":"2020-01-01T00:00:00Z"}`,
			want:     nil,
		},
		{
			name:     "modified scalar",
			previous: `{"archived":false}`,
			current:  `{"archived":true}`,
			want:     []string{"archived: false -> true"},
		},
		{
			name:     "added and deleted",
			previous: `{"a":"x","gone":1}`,
			current:  `{"a":"x","new":2}`,
			want:     []string{"+new", "-gone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Summarize([]byte(tt.previous), []byte(tt.current))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarize_InvalidJSON(t *testing.T) {
	_, err := Summarize([]byte(`{"a":1}`), []byte(`not json`))
	assert.Error(t, err)
}
