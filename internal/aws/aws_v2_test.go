// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package aws

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	o := collect([]Option{
		WithProfile("ci"),
		WithRegion("eu-west-1"),
		WithEndpoint("http://localhost:9000"),
	})
	assert.Equal(t, "ci", o.profile)
	assert.Equal(t, "eu-west-1", o.region)
	assert.Equal(t, "http://localhost:9000", o.endpoint)
}

func TestNewCacheStore_RequiresBucket(t *testing.T) {
	_, err := NewCacheStore(context.Background(), "", "prefix")
	assert.Error(t, err)
}

func TestNewCacheStore(t *testing.T) {
	// Keep the SDK away from real credentials and IMDS.
	t.Setenv("AWS_CONFIG_FILE", "/nonexistent")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/nonexistent")
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_PROFILE", "")

	store, err := NewCacheStore(context.Background(), "bucket", "/linkctl/",
		WithRegion("us-east-1"),
		WithEndpoint("http://localhost:9000"))
	require.NoError(t, err)
	assert.Equal(t, "bucket", store.Bucket)
	assert.Equal(t, "linkctl", store.Prefix)
	assert.NotNil(t, store.Client)
}
