// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cacheutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObject struct {
	data    []byte
	modTime time.Time
}

// fakeS3 is an in-memory stand-in for the handful of S3 calls S3Store makes.
type fakeS3 struct {
	now     func() time.Time
	objects map[string]fakeObject
	headErr error
}

func newFakeS3(now func() time.Time) *fakeS3 {
	return &fakeS3{now: now, objects: map[string]fakeObject{}}
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"}
	}
	return &s3.HeadObjectOutput{
		LastModified:  aws.Time(obj.modTime),
		ContentLength: aws.Int64(int64(len(obj.data))),
	}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(obj.data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = fakeObject{data: data, modTime: f.now()}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		obj := f.objects[k]
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(k),
			LastModified: aws.Time(obj.modTime),
			Size:         aws.Int64(int64(len(obj.data))),
		})
	}
	return out, nil
}

func TestS3Store_GetOrCompute(t *testing.T) {
	clock := newClock()
	api := newFakeS3(clock.Now)
	c := New(NewS3Store(api, "ci-cache", "/linkctl/"), WithClock(clock.Now))
	ctx := context.Background()

	var calls int
	got, err := c.GetOrCompute(ctx, "k", counter(&calls), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "value-1", string(got))

	// Objects live beneath the trimmed prefix.
	_, ok := api.objects["linkctl/"+encodeKey("k")]
	assert.True(t, ok)

	got, err = c.GetOrCompute(ctx, "k", counter(&calls), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "value-1", string(got))
	assert.Equal(t, 1, calls)

	clock.Advance(time.Hour)
	got, err = c.GetOrCompute(ctx, "k", counter(&calls), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "value-2", string(got))
}

func TestS3Store_StatErrorPropagates(t *testing.T) {
	api := newFakeS3(time.Now)
	api.headErr = &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}

	_, _, err := NewS3Store(api, "b", "").Stat(context.Background(), "k")
	require.Error(t, err)

	var apiErr smithy.APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "AccessDenied", apiErr.ErrorCode())
}

func TestS3Store_List(t *testing.T) {
	clock := newClock()
	api := newFakeS3(clock.Now)
	store := NewS3Store(api, "b", "p")
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "one", []byte("1")))
	clock.Advance(time.Minute)
	require.NoError(t, store.Write(ctx, "two", []byte("22")))
	api.objects["elsewhere/three"] = fakeObject{data: []byte("333"), modTime: clock.Now()}

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "one", entries[0].Key)
	assert.Equal(t, "s3://b/p/one", entries[0].Location)
	assert.Equal(t, int64(2), entries[1].Size)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&smithy.GenericAPIError{Code: "NotFound"}))
	assert.True(t, isNotFound(&types.NoSuchKey{}))
	assert.False(t, isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isNotFound(errors.New("plain")))
}
