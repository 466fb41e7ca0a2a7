// Copyright (c) 2025 Steve Taranto staranto@gmail.com.
// SPDX-License-Identifier: Apache-2.0

// Package github fetches repository metadata from the GitHub REST API. Every
// response is memoized through cacheutil, and real network calls are followed
// by a fixed throttle delay to stay under the API rate limit.
package github
