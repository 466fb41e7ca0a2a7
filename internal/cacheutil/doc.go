// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cacheutil provides a content-addressed, age-based memoization cache
// used to avoid repeated expensive operations, such as rate limited API calls.
// Entries are stored through a pluggable Store (filesystem, memory or S3).
package cacheutil
