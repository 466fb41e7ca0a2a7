// Copyright (c) 2025 Steve Taranto staranto@gmail.com.
// SPDX-License-Identifier: Apache-2.0

// Package scanner finds markdown link targets for a host and maps them back to
// the lines they appear on.
package scanner
