// Copyright (c) 2025 Steve Taranto staranto@gmail.com.
// SPDX-License-Identifier: Apache-2.0

// Package audit checks the repositories linked from a markdown list and
// flags the abandoned ones. A repository is abandoned when it has not been
// pushed to within the configured max age, or when it is archived.
package audit
