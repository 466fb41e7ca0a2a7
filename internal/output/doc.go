// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package output provides styled status lines, tables, and structured
// (json/yaml) emission used by commands to present results.
package output
