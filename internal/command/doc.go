// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package command defines the CLI command set for linkctl. It wires flags,
// validators and actions for the audit and cache subcommands.
package command
