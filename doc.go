// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// linkctl is the main package for the linkctl command line tool. It audits
// curated markdown lists for abandoned GitHub repositories and reports them
// as CI annotations. It wires the CLI, delegates to internal packages, and
// serves as the entry point.
package main
