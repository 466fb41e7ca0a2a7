// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"regexp"
	"strings"
)

// linkPattern returns the pattern for a markdown link target on host, ie.
// "(https://host/anything-but-whitespace)". Scheme and host are matched
// case-insensitively.
func linkPattern(host string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\((https?://` + regexp.QuoteMeta(host) + `/[^\s]+)\)`)
}

// FindURLs returns every link target on host in document order. Duplicates
// are kept.
func FindURLs(host, document string) []string {
	matches := linkPattern(host).FindAllStringSubmatch(document, -1)

	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, m[1])
	}
	return urls
}

// FindOccurrenceLines returns the 1-indexed numbers of every line containing
// url.
func FindOccurrenceLines(url, document string) []int {
	var lines []int
	for i, line := range strings.Split(document, "\n") {
		if strings.Contains(line, url) {
			lines = append(lines, i+1)
		}
	}
	return lines
}
