// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"fmt"
	"net/url"
	"strings"
)

// Repo identifies a repository by owner and name.
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// APIPath is the REST path of the repository resource.
func (r Repo) APIPath() string {
	return "/repos/" + url.PathEscape(r.Owner) + "/" + url.PathEscape(r.Name)
}

// ParseRepoURL extracts owner and name from a link such as
// https://github.com/owner/name. The path must have exactly two segments, so
// links into a repository (/tree/main, /issues, ...) and trailing slashes are
// rejected. Queries and fragments are ignored.
func ParseRepoURL(host, link string) (Repo, error) {
	u, err := url.Parse(link)
	if err != nil {
		return Repo{}, fmt.Errorf("%w: %s: %v", ErrRepoURL, link, err)
	}

	if !strings.EqualFold(u.Host, host) {
		return Repo{}, fmt.Errorf("%w: %s: host is not %s", ErrRepoURL, link, host)
	}

	parts := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Repo{}, fmt.Errorf("%w: %s: expected /<owner>/<name>", ErrRepoURL, link)
	}

	return Repo{Owner: parts[0], Name: parts[1]}, nil
}
