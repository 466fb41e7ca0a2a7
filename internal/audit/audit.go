// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"context"
	"errors"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"

	"github.com/staranto/linkctl/internal/config"
	"github.com/staranto/linkctl/internal/github"
	"github.com/staranto/linkctl/internal/output"
	"github.com/staranto/linkctl/internal/scanner"
)

// Status is the outcome of auditing one link.
type Status string

const (
	StatusOK        Status = "ok"
	StatusAbandoned Status = "abandoned"
	StatusSkipped   Status = "skipped"
)

// SkipKind says why a link was skipped.
type SkipKind string

const (
	SkipURL       SkipKind = "url"
	SkipFetch     SkipKind = "fetch"
	SkipField     SkipKind = "field"
	SkipTimestamp SkipKind = "timestamp"
)

// Fetcher returns the API record of a repository.
type Fetcher interface {
	Repository(ctx context.Context, repo github.Repo, throttle time.Duration) (github.Record, error)
}

// Result is the audit outcome of one distinct link.
type Result struct {
	URL      string   `json:"url" yaml:"url"`
	Repo     string   `json:"repo,omitempty" yaml:"repo,omitempty"`
	FullName string   `json:"full_name,omitempty" yaml:"full_name,omitempty"`
	Status   Status   `json:"status" yaml:"status"`
	Kind     SkipKind `json:"skip_kind,omitempty" yaml:"skip_kind,omitempty"`
	Reason   string   `json:"reason,omitempty" yaml:"reason,omitempty"`
	LastPush string   `json:"last_push,omitempty" yaml:"last_push,omitempty"`
	Archived bool     `json:"archived" yaml:"archived"`
	Lines    []int    `json:"lines" yaml:"lines"`
	Err      error    `json:"-" yaml:"-"`

	verdict Verdict
}

// Report collects every Result and the annotations for the flagged ones.
type Report struct {
	Results     []Result     `json:"results" yaml:"results"`
	Annotations []Annotation `json:"annotations" yaml:"annotations"`
}

// Count returns the number of results with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Auditor runs an audit over a document.
type Auditor struct {
	settings *config.Settings
	fetcher  Fetcher
	printer  *output.Printer
	now      func() time.Time
}

// Option customizes an Auditor.
type Option func(*Auditor)

// WithClock overrides the clock the max age is measured against.
func WithClock(now func() time.Time) Option {
	return func(a *Auditor) { a.now = now }
}

// New returns an Auditor. Status lines go to printer.
func New(settings *config.Settings, fetcher Fetcher, printer *output.Printer, opts ...Option) *Auditor {
	a := &Auditor{
		settings: settings,
		fetcher:  fetcher,
		printer:  printer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run audits every distinct link to the configured host, in the order they
// first appear. A status line is printed per link as it is resolved.
// Per-link failures are recorded as skips; only cancellation of ctx stops
// the run early.
func (a *Auditor) Run(ctx context.Context, document string) (*Report, error) {
	report := &Report{}

	urls := unique(scanner.FindURLs(a.settings.LinkHost, document))
	log.Debugf("found %d distinct %s links", len(urls), a.settings.LinkHost)

	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res := a.audit(ctx, u, document)
		if err := ctx.Err(); err != nil && res.Status == StatusSkipped {
			return report, err
		}

		report.Results = append(report.Results, res)
		if res.Status == StatusAbandoned {
			report.Annotations = append(report.Annotations, a.annotate(res)...)
		}
	}

	return report, nil
}

func (a *Auditor) audit(ctx context.Context, u, document string) Result {
	res := Result{
		URL:   u,
		Lines: scanner.FindOccurrenceLines(u, document),
	}

	repo, err := github.ParseRepoURL(a.settings.LinkHost, u)
	if err != nil {
		a.printer.Fail(" - %s could not be parsed as a repository URL.", u)
		return a.skip(res, SkipURL, err)
	}
	res.Repo = repo.String()

	record, err := a.fetcher.Repository(ctx, repo, a.settings.Throttle)
	if err != nil {
		a.printer.Fail(" - %s could not be fetched from GitHub: %v", repo, err)
		return a.skip(res, SkipFetch, err)
	}

	now := a.now()
	verdict, err := Classify(record, now, a.settings.MaxAge)
	if err != nil {
		var fe *github.FieldError
		switch {
		case errors.As(err, &fe):
			a.printer.Fail(" - %s has no '%s' field.", u, fe.Field)
			return a.skip(res, SkipField, err)
		default:
			a.printer.Fail(" - %s has an invalid 'pushed_at' field.", u)
			return a.skip(res, SkipTimestamp, err)
		}
	}

	res.verdict = verdict
	res.FullName = verdict.FullName
	res.LastPush = verdict.LastPush.UTC().Format(time.RFC3339)
	res.Archived = verdict.Archived

	if verdict.Abandoned {
		res.Status = StatusAbandoned
		a.printer.Fail(" - %s last pushed at %s, %s (status: %s)",
			verdict.FullName,
			formatDate(verdict.LastPush),
			humanize.RelTime(verdict.LastPush, now, "ago", "from now"),
			archivedStatus(verdict.Archived))
		return res
	}

	res.Status = StatusOK
	a.printer.OK(" - %s ok.", verdict.FullName)
	return res
}

func (a *Auditor) skip(res Result, kind SkipKind, err error) Result {
	log.WithError(err).WithField("url", res.URL).Warnf("skipping (%s)", kind)
	res.Status = StatusSkipped
	res.Kind = kind
	res.Reason = err.Error()
	res.Err = err
	return res
}

func (a *Auditor) annotate(res Result) []Annotation {
	annotations := make([]Annotation, 0, len(res.Lines))
	for _, line := range res.Lines {
		annotations = append(annotations,
			newAnnotation(a.settings.AnnotationLevel, a.settings.AnnotationFileName(), line, res.Repo, res.verdict))
	}
	return annotations
}

func archivedStatus(archived bool) string {
	if archived {
		return "archived"
	}
	return "active"
}

// unique drops repeated entries, keeping first appearance order. A link
// listed twice is audited once; its annotations already cover every line.
func unique(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
