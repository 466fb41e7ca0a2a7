// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"fmt"
	"io"
	"time"
)

// Annotation is a CI workflow command pointing at one line of the list.
type Annotation struct {
	Level    string    `json:"level" yaml:"level"`
	File     string    `json:"file" yaml:"file"`
	Line     int       `json:"line" yaml:"line"`
	Repo     string    `json:"repo" yaml:"repo"`
	LastPush time.Time `json:"-" yaml:"-"`
	Archived bool      `json:"archived" yaml:"archived"`
	Message  string    `json:"message" yaml:"message"`
}

func newAnnotation(level, file string, line int, repo string, v Verdict) Annotation {
	return Annotation{
		Level:    level,
		File:     file,
		Line:     line,
		Repo:     repo,
		LastPush: v.LastPush,
		Archived: v.Archived,
		Message: fmt.Sprintf("Abandoned repository, last push at '%s' (archived: %s)",
			formatDate(v.LastPush), yesNo(v.Archived)),
	}
}

// String renders the annotation as a workflow command, eg.
// ::warning file=README.md,line=5,col=0::Abandoned repository, ...
func (a Annotation) String() string {
	return fmt.Sprintf("::%s file=%s,line=%d,col=0::%s", a.Level, a.File, a.Line, a.Message)
}

// WriteAnnotations writes one workflow command per line.
func WriteAnnotations(w io.Writer, annotations []Annotation) error {
	for _, a := range annotations {
		if _, err := fmt.Fprintln(w, a.String()); err != nil {
			return err
		}
	}
	return nil
}

func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
