// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"errors"

	"github.com/tidwall/gjson"
)

// Record is a decoded API response. It is read only.
type Record struct {
	raw gjson.Result
}

// ParseRecord decodes data. Invalid JSON and empty or null documents are
// errors.
func ParseRecord(data []byte) (Record, error) {
	if !gjson.ValidBytes(data) {
		return Record{}, errors.New("JSON decode error")
	}
	r := gjson.ParseBytes(data)
	if r.Type == gjson.Null {
		return Record{}, errors.New("no data received")
	}
	return Record{raw: r}, nil
}

// String returns field, which must be a JSON string.
func (r Record) String(field string) (string, error) {
	v := r.raw.Get(gjson.Escape(field))
	if !v.Exists() || v.Type == gjson.Null {
		return "", &FieldError{Field: field, Expected: "string", Missing: true}
	}
	if v.Type != gjson.String {
		return "", &FieldError{Field: field, Expected: "string"}
	}
	return v.Str, nil
}

// Bool returns field, which must be a JSON boolean.
func (r Record) Bool(field string) (bool, error) {
	v := r.raw.Get(gjson.Escape(field))
	if !v.Exists() || v.Type == gjson.Null {
		return false, &FieldError{Field: field, Expected: "boolean", Missing: true}
	}
	if v.Type != gjson.True && v.Type != gjson.False {
		return false, &FieldError{Field: field, Expected: "boolean"}
	}
	return v.Bool(), nil
}
