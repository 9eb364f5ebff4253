// Copyright 2026 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package diag defines the error kinds reported by the preprocessor and a located error type
// carrying the file, line and text where a failure happened.
package diag

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSyntax indicates malformed or unbalanced directives or an illegal expression.
	ErrSyntax = errors.New("syntax error")

	// ErrType indicates a comparison between incompatible value types.
	ErrType = errors.New("type error")

	// ErrLookup indicates a reference to an undefined macro.
	ErrLookup = errors.New("lookup error")

	// ErrNotFound indicates a missing include target or source root.
	ErrNotFound = errors.New("not found")

	// ErrLimit indicates that the configured nesting limit was exceeded.
	ErrLimit = errors.New("nesting limit exceeded")
)

// Error is a failure located at a single line of a source file.
type Error struct {
	Kind error  // One of the sentinel errors above
	File string // Path of the file being processed
	Line int    // 1-based line number
	Text string // Offending line, without the trailing newline
	Err  error  // Underlying cause, may be nil
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d: ", e.File, e.Line)
	switch {
	case e.Err == nil:
		fmt.Fprintf(&b, "%v", e.Kind)
	case errors.Is(e.Err, e.Kind):
		fmt.Fprintf(&b, "%v", e.Err)
	default:
		fmt.Fprintf(&b, "%v: %v", e.Kind, e.Err)
	}
	fmt.Fprintf(&b, "\n\t%s", e.Text)
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// At locates err at the given file and line. Errors that are already located are returned
// unchanged so the innermost location (e.g. inside an included file) wins. The kind is taken
// from err when it wraps one of the sentinels, otherwise fallback is used.
func At(err error, fallback error, file string, line int, text string) error {
	if err == nil {
		return nil
	}
	var located *Error
	if errors.As(err, &located) {
		return err
	}
	return &Error{Kind: KindOf(err, fallback), File: file, Line: line, Text: strings.TrimRight(text, "\r\n"), Err: err}
}

// KindOf returns the sentinel wrapped by err, or fallback when there is none.
func KindOf(err error, fallback error) error {
	for _, kind := range []error{ErrSyntax, ErrType, ErrLookup, ErrNotFound, ErrLimit} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return fallback
}
