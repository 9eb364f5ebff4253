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

package engine

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/EngFlow/condpp/internal/collections"
	"github.com/EngFlow/condpp/internal/diag"
	"github.com/EngFlow/condpp/internal/directive"
	"github.com/EngFlow/condpp/internal/expr"
)

// Validate checks the structure of a whole source before anything is written: every
// directive-looking line must be a known directive, #ifdef/#ifndef blocks must be balanced
// with at most one #else each, every condition must parse and every define value must fit
// its type. Nothing is evaluated and no macro is defined.
//
// The returned error is a *diag.Error wrapping diag.ErrSyntax, located at the offending line.
func Validate(r io.Reader, file string, classifier *directive.Classifier) error {
	in := newLineReader(r)
	var open collections.Stack[directive.Kind]

	for {
		line, ok := in.next()
		if !ok {
			break
		}
		fail := func(cause error) error {
			return &diag.Error{Kind: diag.ErrSyntax, File: file, Line: in.number, Text: trimEOL(line), Err: cause}
		}

		d, err := classifier.Classify(line)
		if err != nil {
			return fail(err)
		}
		switch d.Kind {
		case directive.Unknown:
			return fail(errors.New("expected one of #define, #ifdef, #ifndef, #else, #endif, #<< or #include"))
		case directive.IfDef, directive.IfNDef:
			if err := checkCondition(d.Expr); err != nil {
				return fail(err)
			}
			open.Push(d.Kind)
		case directive.Else:
			if top, ok := open.Peek(); !ok || !top.OpensBlock() {
				return fail(errors.New("expected #ifdef or #ifndef before #else"))
			}
			open.Push(directive.Else)
		case directive.Endif:
			top, ok := open.Pop()
			switch {
			case !ok:
				return fail(errors.New("expected #ifdef, #ifndef or #else before #endif"))
			case top == directive.Else:
				open.Pop() // the owning #ifdef / #ifndef
			case !top.OpensBlock():
				return fail(fmt.Errorf("unexpected %v before #endif", top))
			}
		case directive.PlainText, directive.LocalDefine, directive.GlobalDefine,
			directive.Output, directive.OutputGlobal, directive.Include:
		}
	}
	if err := in.err(); err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}
	if open.Len() > 0 {
		return &diag.Error{Kind: diag.ErrSyntax, File: file, Line: in.number + 1, Err: errors.New("expected #endif")}
	}
	return nil
}

// ValidateFile runs Validate over the file at path.
func ValidateFile(path string, classifier *directive.Classifier) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Validate(f, path, classifier)
}

// checkCondition parses a condition and checks that each of its atoms is well-formed on its
// own.
func checkCondition(text string) error {
	parsed, err := expr.Parse(text)
	if err != nil {
		return err
	}
	for _, atom := range expr.Atoms(parsed) {
		if _, err := expr.Classify(atom.String()); err != nil {
			return err
		}
	}
	return nil
}
