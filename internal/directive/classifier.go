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

package directive

import (
	"errors"
	"fmt"

	"github.com/EngFlow/condpp/internal/diag"
	"github.com/EngFlow/condpp/internal/macros"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMarker is the comment marker used when none is configured.
const DefaultMarker = "#"

// Compiled grammar tables keyed by comment marker. A run uses a single marker, but tests and
// long-lived callers create many classifiers.
var grammarCache = mustNewCache(32)

func mustNewCache(size int) *lru.Cache[string, []matchingRule] {
	cache, err := lru.New[string, []matchingRule](size)
	if err != nil {
		panic(err)
	}
	return cache
}

// Classifier maps raw lines to directives using the grammar of one comment marker.
// It holds no mutable state and may be shared.
type Classifier struct {
	marker string
	rules  []matchingRule
}

// New returns a Classifier for lines commented with marker, e.g. "#" or "//".
func New(marker string) (*Classifier, error) {
	if marker == "" {
		return nil, errors.New("comment marker must not be empty")
	}
	rules, ok := grammarCache.Get(marker)
	if !ok {
		rules = compileRules(marker)
		grammarCache.Add(marker, rules)
	}
	return &Classifier{marker: marker, rules: rules}, nil
}

// Marker returns the comment marker this classifier was built for.
func (c *Classifier) Marker() string { return c.marker }

// Classify returns the directive found on line. Lines that are not directives are reported
// as PlainText. An error is returned only for define directives whose value does not fit
// its type (e.g. an integer overflowing 64 bits); the error wraps diag.ErrSyntax.
func (c *Classifier) Classify(line string) (Directive, error) {
	for _, rule := range c.rules {
		m := rule.pattern.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		group := func(i int) string { return line[m[2*i]:m[2*i+1]] }

		switch rule.matchedKind {
		case LocalDefine, GlobalDefine:
			name := group(1)
			if reservedName(name) {
				continue
			}
			value, err := macros.ParseAs(rule.valueKind, group(2))
			if err != nil {
				return Directive{Kind: rule.matchedKind, Name: name}, fmt.Errorf("%w: %v", diag.ErrSyntax, err)
			}
			return Directive{Kind: rule.matchedKind, Name: name, Value: value}, nil
		case IfDef, IfNDef:
			return Directive{Kind: rule.matchedKind, Expr: group(1)}, nil
		case Output, OutputGlobal:
			name := group(2)
			if reservedName(name) {
				continue
			}
			return Directive{Kind: rule.matchedKind, Name: name, Begin: m[2], End: m[3]}, nil
		case Include:
			return Directive{Kind: Include, Path: group(1)}, nil
		case Else, Endif, Unknown:
			return Directive{Kind: rule.matchedKind}, nil
		case PlainText:
			// never produced by a rule
		}
	}
	return Directive{Kind: PlainText}, nil
}
