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
	"regexp"

	"github.com/EngFlow/condpp/internal/macros"
)

// Represents a way of matching a specific directive kind.
type matchingRule struct {
	matchedKind Kind
	valueKind   macros.Kind // only meaningful for define rules
	pattern     *regexp.Regexp
}

const (
	namePattern = `([A-Za-z_]\w*)`
	eol         = `\s*$`
)

var literalPatterns = []struct {
	kind    macros.Kind
	pattern string
}{
	{macros.Boolean, macros.BoolPattern},
	{macros.Integer, macros.IntPattern},
	{macros.Float, macros.FloatPattern},
	{macros.String, macros.StringPattern},
}

// compileRules builds the grammar table for the given comment marker.
//
// Order of rules matters: the first matching rule wins. Typed defines come before the
// catch-all Unknown rule, and the `global` variants must not be shadowed by their local
// counterparts (see reservedName). Lines matching no rule at all are plain text.
func compileRules(marker string) []matchingRule {
	prefix := `^\s*(?:` + regexp.QuoteMeta(marker) + `)+\s+`
	var rules []matchingRule

	for _, lit := range literalPatterns {
		rules = append(rules, matchingRule{
			matchedKind: LocalDefine,
			valueKind:   lit.kind,
			pattern:     regexp.MustCompile(prefix + `#define\s+` + namePattern + `\s+(` + lit.pattern + `)` + eol),
		})
	}
	for _, lit := range literalPatterns {
		rules = append(rules, matchingRule{
			matchedKind: GlobalDefine,
			valueKind:   lit.kind,
			pattern:     regexp.MustCompile(prefix + `#define\s+global\s+` + namePattern + `\s+(` + lit.pattern + `)` + eol),
		})
	}

	return append(rules,
		matchingRule{matchedKind: IfDef, pattern: regexp.MustCompile(prefix + `#ifdef\s+(\S.*?)` + eol)},
		matchingRule{matchedKind: IfNDef, pattern: regexp.MustCompile(prefix + `#ifndef\s+(\S.*?)` + eol)},
		matchingRule{matchedKind: Else, pattern: regexp.MustCompile(prefix + `#else` + eol)},
		matchingRule{matchedKind: Endif, pattern: regexp.MustCompile(prefix + `#endif` + eol)},
		matchingRule{matchedKind: Output, pattern: regexp.MustCompile(prefix + `(#<<\s+` + namePattern + `)` + eol)},
		matchingRule{matchedKind: OutputGlobal, pattern: regexp.MustCompile(prefix + `(#<<\s+global\s+` + namePattern + `)` + eol)},
		matchingRule{matchedKind: Include, pattern: regexp.MustCompile(prefix + `#include\s+"([^"]+)"` + eol)},
		matchingRule{matchedKind: Unknown, pattern: regexp.MustCompile(prefix + `#(?:\w|<<)`)},
	)
}

// reservedName reports whether name may not be used where a macro name is expected. Without
// this `#define global true` would define a local macro called "global". Keywords and boolean
// literals are reserved too, since no condition could ever refer to them.
func reservedName(name string) bool {
	switch name {
	case "global", "and", "or", "true", "True", "TRUE", "false", "False", "FALSE":
		return true
	}
	return false
}
