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

package expr

import (
	"errors"
	"testing"

	"github.com/EngFlow/condpp/internal/diag"
	"github.com/EngFlow/condpp/internal/macros"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scope stub counting lookups, used to observe short-circuit evaluation.
type fakeScope struct {
	local, global map[string]macros.Value
	lookups       []string
}

func (s *fakeScope) Resolve(name string) (macros.Value, error) {
	s.lookups = append(s.lookups, name)
	if v, ok := s.local[name]; ok {
		return v, nil
	}
	return s.Global(name)
}

func (s *fakeScope) Global(name string) (macros.Value, error) {
	if v, ok := s.global[name]; ok {
		return v, nil
	}
	return macros.Value{}, errors.Join(diag.ErrLookup, errors.New(name))
}

func newScope() *fakeScope {
	return &fakeScope{
		local: map[string]macros.Value{
			"LEVEL":  macros.Int(3),
			"RATIO":  macros.Float64(0.5),
			"OS":     macros.Str("linux"),
			"DEBUG":  macros.Bool(true),
			"QUIET":  macros.Bool(false),
			"SHADOW": macros.Int(1),
		},
		global: map[string]macros.Value{
			"SHADOW":  macros.Int(100),
			"VERSION": macros.Int(3),
			"NAME":    macros.Str("linux"),
		},
	}
}

func TestExprEvaluation(t *testing.T) {
	cases := []struct {
		expr     string
		expected bool
	}{
		{"DEBUG", true},
		{"QUIET", false},
		{"LEVEL", true},
		{"UNDEFINED", false},
		{"global DEBUG", false},
		{"global VERSION", true},
		{"DEBUG == true", true},
		{"DEBUG != TRUE", false},
		{"QUIET == False", true},
		{"LEVEL == 3", true},
		{"LEVEL >= 2", true},
		{"LEVEL > 3", false},
		{"LEVEL < 4", true},
		{"LEVEL <= 2", false},
		{"LEVEL != -3", true},
		{"LEVEL > 2.5", true},
		{"RATIO < 1", true},
		{"RATIO == 0.5", true},
		{"RATIO >= .75", false},
		{`OS == "linux"`, true},
		{`OS != "linux"`, false},
		{`OS < "macos"`, true},
		{`OS > "a long string"`, true},
		{"SHADOW == 1", true},
		{"global SHADOW == 100", true},
		{"LEVEL == VERSION", true},
		{"LEVEL == global VERSION", true},
		{"global NAME == OS", true},
		{"SHADOW < global SHADOW", true},
		{"QUIET or DEBUG", true},
		{"DEBUG and QUIET", false},
		{"QUIET and DEBUG or LEVEL == 3", true},
		{"LEVEL == 3 or QUIET and DEBUG", true},
		{"QUIET or UNDEFINED or LEVEL < 0", false},
	}

	for _, tc := range cases {
		parsed, err := Parse(tc.expr)
		require.NoError(t, err, "Parse(%q)", tc.expr)
		got, err := parsed.Eval(newScope())
		require.NoError(t, err, "Eval(%q)", tc.expr)
		assert.Equal(t, tc.expected, got, "Eval(%q)", tc.expr)
	}
}

func TestExprEvaluationErrors(t *testing.T) {
	cases := []struct {
		expr string
		kind error
	}{
		{"DEBUG > 3", diag.ErrType},
		{"DEBUG == 1", diag.ErrType},
		{`LEVEL == "3"`, diag.ErrType},
		{"OS == true", diag.ErrType},
		{"LEVEL < DEBUG", diag.ErrType},
		{"DEBUG < QUIET", diag.ErrType},
		{"UNDEFINED == 1", diag.ErrLookup},
		{"LEVEL == UNDEFINED", diag.ErrLookup},
		{"global LEVEL == 3", diag.ErrLookup},
	}

	for _, tc := range cases {
		parsed, err := Parse(tc.expr)
		require.NoError(t, err, "Parse(%q)", tc.expr)
		_, err = parsed.Eval(newScope())
		assert.ErrorIs(t, err, tc.kind, "Eval(%q)", tc.expr)
	}
}

func TestShortCircuit(t *testing.T) {
	scope := newScope()
	parsed, err := Parse("QUIET and UNDEFINED > 1 or DEBUG or LEVEL > 1")
	require.NoError(t, err)

	got, err := parsed.Eval(scope)
	require.NoError(t, err, "the failing comparison is never evaluated")
	assert.True(t, got)
	assert.Equal(t, []string{"QUIET", "DEBUG"}, scope.lookups)
}

func TestParseStructure(t *testing.T) {
	parsed, err := Parse(`A == 1 and global B or C != "x y"`)
	require.NoError(t, err)
	assert.Equal(t, Or{
		L: And{
			L: Compare{Left: Ref{Name: "A"}, Op: Equal, Right: Literal{Constant: macros.Int(1)}},
			R: Test{Key: Ref{Name: "B", Global: true}},
		},
		R: Compare{Left: Ref{Name: "C"}, Op: NotEqual, Right: Literal{Constant: macros.Str("x y")}},
	}, parsed)
	assert.Equal(t, `A == 1 and global B or C != "x y"`, parsed.String())
	assert.Len(t, Atoms(parsed), 3)
}

func TestParseWithoutSpaces(t *testing.T) {
	parsed, err := Parse(`LEVEL>=2`)
	require.NoError(t, err)
	assert.Equal(t, Compare{Left: Ref{Name: "LEVEL"}, Op: GreaterOrEqual, Right: Literal{Constant: macros.Int(2)}}, parsed)
}

func TestIllegalExpressions(t *testing.T) {
	for _, text := range []string{
		"",
		"   ",
		"3 == LEVEL",
		"LEVEL ==",
		"LEVEL = 3",
		"LEVEL => 3",
		"DEBUG > true",
		"DEBUG <= false",
		"LEVEL == 3 and",
		"or LEVEL",
		"LEVEL LEVEL",
		"global",
		"global 3",
		"LEVEL == global",
		`OS == "unterminated`,
		"LEVEL == 0x10",
		"and == 1",
		"LEVEL && DEBUG",
		"! DEBUG",
	} {
		_, err := Parse(text)
		assert.ErrorIs(t, err, diag.ErrSyntax, "Parse(%q)", text)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		atom     string
		expected Kind
	}{
		{"DEBUG", BareKeyTest},
		{"global DEBUG", BareKeyTest},
		{"DEBUG == true", BooleanCompare},
		{"global DEBUG != FALSE", BooleanCompare},
		{"LEVEL >= 2", IntegerCompare},
		{"RATIO < 0.5", FloatCompare},
		{`OS == "linux"`, StringCompare},
		{"LEVEL == OTHER", CrossKeyCompare},
		{"global LEVEL == global OTHER", CrossKeyCompare},
	}
	for _, tc := range cases {
		got, err := Classify(tc.atom)
		require.NoError(t, err, "Classify(%q)", tc.atom)
		assert.Equal(t, tc.expected, got, "Classify(%q)", tc.atom)
	}

	_, err := Classify("A and B")
	assert.ErrorIs(t, err, diag.ErrSyntax)
	_, err = Classify("A >")
	assert.ErrorIs(t, err, diag.ErrSyntax)
}

func TestTokenize(t *testing.T) {
	tokens, err := tokenize(`  global A>=B and C != "x == y"or D`)
	require.NoError(t, err)
	assert.Equal(t, []string{"global", "A", ">=", "B", "and", "C", "!=", `"x == y"`, "or", "D"}, tokens)
}
