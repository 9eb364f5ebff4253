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
	"strings"
	"testing"

	"github.com/EngFlow/condpp/internal/diag"
	"github.com/EngFlow/condpp/internal/directive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustClassifier(t *testing.T) *directive.Classifier {
	t.Helper()
	c, err := directive.New(directive.DefaultMarker)
	require.NoError(t, err)
	return c
}

func TestValidateAcceptsWellFormedInput(t *testing.T) {
	for _, input := range []string{
		"",
		"plain\ntext",
		"# #ifdef A\n# #endif\n",
		"# #ifndef A\n# #else\n# #endif\n",
		"# #ifdef A\n# #ifdef B\n# #else\n# #ifndef C\n# #endif\n# #endif\n# #else\n# #endif\n",
		"# #define global A 1\n# #ifdef A == 1 or global B and C != \"x\"\n# #<< A\n# #endif\n",
		"# #include \"a.txt\"\n# #<< global A\n",
		"# #ifdef UNDEFINED > \"z\"\n# #endif\n",
	} {
		assert.NoError(t, Validate(strings.NewReader(input), "input.txt", mustClassifier(t)), "Validate(%q)", input)
	}
}

func TestValidateRejectsMalformedInput(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		line  int
	}{
		{name: "second endif", input: "# #ifdef X\n# #endif\n# #endif\n", line: 3},
		{name: "endif without if", input: "text\n# #endif\n", line: 2},
		{name: "else without if", input: "# #else\n", line: 1},
		{name: "second else", input: "# #ifdef X\n# #else\n# #else\n# #endif\n", line: 3},
		{name: "else after closed block", input: "# #ifdef X\n# #endif\n# #else\n", line: 3},
		{name: "missing endif", input: "# #ifdef X\na\nb\n", line: 4},
		{name: "missing nested endif", input: "# #ifdef X\n# #ifdef Y\n# #endif\n", line: 4},
		{name: "unknown directive", input: "ok\n# #undef X\n", line: 2},
		{name: "ifdef without condition", input: "# #ifdef\n# #endif\n", line: 1},
		{name: "illegal expression", input: "# #ifdef X ==\n# #endif\n", line: 1},
		{name: "boolean ordering", input: "# #ifndef X > true\n# #endif\n", line: 1},
		{name: "reversed comparison", input: "# #ifdef 1 == X\n# #endif\n", line: 1},
		{name: "integer overflow", input: "# #define X 99999999999999999999\n", line: 1},
		{name: "error inside untaken branch", input: "# #ifdef X\n# #ifdef Y and\n# #endif\n# #endif\n", line: 2},
		{name: "boolean literal as name", input: "# #define TRUE 1\n# #ifdef TRUE == 1\n# #endif\n", line: 1},
		{name: "keyword as name", input: "# #define or 1\n", line: 1},
		{name: "adjacent strings", input: "# #define S \"a\" \"b\"\n", line: 1},
		{name: "error after long line", input: strings.Repeat("y", 2<<20) + "\n# #else\n", line: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(strings.NewReader(tc.input), "input.txt", mustClassifier(t))
			require.ErrorIs(t, err, diag.ErrSyntax)
			var located *diag.Error
			require.ErrorAs(t, err, &located)
			assert.Equal(t, "input.txt", located.File)
			assert.Equal(t, tc.line, located.Line)
			if lines := strings.Split(tc.input, "\n"); tc.line <= len(lines) {
				assert.Equal(t, lines[tc.line-1], located.Text)
			}
		})
	}
}

func TestValidateErrorMessage(t *testing.T) {
	err := Validate(strings.NewReader("# #ifdef X\n# #endif\n# #endif\n"), "dir/file.txt", mustClassifier(t))
	require.Error(t, err)
	assert.Equal(t, "dir/file.txt:3: syntax error: expected #ifdef, #ifndef or #else before #endif\n\t# #endif", err.Error())
}
