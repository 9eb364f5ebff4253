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
	"testing"

	"github.com/EngFlow/condpp/internal/diag"
	"github.com/EngFlow/condpp/internal/macros"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustClassifier(t *testing.T, marker string) *Classifier {
	t.Helper()
	c, err := New(marker)
	require.NoError(t, err)
	return c
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		line     string
		expected Directive
	}{
		{line: "plain text\n", expected: Directive{Kind: PlainText}},
		{line: "# just a comment\n", expected: Directive{Kind: PlainText}},
		{line: "#define NOT_A_DIRECTIVE 1\n", expected: Directive{Kind: PlainText}},
		{line: "# # heading\n", expected: Directive{Kind: PlainText}},
		{line: "# #define DEBUG true\n", expected: Directive{Kind: LocalDefine, Name: "DEBUG", Value: macros.Bool(true)}},
		{line: "  # #define DEBUG FALSE  \r\n", expected: Directive{Kind: LocalDefine, Name: "DEBUG", Value: macros.Bool(false)}},
		{line: "# #define LEVEL 3\n", expected: Directive{Kind: LocalDefine, Name: "LEVEL", Value: macros.Int(3)}},
		{line: "# #define RATIO -1.5\n", expected: Directive{Kind: LocalDefine, Name: "RATIO", Value: macros.Float64(-1.5)}},
		{line: "# #define NAME \"a quoted name\"\n", expected: Directive{Kind: LocalDefine, Name: "NAME", Value: macros.Str("a quoted name")}},
		{line: "# #define global DEBUG true\n", expected: Directive{Kind: GlobalDefine, Name: "DEBUG", Value: macros.Bool(true)}},
		{line: "# #define global LEVEL 10\n", expected: Directive{Kind: GlobalDefine, Name: "LEVEL", Value: macros.Int(10)}},
		{line: "# #define global PI 3.14\n", expected: Directive{Kind: GlobalDefine, Name: "PI", Value: macros.Float64(3.14)}},
		{line: "# #define global OS \"linux\"\n", expected: Directive{Kind: GlobalDefine, Name: "OS", Value: macros.Str("linux")}},
		{line: "# #ifdef DEBUG\n", expected: Directive{Kind: IfDef, Expr: "DEBUG"}},
		{line: "# #ifdef LEVEL >= 2 and global OS == \"linux\"  \n", expected: Directive{Kind: IfDef, Expr: `LEVEL >= 2 and global OS == "linux"`}},
		{line: "# #ifndef DEBUG\n", expected: Directive{Kind: IfNDef, Expr: "DEBUG"}},
		{line: "# #else\n", expected: Directive{Kind: Else}},
		{line: "\t# #endif\n", expected: Directive{Kind: Endif}},
		{line: "# #<< LEVEL\n", expected: Directive{Kind: Output, Name: "LEVEL", Begin: 2, End: 11}},
		{line: "# #<< global LEVEL\n", expected: Directive{Kind: OutputGlobal, Name: "LEVEL", Begin: 2, End: 18}},
		{line: "# #include \"inc/common.txt\"\n", expected: Directive{Kind: Include, Path: "inc/common.txt"}},
		{line: "# #undef DEBUG\n", expected: Directive{Kind: Unknown}},
		{line: "# #ifdef\n", expected: Directive{Kind: Unknown}},
		{line: "# #define global true\n", expected: Directive{Kind: Unknown}},
		{line: "# #define and true\n", expected: Directive{Kind: Unknown}},
		{line: "# #define or 1\n", expected: Directive{Kind: Unknown}},
		{line: "# #define TRUE 1\n", expected: Directive{Kind: Unknown}},
		{line: "# #define global False 1\n", expected: Directive{Kind: Unknown}},
		{line: "# #<< and\n", expected: Directive{Kind: Unknown}},
		{line: "# #define S \"a\" \"b\"\n", expected: Directive{Kind: Unknown}},
		{line: "# #define S \"a \"quoted\" name\"\n", expected: Directive{Kind: Unknown}},
		{line: "# #define X not-a-literal\n", expected: Directive{Kind: Unknown}},
		{line: "# #<< global\n", expected: Directive{Kind: Unknown}},
		{line: "# #include missing-quotes.txt\n", expected: Directive{Kind: Unknown}},
	}

	c := mustClassifier(t, "#")
	for _, tc := range testCases {
		got, err := c.Classify(tc.line)
		require.NoError(t, err, "Classify(%q)", tc.line)
		assert.Equal(t, tc.expected, got, "Classify(%q)", tc.line)
	}
}

func TestClassifyFloatDefinesAreNotIntegers(t *testing.T) {
	c := mustClassifier(t, "#")
	got, err := c.Classify("# #define F 2.0\n")
	require.NoError(t, err)
	assert.Equal(t, macros.Float, got.Value.Kind())

	got, err = c.Classify("# #define I 2\n")
	require.NoError(t, err)
	assert.Equal(t, macros.Integer, got.Value.Kind())
}

func TestClassifyIntegerOverflow(t *testing.T) {
	c := mustClassifier(t, "#")
	got, err := c.Classify("# #define BIG 123456789012345678901234567890\n")
	assert.ErrorIs(t, err, diag.ErrSyntax)
	assert.Equal(t, LocalDefine, got.Kind)
}

func TestClassifyCustomMarker(t *testing.T) {
	c := mustClassifier(t, "//")
	assert.Equal(t, "//", c.Marker())

	got, err := c.Classify("// #ifdef DEBUG\n")
	require.NoError(t, err)
	assert.Equal(t, IfDef, got.Kind)

	got, err = c.Classify("# #ifdef DEBUG\n")
	require.NoError(t, err)
	assert.Equal(t, PlainText, got.Kind, "the default marker is not recognised")

	// Regexp metacharacters in the marker are matched literally.
	c = mustClassifier(t, "--*")
	got, err = c.Classify("--* #endif\n")
	require.NoError(t, err)
	assert.Equal(t, Endif, got.Kind)
	got, err = c.Classify("---- #endif\n")
	require.NoError(t, err)
	assert.Equal(t, PlainText, got.Kind)
}

func TestNewRejectsEmptyMarker(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestNewReusesCompiledRules(t *testing.T) {
	a := mustClassifier(t, ";;")
	b := mustClassifier(t, ";;")
	assert.Same(t, &a.rules[0], &b.rules[0])
}
