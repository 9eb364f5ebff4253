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

// Package macros holds typed macro values and the two-scope store (global and per-file local)
// used to resolve them.
package macros

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	Boolean Kind = iota
	Integer
	Float
	String
)

func (k Kind) String() string {
	switch k {
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case String:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Numeric reports whether values of this kind take part in numeric comparisons.
func (k Kind) Numeric() bool { return k == Integer || k == Float }

// Value is a typed macro value. The zero Value is Boolean false.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

func Bool(v bool) Value { return Value{kind: Boolean, b: v} }
func Int(v int64) Value { return Value{kind: Integer, i: v} }
func Float64(v float64) Value { return Value{kind: Float, f: v} }
func Str(v string) Value { return Value{kind: String, s: v} }

func (v Value) Kind() Kind { return v.kind }

// AsBool returns the boolean payload; ok is false for other kinds.
func (v Value) AsBool() (value, ok bool) { return v.b, v.kind == Boolean }

// AsInt returns the integer payload; ok is false for other kinds.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == Integer }

// AsFloat returns the payload of numeric values widened to float64.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case Integer:
		return float64(v.i), true
	case Float:
		return v.f, true
	default:
		return 0, false
	}
}

// AsString returns the string payload; ok is false for other kinds.
func (v Value) AsString() (string, bool) { return v.s, v.kind == String }

// String renders the value the way it is interpolated by `#<<` directives: strings without
// quotes, floats always with a fractional part.
func (v Value) String() string {
	switch v.kind {
	case Boolean:
		return strconv.FormatBool(v.b)
	case Integer:
		return strconv.FormatInt(v.i, 10)
	case Float:
		text := strconv.FormatFloat(v.f, 'f', -1, 64)
		if !strings.ContainsAny(text, ".eEnN") {
			text += ".0"
		}
		return text
	default:
		return v.s
	}
}

// Literal patterns shared with the directive grammar. They match a whole token.
const (
	BoolPattern   = `true|True|TRUE|false|False|FALSE`
	IntPattern    = `[+-]?\d+`
	FloatPattern  = `[+-]?(?:\d+\.\d*|\.\d+)(?:[eE][+-]?\d+)?`
	StringPattern = `"[^"]*"`
)

var (
	boolRegex   = regexp.MustCompile(`^(?:` + BoolPattern + `)$`)
	intRegex    = regexp.MustCompile(`^` + IntPattern + `$`)
	floatRegex  = regexp.MustCompile(`^` + FloatPattern + `$`)
	stringRegex = regexp.MustCompile(`^` + StringPattern + `$`)
)

// LiteralKind reports which kind of literal text is, if any.
func LiteralKind(text string) (Kind, bool) {
	switch {
	case boolRegex.MatchString(text):
		return Boolean, true
	case intRegex.MatchString(text):
		return Integer, true
	case floatRegex.MatchString(text):
		return Float, true
	case stringRegex.MatchString(text):
		return String, true
	default:
		return 0, false
	}
}

// ParseLiteral converts a literal token into a Value, e.g. `TRUE`, `-12`, `3.5` or `"text"`.
func ParseLiteral(text string) (Value, error) {
	kind, ok := LiteralKind(text)
	if !ok {
		return Value{}, fmt.Errorf("%q is not a boolean, integer, float or string literal", text)
	}
	return ParseAs(kind, text)
}

// ParseAs converts text into a Value of the given kind, failing if the text does not fit it.
func ParseAs(kind Kind, text string) (Value, error) {
	switch kind {
	case Boolean:
		if !boolRegex.MatchString(text) {
			return Value{}, fmt.Errorf("%q is not a boolean literal", text)
		}
		return Bool(strings.EqualFold(text, "true")), nil
	case Integer:
		if !intRegex.MatchString(text) {
			return Value{}, fmt.Errorf("%q is not an integer literal", text)
		}
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid integer literal %q: %w", text, err)
		}
		return Int(i), nil
	case Float:
		if !floatRegex.MatchString(text) {
			return Value{}, fmt.Errorf("%q is not a float literal", text)
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid float literal %q: %w", text, err)
		}
		return Float64(f), nil
	case String:
		if !stringRegex.MatchString(text) {
			return Value{}, fmt.Errorf("%q is not a string literal", text)
		}
		return Str(text[1 : len(text)-1]), nil
	default:
		return Value{}, fmt.Errorf("unknown value kind %v", kind)
	}
}
