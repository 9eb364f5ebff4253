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
	"fmt"
	"regexp"

	"github.com/EngFlow/condpp/internal/diag"
	"github.com/EngFlow/condpp/internal/macros"
)

// Kind is the shape of an atomic condition.
type Kind int

const (
	BareKeyTest Kind = iota
	BooleanCompare
	IntegerCompare
	FloatCompare
	StringCompare
	CrossKeyCompare
)

func (k Kind) String() string {
	switch k {
	case BareKeyTest:
		return "bare key test"
	case BooleanCompare:
		return "boolean comparison"
	case IntegerCompare:
		return "integer comparison"
	case FloatCompare:
		return "float comparison"
	case StringCompare:
		return "string comparison"
	case CrossKeyCompare:
		return "cross-key comparison"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (Test) Kind() Kind { return BareKeyTest }

func (expr Compare) Kind() Kind {
	lit, ok := expr.Right.(Literal)
	if !ok {
		return CrossKeyCompare
	}
	switch lit.Constant.Kind() {
	case macros.Boolean:
		return BooleanCompare
	case macros.Integer:
		return IntegerCompare
	case macros.Float:
		return FloatCompare
	default:
		return StringCompare
	}
}

const (
	keywordAnd    = "and"
	keywordOr     = "or"
	keywordGlobal = "global"
)

var identifierRegex = regexp.MustCompile(`^[A-Za-z_]\w*$`)

func isName(token string) bool {
	switch token {
	case keywordAnd, keywordOr, keywordGlobal:
		return false
	}
	if _, isLiteral := macros.LiteralKind(token); isLiteral {
		return false
	}
	return identifierRegex.MatchString(token)
}

func isOperator(token string) bool {
	switch Op(token) {
	case Equal, NotEqual, Less, LessOrEqual, Greater, GreaterOrEqual:
		return true
	default:
		return false
	}
}

// Parse parses a condition. Errors wrap diag.ErrSyntax.
func Parse(text string) (Expr, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, fmt.Errorf("%w: illegal expression %q: %v", diag.ErrSyntax, text, err)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty expression", diag.ErrSyntax)
	}
	p := parser{tokensLeft: tokens}
	result, err := p.parseOr()
	if err == nil && len(p.tokensLeft) > 0 {
		err = fmt.Errorf("unexpected %q", p.peek())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: illegal expression %q: %v", diag.ErrSyntax, text, err)
	}
	return result, nil
}

// Classify reports the shape of a single atomic condition, e.g. `LEVEL >= 2` is an
// IntegerCompare. Compound conditions are rejected.
func Classify(atom string) (Kind, error) {
	parsed, err := Parse(atom)
	if err != nil {
		return 0, err
	}
	switch v := parsed.(type) {
	case Test:
		return v.Kind(), nil
	case Compare:
		return v.Kind(), nil
	default:
		return 0, fmt.Errorf("%w: %q is not an atomic condition", diag.ErrSyntax, atom)
	}
}

// Atoms returns the atomic conditions of expr from left to right.
func Atoms(e Expr) []Expr {
	switch v := e.(type) {
	case Or:
		return append(Atoms(v.L), Atoms(v.R)...)
	case And:
		return append(Atoms(v.L), Atoms(v.R)...)
	default:
		return []Expr{e}
	}
}

type parser struct {
	tokensLeft []string
}

// Return the next token without consuming it, or "" if no tokens are left.
func (p *parser) peek() string {
	if len(p.tokensLeft) == 0 {
		return ""
	}
	return p.tokensLeft[0]
}

// Return the next token and consume it, or "" if no tokens are left.
func (p *parser) next() string {
	token := p.peek()
	if len(p.tokensLeft) > 0 {
		p.tokensLeft = p.tokensLeft[1:]
	}
	return token
}

// parseOr parses `group (or group)*`, building a left-associative tree.
func (p *parser) parseOr() (Expr, error) {
	result, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek() == keywordOr {
		p.next()
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		result = Or{L: result, R: rhs}
	}
	return result, nil
}

// parseAnd parses `atom (and atom)*`.
func (p *parser) parseAnd() (Expr, error) {
	result, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.peek() == keywordAnd {
		p.next()
		rhs, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		result = And{L: result, R: rhs}
	}
	return result, nil
}

// parseAtom parses `ref` or `ref op operand`.
func (p *parser) parseAtom() (Expr, error) {
	left, err := p.parseRef()
	if err != nil {
		return nil, err
	}
	if !isOperator(p.peek()) {
		return Test{Key: left}, nil
	}
	op := Op(p.next())

	switch token := p.peek(); {
	case token == "":
		return nil, fmt.Errorf("expected operand after %s", op)
	case token == keywordGlobal || isName(token):
		right, err := p.parseRef()
		if err != nil {
			return nil, err
		}
		return Compare{Left: left, Op: op, Right: right}, nil
	default:
		value, err := macros.ParseLiteral(token)
		if err != nil {
			return nil, err
		}
		if value.Kind() == macros.Boolean && op != Equal && op != NotEqual {
			return nil, fmt.Errorf("operator %s is not defined for booleans", op)
		}
		p.next()
		return Compare{Left: left, Op: op, Right: Literal{Constant: value}}, nil
	}
}

// parseRef parses `[global] NAME`.
func (p *parser) parseRef() (Ref, error) {
	var ref Ref
	if p.peek() == keywordGlobal {
		p.next()
		ref.Global = true
	}
	token := p.next()
	if !isName(token) {
		if token == "" {
			return Ref{}, fmt.Errorf("expected macro name, found end of expression")
		}
		return Ref{}, fmt.Errorf("expected macro name, found %q", token)
	}
	ref.Name = token
	return ref, nil
}
