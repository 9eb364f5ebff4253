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

// Package expr parses and evaluates the conditions of #ifdef / #ifndef directives.
//
// A condition is a sequence of `or`-separated groups, each an `and`-separated sequence of
// atoms. `and` binds tighter than `or` and both are evaluated left to right with
// short-circuit. An atom is either a bare key test (`NAME`, `global NAME`) or a comparison of
// a macro against a literal or against another macro:
//
//	LEVEL >= 2 and global OS == "linux" or FORCE
//	global VERSION != OTHER_VERSION
package expr

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/EngFlow/condpp/internal/diag"
	"github.com/EngFlow/condpp/internal/macros"
)

// Scope resolves macro names during evaluation. It is implemented by macros.Scope.
type Scope interface {
	// Resolve looks the name up in the current namespace, then globally.
	Resolve(name string) (macros.Value, error)
	// Global looks the name up in the global scope only.
	Global(name string) (macros.Value, error)
}

type (
	// Expr is a parsed condition. Each node implements fmt.Stringer for debugging and
	// round-tripping.
	Expr interface {
		// Eval reports whether the condition holds for the given scope.
		Eval(scope Scope) (bool, error)
		String() string
	}

	// Or represents `L or R`. R is not evaluated when L holds.
	Or struct {
		L, R Expr
	}

	// And represents `L and R`. R is not evaluated when L does not hold.
	And struct {
		L, R Expr
	}

	// Test is a bare key test: true when the macro is defined, or equal to its value when the
	// macro is a boolean.
	Test struct {
		Key Ref
	}

	// Compare compares a macro against a literal or another macro, e.g. LEVEL >= 2.
	Compare struct {
		Left  Ref     // Macro on the left-hand side
		Op    Op      // Comparison operator
		Right Operand // Literal or Ref
	}
)

type (
	// Operand is the right-hand side of a comparison.
	Operand interface {
		Value(scope Scope) (macros.Value, error)
		String() string
	}

	// Ref names a macro, optionally restricted to the global scope.
	Ref struct {
		Name   string
		Global bool
	}

	// Literal is a constant operand.
	Literal struct {
		Constant macros.Value
	}
)

// Op is a comparison operator.
type Op string

const (
	Equal          Op = "=="
	NotEqual       Op = "!="
	Less           Op = "<"
	LessOrEqual    Op = "<="
	Greater        Op = ">"
	GreaterOrEqual Op = ">="
)

func (expr Or) String() string      { return expr.L.String() + " or " + expr.R.String() }
func (expr And) String() string     { return expr.L.String() + " and " + expr.R.String() }
func (expr Test) String() string    { return expr.Key.String() }
func (expr Compare) String() string { return fmt.Sprintf("%s %s %s", expr.Left, expr.Op, expr.Right) }
func (ref Ref) String() string {
	if ref.Global {
		return "global " + ref.Name
	}
	return ref.Name
}
func (lit Literal) String() string {
	if lit.Constant.Kind() == macros.String {
		return `"` + lit.Constant.String() + `"`
	}
	return lit.Constant.String()
}

func (expr Or) Eval(scope Scope) (bool, error) {
	if ok, err := expr.L.Eval(scope); err != nil || ok {
		return ok, err
	}
	return expr.R.Eval(scope)
}

func (expr And) Eval(scope Scope) (bool, error) {
	if ok, err := expr.L.Eval(scope); err != nil || !ok {
		return false, err
	}
	return expr.R.Eval(scope)
}

func (expr Test) Eval(scope Scope) (bool, error) {
	value, err := expr.Key.Value(scope)
	switch {
	case errors.Is(err, diag.ErrLookup):
		return false, nil
	case err != nil:
		return false, err
	}
	if b, ok := value.AsBool(); ok {
		return b, nil
	}
	return true, nil
}

func (expr Compare) Eval(scope Scope) (bool, error) {
	left, err := expr.Left.Value(scope)
	if err != nil {
		return false, err
	}
	right, err := expr.Right.Value(scope)
	if err != nil {
		return false, err
	}
	return compareValues(expr.Left, left, expr.Op, right)
}

// Value resolves the referenced macro.
func (ref Ref) Value(scope Scope) (macros.Value, error) {
	if ref.Global {
		return scope.Global(ref.Name)
	}
	return scope.Resolve(ref.Name)
}

func (lit Literal) Value(Scope) (macros.Value, error) { return lit.Constant, nil }

// compareValues dispatches on the variant of the right-hand side and requires a compatible
// left-hand side: booleans only compare with booleans, numbers with numbers and strings with
// strings.
func compareValues(name Ref, left macros.Value, op Op, right macros.Value) (bool, error) {
	mismatch := func() error {
		return fmt.Errorf("%w: %s is %s, cannot compare with %s %s", diag.ErrType, name, left.Kind(), right.Kind(), right)
	}

	switch right.Kind() {
	case macros.Boolean:
		l, ok := left.AsBool()
		if !ok {
			return false, mismatch()
		}
		r, _ := right.AsBool()
		switch op {
		case Equal:
			return l == r, nil
		case NotEqual:
			return l != r, nil
		default:
			return false, fmt.Errorf("%w: operator %s is not defined for booleans (%s)", diag.ErrType, op, name)
		}
	case macros.Integer, macros.Float:
		if !left.Kind().Numeric() {
			return false, mismatch()
		}
		li, lok := left.AsInt()
		ri, rok := right.AsInt()
		if lok && rok {
			return apply(op, cmp.Compare(li, ri))
		}
		lf, _ := left.AsFloat()
		rf, _ := right.AsFloat()
		return apply(op, cmp.Compare(lf, rf))
	case macros.String:
		l, ok := left.AsString()
		if !ok {
			return false, mismatch()
		}
		r, _ := right.AsString()
		return apply(op, cmp.Compare(l, r))
	default:
		return false, fmt.Errorf("%w: unsupported value kind %v", diag.ErrType, right.Kind())
	}
}

// apply interprets the result of a three-way comparison for op.
func apply(op Op, order int) (bool, error) {
	switch op {
	case Equal:
		return order == 0, nil
	case NotEqual:
		return order != 0, nil
	case Less:
		return order < 0, nil
	case LessOrEqual:
		return order <= 0, nil
	case Greater:
		return order > 0, nil
	case GreaterOrEqual:
		return order >= 0, nil
	default:
		return false, fmt.Errorf("%w: unknown comparison operator %q", diag.ErrSyntax, op)
	}
}
