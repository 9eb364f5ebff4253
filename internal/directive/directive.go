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

// Package directive classifies the lines of a source file into preprocessor directives.
//
// A directive is a comment line whose first word starts with '#', e.g. with the default
// comment marker:
//
//	# #define NAME 3
//	# #define global NAME "text"
//	# #ifdef NAME >= 2 and global OTHER
//	# #ifndef NAME
//	# #else
//	# #endif
//	# #<< NAME
//	# #<< global NAME
//	# #include "relative/path"
//
// Any other line is plain text. Comment lines that look like a directive but match none of
// the forms above are classified as Unknown so that the syntax check can reject them.
package directive

import (
	"fmt"

	"github.com/EngFlow/condpp/internal/macros"
)

// Kind identifies the kind of a classified line.
type Kind int

const (
	PlainText Kind = iota
	LocalDefine
	GlobalDefine
	IfDef
	IfNDef
	Else
	Endif
	Output
	OutputGlobal
	Include
	Unknown
)

func (k Kind) String() string {
	switch k {
	case PlainText:
		return "text"
	case LocalDefine:
		return "#define"
	case GlobalDefine:
		return "#define global"
	case IfDef:
		return "#ifdef"
	case IfNDef:
		return "#ifndef"
	case Else:
		return "#else"
	case Endif:
		return "#endif"
	case Output:
		return "#<<"
	case OutputGlobal:
		return "#<< global"
	case Include:
		return "#include"
	case Unknown:
		return "unknown directive"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// OpensBlock reports whether the kind starts a conditional block.
func (k Kind) OpensBlock() bool { return k == IfDef || k == IfNDef }

// Directive is the classification of a single line together with its parsed payload.
type Directive struct {
	Kind  Kind
	Name  string       // Macro name of define and output directives
	Value macros.Value // Value of define directives
	Expr  string       // Condition of #ifdef / #ifndef
	Path  string       // Target of #include, as written between the quotes
	// Byte offsets of the `#<< [global] NAME` part of output directives within the line.
	Begin, End int
}

func (d Directive) String() string {
	switch d.Kind {
	case LocalDefine, GlobalDefine:
		return fmt.Sprintf("%s %s %s(%s)", d.Kind, d.Name, d.Value.Kind(), d.Value)
	case IfDef, IfNDef:
		return fmt.Sprintf("%s %s", d.Kind, d.Expr)
	case Output, OutputGlobal:
		return fmt.Sprintf("%s %s", d.Kind, d.Name)
	case Include:
		return fmt.Sprintf("%s %q", d.Kind, d.Path)
	default:
		return d.Kind.String()
	}
}
