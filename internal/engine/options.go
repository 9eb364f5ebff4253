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
	"fmt"
	"log"
)

// Mode selects what happens to the lines of conditional blocks that are not taken.
type Mode int

const (
	// Preserve keeps untaken blocks in the output, prefixed with the comment marker, and
	// keeps every directive line visible.
	Preserve Mode = iota
	// Export removes untaken blocks and directive lines from the output.
	Export
)

func (m Mode) String() string {
	switch m {
	case Preserve:
		return "preserve"
	case Export:
		return "export"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Options configures a Processor.
type Options struct {
	// Mode selects export or preserve output.
	Mode Mode
	// Comment is the comment marker directives are prefixed with (default "#").
	Comment string
	// SourceBase is the directory #include paths are resolved against.
	SourceBase string
	// DestBase is the directory the outputs of included files are mirrored into.
	DestBase string
	// MaxDepth bounds the combined depth of nested conditionals and includes. Every level
	// of nesting is a level of recursion, so pathological inputs can otherwise exhaust the
	// stack. Zero means unlimited.
	MaxDepth int
	// Logger receives progress messages. Nil discards them.
	Logger *log.Logger
}
