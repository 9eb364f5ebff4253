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

package collections

// Stack is a LIFO stack backed by a slice. The zero value is an empty stack ready to use.
type Stack[T any] struct {
	elems []T
}

// Push adds elem on top of the stack.
func (s *Stack[T]) Push(elem T) {
	s.elems = append(s.elems, elem)
}

// Pop removes and returns the top element. The bool result is false if the stack is empty.
func (s *Stack[T]) Pop() (T, bool) {
	top, ok := s.Peek()
	if ok {
		s.elems = s.elems[:len(s.elems)-1]
	}
	return top, ok
}

// Peek returns the top element without removing it. The bool result is false if the stack
// is empty.
func (s *Stack[T]) Peek() (T, bool) {
	if len(s.elems) == 0 {
		var zero T
		return zero, false
	}
	return s.elems[len(s.elems)-1], true
}

// Len returns the number of elements on the stack.
func (s *Stack[T]) Len() int { return len(s.elems) }
