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

package macros

import (
	"fmt"
	"maps"

	"github.com/EngFlow/condpp/internal/diag"
)

// Key identifies a local definition: a macro name inside the namespace of one source file.
type Key struct {
	Namespace string
	Name      string
}

// Store keeps the macro definitions of one run. Lookups of unqualified names prefer the
// local scope of the current namespace and fall back to the global scope.
//
// Store is not safe for concurrent use.
type Store struct {
	global map[string]Value
	local  map[Key]Value
}

func NewStore() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Reset drops every definition from both scopes.
func (s *Store) Reset() {
	s.global = map[string]Value{}
	s.local = map[Key]Value{}
}

// SetGlobal defines or redefines name in the global scope.
func (s *Store) SetGlobal(name string, value Value) { s.global[name] = value }

// SetLocal defines or redefines name in the given namespace.
func (s *Store) SetLocal(namespace, name string, value Value) {
	s.local[Key{Namespace: namespace, Name: name}] = value
}

// Global looks name up in the global scope only.
func (s *Store) Global(name string) (Value, error) {
	if v, ok := s.global[name]; ok {
		return v, nil
	}
	return Value{}, fmt.Errorf("%w: %q is not defined globally", diag.ErrLookup, name)
}

// Local looks name up in the given namespace only.
func (s *Store) Local(namespace, name string) (Value, error) {
	if v, ok := s.local[Key{Namespace: namespace, Name: name}]; ok {
		return v, nil
	}
	return Value{}, fmt.Errorf("%w: %q is not defined in %s", diag.ErrLookup, name, namespace)
}

// Resolve looks name up in the given namespace first, then in the global scope.
func (s *Store) Resolve(namespace, name string) (Value, error) {
	if v, ok := s.local[Key{Namespace: namespace, Name: name}]; ok {
		return v, nil
	}
	if v, ok := s.global[name]; ok {
		return v, nil
	}
	return Value{}, fmt.Errorf("%w: %q is not defined", diag.ErrLookup, name)
}

// Globals returns a copy of the global scope.
func (s *Store) Globals() map[string]Value { return maps.Clone(s.global) }

// In returns a view of the store bound to namespace.
func (s *Store) In(namespace string) Scope { return Scope{store: s, namespace: namespace} }

// Scope is a Store seen from one namespace. It is what condition expressions are evaluated
// against.
type Scope struct {
	store     *Store
	namespace string
}

func (sc Scope) Namespace() string { return sc.namespace }

// Resolve looks name up locally, then globally.
func (sc Scope) Resolve(name string) (Value, error) { return sc.store.Resolve(sc.namespace, name) }

// Global looks name up in the global scope only.
func (sc Scope) Global(name string) (Value, error) { return sc.store.Global(name) }
