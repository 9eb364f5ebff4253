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

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterSlice(t *testing.T) {
	type entry struct{ path string }
	input := []entry{{"a.txt"}, {"b.md"}, {"c/d.txt"}}

	result := FilterSlice(input, func(e entry) bool { return strings.HasSuffix(e.path, ".txt") })

	assert.Equal(t, []entry{{"a.txt"}, {"c/d.txt"}}, result)
	assert.Empty(t, FilterSlice(input, func(entry) bool { return false }))
}

func TestFilterSeqStopsEarly(t *testing.T) {
	var seen []int
	for v := range FilterSeq(slices.Values([]int{1, 2, 3, 4, 5, 6}), func(x int) bool {
		seen = append(seen, x)
		return x%2 == 0
	}) {
		if v == 4 {
			break
		}
	}
	assert.Equal(t, []int{1, 2, 3, 4}, seen)
}

func TestSet(t *testing.T) {
	s := make(Set[string]).Add("/src/b.txt").Add("/src/a.txt").Add("/src/b.txt")

	assert.Len(t, s, 2)
	assert.True(t, s.Contains("/src/a.txt"))
	assert.False(t, s.Contains("/src/c.txt"))
	assert.Equal(t, []string{"/src/a.txt", "/src/b.txt"}, s.SortedValues(strings.Compare))
	assert.ElementsMatch(t, []string{"/src/a.txt", "/src/b.txt"}, slices.Collect(s.All()))
}

func TestStack(t *testing.T) {
	var s Stack[string]
	_, ok := s.Pop()
	assert.False(t, ok, "empty stack")
	_, ok = s.Peek()
	assert.False(t, ok)

	s.Push("main")
	s.Push("inc")
	assert.Equal(t, 2, s.Len())

	top, ok := s.Peek()
	assert.True(t, ok)
	assert.Equal(t, "inc", top)

	top, _ = s.Pop()
	assert.Equal(t, "inc", top)
	top, _ = s.Pop()
	assert.Equal(t, "main", top)
	assert.Equal(t, 0, s.Len())
}

func ExampleFilterSlice() {
	result := FilterSlice([]int{1, 2, 3, 4}, func(x int) bool { return x%2 == 0 })
	fmt.Println(result)
	// Output: [2 4]
}
