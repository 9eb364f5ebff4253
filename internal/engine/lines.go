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
	"bufio"
	"errors"
	"io"
	"strings"
)

// lineReader reads a source one line at a time and tracks the 1-based number of the line
// returned last. Lines keep their terminator so that plain lines are copied to the output
// unchanged. There is no limit on line length.
type lineReader struct {
	reader  *bufio.Reader
	number  int
	failure error
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{reader: bufio.NewReader(r)}
}

// next returns the next line including its terminator; false at end of input or on error.
func (lr *lineReader) next() (string, bool) {
	if lr.failure != nil {
		return "", false
	}
	line, err := lr.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		lr.failure = err
	}
	if line == "" {
		return "", false
	}
	lr.number++
	return line, true
}

// err returns the first non-EOF error encountered while reading.
func (lr *lineReader) err() error { return lr.failure }

func trimEOL(line string) string { return strings.TrimRight(line, "\r\n") }
