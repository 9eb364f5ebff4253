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
	"bufio"
	"bytes"
	"errors"
	"strings"
	"unicode"
)

func isOperatorChar(char byte) bool {
	switch char {
	case '=', '!', '<', '>':
		return true
	default:
		return false
	}
}

var errUnterminatedString = errors.New("unterminated string literal")

// bufio.SplitFunc splitting a condition into words, quoted strings (kept with their quotes)
// and the comparison operators ==, !=, <, <=, >, >=.
func tokenizer(data []byte, atEOF bool) (advance int, token []byte, err error) {
	i := 0
	for i < len(data) && unicode.IsSpace(rune(data[i])) {
		i++
	}
	if i == len(data) {
		if atEOF {
			return len(data), nil, nil
		}
		return i, nil, nil
	}

	start := i
	switch char := data[i]; {
	case char == '"':
		end := bytes.IndexByte(data[i+1:], '"')
		if end < 0 {
			if atEOF {
				return 0, nil, errUnterminatedString
			}
			return start, nil, nil // request more data
		}
		return i + end + 2, data[start : i+end+2], nil

	case isOperatorChar(char):
		// two-character operator?
		if i+1 < len(data) && data[i+1] == '=' {
			return i + 2, data[i : i+2], nil //  "==", "!=", "<=", ">="
		}
		if i+1 == len(data) && !atEOF {
			return start, nil, nil
		}
		return i + 1, data[i : i+1], nil // "<", ">", and the invalid "=", "!"

	default:
		for i < len(data) {
			if unicode.IsSpace(rune(data[i])) || isOperatorChar(data[i]) || data[i] == '"' {
				return i, data[start:i], nil
			}
			i++
		}
		if atEOF {
			return i, data[start:i], nil
		}
		return start, nil, nil
	}
}

// tokenize splits a whole condition into tokens.
func tokenize(text string) ([]string, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Split(tokenizer)
	var tokens []string
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	return tokens, scanner.Err()
}
