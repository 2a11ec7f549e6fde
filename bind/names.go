// Copyright 2025 The Rivaas Authors
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

package bind

import (
	"reflect"
	"strings"
	"unicode"
)

// SnakeName converts an exported Go method name to the snake case name
// used for class methods. Runs of capitals are kept together:
// HTTPMethodNotAllowed becomes http_method_not_allowed.
func SnakeName(name string) string {
	runes := []rune(name)

	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, c := range runes {
		if unicode.IsUpper(c) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(c))
	}

	return b.String()
}

func methodBySnakeName(t reflect.Type, name string) (reflect.Method, bool) {
	for i := range t.NumMethod() {
		m := t.Method(i)
		if SnakeName(m.Name) == name {
			return m, true
		}
	}

	return reflect.Method{}, false
}
