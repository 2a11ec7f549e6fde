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

package routecheck

import "strings"

// Where says where a route, or one segment of a route, is defined.
// It is only used to build messages.
type Where struct {
	Name      string // Route name, if any
	Template  string // Path template or regular expression of the segment
	Module    string // Module or file that declares the route
	Namespace string // Namespace the route lives under
}

// Display renders the non-empty fields one per line, each prefixed with indent.
// The template is left out when showTemplate is false.
func (w Where) Display(indent string, showTemplate bool) string {
	lines := make([]string, 0, 4)
	if w.Module != "" {
		lines = append(lines, indent+"module = "+w.Module)
	}
	if w.Name != "" {
		lines = append(lines, indent+"name = "+w.Name)
	}
	if w.Namespace != "" {
		lines = append(lines, indent+"namespace = "+w.Namespace)
	}
	if w.Template != "" && showTemplate {
		lines = append(lines, indent+"template = "+w.Template)
	}

	return strings.Join(lines, "\n")
}
