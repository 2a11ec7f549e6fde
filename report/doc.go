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

// Package report renders the violations collected by a checker run.
//
// [Text] is the canonical rendering: every distinct violation, most repeated
// first, separated by blank lines. [Styled] adds headings, counts and a
// per-kind summary table for terminals, [YAML] produces a machine-readable
// document, and [Collector] exposes the counts as Prometheus metrics.
//
// Example:
//
//	var found *routecheck.FoundInvalidPatterns
//	if errors.As(err, &found) {
//	    f, _ := report.New("styled")
//	    _ = f.Format(os.Stderr, found.Errors)
//	}
package report
