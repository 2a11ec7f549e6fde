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

// Package routecheck verifies that every route-to-handler binding in a routing
// table is internally consistent.
//
// A route that captures a named path value must be accepted by its handler with
// a compatible type, every required handler parameter must be supplied by the
// route (captured or bound as a default), and positional and keyword-only
// conventions must be followed uniformly. Drift between routing tables and
// handler signatures only shows up at request time on a specific path, so the
// checks here run as a single static pass over the whole route graph and report
// every mismatch, deduplicated and ranked by frequency.
//
// # Model
//
// Routes arrive as [RawRoute] values: an ordered chain of [RoutePart] segments
// ending at a [Handler] and, for class-style handlers, a [Class]. Handler
// signatures are described by [Function] and [Parameter] values produced by a
// [SignatureResolver]. Nothing in this package reflects on live handlers or
// walks live routers; see the discover, bind and manifest packages for
// producers.
//
// # Running checks
//
//	maker := routecheck.NewViewMaker(resolver)
//	runner, err := routecheck.NewRunner(slices.Values(routes), maker.Make)
//	if err != nil {
//	    return err // *FoundInvalidPatterns for malformed routes
//	}
//
//	err = runner.Run(ctx, routecheck.Auth{UserType: routecheck.Type("User")},
//	    []routecheck.PatternScenario{&routecheck.RequestAnnotationScenario{...}},
//	    []routecheck.FunctionScenario{
//	        &routecheck.PositionalArgsScenario{DisallowVarArgs: true, EnforceKeywordArgs: true},
//	        &routecheck.RequiredArgsScenario{},
//	        &routecheck.AcceptsArgsScenario{},
//	        &routecheck.AnnotationsScenario{},
//	        &routecheck.KwargsAnnotatedScenario{AllowsObject: true},
//	    },
//	)
//
//	var found *routecheck.FoundInvalidPatterns
//	if errors.As(err, &found) {
//	    for _, msg := range found.Errors.ByMostRepeated() {
//	        fmt.Println(msg + "\n")
//	    }
//	}
//
// # Violations
//
// Every consistency failure is a [Violation]: an immutable error value whose
// Error string is deterministic. The [ErrorContainer] deduplicates violations by
// that string, so two distinct violations that happen to render identically are
// reported once with a combined count.
//
// # Concurrency
//
// The package is synchronous and performs no I/O. An [ErrorContainer] must not
// be shared between goroutines; validate shards with separate containers and
// combine them with [ErrorContainer.Merge].
package routecheck
