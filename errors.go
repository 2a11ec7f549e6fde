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

import "errors"

var (
	// ErrInvalidPatterns indicates that at least one violation was found.
	// Errors returned by [NewRunner] and [Runner.Run] that carry violations
	// are [*FoundInvalidPatterns] values and match this sentinel with errors.Is.
	ErrInvalidPatterns = errors.New("found invalid patterns")

	// ErrInvalidAnnotation indicates that an annotation could not be parsed.
	ErrInvalidAnnotation = errors.New("invalid annotation")

	// ErrSignatureNotFound indicates that a resolver has no signature for a handler.
	ErrSignatureNotFound = errors.New("signature not found")

	// ErrNilSignatureResolver indicates that a pattern maker was built without a resolver.
	ErrNilSignatureResolver = errors.New("signature resolver is nil")
)

// Violation is one consistency failure between a route and its handler.
//
// Violations are immutable. Error returns the canonical rendering, which is
// deterministic: two violations with equal field values always render the
// same string. The rendering is also the deduplication key used by
// [ErrorContainer].
type Violation interface {
	error

	// Kind names the kind of failure, e.g. "MismatchedRequiredArgs".
	Kind() string
}

// FoundInvalidPatterns is the batch failure returned when checks found
// violations. It carries every violation found so far.
type FoundInvalidPatterns struct {
	Errors *ErrorContainer
}

// Error implements error.
func (e *FoundInvalidPatterns) Error() string {
	return ErrInvalidPatterns.Error()
}

// Unwrap returns [ErrInvalidPatterns] for errors.Is compatibility.
func (e *FoundInvalidPatterns) Unwrap() error {
	return ErrInvalidPatterns
}
