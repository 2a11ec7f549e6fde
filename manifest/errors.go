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

package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSources indicates that a loader was built without any source.
	ErrNoSources = errors.New("no manifest sources")

	// ErrUnknownClass indicates that a route or class refers to an undeclared class.
	ErrUnknownClass = errors.New("unknown class")

	// ErrDuplicateClass indicates that two classes share a name.
	ErrDuplicateClass = errors.New("duplicate class")

	// ErrInheritanceCycle indicates that a class derives from itself.
	ErrInheritanceCycle = errors.New("inheritance cycle")

	// ErrInvalidRoute indicates that a route entry is neither a group nor a leaf.
	ErrInvalidRoute = errors.New("invalid route")
)

// Error describes a failure while loading or compiling a manifest.
type Error struct {
	Source    string // Source name, or the step ("json-schema", "binding", "compile")
	Field     string // Field the error is about, optional
	Operation string // "load", "normalize", "merge", "validate", "bind", "compile"
	Err       error
}

// Error implements error.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("manifest error in %s.%s during %s: %v", e.Source, e.Field, e.Operation, e.Err)
	}

	return fmt.Sprintf("manifest error in %s during %s: %v", e.Source, e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(source, operation string, err error) *Error {
	return &Error{Source: source, Operation: operation, Err: err}
}

func newFieldError(source, field, operation string, err error) *Error {
	return &Error{Source: source, Field: field, Operation: operation, Err: err}
}
