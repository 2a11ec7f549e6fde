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

package discover

import "errors"

var (
	// ErrInvalidTemplate indicates that a route template could not be parsed.
	ErrInvalidTemplate = errors.New("invalid route template")

	// ErrUnknownConverter indicates that a template names a converter that does not exist.
	ErrUnknownConverter = errors.New("unknown converter")

	// ErrDuplicateCapture indicates that a template captures the same name twice.
	ErrDuplicateCapture = errors.New("duplicate capture name")

	// ErrUnknownHandler indicates that a named route has no known handler.
	ErrUnknownHandler = errors.New("unknown handler for named route")
)
