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

import "errors"

var (
	// ErrNotAFunc indicates that a value registered as a handler function is not a function.
	ErrNotAFunc = errors.New("handler is not a function")

	// ErrNotAStruct indicates that a value registered as a handler type is not a struct or a pointer to one.
	ErrNotAStruct = errors.New("handler type is not a struct")

	// ErrMethodNotFound indicates that a handler type has no method with the requested name.
	ErrMethodNotFound = errors.New("method not found")
)
