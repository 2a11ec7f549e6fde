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

// Package codec decodes manifest documents.
//
// Decoders are registered by [Type]. YAML, TOML and JSON are registered at
// init time; [ForPath] picks one from a file extension.
package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Type identifies a manifest encoding.
type Type string

// ErrUnknownType indicates that no decoder is registered for a type.
var ErrUnknownType = errors.New("unknown manifest encoding")

// Decoder turns encoded bytes into Go values.
// Implementations must be safe for concurrent use.
type Decoder interface {
	Decode(data []byte, v any) error
}

var (
	mu       sync.RWMutex
	decoders = make(map[Type]Decoder)
	aliases  = make(map[string]Type)
)

// Register registers d for t and for each file extension in exts
// (with or without the leading dot).
func Register(t Type, d Decoder, exts ...string) {
	mu.Lock()
	defer mu.Unlock()

	decoders[t] = d
	for _, ext := range exts {
		aliases[strings.TrimPrefix(strings.ToLower(ext), ".")] = t
	}
}

// Lookup returns the decoder registered for t.
func Lookup(t Type) (Decoder, error) {
	mu.RLock()
	defer mu.RUnlock()

	d, ok := decoders[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}

	return d, nil
}

// TypeFromPath returns the type registered for the extension of path.
func TypeFromPath(path string) (Type, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	mu.RLock()
	defer mu.RUnlock()

	t, ok := aliases[ext]
	if !ok {
		return "", fmt.Errorf("%w: extension %q of %s", ErrUnknownType, ext, path)
	}

	return t, nil
}

// ForPath returns the decoder for the extension of path.
func ForPath(path string) (Decoder, error) {
	t, err := TypeFromPath(path)
	if err != nil {
		return nil, err
	}

	return Lookup(t)
}
