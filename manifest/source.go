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
	"context"
	"fmt"
	"os"

	"rivaas.dev/routecheck/manifest/codec"
)

// Source produces the raw values of one manifest.
type Source interface {
	// Name identifies the source in errors.
	Name() string

	// Load returns the decoded manifest. An empty manifest yields a nil map.
	Load(ctx context.Context) (map[string]any, error)
}

// File is a manifest read from disk.
type File struct {
	path    string
	decoder codec.Decoder
}

// NewFile returns a File decoded with the codec registered for the
// extension of path.
func NewFile(path string) (*File, error) {
	decoder, err := codec.ForPath(path)
	if err != nil {
		return nil, err
	}

	return &File{path: path, decoder: decoder}, nil
}

// NewFileAs returns a File decoded with the codec registered for t.
func NewFileAs(path string, t codec.Type) (*File, error) {
	decoder, err := codec.Lookup(t)
	if err != nil {
		return nil, err
	}

	return &File{path: path, decoder: decoder}, nil
}

// Name implements [Source].
func (f *File) Name() string { return f.path }

// Load implements [Source].
func (f *File) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return decode(f.decoder, data)
}

// Content is a manifest held in memory.
type Content struct {
	name    string
	data    []byte
	decoder codec.Decoder
}

// NewContent returns a Content source named name and decoded with the codec
// registered for t.
func NewContent(name string, data []byte, t codec.Type) (*Content, error) {
	decoder, err := codec.Lookup(t)
	if err != nil {
		return nil, err
	}

	return &Content{name: name, data: data, decoder: decoder}, nil
}

// Name implements [Source].
func (c *Content) Name() string { return c.name }

// Load implements [Source].
func (c *Content) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return decode(c.decoder, c.data)
}

func decode(decoder codec.Decoder, data []byte) (map[string]any, error) {
	var values map[string]any
	if err := decoder.Decode(data, &values); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return values, nil
}
