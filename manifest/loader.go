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
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cast"

	"rivaas.dev/routecheck/manifest/codec"
)

const tagName = "manifest"

//go:embed schema.json
var schemaJSON []byte

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	if err = compiler.AddResource("manifest.schema.json", doc); err != nil {
		return nil, err
	}

	return compiler.Compile("manifest.schema.json")
})

// Schema returns the JSON schema manifests are validated against.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

// Option configures a [Loader].
type Option func(l *Loader) error

// WithSource adds a source.
func WithSource(src Source) Option {
	return func(l *Loader) error {
		if src == nil {
			return errors.New("source is nil")
		}
		l.sources = append(l.sources, src)

		return nil
	}
}

// WithFile adds a file decoded with the codec registered for its extension.
func WithFile(path string) Option {
	return func(l *Loader) error {
		f, err := NewFile(path)
		if err != nil {
			return err
		}
		l.sources = append(l.sources, f)

		return nil
	}
}

// WithFileAs adds a file decoded with the codec registered for t.
func WithFileAs(path string, t codec.Type) Option {
	return func(l *Loader) error {
		f, err := NewFileAs(path, t)
		if err != nil {
			return err
		}
		l.sources = append(l.sources, f)

		return nil
	}
}

// WithContent adds an in-memory manifest.
func WithContent(name string, data []byte, t codec.Type) Option {
	return func(l *Loader) error {
		c, err := NewContent(name, data, t)
		if err != nil {
			return err
		}
		l.sources = append(l.sources, c)

		return nil
	}
}

// WithValidator adds a check run on the merged values after schema validation.
func WithValidator(fn func(values map[string]any) error) Option {
	return func(l *Loader) error {
		l.validators = append(l.validators, fn)
		return nil
	}
}

// Loader merges manifest sources into a [Document].
type Loader struct {
	sources    []Source
	validators []func(map[string]any) error
	schema     *jsonschema.Schema
	validate   *validator.Validate
}

// New returns a Loader. Errors from every option are joined.
func New(opts ...Option) (*Loader, error) {
	var errs error

	l := &Loader{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(l); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}
	if len(l.sources) == 0 {
		return nil, ErrNoSources
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, newError("json-schema", "compile", err)
	}
	l.schema = schema
	l.validate = newValidate()

	return l, nil
}

// Load reads every source and returns the merged document.
func (l *Loader) Load(ctx context.Context) (*Document, error) {
	merged := make(map[string]any)
	for _, src := range l.sources {
		values, err := src.Load(ctx)
		if err != nil {
			return nil, newError(src.Name(), "load", err)
		}
		plain, err := normalize(values)
		if err != nil {
			return nil, newError(src.Name(), "normalize", err)
		}
		if err = mergo.Map(&merged, plain, mergo.WithOverride, mergo.WithAppendSlice); err != nil {
			return nil, newError(src.Name(), "merge", err)
		}
	}

	if err := l.schema.Validate(merged); err != nil {
		return nil, newError("json-schema", "validate", err)
	}
	for _, fn := range l.validators {
		if err := fn(merged); err != nil {
			return nil, newError("custom", "validate", err)
		}
	}

	var doc Document
	decoder, err := mapstructure.NewDecoder(decoderConfig(&doc))
	if err != nil {
		return nil, newError("binding", "bind", fmt.Errorf("create decoder: %w", err))
	}
	if err = decoder.Decode(merged); err != nil {
		return nil, newError("binding", "bind", err)
	}

	if err = l.validate.Struct(&doc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, newFieldError("binding", verrs[0].Namespace(), "validate", err)
		}

		return nil, newError("binding", "validate", err)
	}

	return &doc, nil
}

// Load loads the manifests at paths, in order.
func Load(ctx context.Context, paths ...string) (*Document, error) {
	opts := make([]Option, len(paths))
	for i, path := range paths {
		opts[i] = WithFile(path)
	}

	l, err := New(opts...)
	if err != nil {
		return nil, err
	}

	return l.Load(ctx)
}

// normalize turns decoded values into the JSON data model, so that every
// codec merges and validates the same way.
func normalize(values map[string]any) (map[string]any, error) {
	if values == nil {
		return map[string]any{}, nil
	}

	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	plain, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	m, ok := plain.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("manifest root is %T, not a mapping", plain)
	}

	return m, nil
}

func decoderConfig(result any) *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		TagName:          tagName,
		Squash:           true,
		WeaklyTypedInput: true,
		Result:           result,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.DecodeHookFuncType(mapKeysHook),
			mapstructure.StringToSliceHookFunc(","),
		),
	}
}

var stringSliceType = reflect.TypeFor[[]string]()

// mapKeysHook accepts a mapping where a list of names is expected and keeps
// its sorted keys. Route defaults are commonly written as name/value pairs.
func mapKeysHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Map || to != stringSliceType {
		return data, nil
	}

	m, err := cast.ToStringMapE(data)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys, nil
}

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get(tagName), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}

		return name
	})

	return v
}
