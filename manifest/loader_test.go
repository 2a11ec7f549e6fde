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
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/routecheck/manifest/codec"
)

func TestLoad_YAML(t *testing.T) {
	t.Parallel()

	doc, err := Load(context.Background(), "testdata/app.yaml")
	require.NoError(t, err)

	assert.Equal(t, []string{"framework."}, doc.Settings.FrameworkModules)
	assert.Equal(t, []string{"admin"}, doc.Settings.ExcludeNamespaces)
	assert.Equal(t, "User", doc.Settings.Auth.UserType)
	assert.Equal(t, []string{"AuthenticatedRequest"}, doc.Settings.Scenarios.RequestAnnotation.Containers)
	assert.True(t, doc.Settings.Scenarios.KwargsAnnotated.AllowsObject)
	assert.True(t, doc.Settings.Scenarios.KwargsAnnotated.On())

	require.Len(t, doc.Classes, 5)
	assert.Equal(t, "RedirectView", doc.Classes[1].Name)
	assert.Equal(t, []string{"View"}, doc.Classes[1].Bases)
	assert.Equal(t, map[string]string{"request": "AuthenticatedRequest[User]"}, doc.Classes[2].Annotations)

	// Aliased parameter lists decode like inline ones.
	require.Len(t, doc.Functions[1].Params, 4)
	assert.True(t, doc.Functions[1].Params[0].Self)
	assert.True(t, doc.Functions[1].Params[3].VariadicKeywords)

	require.Len(t, doc.Routes, 4)
	assert.Len(t, doc.Routes[0].Routes, 3)
	assert.Equal(t, "legacy", doc.Routes[2].Namespace)
}

func TestLoad_MergesInOrder(t *testing.T) {
	t.Parallel()

	doc, err := Load(context.Background(), "testdata/app.yaml", "testdata/local.toml")
	require.NoError(t, err)

	assert.Equal(t, []string{"admin", "legacy"}, doc.Settings.ExcludeNamespaces)
	assert.Equal(t, "User", doc.Settings.Auth.UserType)
	assert.True(t, doc.Settings.Scenarios.KwargsAnnotated.AllowsObject)
	assert.False(t, doc.Settings.Scenarios.KwargsAnnotated.On())

	require.Len(t, doc.Routes, 5)
	assert.Equal(t, "/health", doc.Routes[4].Template)
	assert.Equal(t, "health", doc.Functions[len(doc.Functions)-1].Name)
}

func TestLoad_JSONDefaultsMapping(t *testing.T) {
	t.Parallel()

	doc, err := Load(context.Background(), "testdata/api.json")
	require.NoError(t, err)

	assert.Equal(t, "APIView", doc.Settings.BaseHandler)
	assert.Equal(t, "-", doc.Settings.Fallback)
	assert.Equal(t, []PositionalSpec{{Name: "req", Annotation: "Request"}}, doc.Settings.Request)
	require.Len(t, doc.Routes, 1)
	assert.Equal(t, []string{"format"}, doc.Routes[0].Defaults)
}

func TestLoader_Content(t *testing.T) {
	t.Parallel()

	l, err := New(
		WithContent("base", []byte("routes:\n  - template: /a\n    handler: app.a\n"), codec.TypeYAML),
		WithContent("extra", []byte(`{"routes": [{"template": "/b", "handler": "app.b", "defaults": "lang,format"}]}`), codec.TypeJSON),
		nil,
	)
	require.NoError(t, err)

	doc, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Routes, 2)
	assert.Equal(t, "/a", doc.Routes[0].Template)
	assert.Equal(t, []string{"lang", "format"}, doc.Routes[1].Defaults)
}

func TestLoader_EmptyContent(t *testing.T) {
	t.Parallel()

	l, err := New(WithContent("empty", []byte("{}"), codec.TypeYAML))
	require.NoError(t, err)

	doc, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Routes)
	assert.True(t, doc.Settings.Scenarios.RequiredArgs.On())
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := New()
	require.ErrorIs(t, err, ErrNoSources)

	_, err = New(WithFile("routes.ini"), WithContent("x", nil, "xml"), WithSource(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, codec.ErrUnknownType)
	assert.ErrorContains(t, err, "source is nil")
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		paths     []string
		source    string
		operation string
	}{
		{name: "missing file", paths: []string{"testdata/missing.yaml"}, source: "testdata/missing.yaml", operation: "load"},
		{name: "schema violation", paths: []string{"testdata/invalid_schema.yaml"}, source: "json-schema", operation: "validate"},
		{name: "struct validation", paths: []string{"testdata/invalid_params.yaml"}, source: "binding", operation: "validate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(context.Background(), tt.paths...)
			require.Error(t, err)

			var merr *Error
			require.ErrorAs(t, err, &merr)
			assert.Equal(t, tt.source, merr.Source)
			assert.Equal(t, tt.operation, merr.Operation)
		})
	}
}

func TestLoad_ValidationField(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), "testdata/invalid_params.yaml")

	var merr *Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "Document.functions[0].params[0].variadic_positional", merr.Field)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "excluded_with", verrs[0].Tag())
}

func TestLoader_CustomValidator(t *testing.T) {
	t.Parallel()

	errNoRoutes := errors.New("no routes")
	l, err := New(
		WithContent("empty", []byte("{}"), codec.TypeJSON),
		WithValidator(func(values map[string]any) error {
			if _, ok := values["routes"]; !ok {
				return errNoRoutes
			}
			return nil
		}),
	)
	require.NoError(t, err)

	_, err = l.Load(context.Background())
	require.ErrorIs(t, err, errNoRoutes)
	assert.EqualError(t, err, "manifest error in custom during validate: no routes")
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, "testdata/app.yaml")
	require.ErrorIs(t, err, context.Canceled)
}

func TestError(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")
	assert.EqualError(t, newError("a.yaml", "load", inner), "manifest error in a.yaml during load: boom")
	assert.EqualError(t, newFieldError("compile", "routes[0]", "compile", inner), "manifest error in compile.routes[0] during compile: boom")
	assert.ErrorIs(t, newError("a.yaml", "load", inner), inner)
}

func TestSchema(t *testing.T) {
	t.Parallel()

	schema := Schema()
	assert.Contains(t, string(schema), `"title": "routecheck manifest"`)

	schema[0] = 'x'
	assert.Equal(t, byte('{'), Schema()[0])
}
