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

import (
	"context"
	"net/http"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/routecheck"
)

type ShowParams struct {
	ID      int            `path:"id" validate:"required"`
	Slug    string         `path:"slug"`
	Format  *string        `path:"format" validate:"required"`
	Since   time.Time      `path:"since" validate:"omitempty, required"`
	Ignored string         // no path tag
	Skipped string         `path:"-"`
	Extra   map[string]any `path:",remain"`
}

type Pagination struct {
	Page int `path:"page"`
}

type ListParams struct {
	Pagination
	Org string `path:"org" validate:"required"`
}

type Payload struct {
	Name string `json:"name"`
}

func showUser(context.Context, *http.Request, ShowParams) error { return nil }

func listUsers(*http.Request, *ListParams) error { return nil }

func search(context.Context, ...string) error { return nil }

func create(*http.Request, Payload, float32) error { return nil }

type RouteKwargs struct {
	Rest map[string]any `path:",remain"`
}

type BaseView struct{}

func (*BaseView) Setup(*http.Request, RouteKwargs)                      {}
func (*BaseView) Dispatch(*http.Request, RouteKwargs) error             { return nil }
func (*BaseView) HTTPMethodNotAllowed(*http.Request, RouteKwargs) error { return nil }

type GetParams struct {
	ID  int    `path:"id" validate:"required"`
	Tab string `path:"tab" validate:"required"`
}

type UserView struct {
	BaseView
}

func (*UserView) Get(*http.Request, GetParams) error { return nil }

func paramNames(fn routecheck.Function) []string {
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = p.Name
	}

	return names
}

func TestResolver_Func(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	h, err := r.Func(showUser)
	require.NoError(t, err)
	assert.Equal(t, routecheck.Handler{Module: "rivaas.dev/routecheck/bind", Name: "showUser"}, h)

	fn, err := r.Resolve(h, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ctx", "request", "id", "slug", "format", "since", "extra"}, paramNames(fn))
	assert.True(t, fn.AllowsArbitrary)

	byName := make(map[string]routecheck.Parameter)
	for _, p := range fn.Params {
		byName[p.Name] = p
	}

	assert.Equal(t, routecheck.Parameter{Name: "ctx", Required: true, Annotation: routecheck.Type("context.Context")}, byName["ctx"])
	assert.Equal(t, "http.Request", byName["request"].Annotation.String())
	assert.False(t, byName["request"].KeywordOnly)

	assert.Equal(t, routecheck.Parameter{Name: "id", Required: true, KeywordOnly: true, Annotation: routecheck.Type("int")}, byName["id"])
	assert.False(t, byName["slug"].Required)
	assert.False(t, byName["format"].Required, "pointers are optional")
	assert.Equal(t, "string", byName["format"].Annotation.String())
	assert.True(t, byName["since"].Required)
	assert.Equal(t, "time.Time", byName["since"].Annotation.String())
	assert.True(t, byName["extra"].IsVariadicKeywords)
	assert.Equal(t, routecheck.Object, byName["extra"].Annotation)
}

func TestResolver_Func_EmbeddedAndPointerParams(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	h, err := r.Func(listUsers)
	require.NoError(t, err)

	fn, err := r.Resolve(h, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"request", "page", "org"}, paramNames(fn))
	assert.False(t, fn.AllowsArbitrary)
}

func TestResolver_Func_Variadic(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	h, err := r.Func(search)
	require.NoError(t, err)

	fn, err := r.Resolve(h, nil)
	require.NoError(t, err)
	require.Len(t, fn.Params, 2)
	assert.True(t, fn.Params[1].IsVariadicPositional)
	assert.Equal(t, "string", fn.Params[1].Annotation.String())
}

func TestResolver_Func_UntaggedStructIsPositional(t *testing.T) {
	t.Parallel()

	r := NewResolver(WithPositionalName(reflect.TypeFor[Payload](), "payload"))
	h, err := r.Func(create)
	require.NoError(t, err)

	fn, err := r.Resolve(h, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"request", "payload", "arg2"}, paramNames(fn))
	assert.Equal(t, "bind.Payload", fn.Params[1].Annotation.String())
	assert.Equal(t, "float64", fn.Params[2].Annotation.String())
}

func TestResolver_Errors(t *testing.T) {
	t.Parallel()

	r := NewResolver()

	_, err := r.Func(42)
	require.ErrorIs(t, err, ErrNotAFunc)

	var nilFunc func()
	_, err = r.Func(nilFunc)
	require.ErrorIs(t, err, ErrNotAFunc)

	_, err = r.Class("view")
	require.ErrorIs(t, err, ErrNotAStruct)

	_, err = r.Resolve(routecheck.Handler{Module: "x", Name: "y"}, nil)
	require.ErrorIs(t, err, routecheck.ErrSignatureNotFound)

	_, err = r.Resolve(routecheck.Handler{Name: "get"}, &routecheck.Class{Name: "Unknown"})
	require.ErrorIs(t, err, routecheck.ErrSignatureNotFound)

	view, err := r.Class(&UserView{})
	require.NoError(t, err)
	_, err = r.Resolve(routecheck.Handler{Name: "delete"}, view)
	require.ErrorIs(t, err, ErrMethodNotFound)
}

func TestResolver_Class(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	base, err := r.Class(BaseView{})
	require.NoError(t, err)
	users, err := r.Class(&UserView{})
	require.NoError(t, err)

	again, err := r.Class(UserView{})
	require.NoError(t, err)
	assert.Same(t, users, again)

	assert.Equal(t, "BaseView", base.Name)
	assert.Equal(t, "rivaas.dev/routecheck/bind", base.Module)
	assert.ElementsMatch(t, []string{"setup", "dispatch", "http_method_not_allowed"}, base.Methods)

	assert.Equal(t, []*routecheck.Class{base}, users.Bases)
	assert.Equal(t, []string{"get"}, users.Methods)
	assert.True(t, users.Inherits("BaseView"))
	assert.Same(t, base, users.DefinedOn("setup"))

	fn, err := r.Resolve(routecheck.Handler{Module: base.Module, Name: "http_method_not_allowed"}, users)
	require.NoError(t, err)
	assert.Equal(t, []string{"recv", "request", "rest"}, paramNames(fn))
	assert.True(t, fn.Params[0].IsSelf)
	assert.True(t, fn.AllowsArbitrary)

	fn, err = r.Resolve(routecheck.Handler{Module: users.Module, Name: "get"}, users)
	require.NoError(t, err)
	assert.Equal(t, []string{"recv", "request", "id", "tab"}, paramNames(fn))
}

func TestResolver_WithRunner(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	_, err := r.Class(&BaseView{})
	require.NoError(t, err)
	users, err := r.Class(&UserView{})
	require.NoError(t, err)
	users.HTTPMethodNames = []string{"get", "post"}

	route := routecheck.RawRoute{
		Parts: []routecheck.RoutePart{{
			Groups: 2,
			Captured: map[string]routecheck.CapturedArg{
				"org": {Annotation: routecheck.Type("string")},
				"id":  {Annotation: routecheck.Type("int"), Converter: "int"},
			},
			Where: routecheck.Where{Template: "/{org}/users/{id:int}"},
		}},
		Handler: routecheck.Handler{Module: users.Module, Name: users.Name},
		Class:   users,
		Where:   routecheck.Where{Name: "user"},
	}

	maker := routecheck.NewViewMaker(r)
	maker.BaseHandler = "BaseView"
	maker.Request = []routecheck.Positional{{Name: "request", Annotation: routecheck.Type("http.Request")}}

	runner, err := routecheck.NewRunner(slices.Values([]routecheck.RawRoute{route}), maker.Make)
	require.NoError(t, err)

	err = runner.Run(t.Context(), routecheck.Auth{}, nil, []routecheck.FunctionScenario{
		&routecheck.PositionalArgsScenario{EnforceKeywordArgs: true, DisallowVarArgs: true},
		&routecheck.RequiredArgsScenario{},
		&routecheck.AcceptsArgsScenario{},
		&routecheck.AnnotationsScenario{},
	})

	var found *routecheck.FoundInvalidPatterns
	require.ErrorAs(t, err, &found)

	violations := found.Errors.Violations()
	require.Len(t, violations, 2)

	kinds := []string{violations[0].Kind(), violations[1].Kind()}
	assert.Contains(t, kinds, "RequiredArgOnViewNotAlwaysRequiredByPattern")
	assert.Contains(t, kinds, "ViewDoesNotAcceptCapturedArg")
}

func TestSnakeName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Get":                  "get",
		"Setup":                "setup",
		"HTTPMethodNotAllowed": "http_method_not_allowed",
		"GetRedirectURL":       "get_redirect_url",
		"ServeHTTP":            "serve_http",
		"V2Users":              "v2_users",
	}

	for in, want := range tests {
		assert.Equal(t, want, SnakeName(in), in)
	}
}

func TestTypeAnnotation(t *testing.T) {
	t.Parallel()

	assert.Equal(t, routecheck.Type("int"), TypeAnnotation(reflect.TypeFor[uint16]()))
	assert.Equal(t, routecheck.Type("float64"), TypeAnnotation(reflect.TypeFor[*float32]()))
	assert.Equal(t, routecheck.Type("string"), TypeAnnotation(reflect.TypeFor[string]()))
	assert.Equal(t, routecheck.Type("bool"), TypeAnnotation(reflect.TypeFor[bool]()))
	assert.Equal(t, routecheck.Any, TypeAnnotation(reflect.TypeFor[any]()))
	assert.Equal(t, routecheck.Type("[]string"), TypeAnnotation(reflect.TypeFor[[]string]()))
	assert.Equal(t, routecheck.Type("time.Duration"), TypeAnnotation(reflect.TypeFor[time.Duration]()))
}
