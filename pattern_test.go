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

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewClasses() (view, redirect *Class) {
	view = &Class{
		Name:            "View",
		Module:          "framework/views",
		Methods:         []string{"setup", "dispatch", "http_method_not_allowed"},
		HTTPMethodNames: []string{"get", "post", "put", "delete"},
	}
	redirect = &Class{
		Name:    "RedirectView",
		Module:  "framework/views",
		Bases:   []*Class{view},
		Methods: []string{"get_redirect_url", "get"},
	}

	return view, redirect
}

// echoResolver returns a signature with only a receiver for methods and an
// empty signature for plain callables, and records what it was asked for.
type echoResolver struct {
	calls []Handler
	fail  string
}

func (r *echoResolver) Resolve(h Handler, owner *Class) (Function, error) {
	r.calls = append(r.calls, h)
	if h.Name == r.fail {
		return Function{}, ErrSignatureNotFound
	}
	if owner != nil {
		return NewFunction(h.Module, h.Name, self()), nil
	}

	return NewFunction(h.Module, h.Name, positional("request", httpRequest)), nil
}

func functionNames(p Pattern) []string {
	var names []string
	for fn := range p.RelevantFunctions() {
		names = append(names, fn.Name)
	}

	return names
}

func TestValidateRoute(t *testing.T) {
	t.Parallel()

	view, _ := viewClasses()
	stranger := &Class{Name: "Handler", Module: "app"}
	child := &Class{Name: "UserView", Module: "app", Bases: []*Class{view}}

	t.Run("plain callable", func(t *testing.T) {
		t.Parallel()
		raw := RawRoute{Parts: []RoutePart{capture("/{id}", map[string]Annotation{"id": Type("int")})}}
		assert.NoError(t, ValidateRoute(raw, "View"))
	})

	t.Run("class deriving from the base", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ValidateRoute(RawRoute{Class: child}, "View"))
	})

	t.Run("class not deriving from the base", func(t *testing.T) {
		t.Parallel()
		err := ValidateRoute(RawRoute{Class: stranger, Where: Where{Name: "h"}}, "View")

		var v *NotABaseHandler
		require.ErrorAs(t, err, &v)
		assert.Equal(t, "View", v.Base)
		assert.Equal(t, "h", v.Where.Name)
		assert.Contains(t, err.Error(), "Class handlers must derive from View")
	})

	t.Run("unnamed capture group", func(t *testing.T) {
		t.Parallel()
		bad := RoutePart{Groups: 1, Where: Where{Template: `^(\d+)/$`}}
		err := ValidateRoute(RawRoute{Parts: []RoutePart{capture("/a", nil), bad}}, "View")

		var v *UnnamedCaptureGroup
		require.ErrorAs(t, err, &v)
		assert.Equal(t, bad.Where, v.Where)
		assert.Contains(t, err.Error(), `template = ^(\d+)/$`)
	})

	t.Run("mixed named and unnamed groups", func(t *testing.T) {
		t.Parallel()
		part := capture("/{id}/(x)", map[string]Annotation{"id": Type("int")})
		part.Groups = 2
		assert.NoError(t, ValidateRoute(RawRoute{Parts: []RoutePart{part}}, "View"))
	})
}

func TestViewMaker_PlainCallable(t *testing.T) {
	t.Parallel()

	resolver := &echoResolver{}
	maker := NewViewMaker(resolver)

	p, err := maker.Make(RawRoute{Handler: Handler{Module: "app", Name: "index"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"index"}, functionNames(p))
	assert.Equal(t, []Handler{{Module: "app", Name: "index"}}, resolver.calls)

	fn := slices.Collect(p.RelevantFunctions())[0]
	assert.Equal(t, requestCtx, fn.Positional)
	assert.Nil(t, fn.Class)
}

func TestViewMaker_Class(t *testing.T) {
	t.Parallel()

	view, _ := viewClasses()
	users := &Class{Name: "UserView", Module: "app/views", Bases: []*Class{view}, Methods: []string{"get", "post"}}

	maker := NewViewMaker(&echoResolver{})
	maker.FrameworkModules = []string{"framework/"}

	p, err := maker.Make(RawRoute{Class: users, Handler: Handler{Module: "app/views", Name: "UserView"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"setup", "dispatch", "http_method_not_allowed", "get", "post"}, functionNames(p))

	cp, ok := p.(ClassPattern)
	require.True(t, ok)
	assert.Same(t, users, cp.Class())
	assert.Equal(t, "module = app/views\n  class = UserView", cp.DisplayClass("  "))

	for fn := range p.RelevantFunctions() {
		assert.Same(t, users, fn.Class)
		assert.Equal(t, requestCtx, fn.Positional)

		framework := fn.DefinedOn == view
		assert.Equal(t, framework, p.ExcludeFunction(Auth{}, fn), fn.Name)
	}
	assert.False(t, p.Exclude(Auth{}))
}

func TestViewMaker_DefaultFrameworkModules(t *testing.T) {
	t.Parallel()

	base := &Class{
		Name:            "View",
		Module:          "django.views.generic.base",
		Methods:         []string{"setup", "dispatch", "http_method_not_allowed"},
		HTTPMethodNames: []string{"get"},
	}
	home := &Class{Name: "Home", Module: "app.views", Bases: []*Class{base}, Methods: []string{"dispatch", "get"}}

	p, err := NewViewMaker(&echoResolver{}).Make(RawRoute{Class: home})
	require.NoError(t, err)

	var checked []string
	for fn := range p.RelevantFunctions() {
		if !p.ExcludeFunction(Auth{}, fn) {
			checked = append(checked, fn.Name)
		}
	}
	assert.Equal(t, []string{"dispatch", "get"}, checked)
}

func TestViewMaker_RedirectHook(t *testing.T) {
	t.Parallel()

	_, redirect := viewClasses()
	toProfile := &Class{Name: "ToProfile", Module: "app/views", Bases: []*Class{redirect}}

	p, err := NewViewMaker(&echoResolver{}).Make(RawRoute{Class: toProfile})
	require.NoError(t, err)

	assert.Equal(t, []string{"setup", "dispatch", "get_redirect_url", "http_method_not_allowed", "get"}, functionNames(p))
	for fn := range p.RelevantFunctions() {
		if fn.Name == "get_redirect_url" {
			assert.Empty(t, fn.Positional)
			assert.Same(t, redirect, fn.DefinedOn)
		}
	}
}

func TestViewMaker_Errors(t *testing.T) {
	t.Parallel()

	view, _ := viewClasses()

	t.Run("shape violations come first", func(t *testing.T) {
		t.Parallel()
		_, err := (&ViewMaker{BaseHandler: "View"}).Make(RawRoute{Class: &Class{Name: "Other"}})

		var v Violation
		require.ErrorAs(t, err, &v)
		assert.Equal(t, "NotABaseHandler", v.Kind())
	})

	t.Run("nil resolver", func(t *testing.T) {
		t.Parallel()
		_, err := (&ViewMaker{BaseHandler: "View"}).Make(RawRoute{})
		assert.ErrorIs(t, err, ErrNilSignatureResolver)
	})

	t.Run("resolver failure is not a violation", func(t *testing.T) {
		t.Parallel()
		users := &Class{Name: "UserView", Bases: []*Class{view}, Methods: []string{"get"}}
		_, err := NewViewMaker(&echoResolver{fail: "get"}).Make(RawRoute{Class: users})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSignatureNotFound)
		assert.Contains(t, err.Error(), "resolve UserView.get")

		var v Violation
		assert.False(t, errors.As(err, &v))
	})
}
