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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameter_Matches(t *testing.T) {
	t.Parallel()

	intOrStr := Union(Type("int"), Type("str"))

	tests := []struct {
		name     string
		param    Parameter
		required Annotation
		want     bool
	}{
		{name: "any accepts a single type", param: Parameter{}, required: Type("int"), want: true},
		{name: "any accepts a union", param: Parameter{Annotation: Any}, required: intOrStr, want: true},
		{name: "equal types", param: Parameter{Annotation: Type("int")}, required: Type("int"), want: true},
		{name: "different types", param: Parameter{Annotation: Type("str")}, required: Type("int"), want: false},
		{name: "union accepts a member", param: Parameter{Annotation: intOrStr}, required: Type("int"), want: true},
		{name: "single does not accept a union", param: Parameter{Annotation: Type("int")}, required: intOrStr, want: false},
		{
			name:     "union accepts a sub union",
			param:    Parameter{Annotation: Union(Type("int"), Type("str"), Type("None"))},
			required: Union(Type("str"), Type("int")),
			want:     true,
		},
		{
			name:     "object catch-all accepts anything",
			param:    Parameter{Annotation: Object, IsVariadicKeywords: true},
			required: Type("uuid.UUID"),
			want:     true,
		},
		{
			name:     "object on a plain parameter is a type",
			param:    Parameter{Annotation: Object},
			required: Type("int"),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.param.Matches(tt.required))
		})
	}
}

func TestNewFunction_AllowsArbitrary(t *testing.T) {
	t.Parallel()

	assert.False(t, NewFunction("m", "f", positional("request", httpRequest)).AllowsArbitrary)
	assert.True(t, NewFunction("m", "f", Parameter{Name: "kwargs", IsVariadicKeywords: true}).AllowsArbitrary)
	assert.True(t, NewFunction("m", "f", Parameter{Name: "kwargs", IsVariadicKeywords: true, Annotation: Object}).AllowsArbitrary)
	assert.False(t, NewFunction("m", "f", Parameter{Name: "kwargs", IsVariadicKeywords: true, Annotation: Type("int")}).AllowsArbitrary)
}

func TestFunction_Display(t *testing.T) {
	t.Parallel()

	fn := NewFunction("app/users", "show")
	assert.Equal(t, "module = app/users\n  function = show", fn.Display("  "))

	fn.DefinedOn = &Class{Name: "UserView"}
	assert.Equal(t, "module = app/users\n  class = UserView\n  method = show", fn.Display("  "))
}

func TestSignatureResolverFunc(t *testing.T) {
	t.Parallel()

	var gotOwner *Class
	resolver := SignatureResolverFunc(func(h Handler, owner *Class) (Function, error) {
		gotOwner = owner
		if h.Name == "missing" {
			return Function{}, ErrSignatureNotFound
		}
		return NewFunction(h.Module, h.Name), nil
	})

	owner := &Class{Name: "View"}
	fn, err := resolver.Resolve(Handler{Module: "m", Name: "get"}, owner)
	require.NoError(t, err)
	assert.Equal(t, "get", fn.Name)
	assert.Same(t, owner, gotOwner)

	_, err = resolver.Resolve(Handler{Name: "missing"}, nil)
	assert.True(t, errors.Is(err, ErrSignatureNotFound))
}
