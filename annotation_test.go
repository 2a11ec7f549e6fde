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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnnotation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want Annotation
	}{
		{name: "empty is any", in: "", want: Any},
		{name: "blank is any", in: "   ", want: Any},
		{name: "any", in: "Any", want: Any},
		{name: "object", in: "object", want: Object},
		{name: "single", in: "int", want: Type("int")},
		{name: "union", in: "int | str", want: Union(Type("int"), Type("str"))},
		{name: "union without spaces", in: "int|str", want: Union(Type("int"), Type("str"))},
		{name: "duplicate union members collapse", in: "int | int", want: Type("int")},
		{name: "generic", in: "Request[User]", want: Generic("Request", Type("User"))},
		{
			name: "generic with several args",
			in:   "Dict[str, int | None]",
			want: Generic("Dict", Type("str"), Union(Type("int"), Type("None"))),
		},
		{
			name: "nested generic in union",
			in:   "Optional[Request[User]] | None",
			want: Union(Generic("Optional", Generic("Request", Type("User"))), Type("None")),
		},
		{name: "qualified name", in: "uuid.UUID", want: Type("uuid.UUID")},
		{name: "tabs and newlines", in: "int\t|\nstr", want: Union(Type("int"), Type("str"))},
		{name: "whitespace inside generic", in: "Dict[\tstr,\nint ]", want: Generic("Dict", Type("str"), Type("int"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseAnnotation(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParseAnnotation_Errors(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"int |", "Request[User", "Request[]", "| int", "int str"} {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			_, err := ParseAnnotation(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidAnnotation)
		})
	}
}

func TestMustParseAnnotation_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustParseAnnotation("Request[") })
	assert.NotPanics(t, func() { MustParseAnnotation("Request[User]") })
}

func TestAnnotation_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Any", Any.String())
	assert.Equal(t, "object", Object.String())
	assert.Equal(t, "int | str", Union(Type("int"), Type("str")).String())
	assert.Equal(t, "Dict[str, int]", Generic("Dict", Type("str"), Type("int")).String())
}

func TestAnnotation_Equal(t *testing.T) {
	t.Parallel()

	assert.True(t, Union(Type("a"), Type("b")).Equal(Union(Type("b"), Type("a"))), "unions compare as sets")
	assert.False(t, Generic("Dict", Type("a"), Type("b")).Equal(Generic("Dict", Type("b"), Type("a"))), "generic args are ordered")
	assert.False(t, Type("int").Equal(Union(Type("int"), Type("str"))))
	assert.False(t, Any.Equal(Object))
	assert.True(t, Annotation{}.Equal(Any), "zero value is Any")
}

func TestAnnotation_Equal_HandBuiltUnions(t *testing.T) {
	t.Parallel()

	repeated := Annotation{Kind: AnnotationUnion, Args: []Annotation{Type("int"), Type("int")}}
	mixed := Annotation{Kind: AnnotationUnion, Args: []Annotation{Type("int"), Type("str")}}

	assert.False(t, repeated.Equal(mixed))
	assert.False(t, mixed.Equal(repeated))
	assert.True(t, repeated.Equal(Annotation{Kind: AnnotationUnion, Args: []Annotation{Type("int")}}), "members compare as sets")
}

func TestUnion_Flattens(t *testing.T) {
	t.Parallel()

	u := Union(Union(Type("a"), Type("b")), Type("c"), Type("a"))
	require.Equal(t, AnnotationUnion, u.Kind)
	assert.Len(t, u.Members(), 3)
	assert.Equal(t, "a | b | c", u.String())
}

func TestAnnotation_Mentions(t *testing.T) {
	t.Parallel()

	user := Type("User")
	assert.True(t, user.Mentions(user))
	assert.True(t, Generic("Request", user).Mentions(user))
	assert.True(t, Union(Type("None"), Generic("Request", user)).Mentions(user))
	assert.False(t, Generic("Request", Type("Staff")).Mentions(user))
}
