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
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// AnnotationKind identifies the shape of an [Annotation].
type AnnotationKind uint8

const (
	// AnnotationAny accepts anything. It is the zero value, so an unannotated
	// parameter behaves like one annotated with Any.
	AnnotationAny AnnotationKind = iota
	// AnnotationObject is the "object" marker used on catch-all keyword parameters.
	AnnotationObject
	// AnnotationSingle is a single named type.
	AnnotationSingle
	// AnnotationGeneric is a named type with type arguments, e.g. Request[User].
	AnnotationGeneric
	// AnnotationUnion is a union of two or more member annotations.
	AnnotationUnion
)

// Annotation is a shallow description of a parameter or captured value type.
// Type names are opaque identifiers; two annotations match only when their
// names are equal.
type Annotation struct {
	Kind AnnotationKind
	Name string       // Type name for AnnotationSingle and AnnotationGeneric
	Args []Annotation // Type arguments for AnnotationGeneric, members for AnnotationUnion
}

var (
	// Any is the universal annotation.
	Any = Annotation{Kind: AnnotationAny}

	// Object is the "object" annotation.
	Object = Annotation{Kind: AnnotationObject}
)

// Type returns a single named type annotation.
func Type(name string) Annotation {
	return Annotation{Kind: AnnotationSingle, Name: name}
}

// Generic returns a parameterized type annotation such as Request[User].
func Generic(name string, args ...Annotation) Annotation {
	return Annotation{Kind: AnnotationGeneric, Name: name, Args: args}
}

// Union returns the union of the given annotations. Nested unions are
// flattened and duplicate members dropped; a union of one member is that member.
func Union(members ...Annotation) Annotation {
	flat := make([]Annotation, 0, len(members))
	for _, m := range members {
		for _, mm := range m.Members() {
			if !slices.ContainsFunc(flat, mm.Equal) {
				flat = append(flat, mm)
			}
		}
	}
	if len(flat) == 1 {
		return flat[0]
	}

	return Annotation{Kind: AnnotationUnion, Args: flat}
}

// Members expands the annotation into its member set: the members of a union,
// or the annotation itself otherwise.
func (a Annotation) Members() []Annotation {
	if a.Kind == AnnotationUnion {
		return a.Args
	}

	return []Annotation{a}
}

// Equal reports whether a and b describe the same type. Union members are
// compared as sets; generic arguments are compared in order.
func (a Annotation) Equal(b Annotation) bool {
	if a.Kind != b.Kind || a.Name != b.Name {
		return false
	}
	if a.Kind == AnnotationUnion {
		return containsAll(a.Args, b.Args) && containsAll(b.Args, a.Args)
	}
	if len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !a.Args[i].Equal(b.Args[i]) {
			return false
		}
	}

	return true
}

func containsAll(set, members []Annotation) bool {
	for _, m := range members {
		if !slices.ContainsFunc(set, m.Equal) {
			return false
		}
	}

	return true
}

// Mentions reports whether target appears anywhere inside a, including a itself.
func (a Annotation) Mentions(target Annotation) bool {
	if a.Equal(target) {
		return true
	}
	for _, arg := range a.Args {
		if arg.Mentions(target) {
			return true
		}
	}

	return false
}

// String renders the annotation the way ParseAnnotation reads it.
func (a Annotation) String() string {
	switch a.Kind {
	case AnnotationAny:
		return "Any"
	case AnnotationObject:
		return "object"
	case AnnotationGeneric:
		args := make([]string, len(a.Args))
		for i, arg := range a.Args {
			args[i] = arg.String()
		}
		return a.Name + "[" + strings.Join(args, ", ") + "]"
	case AnnotationUnion:
		members := make([]string, len(a.Args))
		for i, m := range a.Args {
			members[i] = m.String()
		}
		return strings.Join(members, " | ")
	default:
		return a.Name
	}
}

// ParseAnnotation reads an annotation written as
//
//	int
//	int | string
//	Request[User]
//	Mapping[string, int | None]
//	Any
//	object
//
// An empty string parses as [Any].
func ParseAnnotation(s string) (Annotation, error) {
	if strings.TrimSpace(s) == "" {
		return Any, nil
	}

	p := annotationParser{src: s}
	a, err := p.union()
	if err != nil {
		return Annotation{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return Annotation{}, fmt.Errorf("%w: unexpected %q at offset %d in %q", ErrInvalidAnnotation, p.src[p.pos:], p.pos, s)
	}

	return a, nil
}

// MustParseAnnotation is like ParseAnnotation but panics on error.
func MustParseAnnotation(s string) Annotation {
	a, err := ParseAnnotation(s)
	if err != nil {
		panic(err)
	}

	return a
}

type annotationParser struct {
	src string
	pos int
}

func (p *annotationParser) skipSpace() {
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

// atNameEnd reports whether the current rune ends a type name.
func (p *annotationParser) atNameEnd() bool {
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])

	return unicode.IsSpace(r) || strings.ContainsRune("[]|,", r)
}

func (p *annotationParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}

	return p.src[p.pos]
}

func (p *annotationParser) union() (Annotation, error) {
	var members []Annotation
	for {
		term, err := p.term()
		if err != nil {
			return Annotation{}, err
		}
		members = append(members, term)

		p.skipSpace()
		if p.peek() != '|' {
			break
		}
		p.pos++
	}

	return Union(members...), nil
}

func (p *annotationParser) term() (Annotation, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && !p.atNameEnd() {
		_, size := utf8.DecodeRuneInString(p.src[p.pos:])
		p.pos += size
	}
	name := p.src[start:p.pos]
	if name == "" {
		return Annotation{}, fmt.Errorf("%w: expected a type name at offset %d in %q", ErrInvalidAnnotation, start, p.src)
	}

	p.skipSpace()
	if p.peek() != '[' {
		switch name {
		case "Any":
			return Any, nil
		case "object":
			return Object, nil
		}
		return Type(name), nil
	}

	p.pos++ // [
	var args []Annotation
	for {
		arg, err := p.union()
		if err != nil {
			return Annotation{}, err
		}
		args = append(args, arg)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return Generic(name, args...), nil
		default:
			return Annotation{}, fmt.Errorf("%w: unterminated type arguments for %s in %q", ErrInvalidAnnotation, name, p.src)
		}
	}
}
