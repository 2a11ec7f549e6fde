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
	"slices"
	"sort"
	"strings"
)

// CapturedArg is a named value captured from a route path, with the type the
// handler will receive after the segment's converter runs.
type CapturedArg struct {
	Annotation Annotation // Type produced by the converter
	Converter  string     // Converter identity, empty when the raw string is passed through
}

// RoutePart is one segment of a route chain.
//
// Captured names are a subset of the named groups of the segment and Groups
// counts named and unnamed groups alike. A part with groups but no named
// captures is rejected by [ValidateRoute].
type RoutePart struct {
	Groups   int                    // Number of capture groups, named or not
	Captured map[string]CapturedArg // Named captures
	Where    Where                  // Where the segment is declared
	Defaults []string               // Names bound to the handler regardless of the path
}

// CapturedNames returns the captured names in sorted order.
func (p RoutePart) CapturedNames() []string {
	names := make([]string, 0, len(p.Captured))
	for name := range p.Captured {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// DefaultNames returns the default-bound names, sorted and without duplicates.
func (p RoutePart) DefaultNames() []string {
	names := slices.Clone(p.Defaults)
	sort.Strings(names)

	return slices.Compact(names)
}

// Provides reports whether the part captures name or binds it as a default.
func (p RoutePart) Provides(name string) bool {
	if _, ok := p.Captured[name]; ok {
		return true
	}

	return slices.Contains(p.Defaults, name)
}

// Handler references the callable a route dispatches to.
type Handler struct {
	Module string
	Name   string
}

// HandlerFromName splits a fully qualified function name, as reported by
// runtime.FuncForPC or a router's route listing, into module and name.
//
//	"main.getUser"                              -> {main, getUser}
//	"example.com/app/users.(*Handler).Get-fm"  -> {example.com/app/users, (*Handler).Get}
func HandlerFromName(full string) Handler {
	name := strings.TrimSuffix(full, "-fm")
	slash := strings.LastIndexByte(name, '/')
	dot := strings.IndexByte(name[slash+1:], '.')
	if dot < 0 {
		return Handler{Name: name}
	}
	dot += slash + 1

	return Handler{Module: name[:dot], Name: name[dot+1:]}
}

// String returns module.name, or just the name when the module is unknown.
func (h Handler) String() string {
	if h.Module == "" {
		return h.Name
	}

	return h.Module + "." + h.Name
}

// Class describes a class-style handler: one object whose methods handle the
// lifecycle of a request and each HTTP verb.
type Class struct {
	Name        string
	Module      string
	Bases       []*Class              // Direct bases, in declaration order
	Methods     []string              // Methods defined directly on this class
	Annotations map[string]Annotation // Attribute annotations declared directly on this class

	// HTTPMethodNames lists the verbs the class dispatches. A nil slice
	// inherits the list from the first base that declares one.
	HTTPMethodNames []string
}

// MRO returns the method resolution order of c: c first, then its bases
// depth-first from left to right, keeping only the last occurrence of a class
// reachable along several paths.
func (c *Class) MRO() []*Class {
	var walk []*Class
	var visit func(*Class)
	visit = func(k *Class) {
		walk = append(walk, k)
		for _, base := range k.Bases {
			if base != nil {
				visit(base)
			}
		}
	}
	visit(c)

	mro := make([]*Class, 0, len(walk))
	for i, k := range walk {
		if !slices.Contains(walk[i+1:], k) {
			mro = append(mro, k)
		}
	}

	return mro
}

// Inherits reports whether c is, or derives from, a class named name.
func (c *Class) Inherits(name string) bool {
	return slices.ContainsFunc(c.MRO(), func(k *Class) bool { return k.Name == name })
}

// DefinedOn returns the class in the MRO of c that defines method, or nil.
func (c *Class) DefinedOn(method string) *Class {
	for _, k := range c.MRO() {
		if slices.Contains(k.Methods, method) {
			return k
		}
	}

	return nil
}

// HasMethod reports whether method is defined anywhere in the MRO of c.
func (c *Class) HasMethod(method string) bool {
	return c.DefinedOn(method) != nil
}

// Annotation returns the annotation of attr as seen from c, following the MRO.
func (c *Class) Annotation(attr string) (Annotation, bool) {
	for _, k := range c.MRO() {
		if a, ok := k.Annotations[attr]; ok {
			return a, true
		}
	}

	return Annotation{}, false
}

// MethodNames returns the HTTP verbs c dispatches.
func (c *Class) MethodNames() []string {
	for _, k := range c.MRO() {
		if k.HTTPMethodNames != nil {
			return k.HTTPMethodNames
		}
	}

	return nil
}

// RawRoute is one resolvable path-to-handler binding as discovered from a
// router, before any validation.
type RawRoute struct {
	Parts   []RoutePart // Chain of segments, outermost first
	Handler Handler     // Callable the route dispatches to
	Class   *Class      // Class-style handler, nil for plain callables
	Where   Where       // Where the final segment is declared
}
