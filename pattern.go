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
	"iter"
	"slices"
	"strings"
)

// Pattern is a validated route bound to the functions that handle it.
type Pattern interface {
	// Parts returns the chain of route segments, outermost first.
	Parts() []RoutePart

	// Handler returns the callable the route dispatches to.
	Handler() Handler

	// Where returns where the final segment is declared.
	Where() Where

	// Exclude reports whether the pattern should be skipped entirely.
	Exclude(auth Auth) bool

	// ExcludeFunction reports whether fn should be skipped by function scenarios.
	ExcludeFunction(auth Auth, fn DispatchFunction) bool

	// RelevantFunctions yields every function invoked for the route. The
	// sequence is finite and may be iterated more than once.
	RelevantFunctions() iter.Seq[DispatchFunction]
}

// ClassPattern is implemented by patterns that route to class-style handlers.
type ClassPattern interface {
	Pattern

	// Class returns the handler class, or nil when the route targets a plain callable.
	Class() *Class

	// DisplayClass renders where the class is defined.
	DisplayClass(indent string) string
}

// PatternMaker builds a Pattern from a raw route. Returning a [Violation]
// rejects that route only; any other error aborts [NewRunner].
type PatternMaker func(raw RawRoute) (Pattern, error)

// RouteExcluder reports whether a raw route should be left out of the analysis.
type RouteExcluder func(raw RawRoute) bool

// ValidateRoute checks the shape of a raw route before a Pattern is built.
//
// A class-style handler must derive from base, and every segment with capture
// groups must name at least one of them. The returned error is a
// [*NotABaseHandler] or [*UnnamedCaptureGroup].
func ValidateRoute(raw RawRoute, base string) error {
	if raw.Class != nil && !raw.Class.Inherits(base) {
		return &NotABaseHandler{Route: raw, Where: raw.Where, Base: base}
	}

	for _, part := range raw.Parts {
		if part.Groups > 0 && len(part.Captured) == 0 {
			return &UnnamedCaptureGroup{Route: raw, Where: part.Where}
		}
	}

	return nil
}

// MethodHook adds a method to the relevant functions of classes that derive
// from Base, called with the given positional context.
type MethodHook struct {
	Base       string
	Method     string
	Positional []Positional
}

// ViewMaker builds [ViewPattern] values. Use [NewViewMaker] for defaults
// that mirror a conventional class-based view framework.
type ViewMaker struct {
	// Signatures resolves handler signatures. Required.
	Signatures SignatureResolver

	// BaseHandler is the class every class-style handler must derive from.
	BaseHandler string

	// Request is the positional context of plain handlers and of the
	// lifecycle and verb methods of class handlers.
	Request []Positional

	// Lifecycle lists the methods every request goes through, in call order.
	Lifecycle []string

	// Hooks adds methods for classes deriving from specific bases.
	Hooks []MethodHook

	// Fallback is the method called for verbs the class does not handle.
	Fallback string

	// FrameworkModules lists module prefixes whose methods are not checked.
	FrameworkModules []string
}

// NewViewMaker returns a ViewMaker with the conventional defaults: classes
// derive from View, receive a request positionally, go through setup and
// dispatch, fall back to http_method_not_allowed, and RedirectView
// subclasses also expose get_redirect_url. Methods defined in django modules
// belong to the framework and are skipped.
func NewViewMaker(signatures SignatureResolver) *ViewMaker {
	return &ViewMaker{
		Signatures:       signatures,
		BaseHandler:      "View",
		Request:          []Positional{{Name: "request", Annotation: Type("HttpRequest")}},
		Lifecycle:        []string{"setup", "dispatch"},
		Hooks:            []MethodHook{{Base: "RedirectView", Method: "get_redirect_url"}},
		Fallback:         "http_method_not_allowed",
		FrameworkModules: []string{"django."},
	}
}

// Make validates raw and resolves the signature of every relevant function.
// Shape problems are returned as violations; resolver failures are returned
// as plain errors.
func (m *ViewMaker) Make(raw RawRoute) (Pattern, error) {
	if err := ValidateRoute(raw, m.BaseHandler); err != nil {
		return nil, err
	}
	if m.Signatures == nil {
		return nil, ErrNilSignatureResolver
	}

	p := &ViewPattern{raw: raw, frameworkModules: m.FrameworkModules}

	if raw.Class == nil {
		fn, err := m.Signatures.Resolve(raw.Handler, nil)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", raw.Handler, err)
		}
		p.functions = append(p.functions, DispatchFunction{Function: fn, Positional: m.Request})

		return p, nil
	}

	add := func(method string, positional []Positional) error {
		definedOn := raw.Class.DefinedOn(method)
		if definedOn == nil {
			return nil
		}
		fn, err := m.Signatures.Resolve(Handler{Module: definedOn.Module, Name: method}, raw.Class)
		if err != nil {
			return fmt.Errorf("resolve %s.%s: %w", raw.Class.Name, method, err)
		}
		fn.Class = raw.Class
		fn.DefinedOn = definedOn
		p.functions = append(p.functions, DispatchFunction{Function: fn, Positional: positional})

		return nil
	}

	for _, method := range m.Lifecycle {
		if err := add(method, m.Request); err != nil {
			return nil, err
		}
	}
	for _, hook := range m.Hooks {
		if raw.Class.Inherits(hook.Base) {
			if err := add(hook.Method, hook.Positional); err != nil {
				return nil, err
			}
		}
	}
	if m.Fallback != "" {
		if err := add(m.Fallback, m.Request); err != nil {
			return nil, err
		}
	}
	for _, verb := range raw.Class.MethodNames() {
		if err := add(verb, m.Request); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// ViewPattern is the [ClassPattern] built by [ViewMaker]. It routes either to
// a plain callable or to the methods of a class-style handler.
type ViewPattern struct {
	raw              RawRoute
	functions        []DispatchFunction
	frameworkModules []string
}

// Raw returns the route the pattern was built from.
func (p *ViewPattern) Raw() RawRoute { return p.raw }

// Parts implements [Pattern].
func (p *ViewPattern) Parts() []RoutePart { return p.raw.Parts }

// Handler implements [Pattern].
func (p *ViewPattern) Handler() Handler { return p.raw.Handler }

// Where implements [Pattern].
func (p *ViewPattern) Where() Where { return p.raw.Where }

// Class implements [ClassPattern].
func (p *ViewPattern) Class() *Class { return p.raw.Class }

// Exclude implements [Pattern]. View patterns are never excluded.
func (p *ViewPattern) Exclude(Auth) bool { return false }

// ExcludeFunction implements [Pattern]. Methods defined by the framework
// itself are out of the user's control and are skipped.
func (p *ViewPattern) ExcludeFunction(_ Auth, fn DispatchFunction) bool {
	if fn.DefinedOn == nil {
		return false
	}

	return slices.ContainsFunc(p.frameworkModules, func(prefix string) bool {
		return strings.HasPrefix(fn.DefinedOn.Module, prefix)
	})
}

// RelevantFunctions implements [Pattern]. For a plain callable this is the
// callable itself. For a class it is the lifecycle methods, any hook methods,
// the fallback method and one method per handled verb, in that order.
func (p *ViewPattern) RelevantFunctions() iter.Seq[DispatchFunction] {
	return slices.Values(p.functions)
}

// DisplayClass implements [ClassPattern].
func (p *ViewPattern) DisplayClass(indent string) string {
	if p.raw.Class == nil {
		return ""
	}

	return "module = " + p.raw.Class.Module + "\n" + indent + "class = " + p.raw.Class.Name
}
