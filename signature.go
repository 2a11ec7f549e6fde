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
	"strings"
)

// Parameter is one parameter of a handler, in call order.
//
// Bundle-style keyword parameters (a struct of named fields passed as one
// argument) are expanded by the signature producer into one Parameter per
// field before they reach this package.
type Parameter struct {
	Name                 string
	Required             bool // No default value
	KeywordOnly          bool // Can only be passed by name
	Annotation           Annotation
	IsSelf               bool // Receiver of a class method
	IsVariadicKeywords   bool // Catch-all for extra keyword arguments
	IsVariadicPositional bool // Catch-all for extra positional arguments
}

// Matches reports whether the parameter accepts a value of the required type.
//
// An Any parameter accepts everything, as does a catch-all keyword parameter
// annotated object. Otherwise every member of required must be a member of
// the parameter's annotation: an int|string parameter accepts an int, an int
// parameter does not accept int|string.
func (p Parameter) Matches(required Annotation) bool {
	if p.Annotation.Kind == AnnotationAny || (p.IsVariadicKeywords && p.Annotation.Kind == AnnotationObject) {
		return true
	}

	accepts := p.Annotation.Members()
	for _, req := range required.Members() {
		if !slices.ContainsFunc(accepts, req.Equal) {
			return false
		}
	}

	return true
}

// keywordOnly reports whether the parameter can only be supplied by name.
// Catch-all keyword parameters always are.
func (p Parameter) keywordOnly() bool {
	return p.KeywordOnly || p.IsVariadicKeywords
}

// Function is the signature of a handler or of one method of a class-style handler.
type Function struct {
	Name   string
	Module string
	Params []Parameter

	// AllowsArbitrary is true when a catch-all keyword parameter accepts
	// anything, so every captured name is accepted.
	AllowsArbitrary bool

	Class     *Class // Class the method was looked up on, nil for plain callables
	DefinedOn *Class // Class in the MRO that defines the method
}

// NewFunction returns a Function and derives AllowsArbitrary from params.
func NewFunction(module, name string, params ...Parameter) Function {
	fn := Function{Name: name, Module: module, Params: params}
	for _, p := range params {
		if p.IsVariadicKeywords && (p.Annotation.Kind == AnnotationAny || p.Annotation.Kind == AnnotationObject) {
			fn.AllowsArbitrary = true
		}
	}

	return fn
}

// Display renders where the function is defined. The first line carries no
// indent; following lines are prefixed with indent.
func (f Function) Display(indent string) string {
	lines := []string{"module = " + f.Module}
	if f.DefinedOn != nil {
		lines = append(lines, "class = "+f.DefinedOn.Name, "method = "+f.Name)
	} else {
		lines = append(lines, "function = "+f.Name)
	}

	return strings.Join(lines, "\n"+indent)
}

// Positional is a value the framework passes positionally before any
// route-captured value, such as the request object.
type Positional struct {
	Name       string
	Annotation Annotation
}

// DispatchFunction is a Function together with the positional context the
// framework calls it with.
type DispatchFunction struct {
	Function
	Positional []Positional
}

// SignatureResolver produces the signature of a handler.
//
// owner is nil for plain callables. For class-style handlers handler names
// the method and owner is the class it is looked up on. Parameters must be
// returned in call order with the receiver first and flagged IsSelf.
type SignatureResolver interface {
	Resolve(handler Handler, owner *Class) (Function, error)
}

// SignatureResolverFunc adapts a function to [SignatureResolver].
type SignatureResolverFunc func(handler Handler, owner *Class) (Function, error)

// Resolve calls f(handler, owner).
func (f SignatureResolverFunc) Resolve(handler Handler, owner *Class) (Function, error) {
	return f(handler, owner)
}
