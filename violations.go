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
	"strconv"
	"strings"
)

// NotABaseHandler reports a class-style handler that does not derive from
// the base handler the checks rely on.
type NotABaseHandler struct {
	Route RawRoute
	Where Where
	Base  string // Name of the required base handler class
}

// Kind implements [Violation].
func (NotABaseHandler) Kind() string { return "NotABaseHandler" }

// Error implements [Violation].
func (v NotABaseHandler) Error() string {
	return "[NotABaseHandler]\n" + v.Where.Display("  ", false) +
		"\n  :: Class handlers must derive from " + v.Base
}

// UnnamedCaptureGroup reports a route segment with capture groups but no
// named captures. Positional captures cannot be matched against parameters.
type UnnamedCaptureGroup struct {
	Route RawRoute
	Where Where
}

// Kind implements [Violation].
func (UnnamedCaptureGroup) Kind() string { return "UnnamedCaptureGroup" }

// Error implements [Violation].
func (v UnnamedCaptureGroup) Error() string {
	return "[UnnamedCaptureGroup]\n" + v.Where.Display("  ", true) +
		"\n  :: Capture groups in route templates must always have a name"
}

// RequiredArgOnViewNotAlwaysRequiredByPattern reports handler parameters
// that are required but not supplied by every route leading to the handler.
type RequiredArgOnViewNotAlwaysRequiredByPattern struct {
	PartWheres []Where
	Function   DispatchFunction
	Missing    []string // Sorted
}

// Kind implements [Violation].
func (RequiredArgOnViewNotAlwaysRequiredByPattern) Kind() string {
	return "RequiredArgOnViewNotAlwaysRequiredByPattern"
}

// Error implements [Violation].
func (v RequiredArgOnViewNotAlwaysRequiredByPattern) Error() string {
	lines := []string{
		"[RequiredArgOnViewNotAlwaysRequiredByPattern]",
		"  " + v.Function.Display("  "),
		"  missing_from_routes = [" + strings.Join(v.Missing, ", ") + "]",
		"  route parts >>",
	}
	for i, where := range v.PartWheres {
		lines = append(lines, "    "+strconv.Itoa(i)+" >")
		if display := where.Display("      ", true); display != "" {
			lines = append(lines, display)
		}
	}

	return strings.Join(append(lines,
		"  :: Found parameters on the handler that are not provided by every route leading to it",
		"  :: Make them optional or give them a default value",
	), "\n")
}

// MissingCapture is a captured or default-bound name a handler does not accept,
// with the segment that provides it.
type MissingCapture struct {
	Where Where
	Name  string
}

// ViewDoesNotAcceptCapturedArg reports names supplied by a route that the
// handler does not accept.
type ViewDoesNotAcceptCapturedArg struct {
	Where    Where
	Function DispatchFunction
	Missing  []MissingCapture
}

// Kind implements [Violation].
func (ViewDoesNotAcceptCapturedArg) Kind() string { return "ViewDoesNotAcceptCapturedArg" }

// Error implements [Violation].
func (v ViewDoesNotAcceptCapturedArg) Error() string {
	lines := []string{
		"[ViewDoesNotAcceptCapturedArg]",
		"  Originating:",
	}
	if display := v.Where.Display("    ", true); display != "" {
		lines = append(lines, display)
	}
	lines = append(lines, "  "+v.Function.Display("  "))
	for _, m := range v.Missing {
		lines = append(lines, "  Missing captured arg: "+m.Name)
		if display := m.Where.Display("    ", true); display != "" {
			lines = append(lines, display)
		}
	}

	return strings.Join(append(lines,
		"  :: The route provides arguments the handler does not know about",
		"  :: Add those parameters to the handler",
	), "\n")
}

// RequestExpectation describes the request annotation a class-style handler
// should declare. Projects provide their own wording.
type RequestExpectation interface {
	// Expect returns a short rendering of the expected annotation.
	Expect(userType Annotation) string

	// Notes returns extra advice appended to the message, one line each.
	Notes() []string
}

// ExpectContainer expects the request to be annotated as Container[UserType].
type ExpectContainer struct {
	Container string
	Hints     []string
}

// Expect implements [RequestExpectation].
func (e ExpectContainer) Expect(userType Annotation) string {
	return Generic(e.Container, userType).String()
}

// Notes implements [RequestExpectation].
func (e ExpectContainer) Notes() []string {
	return e.Hints
}

// InvalidRequestAnnotation reports a class-style handler whose request
// attribute is annotated with something other than an acceptable request
// type or a request container parameterized with the authenticated user type.
type InvalidRequestAnnotation struct {
	Where       Where
	Class       *Class
	ClassWhere  string // Rendered location of the class
	Annotation  Annotation
	UserType    Annotation
	Acceptable  []Annotation
	Containers  []string
	Expectation RequestExpectation
}

// Kind implements [Violation].
func (InvalidRequestAnnotation) Kind() string { return "InvalidRequestAnnotation" }

// Problem explains what is wrong with the annotation.
func (v InvalidRequestAnnotation) Problem() string {
	isContainer := slices.Contains(v.Containers, v.Annotation.Name)
	acceptable := slices.ContainsFunc(v.Acceptable, v.Annotation.Equal)

	switch {
	case v.Annotation.Kind == AnnotationSingle && isContainer:
		return "The annotation does not specify a user type"
	case !acceptable && !(v.Annotation.Kind == AnnotationGeneric && isContainer):
		return "The annotation is not using a valid type\n      (" + v.Annotation.String() + ")"
	default:
		return "The annotation specifies the wrong user type"
	}
}

// Error implements [Violation].
func (v InvalidRequestAnnotation) Error() string {
	lines := []string{
		"[InvalidRequestAnnotation]",
		"  Originating:",
	}
	if display := v.Where.Display("    ", true); display != "" {
		lines = append(lines, display)
	}
	lines = append(lines,
		"  "+v.ClassWhere,
		"  error = "+v.Problem(),
	)
	if v.Expectation != nil {
		lines = append(lines, "  expect = "+v.Expectation.Expect(v.UserType))
		for _, note := range v.Expectation.Notes() {
			lines = append(lines, "  :: "+note)
		}
	}

	return strings.Join(lines, "\n")
}

// Incorrect is one problem with the positional parameters of a function.
type Incorrect struct {
	Reason         string
	AddAuthMessage bool // Suggest reading the user from the class request attribute
}

// Missing reports that a required positional parameter is absent.
func Missing(name string) Incorrect {
	return Incorrect{Reason: "Missing required positional parameter: " + name}
}

// Misnamed reports that the positional parameter at index has the wrong name.
func Misnamed(index int, got, want string) Incorrect {
	var reason string
	switch index {
	case 0:
		reason = fmt.Sprintf("The first parameter should be named %s, but got %s", want, got)
	case 1:
		reason = fmt.Sprintf("The second parameter should be named %s, but got %s", want, got)
	default:
		reason = fmt.Sprintf("Positional parameter %d should be named %s, but got %s", index, want, got)
	}

	return Incorrect{Reason: reason}
}

// Mistyped reports that a positional parameter has the wrong annotation.
func Mistyped(name string, got, want Annotation, addAuthMessage bool) Incorrect {
	return Incorrect{
		Reason:         fmt.Sprintf("The '%s' parameter needs to be '%s' but it's '%s'", name, want, got),
		AddAuthMessage: addAuthMessage,
	}
}

// NoVarArgs reports a catch-all positional parameter.
func NoVarArgs(name string) Incorrect {
	return Incorrect{
		Reason: fmt.Sprintf("Remove the variadic positional parameter '*%s' and make every parameter explicit", name),
	}
}

// MakeKeywordOnly reports a parameter after the positional context that can
// still be passed positionally.
func MakeKeywordOnly(name string) Incorrect {
	return Incorrect{
		Reason: fmt.Sprintf("Make the '%s' parameter keyword only so it cannot be passed positionally", name),
	}
}

// MismatchedRequiredArgs reports every problem with the positional parameters
// of one function.
type MismatchedRequiredArgs struct {
	Function  DispatchFunction
	Incorrect []Incorrect
}

// Kind implements [Violation].
func (MismatchedRequiredArgs) Kind() string { return "MismatchedRequiredArgs" }

// Error implements [Violation].
func (v MismatchedRequiredArgs) Error() string {
	var b strings.Builder
	b.WriteString("[MismatchedRequiredArgs]\n  ")
	b.WriteString(v.Function.Display("  "))
	b.WriteString("\n  Found some problems with the parameters of this function:")

	addAuth := false
	for _, inc := range v.Incorrect {
		b.WriteString("\n    * ")
		b.WriteString(inc.Reason)
		addAuth = addAuth || inc.AddAuthMessage
	}

	b.WriteString("\n  :: Positional parameters supplied by the framework must have consistent names and types")
	if addAuth {
		b.WriteString("\n  :: For class handlers, annotate the request attribute on the class and read the user from it")
	}

	return b.String()
}

// AnnotationMismatch is one parameter whose annotation does not accept the
// type produced by the route converter.
type AnnotationMismatch struct {
	Name     string
	Found    Annotation // Annotation on the parameter
	Expected Annotation // Annotation of the captured value
}

// InvalidArgAnnotations reports parameters whose annotations disagree with
// the types of the values captured by the route.
type InvalidArgAnnotations struct {
	Where     Where
	Function  DispatchFunction
	Incorrect []AnnotationMismatch
}

// Kind implements [Violation].
func (InvalidArgAnnotations) Kind() string { return "InvalidArgAnnotations" }

// Error implements [Violation].
func (v InvalidArgAnnotations) Error() string {
	lines := []string{
		"[InvalidArgAnnotations]",
		"  Originating:",
	}
	if display := v.Where.Display("    ", true); display != "" {
		lines = append(lines, display)
	}
	lines = append(lines,
		"  "+v.Function.Display("  "),
		"  Found some parameters that have incorrect annotations:",
	)
	for _, m := range v.Incorrect {
		lines = append(lines, fmt.Sprintf("    * Expected '%s' to be '%s', found '%s'", m.Name, m.Expected, m.Found))
	}

	return strings.Join(append(lines,
		"  :: Route converters change the type the handler receives",
		"  :: and handler signatures must mirror that",
	), "\n")
}

// KwargsMustBeAnnotated reports a catch-all keyword parameter with an
// annotation that is not allowed.
type KwargsMustBeAnnotated struct {
	Function     DispatchFunction
	ParamName    string
	AllowsObject bool
	AllowsAny    bool
}

// Kind implements [Violation].
func (KwargsMustBeAnnotated) Kind() string { return "KwargsMustBeAnnotated" }

// Error implements [Violation].
func (v KwargsMustBeAnnotated) Error() string {
	msg := []string{
		fmt.Sprintf("Give '**%s' a typed bundle or declare the keyword parameters explicitly", v.ParamName),
	}
	if v.AllowsObject {
		msg = append(msg, fmt.Sprintf("or annotate '**%s' as object", v.ParamName))
	}
	if v.AllowsAny {
		msg = append(msg, fmt.Sprintf("or annotate '**%s' as Any", v.ParamName))
	}

	return "[KwargsMustBeAnnotated]\n  " + v.Function.Display("  ") + "\n  :: " + strings.Join(msg, "\n  :: ")
}
