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

import "slices"

// Auth is the authentication context threaded through every scenario.
type Auth struct {
	// UserType is the type of the authenticated user model.
	UserType Annotation
}

// PatternScenario is a check run once per pattern.
type PatternScenario interface {
	// ExitEarly reports whether the run stops after this scenario's sweep
	// when any violation has been found.
	ExitEarly() bool

	// Run checks p and adds violations to errs.
	Run(errs *ErrorContainer, auth Auth, p Pattern)
}

// FunctionScenario is a check run once per relevant function of each pattern.
type FunctionScenario interface {
	// ExitEarly reports whether the run stops after this scenario's sweep
	// when any violation has been found.
	ExitEarly() bool

	// Run checks fn, reached through p, and adds violations to errs.
	Run(errs *ErrorContainer, auth Auth, p Pattern, fn DispatchFunction)
}

// MistypedCheck describes a positional parameter whose annotation is neither
// Any nor the expected type.
type MistypedCheck struct {
	Function DispatchFunction
	Auth     Auth
	Name     string
	Position int
	Got      Annotation
	Want     Annotation
}

// MistypedFunc decides what to report for a mistyped positional parameter.
// Returning nil accepts the annotation.
type MistypedFunc func(check MistypedCheck) *Incorrect

// DefaultMistyped reports every mistyped parameter. When the annotation found
// mentions the authenticated user type, the report suggests reading the user
// from the class request attribute instead.
func DefaultMistyped(check MistypedCheck) *Incorrect {
	auth := check.Auth.UserType.Kind != AnnotationAny && check.Got.Mentions(check.Auth.UserType)
	inc := Mistyped(check.Name, check.Got, check.Want, auth)

	return &inc
}

// PositionalArgsScenario checks the parameters a function receives
// positionally from the framework.
//
// Parameters are walked in lockstep with the positional context, skipping the
// receiver. While context remains each parameter must be positional, have the
// expected name and, unless annotated Any, the expected type. Once the context
// is used up a keyword-only parameter ends the walk; a variadic positional
// parameter is reported when DisallowVarArgs is set and any other parameter is
// reported when EnforceKeywordArgs is set.
//
// A variadic positional parameter past the context is only ever reported as
// disallowed. EnforceKeywordArgs does not ask for it to be made keyword-only,
// so with DisallowVarArgs unset it passes even when EnforceKeywordArgs is set.
type PositionalArgsScenario struct {
	DisallowVarArgs    bool
	EnforceKeywordArgs bool
	EarlyExit          bool

	// Mistyped decides what to report for mistyped parameters.
	// Defaults to DefaultMistyped.
	Mistyped MistypedFunc
}

// ExitEarly implements [FunctionScenario].
func (s *PositionalArgsScenario) ExitEarly() bool { return s.EarlyExit }

// Run implements [FunctionScenario].
func (s *PositionalArgsScenario) Run(errs *ErrorContainer, auth Auth, _ Pattern, fn DispatchFunction) {
	mistyped := s.Mistyped
	if mistyped == nil {
		mistyped = DefaultMistyped
	}

	var incorrect []Incorrect
	positional := fn.Positional
	position := -1

walk:
	for _, param := range fn.Params {
		if param.IsSelf {
			continue
		}
		position++

		if len(positional) > 0 {
			want := positional[0]
			positional = positional[1:]

			switch {
			case param.IsVariadicPositional:
				incorrect = append(incorrect, Missing(want.Name))
				break walk
			case param.keywordOnly():
				incorrect = append(incorrect, Missing(want.Name))
			case param.Name != want.Name:
				incorrect = append(incorrect, Misnamed(position, param.Name, want.Name))
			case param.Annotation.Kind != AnnotationAny && !param.Annotation.Equal(want.Annotation):
				inc := mistyped(MistypedCheck{
					Function: fn,
					Auth:     auth,
					Name:     want.Name,
					Position: position,
					Got:      param.Annotation,
					Want:     want.Annotation,
				})
				if inc != nil {
					incorrect = append(incorrect, *inc)
				}
			}
			continue
		}

		switch {
		case param.keywordOnly():
			break walk
		case param.IsVariadicPositional:
			if s.DisallowVarArgs {
				incorrect = append(incorrect, NoVarArgs(param.Name))
			}
		case s.EnforceKeywordArgs:
			incorrect = append(incorrect, MakeKeywordOnly(param.Name))
		}
	}

	if len(incorrect) > 0 {
		errs.Add(&MismatchedRequiredArgs{Function: fn, Incorrect: incorrect})
	}
}

// RequiredArgsScenario checks that every required parameter after the
// positional context is captured or defaulted by some part of the route.
type RequiredArgsScenario struct {
	EarlyExit bool
}

// ExitEarly implements [FunctionScenario].
func (s *RequiredArgsScenario) ExitEarly() bool { return s.EarlyExit }

// Run implements [FunctionScenario].
func (s *RequiredArgsScenario) Run(errs *ErrorContainer, _ Auth, p Pattern, fn DispatchFunction) {
	parts := p.Parts()
	var missing []string

	for _, param := range keywordParams(fn) {
		if !param.Required {
			continue
		}
		provided := slices.ContainsFunc(parts, func(part RoutePart) bool { return part.Provides(param.Name) })
		if !provided && !slices.Contains(missing, param.Name) {
			missing = append(missing, param.Name)
		}
	}

	if len(missing) == 0 {
		return
	}
	slices.Sort(missing)

	wheres := make([]Where, len(parts))
	for i, part := range parts {
		wheres[i] = part.Where
	}
	errs.Add(&RequiredArgOnViewNotAlwaysRequiredByPattern{
		PartWheres: wheres,
		Function:   fn,
		Missing:    missing,
	})
}

// AcceptsArgsScenario checks that every captured or default-bound name of the
// route is accepted by the function.
type AcceptsArgsScenario struct {
	EarlyExit bool
}

// ExitEarly implements [FunctionScenario].
func (s *AcceptsArgsScenario) ExitEarly() bool { return s.EarlyExit }

// Run implements [FunctionScenario].
func (s *AcceptsArgsScenario) Run(errs *ErrorContainer, _ Auth, p Pattern, fn DispatchFunction) {
	if fn.AllowsArbitrary {
		return
	}

	available := make(map[string]bool)
	for _, param := range keywordParams(fn) {
		if param.IsVariadicKeywords || param.IsVariadicPositional {
			continue
		}
		available[param.Name] = true
	}

	var missing []MissingCapture
	for _, part := range p.Parts() {
		for _, name := range append(part.CapturedNames(), part.DefaultNames()...) {
			if !available[name] {
				missing = append(missing, MissingCapture{Where: part.Where, Name: name})
			}
		}
	}

	if len(missing) > 0 {
		errs.Add(&ViewDoesNotAcceptCapturedArg{Where: p.Where(), Function: fn, Missing: missing})
	}
}

// AnnotationsScenario checks that parameters named after captured values
// accept the type produced by the route converter.
type AnnotationsScenario struct {
	EarlyExit bool
}

// ExitEarly implements [FunctionScenario].
func (s *AnnotationsScenario) ExitEarly() bool { return s.EarlyExit }

// Run implements [FunctionScenario].
func (s *AnnotationsScenario) Run(errs *ErrorContainer, _ Auth, p Pattern, fn DispatchFunction) {
	byName := make(map[string]Parameter, len(fn.Params))
	for _, param := range fn.Params {
		byName[param.Name] = param
	}

	var incorrect []AnnotationMismatch
	for _, part := range p.Parts() {
		for _, name := range part.CapturedNames() {
			param, ok := byName[name]
			if !ok {
				continue
			}
			captured := part.Captured[name]
			if !param.Matches(captured.Annotation) {
				incorrect = append(incorrect, AnnotationMismatch{
					Name:     name,
					Found:    param.Annotation,
					Expected: captured.Annotation,
				})
			}
		}
	}

	if len(incorrect) > 0 {
		errs.Add(&InvalidArgAnnotations{Where: p.Where(), Function: fn, Incorrect: incorrect})
	}
}

// KwargsAnnotatedScenario checks the annotation of catch-all keyword
// parameters. Only object (when AllowsObject) and Any (when AllowsAny) are
// accepted; anything else should be a typed bundle, which signature producers
// expand into named parameters.
type KwargsAnnotatedScenario struct {
	AllowsObject bool
	AllowsAny    bool
	EarlyExit    bool
}

// ExitEarly implements [FunctionScenario].
func (s *KwargsAnnotatedScenario) ExitEarly() bool { return s.EarlyExit }

// Run implements [FunctionScenario].
func (s *KwargsAnnotatedScenario) Run(errs *ErrorContainer, _ Auth, _ Pattern, fn DispatchFunction) {
	for _, param := range fn.Params {
		if !param.IsVariadicKeywords {
			continue
		}
		if s.AllowsObject && param.Annotation.Kind == AnnotationObject {
			continue
		}
		if s.AllowsAny && param.Annotation.Kind == AnnotationAny {
			continue
		}

		errs.Add(&KwargsMustBeAnnotated{
			Function:     fn,
			ParamName:    param.Name,
			AllowsObject: s.AllowsObject,
			AllowsAny:    s.AllowsAny,
		})
	}
}

// RequestAnnotationScenario checks the annotation class-style handlers
// declare for their request attribute.
//
// The annotation is valid when it equals one of Acceptable, or when it is one
// of Containers parameterized with the authenticated user type. Classes that
// do not annotate the attribute are not checked.
type RequestAnnotationScenario struct {
	// Attribute names the request attribute. Defaults to "request".
	Attribute   string
	Acceptable  []Annotation
	Containers  []string
	Expectation RequestExpectation
	EarlyExit   bool
}

// ExitEarly implements [PatternScenario].
func (s *RequestAnnotationScenario) ExitEarly() bool { return s.EarlyExit }

// Run implements [PatternScenario].
func (s *RequestAnnotationScenario) Run(errs *ErrorContainer, auth Auth, p Pattern) {
	cp, ok := p.(ClassPattern)
	if !ok || cp.Class() == nil {
		return
	}

	attr := s.Attribute
	if attr == "" {
		attr = "request"
	}
	annotation, ok := cp.Class().Annotation(attr)
	if !ok || s.valid(auth, annotation) {
		return
	}

	errs.Add(&InvalidRequestAnnotation{
		Where:       p.Where(),
		Class:       cp.Class(),
		ClassWhere:  cp.DisplayClass("  "),
		Annotation:  annotation,
		UserType:    auth.UserType,
		Acceptable:  s.Acceptable,
		Containers:  s.Containers,
		Expectation: s.Expectation,
	})
}

func (s *RequestAnnotationScenario) valid(auth Auth, annotation Annotation) bool {
	if slices.ContainsFunc(s.Acceptable, annotation.Equal) {
		return true
	}

	return annotation.Kind == AnnotationGeneric &&
		slices.Contains(s.Containers, annotation.Name) &&
		len(annotation.Args) > 0 &&
		annotation.Args[0].Equal(auth.UserType)
}

// keywordParams returns the parameters of fn after the receiver and the
// positional context.
func keywordParams(fn DispatchFunction) []Parameter {
	skip := len(fn.Positional)
	out := make([]Parameter, 0, len(fn.Params))
	for _, param := range fn.Params {
		if param.IsSelf {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		out = append(out, param)
	}

	return out
}
