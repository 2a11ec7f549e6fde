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

package manifest

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"rivaas.dev/routecheck"
	"rivaas.dev/routecheck/discover"
)

// Plan is a compiled manifest, ready to run.
type Plan struct {
	Routes            []routecheck.RawRoute
	Classes           map[string]*routecheck.Class
	Maker             *routecheck.ViewMaker
	Auth              routecheck.Auth
	PatternScenarios  []routecheck.PatternScenario
	FunctionScenarios []routecheck.FunctionScenario

	// ExcludeNamespaces leaves out routes in these namespaces and the
	// namespaces nested beneath them.
	ExcludeNamespaces []string
}

// Compile builds the classes, signatures, route tree and scenarios of doc.
func Compile(doc *Document) (*Plan, error) {
	classes, err := compileClasses(doc.Classes)
	if err != nil {
		return nil, err
	}

	functions := slices.Clone(doc.Functions)
	for i := range functions {
		if functions[i].Module != "" || functions[i].Class == "" {
			continue
		}
		cls, ok := classes[functions[i].Class]
		if !ok {
			return nil, newFieldError("compile", fmt.Sprintf("functions[%d].class", i), "compile",
				fmt.Errorf("%w: %s", ErrUnknownClass, functions[i].Class))
		}
		functions[i].Module = cls.Module
	}
	signatures, err := NewSignatures(functions)
	if err != nil {
		return nil, err
	}

	maker, err := compileMaker(doc.Settings, signatures)
	if err != nil {
		return nil, err
	}

	root := discover.NewGroup("")
	for i, spec := range doc.Routes {
		if err = addRoute(root, spec, classes, fmt.Sprintf("routes[%d]", i)); err != nil {
			return nil, err
		}
	}
	routes, err := root.RawRoutes()
	if err != nil {
		return nil, newError("compile", "compile", err)
	}

	userType, err := routecheck.ParseAnnotation(doc.Settings.Auth.UserType)
	if err != nil {
		return nil, newFieldError("compile", "settings.auth.user_type", "compile", err)
	}

	plan := &Plan{
		Routes:            routes,
		Classes:           classes,
		Maker:             maker,
		Auth:              routecheck.Auth{UserType: userType},
		ExcludeNamespaces: doc.Settings.ExcludeNamespaces,
	}
	if err = plan.compileScenarios(doc.Settings.Scenarios); err != nil {
		return nil, err
	}

	return plan, nil
}

// Excludes reports whether raw lives in an excluded namespace.
func (p *Plan) Excludes(raw routecheck.RawRoute) bool {
	ns := raw.Where.Namespace
	return slices.ContainsFunc(p.ExcludeNamespaces, func(excluded string) bool {
		return ns == excluded || strings.HasPrefix(ns, excluded+":")
	})
}

// NewRunner builds the patterns of every route not excluded. Options are
// applied after the plan's own excluder, so they can replace it.
func (p *Plan) NewRunner(opts ...routecheck.Option) (*routecheck.Runner, error) {
	all := append([]routecheck.Option{routecheck.WithExcluder(p.Excludes)}, opts...)
	return routecheck.NewRunner(slices.Values(p.Routes), p.Maker.Make, all...)
}

// Check builds the patterns and runs every enabled scenario. Violations are
// reported as [*routecheck.FoundInvalidPatterns].
func (p *Plan) Check(ctx context.Context, opts ...routecheck.Option) error {
	runner, err := p.NewRunner(opts...)
	if err != nil {
		return err
	}

	return runner.Run(ctx, p.Auth, p.PatternScenarios, p.FunctionScenarios)
}

func compileClasses(specs []ClassSpec) (map[string]*routecheck.Class, error) {
	classes := make(map[string]*routecheck.Class, len(specs))
	for i, spec := range specs {
		if _, ok := classes[spec.Name]; ok {
			return nil, newFieldError("compile", fmt.Sprintf("classes[%d]", i), "compile",
				fmt.Errorf("%w: %s", ErrDuplicateClass, spec.Name))
		}

		cls := &routecheck.Class{
			Name:            spec.Name,
			Module:          spec.Module,
			Methods:         spec.Methods,
			HTTPMethodNames: spec.HTTPMethodNames,
		}
		if len(spec.Annotations) > 0 {
			cls.Annotations = make(map[string]routecheck.Annotation, len(spec.Annotations))
			for attr, raw := range spec.Annotations {
				a, err := routecheck.ParseAnnotation(raw)
				if err != nil {
					return nil, newFieldError("compile", fmt.Sprintf("classes[%d].annotations.%s", i, attr), "compile", err)
				}
				cls.Annotations[attr] = a
			}
		}
		classes[spec.Name] = cls
	}

	for i, spec := range specs {
		cls := classes[spec.Name]
		for _, name := range spec.Bases {
			base, ok := classes[name]
			if !ok {
				return nil, newFieldError("compile", fmt.Sprintf("classes[%d].bases", i), "compile",
					fmt.Errorf("%w: %s", ErrUnknownClass, name))
			}
			cls.Bases = append(cls.Bases, base)
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[*routecheck.Class]int, len(classes))
	var visit func(*routecheck.Class) error
	visit = func(cls *routecheck.Class) error {
		switch state[cls] {
		case visiting:
			return fmt.Errorf("%w: %s", ErrInheritanceCycle, cls.Name)
		case done:
			return nil
		}
		state[cls] = visiting
		for _, base := range cls.Bases {
			if err := visit(base); err != nil {
				return err
			}
		}
		state[cls] = done

		return nil
	}
	for _, spec := range specs {
		if err := visit(classes[spec.Name]); err != nil {
			return nil, newFieldError("compile", "classes", "compile", err)
		}
	}

	return classes, nil
}

func compileMaker(s Settings, signatures *Signatures) (*routecheck.ViewMaker, error) {
	maker := routecheck.NewViewMaker(signatures)
	if s.FrameworkModules != nil {
		maker.FrameworkModules = s.FrameworkModules
	}

	if s.BaseHandler != "" {
		maker.BaseHandler = s.BaseHandler
	}
	if s.Request != nil {
		request, err := compilePositional(s.Request, "settings.request")
		if err != nil {
			return nil, err
		}
		maker.Request = request
	}
	if s.Lifecycle != nil {
		maker.Lifecycle = s.Lifecycle
	}
	switch s.Fallback {
	case "":
	case "-":
		maker.Fallback = ""
	default:
		maker.Fallback = s.Fallback
	}
	if s.Hooks != nil {
		maker.Hooks = make([]routecheck.MethodHook, len(s.Hooks))
		for i, h := range s.Hooks {
			positional, err := compilePositional(h.Positional, fmt.Sprintf("settings.hooks[%d].positional", i))
			if err != nil {
				return nil, err
			}
			maker.Hooks[i] = routecheck.MethodHook{Base: h.Base, Method: h.Method, Positional: positional}
		}
	}

	return maker, nil
}

func compilePositional(specs []PositionalSpec, field string) ([]routecheck.Positional, error) {
	var out []routecheck.Positional
	for i, spec := range specs {
		a, err := routecheck.ParseAnnotation(spec.Annotation)
		if err != nil {
			return nil, newFieldError("compile", fmt.Sprintf("%s[%d].annotation", field, i), "compile", err)
		}
		out = append(out, routecheck.Positional{Name: spec.Name, Annotation: a})
	}

	return out, nil
}

func (p *Plan) compileScenarios(s ScenarioSettings) error {
	if ra := s.RequestAnnotation; ra.On() {
		scenario := &routecheck.RequestAnnotationScenario{
			Attribute:  ra.Attribute,
			Containers: ra.Containers,
			EarlyExit:  ra.ExitEarly,
		}
		for i, raw := range ra.Acceptable {
			a, err := routecheck.ParseAnnotation(raw)
			if err != nil {
				return newFieldError("compile", fmt.Sprintf("settings.scenarios.request_annotation.acceptable[%d]", i), "compile", err)
			}
			scenario.Acceptable = append(scenario.Acceptable, a)
		}
		if ra.Acceptable == nil && len(p.Maker.Request) > 0 && p.Maker.Request[0].Annotation.Kind != routecheck.AnnotationAny {
			scenario.Acceptable = []routecheck.Annotation{p.Maker.Request[0].Annotation}
		}
		if len(ra.Containers) > 0 {
			scenario.Expectation = routecheck.ExpectContainer{Container: ra.Containers[0], Hints: ra.Hints}
		}
		p.PatternScenarios = append(p.PatternScenarios, scenario)
	}

	if pa := s.PositionalArgs; pa.On() {
		p.FunctionScenarios = append(p.FunctionScenarios, &routecheck.PositionalArgsScenario{
			DisallowVarArgs:    pa.DisallowVarArgs,
			EnforceKeywordArgs: pa.EnforceKeywordArgs,
			EarlyExit:          pa.ExitEarly,
		})
	}
	if s.RequiredArgs.On() {
		p.FunctionScenarios = append(p.FunctionScenarios, &routecheck.RequiredArgsScenario{EarlyExit: s.RequiredArgs.ExitEarly})
	}
	if s.AcceptsArgs.On() {
		p.FunctionScenarios = append(p.FunctionScenarios, &routecheck.AcceptsArgsScenario{EarlyExit: s.AcceptsArgs.ExitEarly})
	}
	if s.Annotations.On() {
		p.FunctionScenarios = append(p.FunctionScenarios, &routecheck.AnnotationsScenario{EarlyExit: s.Annotations.ExitEarly})
	}
	if ka := s.KwargsAnnotated; ka.On() {
		p.FunctionScenarios = append(p.FunctionScenarios, &routecheck.KwargsAnnotatedScenario{
			AllowsObject: ka.AllowsObject,
			AllowsAny:    ka.AllowsAny,
			EarlyExit:    ka.ExitEarly,
		})
	}

	return nil
}

func addRoute(g *discover.Group, spec RouteSpec, classes map[string]*routecheck.Class, field string) error {
	invalid := func(format string, args ...any) error {
		return newFieldError("compile", field, "compile", fmt.Errorf("%w: %s", ErrInvalidRoute, fmt.Sprintf(format, args...)))
	}

	if spec.isGroup() {
		if spec.Handler != "" || spec.Class != "" {
			return invalid("a group cannot name a handler")
		}
		var child *discover.Group
		if spec.Regex {
			child = g.RegexGroup(spec.Template)
		} else {
			child = g.Group(spec.Template)
		}
		child.SetNamespace(spec.Namespace).SetDefaults(spec.Defaults...)
		if spec.Module != "" {
			child.SetModule(spec.Module)
		}
		for i, nested := range spec.Routes {
			if err := addRoute(child, nested, classes, fmt.Sprintf("%s.routes[%d]", field, i)); err != nil {
				return err
			}
		}

		return nil
	}

	if spec.Namespace != "" {
		return invalid("namespace %q on a route without nested routes", spec.Namespace)
	}

	var r *discover.Route
	switch {
	case spec.Class != "":
		cls, ok := classes[spec.Class]
		if !ok {
			return newFieldError("compile", field+".class", "compile", fmt.Errorf("%w: %s", ErrUnknownClass, spec.Class))
		}
		handler := routecheck.Handler{Module: cls.Module, Name: cls.Name}
		if spec.Regex {
			r = g.HandleRegex(spec.Template, handler).SetClass(cls)
		} else {
			r = g.HandleClass(spec.Template, cls)
		}
	case spec.Handler != "":
		handler := parseHandler(spec.Handler)
		if spec.Regex {
			r = g.HandleRegex(spec.Template, handler)
		} else {
			r = g.Handle(spec.Template, handler)
		}
	default:
		return invalid("route %q names neither a handler nor a class", spec.Template)
	}

	r.SetName(spec.Name).SetDefaults(spec.Defaults...)
	if spec.Module != "" {
		r.SetModule(spec.Module)
	}

	return nil
}
