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
	"errors"
	"fmt"
	"strings"

	"rivaas.dev/routecheck"
)

// ErrDuplicateFunction indicates that a signature is declared twice.
var ErrDuplicateFunction = errors.New("duplicate function")

type signatureKey struct {
	module string
	class  string
	name   string
}

func (k signatureKey) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{k.module, k.class, k.name} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	return strings.Join(parts, ".")
}

// Signatures is a [routecheck.SignatureResolver] over declared signatures.
// Plain callables are keyed by module and name, methods by module, the class
// that defines them and name.
type Signatures struct {
	funcs map[signatureKey]routecheck.Function
}

// NewSignatures parses the declared functions.
func NewSignatures(specs []FunctionSpec) (*Signatures, error) {
	s := &Signatures{funcs: make(map[signatureKey]routecheck.Function, len(specs))}

	for i, spec := range specs {
		key := signatureKey{module: spec.Module, class: spec.Class, name: spec.Name}
		if _, ok := s.funcs[key]; ok {
			return nil, newFieldError("compile", fmt.Sprintf("functions[%d]", i), "compile",
				fmt.Errorf("%w: %s", ErrDuplicateFunction, key))
		}

		params := make([]routecheck.Parameter, len(spec.Params))
		for j, p := range spec.Params {
			annotation, err := routecheck.ParseAnnotation(p.Annotation)
			if err != nil {
				return nil, newFieldError("compile", fmt.Sprintf("functions[%d].params[%d].annotation", i, j), "compile", err)
			}
			variadic := p.VariadicKeywords || p.VariadicPositional
			params[j] = routecheck.Parameter{
				Name:                 p.Name,
				Required:             !p.Optional && !variadic && !p.Self,
				KeywordOnly:          p.KeywordOnly,
				Annotation:           annotation,
				IsSelf:               p.Self,
				IsVariadicKeywords:   p.VariadicKeywords,
				IsVariadicPositional: p.VariadicPositional,
			}
		}

		s.funcs[key] = routecheck.NewFunction(spec.Module, spec.Name, params...)
	}

	return s, nil
}

// Resolve implements [routecheck.SignatureResolver].
func (s *Signatures) Resolve(handler routecheck.Handler, owner *routecheck.Class) (routecheck.Function, error) {
	key := signatureKey{module: handler.Module, name: handler.Name}
	if owner != nil {
		definedOn := owner.DefinedOn(handler.Name)
		if definedOn == nil {
			return routecheck.Function{}, fmt.Errorf("%w: %s has no method %s", routecheck.ErrSignatureNotFound, owner.Name, handler.Name)
		}
		key.class = definedOn.Name
	}

	fn, ok := s.funcs[key]
	if !ok {
		return routecheck.Function{}, fmt.Errorf("%w: %s", routecheck.ErrSignatureNotFound, key)
	}

	return fn, nil
}

// parseHandler splits a dotted reference at its last dot.
func parseHandler(ref string) routecheck.Handler {
	i := strings.LastIndexByte(ref, '.')
	if i < 0 {
		return routecheck.Handler{Name: ref}
	}

	return routecheck.Handler{Module: ref[:i], Name: ref[i+1:]}
}
