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

package bind

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"runtime"
	"strconv"
	"sync"

	"rivaas.dev/routecheck"
)

// Option configures a [Resolver].
type Option func(*Resolver)

// WithPositionalName names positional parameters of type t.
//
// Defaults: context.Context is "ctx", *http.Request is "request" and
// http.ResponseWriter is "w". Other positional parameters are named "argN"
// after their index.
//
// Example:
//
//	bind.WithPositionalName(reflect.TypeFor[*gin.Context](), "c")
func WithPositionalName(t reflect.Type, name string) Option {
	return func(r *Resolver) {
		r.names[t] = name
	}
}

// Resolver is a [routecheck.SignatureResolver] over registered Go handlers.
// It is safe for concurrent use.
type Resolver struct {
	mu      sync.RWMutex
	names   map[reflect.Type]string
	funcs   map[routecheck.Handler]reflect.Value
	types   map[*routecheck.Class]reflect.Type
	classes map[reflect.Type]*routecheck.Class
}

// NewResolver returns an empty resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		names: map[reflect.Type]string{
			reflect.TypeFor[context.Context]():     "ctx",
			reflect.TypeFor[*http.Request]():       "request",
			reflect.TypeFor[http.ResponseWriter](): "w",
		},
		funcs:   make(map[routecheck.Handler]reflect.Value),
		types:   make(map[*routecheck.Class]reflect.Type),
		classes: make(map[reflect.Type]*routecheck.Class),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Func registers a handler function and returns the reference routes use to
// reach it.
func (r *Resolver) Func(fn any) (routecheck.Handler, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return routecheck.Handler{}, fmt.Errorf("%w: %T", ErrNotAFunc, fn)
	}

	h := routecheck.HandlerFromName(runtime.FuncForPC(v.Pointer()).Name())

	r.mu.Lock()
	r.funcs[h] = v
	r.mu.Unlock()

	return h, nil
}

// Class registers a handler type, given as a value or pointer, and returns
// the class describing it. Embedded types registered before become its bases.
func (r *Resolver) Class(v any) (*routecheck.Class, error) {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T", ErrNotAStruct, v)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if class, ok := r.classes[t]; ok {
		return class, nil
	}

	class := &routecheck.Class{Name: t.Name(), Module: t.PkgPath()}
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.Anonymous {
			continue
		}
		ft := field.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if base, ok := r.classes[ft]; ok {
			class.Bases = append(class.Bases, base)
		}
	}
	class.Methods = directMethods(t)

	r.classes[t] = class
	r.types[class] = t

	return class, nil
}

// Resolve implements [routecheck.SignatureResolver].
func (r *Resolver) Resolve(h routecheck.Handler, owner *routecheck.Class) (routecheck.Function, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if owner == nil {
		fn, ok := r.funcs[h]
		if !ok {
			return routecheck.Function{}, fmt.Errorf("%w: %s", routecheck.ErrSignatureNotFound, h)
		}
		return routecheck.NewFunction(h.Module, h.Name, r.params(fn.Type(), false)...), nil
	}

	t, ok := r.types[owner]
	if !ok {
		return routecheck.Function{}, fmt.Errorf("%w: class %s", routecheck.ErrSignatureNotFound, owner.Name)
	}
	m, ok := methodBySnakeName(reflect.PointerTo(t), h.Name)
	if !ok {
		return routecheck.Function{}, fmt.Errorf("%w: %s.%s", ErrMethodNotFound, owner.Name, h.Name)
	}

	return routecheck.NewFunction(h.Module, h.Name, r.params(m.Type, true)...), nil
}

// params describes the parameters of fn. With method set, the first input
// is the receiver.
func (r *Resolver) params(fn reflect.Type, method bool) []routecheck.Parameter {
	n := fn.NumIn()
	out := make([]routecheck.Parameter, 0, n)

	var bundle *paramsInfo
	if n > 0 && !fn.IsVariadic() && (!method || n > 1) {
		bundle = getParamsInfo(fn.In(n - 1))
		if bundle != nil {
			n--
		}
	}

	for i := range n {
		in := fn.In(i)
		switch {
		case method && i == 0:
			out = append(out, routecheck.Parameter{Name: "recv", Required: true, IsSelf: true, Annotation: TypeAnnotation(in)})
		case fn.IsVariadic() && i == n-1:
			out = append(out, routecheck.Parameter{Name: "args", IsVariadicPositional: true, Annotation: TypeAnnotation(in.Elem())})
		default:
			out = append(out, routecheck.Parameter{Name: r.positionalName(in, i), Required: true, Annotation: TypeAnnotation(in)})
		}
	}

	if bundle != nil {
		out = append(out, bundle.params...)
	}

	return out
}

func (r *Resolver) positionalName(t reflect.Type, i int) string {
	if name, ok := r.names[t]; ok {
		return name
	}

	return "arg" + strconv.Itoa(i)
}

// TypeAnnotation returns the annotation of a Go type. Pointers are followed,
// builtin integer and float kinds collapse to int and float64, and the empty
// interface is Any.
func TypeAnnotation(t reflect.Type) routecheck.Annotation {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() != "" {
		return routecheck.Type(t.String())
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return routecheck.Type("int")
	case reflect.Float32, reflect.Float64:
		return routecheck.Type("float64")
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return routecheck.Any
		}
	}

	return routecheck.Type(t.String())
}

// directMethods returns the snake case names of the methods declared on t
// itself, leaving out methods promoted from embedded fields.
func directMethods(t reflect.Type) []string {
	promoted := make(map[string]bool)
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.Anonymous {
			continue
		}
		ft := field.Type
		if ft.Kind() != reflect.Pointer && ft.Kind() != reflect.Interface {
			ft = reflect.PointerTo(ft)
		}
		for j := range ft.NumMethod() {
			promoted[ft.Method(j).Name] = true
		}
	}

	var out []string
	pt := reflect.PointerTo(t)
	for i := range pt.NumMethod() {
		m := pt.Method(i)
		if promoted[m.Name] && isWrapper(m) {
			continue
		}
		out = append(out, SnakeName(m.Name))
	}

	return out
}

// isWrapper reports whether m is a compiler generated forwarder to a method
// of an embedded field.
func isWrapper(m reflect.Method) bool {
	fn := runtime.FuncForPC(m.Func.Pointer())
	if fn == nil {
		return true
	}
	file, _ := fn.FileLine(fn.Entry())

	return file == "<autogenerated>"
}
