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
	"maps"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"rivaas.dev/routecheck"
)

const (
	// TagPath names the struct tag of path parameters.
	TagPath = "path"

	// TagValidate names the struct tag holding validation rules.
	TagValidate = "validate"

	remainOption = "remain"
)

var (
	// Copy-on-write cache of expanded parameter structs.
	paramsCachePtr atomic.Pointer[map[reflect.Type]*paramsInfo]
	paramsCacheMu  sync.Mutex
)

func init() {
	m := make(map[reflect.Type]*paramsInfo)
	paramsCachePtr.Store(&m)
}

// paramsInfo is a parameters struct expanded into keyword-only parameters.
type paramsInfo struct {
	params []routecheck.Parameter
}

// getParamsInfo returns the expansion of a parameters struct, or nil when typ
// has no field tagged with TagPath. Safe for concurrent use.
func getParamsInfo(typ reflect.Type) *paramsInfo {
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}

	m := paramsCachePtr.Load()
	if info, ok := (*m)[typ]; ok {
		return info
	}

	paramsCacheMu.Lock()
	defer paramsCacheMu.Unlock()

	m = paramsCachePtr.Load()
	if info, ok := (*m)[typ]; ok {
		return info
	}

	info := parseParams(typ)

	next := make(map[reflect.Type]*paramsInfo, len(*m)+1)
	maps.Copy(next, *m)
	next[typ] = info
	paramsCachePtr.Store(&next)

	return info
}

// parseParams expands the tagged fields of typ, embedded structs included.
func parseParams(typ reflect.Type) *paramsInfo {
	var params []routecheck.Parameter
	tagged := false

	var walk func(reflect.Type)
	walk = func(t reflect.Type) {
		for i := range t.NumField() {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}

			fieldType := field.Type
			if field.Anonymous {
				if fieldType.Kind() == reflect.Pointer {
					fieldType = fieldType.Elem()
				}
				if fieldType.Kind() == reflect.Struct {
					walk(fieldType)
					continue
				}
			}

			tag, ok := field.Tag.Lookup(TagPath)
			if !ok || tag == "-" {
				continue
			}
			tagged = true

			name, opts, _ := strings.Cut(tag, ",")
			if opts == remainOption {
				params = append(params, routecheck.Parameter{
					Name:               strings.ToLower(field.Name),
					KeywordOnly:        true,
					Annotation:         remainAnnotation(fieldType),
					IsVariadicKeywords: true,
				})
				continue
			}
			if name == "" {
				name = field.Name
			}

			params = append(params, routecheck.Parameter{
				Name:        name,
				Required:    fieldType.Kind() != reflect.Pointer && hasRule(field.Tag.Get(TagValidate), "required"),
				KeywordOnly: true,
				Annotation:  TypeAnnotation(fieldType),
			})
		}
	}
	walk(typ)

	if !tagged {
		return nil
	}

	return &paramsInfo{params: params}
}

func hasRule(rules, rule string) bool {
	for r := range strings.SplitSeq(rules, ",") {
		if strings.TrimSpace(r) == rule {
			return true
		}
	}

	return false
}

// remainAnnotation annotates a catch-all field. A map of any accepts
// anything and is annotated object; other maps are annotated with their
// element type.
func remainAnnotation(t reflect.Type) routecheck.Annotation {
	if t.Kind() != reflect.Map {
		return TypeAnnotation(t)
	}
	if t.Elem().Kind() == reflect.Interface && t.Elem().NumMethod() == 0 {
		return routecheck.Object
	}

	return TypeAnnotation(t.Elem())
}
