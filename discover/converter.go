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

package discover

import (
	"fmt"
	"regexp"

	"rivaas.dev/routecheck"
)

// ConverterKind is the converter applied to a captured path value.
type ConverterKind uint8

const (
	ConverterNone ConverterKind = iota
	ConverterInt
	ConverterFloat
	ConverterUUID
	ConverterRegex
	ConverterEnum
	ConverterDate     // RFC3339 full-date
	ConverterDateTime // RFC3339 date-time
	ConverterSlug
	ConverterPath // Rest of the path, slashes included
)

var converterNames = map[string]ConverterKind{
	"":         ConverterNone,
	"str":      ConverterNone,
	"string":   ConverterNone,
	"int":      ConverterInt,
	"float":    ConverterFloat,
	"uuid":     ConverterUUID,
	"regex":    ConverterRegex,
	"enum":     ConverterEnum,
	"date":     ConverterDate,
	"datetime": ConverterDateTime,
	"slug":     ConverterSlug,
	"path":     ConverterPath,
}

// ParseConverter returns the converter registered under name.
func ParseConverter(name string) (ConverterKind, error) {
	kind, ok := converterNames[name]
	if !ok {
		return ConverterNone, fmt.Errorf("%w: %q", ErrUnknownConverter, name)
	}

	return kind, nil
}

// String returns the converter name, empty for ConverterNone.
func (k ConverterKind) String() string {
	switch k {
	case ConverterInt:
		return "int"
	case ConverterFloat:
		return "float"
	case ConverterUUID:
		return "uuid"
	case ConverterRegex:
		return "regex"
	case ConverterEnum:
		return "enum"
	case ConverterDate:
		return "date"
	case ConverterDateTime:
		return "datetime"
	case ConverterSlug:
		return "slug"
	case ConverterPath:
		return "path"
	default:
		return ""
	}
}

// Annotation returns the type handlers receive for a value captured with k.
func (k ConverterKind) Annotation() routecheck.Annotation {
	switch k {
	case ConverterInt:
		return routecheck.Type("int")
	case ConverterFloat:
		return routecheck.Type("float64")
	case ConverterUUID:
		return routecheck.Type("uuid.UUID")
	case ConverterDate, ConverterDateTime:
		return routecheck.Type("time.Time")
	default:
		return routecheck.Type("string")
	}
}

// Captured returns the captured argument produced by k.
func (k ConverterKind) Captured() routecheck.CapturedArg {
	return routecheck.CapturedArg{Annotation: k.Annotation(), Converter: k.String()}
}

// Patterns the rivaas router compiles its typed constraints to.
var constraintPatterns = []struct {
	kind    ConverterKind
	pattern string
}{
	{ConverterInt, `\d+`},
	{ConverterFloat, `-?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`},
	{ConverterUUID, `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-5][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}`},
	{ConverterDate, `\d{4}-\d{2}-\d{2}`},
	{ConverterDateTime, `\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})`},
}

var enumPattern = regexp.MustCompile(`^\((?:[^()|]+\|)*[^()|]+\)$`)

// ConverterFromPattern recognizes the converter behind a constraint regular
// expression as reported by router introspection. Anchors are ignored.
// Unrecognized expressions are regex converters.
func ConverterFromPattern(pattern string) ConverterKind {
	trimmed := pattern
	if len(trimmed) > 0 && trimmed[0] == '^' {
		trimmed = trimmed[1:]
	}
	if n := len(trimmed); n > 0 && trimmed[n-1] == '$' {
		trimmed = trimmed[:n-1]
	}

	for _, c := range constraintPatterns {
		if trimmed == c.pattern {
			return c.kind
		}
	}
	if enumPattern.MatchString(trimmed) {
		return ConverterEnum
	}

	return ConverterRegex
}
