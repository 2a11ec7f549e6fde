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
	"strings"

	"rivaas.dev/routecheck"
)

// ParseTemplate parses a path template into a route part.
//
// Supported segments:
//
//	:name          value up to the next slash
//	*name          rest of the path (path converter)
//	*              rest of the path, unnamed
//	{name}         value up to the next slash
//	{name:conv}    value converted with conv, see [ParseConverter]
//
// Brace captures may share a segment with static text ("{year}-{month}").
// An unnamed wildcard counts as a capture group without a name.
func ParseTemplate(template string) (routecheck.RoutePart, error) {
	part := routecheck.RoutePart{
		Captured: make(map[string]routecheck.CapturedArg),
		Where:    routecheck.Where{Template: template},
	}

	add := func(name string, kind ConverterKind) error {
		if name == "" {
			return fmt.Errorf("%w: empty capture name in %q", ErrInvalidTemplate, template)
		}
		if _, dup := part.Captured[name]; dup {
			return fmt.Errorf("%w: %q in %q", ErrDuplicateCapture, name, template)
		}
		part.Captured[name] = kind.Captured()
		part.Groups++

		return nil
	}

	for segment := range strings.SplitSeq(strings.Trim(template, "/"), "/") {
		switch {
		case segment == "":
			continue
		case segment == "*":
			part.Groups++
		case segment[0] == ':':
			if err := add(segment[1:], ConverterNone); err != nil {
				return routecheck.RoutePart{}, err
			}
		case segment[0] == '*':
			if err := add(segment[1:], ConverterPath); err != nil {
				return routecheck.RoutePart{}, err
			}
		case strings.ContainsAny(segment, "{}"):
			if err := parseBraces(segment, template, add); err != nil {
				return routecheck.RoutePart{}, err
			}
		}
	}

	return part, nil
}

func parseBraces(segment, template string, add func(string, ConverterKind) error) error {
	rest := segment
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.IndexByte(rest, '}') >= 0 {
				return fmt.Errorf("%w: unbalanced '}' in %q", ErrInvalidTemplate, template)
			}
			return nil
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return fmt.Errorf("%w: unterminated '{' in %q", ErrInvalidTemplate, template)
		}

		name, conv, _ := strings.Cut(rest[open+1:open+end], ":")
		kind, err := ParseConverter(conv)
		if err != nil {
			return fmt.Errorf("%w in %q", err, template)
		}
		if err := add(name, kind); err != nil {
			return err
		}
		rest = rest[open+end+1:]
	}
}

// FromRegex builds a route part from a regular expression template. Every
// named group is a captured string; unnamed groups only count as groups.
func FromRegex(expr string) (routecheck.RoutePart, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return routecheck.RoutePart{}, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}

	part := routecheck.RoutePart{
		Groups:   re.NumSubexp(),
		Captured: make(map[string]routecheck.CapturedArg),
		Where:    routecheck.Where{Template: expr},
	}
	for _, name := range re.SubexpNames()[1:] {
		if name == "" {
			continue
		}
		if _, dup := part.Captured[name]; dup {
			return routecheck.RoutePart{}, fmt.Errorf("%w: %q in %q", ErrDuplicateCapture, name, expr)
		}
		part.Captured[name] = ConverterNone.Captured()
	}

	return part, nil
}
