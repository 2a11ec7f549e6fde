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
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/labstack/echo/v4"

	"rivaas.dev/routecheck"
)

// Info describes a route registered with a running router, as reported by
// its introspection.
type Info struct {
	Method      string            // HTTP method (GET, POST, etc.)
	Path        string            // Route path pattern (/users/:id)
	HandlerName string            // Fully qualified handler function name
	Name        string            // Route name, empty if unnamed
	Constraints map[string]string // Parameter constraints (param -> regex pattern)
	Version     string            // API version, reported as the namespace
}

// FromInfos converts router introspection records into raw routes, one per
// record. Constraint patterns refine the annotation of the parameters they
// apply to, see [ConverterFromPattern].
func FromInfos(infos []Info) ([]routecheck.RawRoute, error) {
	out := make([]routecheck.RawRoute, 0, len(infos))
	for _, info := range infos {
		part, err := ParseTemplate(info.Path)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", info.Method, info.Path, err)
		}

		for param, pattern := range info.Constraints {
			if _, ok := part.Captured[param]; ok {
				part.Captured[param] = ConverterFromPattern(pattern).Captured()
			}
		}

		handler := routecheck.HandlerFromName(info.HandlerName)
		part.Where.Name = info.Name
		part.Where.Module = handler.Module
		part.Where.Namespace = info.Version

		out = append(out, routecheck.RawRoute{
			Parts:   []routecheck.RoutePart{part},
			Handler: handler,
			Where:   part.Where,
		})
	}

	return out, nil
}

// FromGin converts the route table of a gin engine.
//
// Example:
//
//	routes, err := discover.FromGin(engine.Routes())
func FromGin(routes gin.RoutesInfo) ([]routecheck.RawRoute, error) {
	infos := make([]Info, len(routes))
	for i, r := range routes {
		infos[i] = Info{Method: r.Method, Path: r.Path, HandlerName: r.Handler}
	}

	return FromInfos(infos)
}

// FromEcho converts the route table of an echo instance.
//
// Echo stores the qualified handler function name in [echo.Route.Name]
// unless the route was named explicitly. An explicit name becomes the
// route's Where.Name and its handler is looked up in handlers, which also
// overrides the handler of any other route by name. A named route missing
// from handlers fails with [ErrUnknownHandler].
//
// Example:
//
//	routes, err := discover.FromEcho(e.Routes(), map[string]routecheck.Handler{
//	    "user-show": {Module: "example.com/app/users", Name: "Show"},
//	})
func FromEcho(routes []*echo.Route, handlers map[string]routecheck.Handler) ([]routecheck.RawRoute, error) {
	infos := make([]Info, 0, len(routes))
	named := make(map[int]routecheck.Handler)
	for _, r := range routes {
		if r == nil {
			continue
		}

		info := Info{Method: r.Method, Path: r.Path, HandlerName: r.Name}
		if h, ok := handlers[r.Name]; ok {
			named[len(infos)] = h
			info.Name = r.Name
		} else if !strings.Contains(r.Name, ".") {
			return nil, fmt.Errorf("%s %s: %w: %q", r.Method, r.Path, ErrUnknownHandler, r.Name)
		}
		infos = append(infos, info)
	}

	out, err := FromInfos(infos)
	if err != nil {
		return nil, err
	}
	for i, h := range named {
		out[i].Handler = h
		out[i].Parts[0].Where.Module = h.Module
		out[i].Where = out[i].Parts[0].Where
	}

	return out, nil
}
