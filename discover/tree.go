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

	"rivaas.dev/routecheck"
)

// Group is a node of a declared route tree. Its template, if any, becomes
// one segment of the chain of every route beneath it.
//
// Example:
//
//	root := discover.NewGroup("")
//	admin := root.Group("/admin/{org}").SetNamespace("admin").SetDefaults("section")
//	admin.Handle("/users/{id:int}", handler).SetName("user")
//	// admin:user -> [/admin/{org} (section)] [/users/{id:int}]
type Group struct {
	template  string
	regex     bool
	namespace string
	module    string
	defaults  []string
	children  []child
}

// child is one entry of a group in declaration order: either a route or a
// nested group.
type child struct {
	route *Route
	group *Group
}

// NewGroup creates a root group. An empty template adds no segment.
func NewGroup(template string) *Group {
	return &Group{template: template}
}

// NewRegexGroup creates a root group whose template is a regular expression.
func NewRegexGroup(expr string) *Group {
	return &Group{template: expr, regex: true}
}

// Group creates a nested group under g.
func (g *Group) Group(template string) *Group {
	sub := &Group{template: template, module: g.module}
	g.children = append(g.children, child{group: sub})

	return sub
}

// RegexGroup creates a nested group whose template is a regular expression.
func (g *Group) RegexGroup(expr string) *Group {
	sub := g.Group(expr)
	sub.regex = true

	return sub
}

// SetNamespace sets the namespace of the group. Namespaces of nested groups
// are joined with ':'.
func (g *Group) SetNamespace(namespace string) *Group {
	g.namespace = namespace
	return g
}

// SetModule sets the module reported for the group and, unless overridden,
// for everything declared beneath it afterwards.
func (g *Group) SetModule(module string) *Group {
	g.module = module
	return g
}

// SetDefaults adds names bound to every handler beneath the group regardless
// of the path.
func (g *Group) SetDefaults(names ...string) *Group {
	g.defaults = append(g.defaults, names...)
	return g
}

// Handle declares a route under g that dispatches to a plain callable.
func (g *Group) Handle(template string, handler routecheck.Handler) *Route {
	r := &Route{template: template, handler: handler, module: g.module}
	g.children = append(g.children, child{route: r})

	return r
}

// HandleRegex declares a route whose template is a regular expression.
func (g *Group) HandleRegex(expr string, handler routecheck.Handler) *Route {
	r := g.Handle(expr, handler)
	r.regex = true

	return r
}

// HandleClass declares a route that dispatches to a class-style handler.
func (g *Group) HandleClass(template string, class *routecheck.Class) *Route {
	return g.Handle(template, routecheck.Handler{Module: class.Module, Name: class.Name}).SetClass(class)
}

// Route is a leaf of a declared route tree.
type Route struct {
	template string
	regex    bool
	name     string
	module   string
	handler  routecheck.Handler
	class    *routecheck.Class
	defaults []string
}

// SetName sets the route name.
func (r *Route) SetName(name string) *Route {
	r.name = name
	return r
}

// SetModule sets the module reported for the route.
func (r *Route) SetModule(module string) *Route {
	r.module = module
	return r
}

// SetClass routes to a class-style handler.
func (r *Route) SetClass(class *routecheck.Class) *Route {
	r.class = class
	return r
}

// SetDefaults adds names bound to the handler regardless of the path.
func (r *Route) SetDefaults(names ...string) *Route {
	r.defaults = append(r.defaults, names...)
	return r
}

// RawRoutes flattens the tree into raw routes, depth first and in
// declaration order: a nested group contributes its routes at the point it
// was declared among its sibling routes.
func (g *Group) RawRoutes() ([]routecheck.RawRoute, error) {
	var out []routecheck.RawRoute
	if err := g.walk(nil, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (g *Group) walk(chain []routecheck.RoutePart, namespaces []string, out *[]routecheck.RawRoute) error {
	if g.namespace != "" {
		namespaces = append(namespaces[:len(namespaces):len(namespaces)], g.namespace)
	}
	namespace := strings.Join(namespaces, ":")

	if g.template != "" || len(g.defaults) > 0 {
		part, err := parsePart(g.template, g.regex)
		if err != nil {
			return err
		}
		part.Defaults = append(part.Defaults, g.defaults...)
		part.Where.Module = g.module
		part.Where.Namespace = namespace
		chain = append(chain[:len(chain):len(chain)], part)
	}

	for _, c := range g.children {
		if c.group != nil {
			if err := c.group.walk(chain, namespaces, out); err != nil {
				return err
			}
			continue
		}

		r := c.route
		part, err := parsePart(r.template, r.regex)
		if err != nil {
			return fmt.Errorf("route %s: %w", r.handler, err)
		}
		part.Defaults = append(part.Defaults, r.defaults...)
		part.Where.Name = r.name
		part.Where.Module = r.module
		part.Where.Namespace = namespace

		parts := make([]routecheck.RoutePart, 0, len(chain)+1)
		parts = append(parts, chain...)
		parts = append(parts, part)

		*out = append(*out, routecheck.RawRoute{
			Parts:   parts,
			Handler: r.handler,
			Class:   r.class,
			Where:   part.Where,
		})
	}

	return nil
}

func parsePart(template string, regex bool) (routecheck.RoutePart, error) {
	if regex {
		return FromRegex(template)
	}

	return ParseTemplate(template)
}
