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

// Package discover produces the raw routes checked by routecheck.
//
// Routes can come from several places:
//   - Templates: "/users/:id", "/files/*path", "/posts/{slug}", "/days/{day:date}"
//   - Regular expressions with named groups: `^users/(?P<id>\d+)/$`
//   - Declared trees of nested groups with namespaces and default values
//   - Route listings of running routers (rivaas-style [Info], gin, echo)
//
// # Converters
//
// A converter changes the type of a captured value before the handler sees
// it. The captured annotation follows the converter:
//
//	int              -> int
//	float            -> float64
//	uuid             -> uuid.UUID
//	date, datetime   -> time.Time
//	anything else    -> string
//
// # Trees
//
// Nested groups are flattened into route chains, outermost segment first:
//
//	root := discover.NewGroup("")
//	api := root.Group("/api/{version}").SetNamespace("api")
//	api.Handle("/users/{id:int}", routecheck.Handler{Module: "app/users", Name: "show"}).SetName("user")
//
//	routes, err := root.RawRoutes()
package discover
