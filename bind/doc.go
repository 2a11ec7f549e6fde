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

// Package bind resolves routecheck signatures from Go handler functions and
// handler types by reflection.
//
// Go has no keyword arguments, so handlers declare the values they take from
// the route in a trailing parameters struct, tagged the way request binders
// expect path parameters:
//
//	type ShowParams struct {
//	    ID     int               `path:"id" validate:"required"`
//	    Format *string           `path:"format"`
//	    Extra  map[string]string `path:",remain"`
//	}
//
//	func Show(ctx context.Context, r *http.Request, p ShowParams) error
//
// The struct is expanded into one keyword-only parameter per tagged field.
// A field is required when its validate tag says so and it is not a pointer.
// A map field tagged ",remain" receives every other captured value.
//
// Leading parameters are the positional context. Go does not keep parameter
// names, so they are named after their type (see [WithPositionalName]).
//
// Handler types play the role of classes. Their exported methods are the
// class methods, in snake case (Get -> get, HTTPMethodNotAllowed ->
// http_method_not_allowed), and embedded registered types are their bases.
//
//	r := bind.NewResolver()
//	show, _ := r.Func(Show)
//	view, _ := r.Class(&BaseView{})
//	users, _ := r.Class(&UserView{})
package bind
