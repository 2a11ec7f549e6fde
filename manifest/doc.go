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

// Package manifest loads route manifests and compiles them into checker runs.
//
// A manifest declares the classes and function signatures of an application,
// its route tree and the checker settings. Manifests can be written in YAML,
// TOML or JSON; several manifests are merged in order, later ones overriding
// scalar settings and appending to lists.
//
// Loading goes through four steps, each reported as an [*Error] naming the
// step that failed:
//
//   - every source is decoded with the codec chosen by its extension,
//   - the merged values are validated against the embedded JSON schema,
//   - the values are bound to a [Document] with mapstructure,
//   - the document is validated with go-playground/validator.
//
// [Compile] turns a Document into a [Plan]: the raw routes, the view maker,
// the scenarios and the authentication context.
//
// Example:
//
//	doc, err := manifest.Load(ctx, "routes.yaml", "local.toml")
//	if err != nil {
//	    return err
//	}
//	plan, err := manifest.Compile(doc)
//	if err != nil {
//	    return err
//	}
//	err = plan.Check(ctx, routecheck.WithLogger(logger))
//	var found *routecheck.FoundInvalidPatterns
//	if errors.As(err, &found) {
//	    fmt.Println(report.Text(found.Errors))
//	}
package manifest
