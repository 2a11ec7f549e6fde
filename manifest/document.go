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

// Document is a loaded manifest.
type Document struct {
	Settings  Settings       `manifest:"settings"`
	Classes   []ClassSpec    `manifest:"classes" validate:"dive"`
	Functions []FunctionSpec `manifest:"functions" validate:"dive"`
	Routes    []RouteSpec    `manifest:"routes" validate:"dive"`
}

// Settings configures how routes are turned into patterns and which
// scenarios run.
type Settings struct {
	// BaseHandler is the class class-style handlers must derive from.
	// Defaults to "View".
	BaseHandler string `manifest:"base_handler"`

	// Request is the positional context of handlers. Defaults to a single
	// "request" parameter annotated HttpRequest.
	Request []PositionalSpec `manifest:"request" validate:"dive"`

	// Lifecycle defaults to setup then dispatch.
	Lifecycle []string `manifest:"lifecycle" validate:"dive,required"`

	// Fallback defaults to http_method_not_allowed. "-" disables it.
	Fallback string `manifest:"fallback"`

	// Hooks defaults to get_redirect_url on RedirectView subclasses.
	Hooks []HookSpec `manifest:"hooks" validate:"dive"`

	FrameworkModules  []string         `manifest:"framework_modules"`
	ExcludeNamespaces []string         `manifest:"exclude_namespaces"`
	Auth              AuthSpec         `manifest:"auth"`
	Scenarios         ScenarioSettings `manifest:"scenarios"`
}

// PositionalSpec is one positional argument passed by the framework.
type PositionalSpec struct {
	Name       string `manifest:"name" validate:"required"`
	Annotation string `manifest:"annotation"`
}

// HookSpec adds Method to the relevant functions of classes deriving from Base.
type HookSpec struct {
	Base       string           `manifest:"base" validate:"required"`
	Method     string           `manifest:"method" validate:"required"`
	Positional []PositionalSpec `manifest:"positional" validate:"dive"`
}

// AuthSpec describes the authenticated user.
type AuthSpec struct {
	UserType string `manifest:"user_type"`
}

// Toggle is the part of the settings shared by every scenario.
// Scenarios are enabled unless Enabled is explicitly false.
type Toggle struct {
	Enabled   *bool `manifest:"enabled"`
	ExitEarly bool  `manifest:"exit_early"`
}

// On reports whether the scenario runs.
func (t Toggle) On() bool {
	return t.Enabled == nil || *t.Enabled
}

// ScenarioSettings configures each scenario.
type ScenarioSettings struct {
	RequestAnnotation RequestAnnotationSettings `manifest:"request_annotation"`
	PositionalArgs    PositionalArgsSettings    `manifest:"positional_args"`
	RequiredArgs      Toggle                    `manifest:"required_args"`
	AcceptsArgs       Toggle                    `manifest:"accepts_args"`
	Annotations       Toggle                    `manifest:"annotations"`
	KwargsAnnotated   KwargsAnnotatedSettings   `manifest:"kwargs_annotated"`
}

// PositionalArgsSettings configures the positional parameter check.
type PositionalArgsSettings struct {
	Toggle             `manifest:",squash"`
	DisallowVarArgs    bool `manifest:"disallow_var_args"`
	EnforceKeywordArgs bool `manifest:"enforce_keyword_args"`
}

// KwargsAnnotatedSettings configures the catch-all keyword parameter check.
type KwargsAnnotatedSettings struct {
	Toggle       `manifest:",squash"`
	AllowsObject bool `manifest:"allows_object"`
	AllowsAny    bool `manifest:"allows_any"`
}

// RequestAnnotationSettings configures the request attribute check.
type RequestAnnotationSettings struct {
	Toggle     `manifest:",squash"`
	Attribute  string   `manifest:"attribute"`
	Acceptable []string `manifest:"acceptable"`
	Containers []string `manifest:"containers"`
	Hints      []string `manifest:"hints"`
}

// ClassSpec declares a class-style handler or one of its bases.
type ClassSpec struct {
	Name            string            `manifest:"name" validate:"required"`
	Module          string            `manifest:"module"`
	Bases           []string          `manifest:"bases"`
	Methods         []string          `manifest:"methods"`
	HTTPMethodNames []string          `manifest:"http_method_names"`
	Annotations     map[string]string `manifest:"annotations"`
}

// FunctionSpec declares the signature of a callable. Methods name the class
// that defines them.
type FunctionSpec struct {
	Module string      `manifest:"module"`
	Class  string      `manifest:"class"`
	Name   string      `manifest:"name" validate:"required"`
	Params []ParamSpec `manifest:"params" validate:"dive"`
}

// ParamSpec declares one parameter. Parameters are required unless Optional
// is set.
type ParamSpec struct {
	Name               string `manifest:"name" validate:"required"`
	Annotation         string `manifest:"annotation"`
	Optional           bool   `manifest:"optional"`
	KeywordOnly        bool   `manifest:"keyword_only"`
	Self               bool   `manifest:"self"`
	VariadicPositional bool   `manifest:"variadic_positional" validate:"excluded_with=VariadicKeywords"`
	VariadicKeywords   bool   `manifest:"variadic_keywords"`
}

// RouteSpec is a node of the route tree. Entries with nested routes are
// groups; the others are leaves and name either a handler or a class.
type RouteSpec struct {
	Template  string      `manifest:"template"`
	Regex     bool        `manifest:"regex"`
	Name      string      `manifest:"name"`
	Module    string      `manifest:"module"`
	Namespace string      `manifest:"namespace"`
	Handler   string      `manifest:"handler" validate:"excluded_with=Class"`
	Class     string      `manifest:"class"`
	Defaults  []string    `manifest:"defaults"`
	Routes    []RouteSpec `manifest:"routes" validate:"dive"`
}

func (r RouteSpec) isGroup() bool {
	return len(r.Routes) > 0
}
