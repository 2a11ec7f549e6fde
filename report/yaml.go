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

package report

import (
	"io"

	"gopkg.in/yaml.v3"

	"rivaas.dev/routecheck"
)

// Document is the YAML rendering of a run.
type Document struct {
	Distinct   int           `yaml:"distinct"`
	Total      int           `yaml:"total"`
	Kinds      []KindSummary `yaml:"kinds,omitempty"`
	Violations []Entry       `yaml:"violations,omitempty"`
}

// NewDocument summarizes errs.
func NewDocument(errs *routecheck.ErrorContainer) Document {
	return Document{
		Distinct:   errs.Len(),
		Total:      errs.Total(),
		Kinds:      Summarize(errs),
		Violations: Entries(errs),
	}
}

// WriteYAML writes the [Document] of errs to w.
func WriteYAML(w io.Writer, errs *routecheck.ErrorContainer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(errs)); err != nil {
		return err
	}

	return enc.Close()
}
