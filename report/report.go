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
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"rivaas.dev/routecheck"
)

// ErrUnknownFormat indicates that no formatter has the requested name.
var ErrUnknownFormat = errors.New("unknown report format")

// Formatter writes a report of the violations in errs to w.
type Formatter interface {
	Format(w io.Writer, errs *routecheck.ErrorContainer) error
}

// FormatterFunc adapts a function to [Formatter].
type FormatterFunc func(w io.Writer, errs *routecheck.ErrorContainer) error

// Format implements [Formatter].
func (f FormatterFunc) Format(w io.Writer, errs *routecheck.ErrorContainer) error {
	return f(w, errs)
}

// Formats lists the names accepted by [New].
var Formats = []string{"text", "styled", "yaml"}

// New returns the formatter named name.
func New(name string) (Formatter, error) {
	switch name {
	case "text":
		return FormatterFunc(writeText), nil
	case "styled":
		return &Styled{}, nil
	case "yaml":
		return FormatterFunc(WriteYAML), nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, name, strings.Join(Formats, ", "))
	}
}

// Text renders every distinct violation, most repeated first, separated by
// a blank line.
func Text(errs *routecheck.ErrorContainer) string {
	return strings.Join(errs.ByMostRepeated(), "\n\n")
}

func writeText(w io.Writer, errs *routecheck.ErrorContainer) error {
	if errs.Empty() {
		return nil
	}
	_, err := io.WriteString(w, Text(errs)+"\n")

	return err
}

// Entry is one distinct violation.
type Entry struct {
	Kind    string `yaml:"kind"`
	Count   int    `yaml:"count"`
	Message string `yaml:"message"`
}

// Entries returns the distinct violations in [routecheck.ErrorContainer.ByMostRepeated] order.
func Entries(errs *routecheck.ErrorContainer) []Entry {
	kinds := make(map[string]string, errs.Len())
	for v := range errs.All() {
		kinds[v.Error()] = v.Kind()
	}

	messages := errs.ByMostRepeated()
	entries := make([]Entry, len(messages))
	for i, msg := range messages {
		entries[i] = Entry{Kind: kinds[msg], Count: errs.Count(msg), Message: msg}
	}

	return entries
}

// KindSummary counts the violations of one kind.
type KindSummary struct {
	Kind     string `yaml:"kind"`
	Distinct int    `yaml:"distinct"`
	Total    int    `yaml:"total"`
}

// Summarize groups the violations by kind, sorted by kind name.
func Summarize(errs *routecheck.ErrorContainer) []KindSummary {
	byKind := make(map[string]*KindSummary)
	for v := range errs.All() {
		s, ok := byKind[v.Kind()]
		if !ok {
			s = &KindSummary{Kind: v.Kind()}
			byKind[v.Kind()] = s
		}
		s.Distinct++
		s.Total += errs.Count(v.Error())
	}

	out := make([]KindSummary, 0, len(byKind))
	for _, s := range byKind {
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b KindSummary) int { return strings.Compare(a.Kind, b.Kind) })

	return out
}
