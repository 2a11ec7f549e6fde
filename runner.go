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

package routecheck

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
)

// Runner sequences scenarios over a fixed set of patterns.
//
// Every scenario runs a full sweep over every pattern before anything else
// happens; a scenario marked to exit early only stops the run between sweeps,
// never in the middle of one.
type Runner struct {
	patterns []Pattern
	excluder RouteExcluder
	logger   *slog.Logger
	obs      observer
}

// NewRunner builds a Pattern for every raw route not excluded by
// [WithExcluder], in order.
//
// A maker error that is a [Violation] rejects that route and construction
// carries on; when any route was rejected the result is a
// [*FoundInvalidPatterns] with every rejection. Any other maker error stops
// construction immediately and is returned wrapped.
func NewRunner(routes iter.Seq[RawRoute], maker PatternMaker, opts ...Option) (*Runner, error) {
	r := &Runner{
		logger: noopLogger,
		obs:    newObserver(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if err := r.obs.init(); err != nil {
		return nil, err
	}

	errs := NewErrorContainer()
	for raw := range routes {
		if r.excluder != nil && r.excluder(raw) {
			continue
		}

		pattern, err := maker(raw)
		if err != nil {
			var v Violation
			if errors.As(err, &v) {
				errs.Add(v)
				continue
			}
			return nil, fmt.Errorf("make pattern for %s: %w", raw.Handler, err)
		}
		r.patterns = append(r.patterns, pattern)
	}

	if !errs.Empty() {
		r.logger.Warn("invalid routes found", "distinct", errs.Len(), "total", errs.Total())
		return nil, &FoundInvalidPatterns{Errors: errs}
	}

	r.logger.Debug("patterns built", "patterns", len(r.patterns))

	return r, nil
}

// Patterns returns the patterns the runner checks.
func (r *Runner) Patterns() []Pattern {
	return r.patterns
}

// Run runs every pattern scenario over every pattern, then every function
// scenario over every relevant function of every pattern, skipping what the
// patterns exclude.
//
// After each sweep, a scenario marked to exit early stops the run when any
// violation has been found so far; the remaining scenarios, function
// scenarios included, do not run. The returned error is a
// [*FoundInvalidPatterns] holding every violation found, or nil.
//
// ctx is only used for tracing; the run is not interruptible.
func (r *Runner) Run(ctx context.Context, auth Auth, patternScenarios []PatternScenario, functionScenarios []FunctionScenario) error {
	errs := NewErrorContainer()

	for _, scenario := range patternScenarios {
		r.obs.sweep(ctx, r.logger, stagePattern, scenario, len(r.patterns), errs, func() {
			for _, p := range r.patterns {
				if p.Exclude(auth) {
					continue
				}
				scenario.Run(errs, auth, p)
			}
		})

		if scenario.ExitEarly() && !errs.Empty() {
			return r.exitEarly(scenario, errs)
		}
	}

	for _, scenario := range functionScenarios {
		r.obs.sweep(ctx, r.logger, stageFunction, scenario, len(r.patterns), errs, func() {
			for _, p := range r.patterns {
				if p.Exclude(auth) {
					continue
				}
				for fn := range p.RelevantFunctions() {
					if p.ExcludeFunction(auth, fn) {
						continue
					}
					scenario.Run(errs, auth, p, fn)
				}
			}
		})

		if scenario.ExitEarly() && !errs.Empty() {
			return r.exitEarly(scenario, errs)
		}
	}

	if !errs.Empty() {
		return &FoundInvalidPatterns{Errors: errs}
	}

	return nil
}

func (r *Runner) exitEarly(scenario any, errs *ErrorContainer) error {
	r.logger.Warn("stopping after scenario with violations",
		"scenario", scenarioName(scenario),
		"distinct", errs.Len(),
	)

	return &FoundInvalidPatterns{Errors: errs}
}
