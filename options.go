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
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// noopLogger discards everything. It is the default logger of a [Runner].
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Option configures a [Runner].
type Option func(*Runner)

// WithLogger sets the logger used to report sweep progress.
// Sweeps are logged at debug level and early exits at warn level.
//
// Example:
//
//	runner, err := routecheck.NewRunner(routes, maker.Make,
//	    routecheck.WithLogger(slog.Default()),
//	)
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithExcluder sets a predicate that leaves raw routes out of the analysis
// before any Pattern is built for them.
//
// Example:
//
//	routecheck.WithExcluder(func(raw routecheck.RawRoute) bool {
//	    return raw.Where.Namespace == "admin"
//	})
func WithExcluder(excluder RouteExcluder) Option {
	return func(r *Runner) {
		r.excluder = excluder
	}
}

// WithTracerProvider records one span per scenario sweep.
//
// Example:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	routecheck.WithTracerProvider(tp)
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(r *Runner) {
		if provider != nil {
			r.obs.tracer = provider.Tracer(instrumentationName)
		}
	}
}

// WithMeterProvider records the number of violations added by each sweep in
// the routecheck.violations counter.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(r *Runner) {
		if provider != nil {
			r.obs.meter = provider.Meter(instrumentationName)
		}
	}
}
