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
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "rivaas.dev/routecheck"

// Sweep stages.
const (
	stagePattern  = "pattern"
	stageFunction = "function"
)

// observer wraps every scenario sweep in a span, a counter update and a
// debug log line.
type observer struct {
	tracer     trace.Tracer
	meter      metric.Meter
	violations metric.Int64Counter
}

func newObserver() observer {
	return observer{
		tracer: tracenoop.NewTracerProvider().Tracer(instrumentationName),
		meter:  metricnoop.NewMeterProvider().Meter(instrumentationName),
	}
}

// init creates the instruments once the meter is final.
func (o *observer) init() error {
	counter, err := o.meter.Int64Counter(
		"routecheck.violations",
		metric.WithDescription("Violations added by scenario sweeps, duplicates included"),
		metric.WithUnit("{violation}"),
	)
	if err != nil {
		return fmt.Errorf("create violations counter: %w", err)
	}
	o.violations = counter

	return nil
}

// sweep runs fn as one full sweep of scenario and records how many
// violations it added to errs.
func (o *observer) sweep(ctx context.Context, logger *slog.Logger, stage string, scenario any, patterns int, errs *ErrorContainer, fn func()) {
	name := scenarioName(scenario)
	attrs := []attribute.KeyValue{
		attribute.String("routecheck.stage", stage),
		attribute.String("routecheck.scenario", name),
	}

	ctx, span := o.tracer.Start(ctx, "routecheck.sweep", trace.WithAttributes(attrs...))
	defer span.End()

	before := errs.Total()
	fn()
	added := errs.Total() - before

	span.SetAttributes(
		attribute.Int("routecheck.patterns", patterns),
		attribute.Int("routecheck.violations", added),
	)
	if added > 0 {
		span.SetStatus(codes.Error, "violations found")
	}
	o.violations.Add(ctx, int64(added), metric.WithAttributes(attrs...))

	logger.DebugContext(ctx, "scenario sweep finished",
		"stage", stage,
		"scenario", name,
		"patterns", patterns,
		"violations", added,
	)
}

// scenarioName returns the bare type name of a scenario.
func scenarioName(scenario any) string {
	name := fmt.Sprintf("%T", scenario)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	return name
}
