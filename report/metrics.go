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
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"rivaas.dev/routecheck"
)

// Collector exposes the violations of a finished run as Prometheus gauges:
//
//	routecheck_violations{kind}           occurrences, duplicates included
//	routecheck_distinct_violations{kind}  distinct violations
type Collector struct {
	errs     *routecheck.ErrorContainer
	total    *prometheus.Desc
	distinct *prometheus.Desc
}

// NewCollector returns a collector over errs. The container must not be
// modified while it is being collected.
func NewCollector(errs *routecheck.ErrorContainer, constLabels prometheus.Labels) *Collector {
	return &Collector{
		errs: errs,
		total: prometheus.NewDesc("routecheck_violations",
			"Violations found by the last routecheck run, duplicates included.",
			[]string{"kind"}, constLabels),
		distinct: prometheus.NewDesc("routecheck_distinct_violations",
			"Distinct violations found by the last routecheck run.",
			[]string{"kind"}, constLabels),
	}
}

// Describe implements [prometheus.Collector].
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.total
	ch <- c.distinct
}

// Collect implements [prometheus.Collector].
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, k := range Summarize(c.errs) {
		ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(k.Total), k.Kind)
		ch <- prometheus.MustNewConstMetric(c.distinct, prometheus.GaugeValue, float64(k.Distinct), k.Kind)
	}
}

// WriteTextfile writes the metrics of errs to path in the text exposition
// format, for the node exporter textfile collector.
func WriteTextfile(path string, errs *routecheck.ErrorContainer, constLabels prometheus.Labels) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(NewCollector(errs, constLabels)); err != nil {
		return fmt.Errorf("register collector: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
