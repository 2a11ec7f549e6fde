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

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"rivaas.dev/routecheck"
	"rivaas.dev/routecheck/manifest"
	"rivaas.dev/routecheck/report"
)

// errViolations is returned once the report has been written, so main only
// sets the exit status.
var errViolations = errors.New("violations found")

type checkOptions struct {
	format      string
	noColor     bool
	logLevel    string
	logFormat   string
	metricsFile string
	separate    bool
	jobs        int
}

func newCheckCmd() *cobra.Command {
	opts := checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [flags] manifest...",
		Short: "Check the routes declared in manifests",
		Long: `Loads the manifests, builds a pattern for every route and runs the
enabled scenarios over them. Manifests are merged in order unless --separate
is given, in which case each one is checked on its own and the results are
combined.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", "text", "report format: "+strings.Join(report.Formats, ", "))
	flags.BoolVar(&opts.noColor, "no-color", false, "strip colors from the styled report")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", logFormatText, "log format: json or text")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	flags.BoolVar(&opts.separate, "separate", false, "check each manifest on its own")
	flags.IntVarP(&opts.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "manifests checked concurrently with --separate")

	return cmd
}

func runCheck(cmd *cobra.Command, opts checkOptions, paths []string) error {
	formatter, err := newFormatter(opts)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat)
	if err != nil {
		return err
	}

	var errs *routecheck.ErrorContainer
	if opts.separate {
		errs, err = checkSeparate(cmd.Context(), logger, paths, opts.jobs)
	} else {
		errs, err = checkManifests(cmd.Context(), logger, paths...)
	}
	if err != nil {
		return err
	}

	if opts.metricsFile != "" {
		labels := prometheus.Labels{"manifest": manifestLabel(paths)}
		if err = report.WriteTextfile(opts.metricsFile, errs, labels); err != nil {
			return err
		}
	}

	if err = formatter.Format(cmd.OutOrStdout(), errs); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if !errs.Empty() {
		return errViolations
	}

	return nil
}

func newFormatter(opts checkOptions) (report.Formatter, error) {
	if opts.format == "styled" {
		return &report.Styled{NoColor: opts.noColor}, nil
	}

	return report.New(opts.format)
}

// checkManifests loads paths as one merged manifest and checks it.
func checkManifests(ctx context.Context, logger *slog.Logger, paths ...string) (*routecheck.ErrorContainer, error) {
	doc, err := manifest.Load(ctx, paths...)
	if err != nil {
		return nil, err
	}
	plan, err := manifest.Compile(doc)
	if err != nil {
		return nil, err
	}

	logger = logger.With("manifests", paths)
	err = plan.Check(ctx, routecheck.WithLogger(logger))

	var found *routecheck.FoundInvalidPatterns
	switch {
	case err == nil:
		return routecheck.NewErrorContainer(), nil
	case errors.As(err, &found):
		return found.Errors, nil
	default:
		return nil, err
	}
}

// checkSeparate checks every manifest on its own, at most jobs at a time, and
// merges the results in manifest order.
func checkSeparate(ctx context.Context, logger *slog.Logger, paths []string, jobs int) (*routecheck.ErrorContainer, error) {
	shards := make([]*routecheck.ErrorContainer, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			errs, err := checkManifests(ctx, logger, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			shards[i] = errs

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := routecheck.NewErrorContainer()
	merged.Merge(shards...)

	return merged, nil
}

func manifestLabel(paths []string) string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}

	return strings.Join(names, ",")
}
