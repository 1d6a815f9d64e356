// Copyright 2026 The Flowforge Authors
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

// Package main is the flowforge CLI: load a plan manifest, run it once,
// and optionally dump tracer output. Algorithms are plugged in by
// importing their registering package for side effect, the same way
// caddy's own cmd/caddy/main.go plugs in modules.
package main

import (
	"fmt"
	"os"

	"github.com/KimMachineGun/automemlimit/memlimit"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"github.com/flowforge/flowforge"
)

var (
	manifestPath string
	manifestTOML bool
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "flowforge: building logger:", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	undo, err := maxprocs.Set(maxprocs.Logger(logger.Sugar().Infof))
	defer undo()
	if err != nil {
		logger.Warn("failed to set GOMAXPROCS", zap.Error(err))
	}
	if _, err := memlimit.SetGoMemLimitWithOpts(
		memlimit.WithProvider(
			memlimit.ApplyFallback(memlimit.FromCgroup, memlimit.FromSystem),
		),
	); err != nil {
		logger.Warn("failed to set GOMEMLIMIT", zap.Error(err))
	}

	root := buildRootCommand(logger)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildRootCommand(logger *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:          "flowforge",
		Short:        "Run and inspect flowforge processor plans",
		SilenceUsage: true,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Load a plan manifest and run it once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runManifest(logger)
		},
	}
	dumpCmd := &cobra.Command{
		Use:   "dump-plan",
		Short: "Load a plan manifest, run it once, and print tracer output",
		RunE: func(cmd *cobra.Command, args []string) error {
			return dumpManifest(logger)
		},
	}

	for _, c := range []*cobra.Command{runCmd, dumpCmd} {
		flags := c.Flags()
		flags.StringVarP(&manifestPath, "manifest", "m", "", "path to the plan manifest file")
		flags.BoolVar(&manifestTOML, "toml", false, "parse the manifest as TOML instead of YAML")
		root.AddCommand(c)
	}
	return root
}

func loadManifest() (*flowforge.PlanManifest, error) {
	if manifestPath == "" {
		return nil, fmt.Errorf("flowforge: --manifest is required")
	}
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("flowforge: reading manifest: %w", err)
	}
	if manifestTOML {
		return flowforge.LoadManifestTOML(data)
	}
	return flowforge.LoadManifestYAML(data)
}

func runManifest(logger *zap.Logger) error {
	manifest, err := loadManifest()
	if err != nil {
		return err
	}
	sched, tracers, err := schedule(manifest, logger)
	if err != nil {
		return err
	}
	for _, t := range tracers {
		sched.AddTracker(t)
	}
	dm := flowforge.NewDataManager()
	status := sched.Run(flowforgeRootContext(dm))
	logger.Info("run complete", zap.Stringer("status", status))
	return nil
}

func dumpManifest(logger *zap.Logger) error {
	manifest, err := loadManifest()
	if err != nil {
		return err
	}
	sched, tracers, err := schedule(manifest, logger)
	if err != nil {
		return err
	}
	for _, t := range tracers {
		sched.AddTracker(t)
	}
	dm := flowforge.NewDataManager()
	status := sched.Run(flowforgeRootContext(dm))
	fmt.Println(sched.Dump())
	logger.Info("run complete", zap.Stringer("status", status))
	return nil
}

func schedule(manifest *flowforge.PlanManifest, logger *zap.Logger) (*flowforge.Scheduler, []flowforge.Tracer, error) {
	root, err := flowforge.Build(manifest)
	if err != nil {
		return nil, nil, err
	}
	sched, err := flowforge.Schedule(root)
	if err != nil {
		return nil, nil, err
	}
	tracers, err := flowforge.BuildTracers(manifest.Tracers, logger, nil)
	if err != nil {
		return nil, nil, err
	}
	return sched, tracers, nil
}

func flowforgeRootContext(dm *flowforge.DataManager) *flowforge.DataContext {
	return flowforge.NewRootDataContext(dm)
}
