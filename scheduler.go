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

package flowforge

import (
	"fmt"

	"github.com/google/uuid"
)

// Dumper is implemented by Tracers that can render a human-readable
// summary of what they have observed — MetricsTracer and ConsoleTracer
// both satisfy it. Scheduler.Dump forwards to every attached tracer
// that does.
type Dumper interface {
	Dump() string
}

// Schedule wraps root into a Scheduler, walking the plan tree once to
// assign every node's ProcessorId and full name path. A non-nil error
// means some branch of root exceeds MaxDepth (ErrPlanTooDeep); the
// Scheduler is unusable in that case.
func Schedule(root Processor) (*Scheduler, error) {
	if err := root.init(ZeroProcessorId, "", 0); err != nil {
		return nil, err
	}
	return &Scheduler{root: root}, nil
}

// Scheduler owns a fully-initialized plan tree and is the sole entry
// point for running it. It is safe to call Run more than once — each
// call gets its own ProcessContext and its own cancellation scope —
// but AddTracker is not safe to call concurrently with Run.
type Scheduler struct {
	root    Processor
	tracers []Tracer
}

// AddTracker appends t to the Scheduler's aggregate tracer. Every
// subsequent Run reports to every tracer added so far, in the order
// they were added.
func (s *Scheduler) AddTracker(t Tracer) {
	if t != nil {
		s.tracers = append(s.tracers, t)
	}
}

// Run builds a ProcessContext around dc, tagged with a fresh run id,
// attaches the Scheduler's aggregate tracer, and runs the plan tree to
// completion, returning its final Status. The run id lets a tracer
// correlate every enter/exit it sees within this one call, even across
// the goroutines a Parallel/Race/DataParallel/DataRace subtree spawns.
func (s *Scheduler) Run(dc *DataContext) Status {
	ctx := NewProcessContext(dc, s.aggregateTracer(), uuid.NewString())
	return s.root.Process(ctx)
}

// Dump forwards to every attached tracer that implements Dumper,
// concatenating their output labeled by position in the tracer list.
func (s *Scheduler) Dump() string {
	out := ""
	for i, t := range s.tracers {
		d, ok := t.(Dumper)
		if !ok {
			continue
		}
		out += fmt.Sprintf("--- tracer %d ---\n%s\n", i, d.Dump())
	}
	return out
}

// Root returns the Scheduler's initialized root Processor, mainly so
// tests and diagnostics can inspect ProcessorInfo without a run.
func (s *Scheduler) Root() Processor {
	return s.root
}

func (s *Scheduler) aggregateTracer() Tracer {
	switch len(s.tracers) {
	case 0:
		return nil
	case 1:
		return s.tracers[0]
	default:
		return NewGroupTracer(s.tracers...)
	}
}
