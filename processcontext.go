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

import "sync/atomic"

// ProcessContext is the per-run plumbing threaded through a plan tree:
// cancellation and tracing. It forms a tree that mirrors the processor
// tree's shape — SubContext derives a child whose IsStopped also
// observes its parent's flag — so a Race/DataRace composite can give
// its children a private stop signal without losing visibility of an
// enclosing cancellation.
type ProcessContext struct {
	dataContext *DataContext
	stopped     atomic.Bool
	parent      *ProcessContext
	tracer      Tracer
	runID       string
}

// NewProcessContext returns the root ProcessContext for a Scheduler.Run
// call, wrapping dc and reporting to tracer (which may be nil), tagged
// with runID for tracer correlation.
func NewProcessContext(dc *DataContext, tracer Tracer, runID string) *ProcessContext {
	return &ProcessContext{dataContext: dc, tracer: tracer, runID: runID}
}

// DataContext returns the DataContext algorithms under pc should use.
func (pc *ProcessContext) DataContext() *DataContext {
	return pc.dataContext
}

// Stop sets pc's own cancellation flag.
func (pc *ProcessContext) Stop() {
	pc.stopped.Store(true)
}

// Resume clears pc's own cancellation flag. It does not affect any
// ancestor's flag, so IsStopped may still report true afterward.
func (pc *ProcessContext) Resume() {
	pc.stopped.Store(false)
}

// TryStop atomically sets pc's own flag if it was clear, returning true
// only for the caller that made the transition. RaceProcessor uses this
// so exactly one winning branch publishes the race's result.
func (pc *ProcessContext) TryStop() bool {
	return pc.stopped.CompareAndSwap(false, true)
}

// IsStopped reports whether pc's own flag, or any ancestor's flag, is
// set.
func (pc *ProcessContext) IsStopped() bool {
	for c := pc; c != nil; c = c.parent {
		if c.stopped.Load() {
			return true
		}
	}
	return false
}

// Enter forwards to the tracer's OnEnter, if one is attached, stamping
// info with pc's RunID first.
func (pc *ProcessContext) Enter(info ProcessorInfo) {
	if pc.tracer != nil {
		info.RunID = pc.runID
		pc.tracer.OnEnter(info)
	}
}

// Exit forwards to the tracer's OnExit, if one is attached, stamping
// info with pc's RunID first.
func (pc *ProcessContext) Exit(info ProcessorInfo, status Status) {
	if pc.tracer != nil {
		info.RunID = pc.runID
		pc.tracer.OnExit(info, status)
	}
}

// SubContext returns a child ProcessContext: a fresh, initially-unset
// stop flag whose IsStopped also consults pc's chain, sharing pc's
// DataContext and tracer.
func (pc *ProcessContext) SubContext() *ProcessContext {
	return &ProcessContext{dataContext: pc.dataContext, parent: pc, tracer: pc.tracer, runID: pc.runID}
}

// withDataContext returns a child ProcessContext identical to
// SubContext's, but carrying dc instead of pc's DataContext. Used by
// DataParallelProcessor/DataRaceProcessor to hand each fan-out replica
// a DataContext tagged with that replica's instance index, without
// introducing its own cancellation scope (IsStopped still defers
// entirely to pc's chain, since this child's own flag is never set by
// anything but an explicit Stop on it).
func (pc *ProcessContext) withDataContext(dc *DataContext) *ProcessContext {
	return &ProcessContext{dataContext: dc, parent: pc, tracer: pc.tracer, runID: pc.runID}
}
