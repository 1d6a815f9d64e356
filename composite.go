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

import "golang.org/x/sync/errgroup"

// sequentialProcessor runs its children in declaration order, stopping
// at the first non-Ok result.
type sequentialProcessor struct {
	processBase
	children []Processor
}

// Sequence composes children to run one after another, in order,
// short-circuiting on the first non-Ok status.
func Sequence(children ...Processor) Processor {
	return &sequentialProcessor{processBase: processBase{name: "sequence"}, children: children}
}

func (p *sequentialProcessor) init(parentID ProcessorId, parentName string, index int) error {
	if err := p.assignInfo(parentID, parentName, index); err != nil {
		return err
	}
	return initChildren(p.children, p.info)
}

func (p *sequentialProcessor) Process(ctx *ProcessContext) Status {
	return p.run(ctx, func(ctx *ProcessContext) Status {
		for _, c := range p.children {
			if status := c.Process(ctx); status != StatusOk {
				return status
			}
		}
		return StatusOk
	})
}

// parallelProcessor runs every child concurrently and aggregates all
// of their results.
type parallelProcessor struct {
	processBase
	children []Processor
}

// Parallel composes children to run concurrently. The composite's own
// status is Ok only if every child returned Ok; otherwise the last
// non-Ok status observed is returned (spec.md does not require
// deterministic aggregation here).
func Parallel(children ...Processor) Processor {
	return &parallelProcessor{processBase: processBase{name: "parallel"}, children: children}
}

func (p *parallelProcessor) init(parentID ProcessorId, parentName string, index int) error {
	if err := p.assignInfo(parentID, parentName, index); err != nil {
		return err
	}
	return initChildren(p.children, p.info)
}

func (p *parallelProcessor) Process(ctx *ProcessContext) Status {
	return p.run(ctx, func(ctx *ProcessContext) Status {
		return runParallel(ctx, p.children, nil)
	})
}

// raceProcessor runs every child concurrently under a shared
// sub-context; the first child to return Ok and win the sub-context's
// stop flag publishes the race's result.
type raceProcessor struct {
	processBase
	children []Processor
}

// Race composes children to run concurrently under a private stop
// scope. The first child that returns Ok and wins the race publishes
// its status; if none ever returns Ok, the last non-Ok status observed
// after every child has finished is returned.
func Race(children ...Processor) Processor {
	return &raceProcessor{processBase: processBase{name: "race"}, children: children}
}

func (p *raceProcessor) init(parentID ProcessorId, parentName string, index int) error {
	if err := p.assignInfo(parentID, parentName, index); err != nil {
		return err
	}
	return initChildren(p.children, p.info)
}

func (p *raceProcessor) Process(ctx *ProcessContext) Status {
	return p.run(ctx, func(ctx *ProcessContext) Status {
		return runRace(ctx, p.children, nil)
	})
}

// initChildren initializes each of children against parent's assigned
// info, in declaration order, aborting on the first error (typically
// ErrPlanTooDeep).
func initChildren(children []Processor, parent ProcessorInfo) error {
	for i, c := range children {
		if err := c.init(parent.ID, parent.Name, i); err != nil {
			return err
		}
	}
	return nil
}

// deriveContext optionally reshapes the ProcessContext handed to child
// i before Process is called on it; nil means every child gets ctx
// unmodified.
type deriveContext func(i int, ctx *ProcessContext) *ProcessContext

// runParallel runs every child concurrently under ctx (or under
// deriveCtx(i, ctx), if supplied), waits for all to finish, and
// aggregates: Ok iff every child returned Ok, else the last observed
// non-Ok status. Shared by ParallelProcessor and DataParallelProcessor.
func runParallel(ctx *ProcessContext, children []Processor, deriveCtx deriveContext) Status {
	var g errgroup.Group
	statuses := make([]Status, len(children))
	for i, c := range children {
		g.Go(func() error {
			childCtx := ctx
			if deriveCtx != nil {
				childCtx = deriveCtx(i, ctx)
			}
			statuses[i] = c.Process(childCtx)
			return nil
		})
	}
	_ = g.Wait() // children never return an error; statuses carry the outcome

	result := StatusOk
	for _, s := range statuses {
		if s != StatusOk {
			result = s
		}
	}
	return result
}

// runRace runs every child concurrently under a private sub-context of
// ctx (or under deriveCtx(i, sub), if supplied). It returns as soon as
// some child both returns Ok and wins the sub-context's TryStop race —
// it does not wait for stragglers, matching spec.md's "run returns
// Ok [from the first finisher]" rather than a join-all. Losing
// children keep running detached; their side effects are defined but
// unordered, per spec.md §5. If no child ever returns Ok, runRace
// drains every outcome and returns the last non-Ok status observed —
// the edge case spec.md leaves to the implementer, resolved here
// rather than blocking forever. Shared by RaceProcessor and
// DataRaceProcessor.
func runRace(ctx *ProcessContext, children []Processor, deriveCtx deriveContext) Status {
	sub := ctx.SubContext()

	type outcome struct {
		status Status
		won    bool
	}
	results := make(chan outcome, len(children))
	for i, c := range children {
		go func(i int, c Processor) {
			childCtx := sub
			if deriveCtx != nil {
				childCtx = deriveCtx(i, sub)
			}
			status := c.Process(childCtx)
			won := false
			if status == StatusOk {
				won = sub.TryStop()
			}
			results <- outcome{status: status, won: won}
		}(i, c)
	}

	last := StatusCancelled
	for range children {
		r := <-results
		if r.won {
			return r.status
		}
		last = r.status
	}
	return last
}
