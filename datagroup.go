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

import "fmt"

// ChildFactory builds the Processor for data-parallel instance i of a
// DataParallel or DataRace group. It is called once per instance,
// during the group's init, not at construction time — so it can close
// over per-instance configuration computed from i.
type ChildFactory func(instance int) (Processor, error)

// dataGroupProcessor is the shared "DataGroupProcessor<T, N>" shape:
// at init it builds n children from factory, placing each child's
// subtree under the name path[i] (the group's own name path with the
// instance index appended), and never rebuilds them on a
// subsequent init call (spec.md §4.7's idempotence requirement for
// data-group composites — a plan tree may be init'd more than once if
// it is reused across Scheduler instances).
type dataGroupProcessor[T any] struct {
	processBase
	factory  ChildFactory
	n        int
	children []Processor
	race     bool
}

func newDataGroup[T any](n int, factory ChildFactory, name string, race bool) *dataGroupProcessor[T] {
	return &dataGroupProcessor[T]{
		processBase: processBase{name: name},
		factory:     factory,
		n:           n,
		race:        race,
	}
}

func (g *dataGroupProcessor[T]) init(parentID ProcessorId, parentName string, index int) error {
	if err := g.assignInfo(parentID, parentName, index); err != nil {
		return err
	}
	if g.children != nil {
		return nil
	}
	children := make([]Processor, g.n)
	for i := 0; i < g.n; i++ {
		c, err := g.factory(i)
		if err != nil {
			return fmt.Errorf("flowforge: %s factory(%d): %w", g.name, i, err)
		}
		if err := c.init(g.info.ID, fmt.Sprintf("%s[%d]", g.info.Name, i), i); err != nil {
			return err
		}
		children[i] = c
	}
	g.children = children
	return nil
}

// withInstance tags ctx's DataContext with instance i for T, the
// broadcast a fanned-out child's algorithms use to find out which
// data-parallel replica they are running as.
func (g *dataGroupProcessor[T]) withInstance(i int, ctx *ProcessContext) *ProcessContext {
	return ctx.withDataContext(ctx.DataContext().withInstanceIndex(TypeOf[T](), i))
}

func (g *dataGroupProcessor[T]) Process(ctx *ProcessContext) Status {
	return g.run(ctx, func(ctx *ProcessContext) Status {
		if g.race {
			return runRace(ctx, g.children, g.withInstance)
		}
		return runParallel(ctx, g.children, g.withInstance)
	})
}

// DataParallel builds a DataGroupProcessor<T, n>: n children, one per
// data-parallel instance 0..n-1, built by factory and run concurrently.
// Each child's algorithms see their own instance index for T via
// InstanceIndexOf[T].
func DataParallel[T any](n int, factory ChildFactory) Processor {
	return newDataGroup[T](n, factory, fmt.Sprintf("dataparallel[%T]", *new(T)), false)
}

// DataRace builds a DataGroupProcessor<T, n> whose n children race
// against each other exactly as RaceProcessor's children do, but
// generated by the same per-instance factory mechanism as
// DataParallel.
func DataRace[T any](n int, factory ChildFactory) Processor {
	return newDataGroup[T](n, factory, fmt.Sprintf("datarace[%T]", *new(T)), true)
}
