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
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type constAlgo struct {
	status Status
	ran    *bool
}

func (a constAlgo) Init() error { return nil }

func (a constAlgo) Execute(dc *DataContext) Status {
	if a.ran != nil {
		*a.ran = true
	}
	return a.status
}

func wrapConst(t *testing.T, status Status, ran *bool) Processor {
	t.Helper()
	p, err := Wrap(constAlgo{status: status, ran: ran})
	require.NoError(t, err)
	return p
}

func TestScheduleRejectsPlanDeeperThanMaxDepth(t *testing.T) {
	root := wrapConst(t, StatusOk, nil)
	for i := 0; i < MaxDepth; i++ {
		root = Sequence(root)
	}
	_, err := Schedule(root)
	require.ErrorIs(t, err, ErrPlanTooDeep)
}

func TestScheduleAcceptsPlanAtExactlyMaxDepth(t *testing.T) {
	root := wrapConst(t, StatusOk, nil)
	for i := 0; i < MaxDepth-1; i++ {
		root = Sequence(root)
	}
	_, err := Schedule(root)
	require.NoError(t, err)
}

func TestSchedulerRunReturnsRootStatus(t *testing.T) {
	sched, err := Schedule(wrapConst(t, StatusError, nil))
	require.NoError(t, err)
	require.Equal(t, StatusError, sched.Run(NewRootDataContext(NewDataManager())))
}

func TestSchedulerRunCanBeCalledMultipleTimesIndependently(t *testing.T) {
	sched, err := Schedule(wrapConst(t, StatusOk, nil))
	require.NoError(t, err)
	dm := NewDataManager()
	require.Equal(t, StatusOk, sched.Run(NewRootDataContext(dm)))
	require.Equal(t, StatusOk, sched.Run(NewRootDataContext(dm)))
}

func TestCancelledAncestorShortCircuitsEveryDescendantWithoutRunningAlgorithm(t *testing.T) {
	var ran bool
	child := wrapConst(t, StatusOk, &ran)
	root := Sequence(child)
	sched, err := Schedule(root)
	require.NoError(t, err)

	dc := NewRootDataContext(NewDataManager())
	ctx := NewProcessContext(dc, nil, "run-1")
	ctx.Stop()

	status := sched.Root().Process(ctx)
	require.Equal(t, StatusCancelled, status)
	require.False(t, ran, "a cancelled ancestor must prevent the algorithm from ever executing")
}

// silentTracer implements Tracer but not Dumper.
type silentTracer struct{}

func (silentTracer) OnEnter(ProcessorInfo)        {}
func (silentTracer) OnExit(ProcessorInfo, Status) {}

func TestSchedulerDumpForwardsOnlyToDumperTracers(t *testing.T) {
	sched, err := Schedule(wrapConst(t, StatusOk, nil))
	require.NoError(t, err)

	metrics := NewMetricsTracer(prometheus.NewRegistry())
	sched.AddTracker(metrics)
	sched.AddTracker(silentTracer{})
	require.Equal(t, StatusOk, sched.Run(NewRootDataContext(NewDataManager())))

	dump := sched.Dump()
	require.True(t, strings.Contains(dump, "tracer 0"))
	require.False(t, strings.Contains(dump, "tracer 1"), "a tracer that is not a Dumper must not appear in Dump")
}
