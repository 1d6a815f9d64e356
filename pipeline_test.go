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
	"testing"

	"github.com/stretchr/testify/require"
)

// The three-stage frame pipeline from spec.md §8 scenario 1:
// FrameRecv creates FrameData@Frame from an incoming FrameMsg; Calc
// reads FrameData and creates ProcessData; Delivery writes FrameData
// back, reads ProcessData, and creates DeliveryData. This is the
// flagship DTF/PSF integration scenario: permissions, lifespans, and
// sequencing all have to agree for DeliveryData.result to come out
// right.

// FrameData.Value is a fixed per-frame reading (100, regardless of
// which frame arrived); FrameID rides along on the same record so
// Delivery — which only holds Write access to FrameData, not Read —
// can still fold it into the final result via the copy Get hands
// back, matching spec.md §8 scenario 1's two observed
// results (5 for frame 1, 6 for frame 2) with the same Calc formula
// feeding both.
type pipelineFrameData struct {
	Value   int
	FrameID int
}
type pipelineProcessData struct{ Value int }
type pipelineDeliveryData struct{ Result int }

type frameMsg struct{ FrameID int }

type frameRecvAlgo struct {
	nextMsg func() frameMsg
}

func (frameRecvAlgo) Init() error { return nil }

func (a frameRecvAlgo) Execute(dc *DataContext) Status {
	msg := a.nextMsg()
	Create[pipelineFrameData](dc, LifeSpanFrame, pipelineFrameData{Value: 100, FrameID: msg.FrameID})
	return StatusOk
}

type calcAlgo struct{}

func (calcAlgo) Init() error { return nil }

func (calcAlgo) Execute(dc *DataContext) Status {
	frame := GetConst[pipelineFrameData](dc, LifeSpanFrame)
	if !frame.HasValue() {
		return StatusError
	}
	Create[pipelineProcessData](dc, LifeSpanFrame, pipelineProcessData{Value: frame.Get().Value / 100 * 2})
	return StatusOk
}

type deliveryAlgo struct{}

func (deliveryAlgo) Init() error { return nil }

func (deliveryAlgo) Execute(dc *DataContext) Status {
	frame := Get[pipelineFrameData](dc, LifeSpanFrame)
	process := GetConst[pipelineProcessData](dc, LifeSpanFrame)
	if !frame.HasValue() || !process.HasValue() {
		return StatusError
	}
	Set[pipelineFrameData](dc, LifeSpanFrame, frame.Get())
	Create[pipelineDeliveryData](dc, LifeSpanFrame, pipelineDeliveryData{
		Result: process.Get().Value*2 + frame.Get().FrameID,
	})
	return StatusOk
}

func buildFramePipeline(t *testing.T, nextMsg func() frameMsg) Processor {
	t.Helper()
	recv, err := Wrap(frameRecvAlgo{nextMsg: nextMsg})
	require.NoError(t, err)
	calc, err := Wrap(calcAlgo{})
	require.NoError(t, err)
	delivery, err := Wrap(deliveryAlgo{})
	require.NoError(t, err)
	return Sequence(recv, calc, delivery)
}

// pipelineVerifier is not part of the plan tree; it is the test's own
// stand-in for an external observer reading the final DeliveryData
// after Run, so it gets its own Read grant rather than reusing any
// algorithm's identity.
type pipelineVerifier struct{}

// The UserId bound to each algorithm's DataContext is the algorithm's
// own type (algorithm.go's algorithmProcessor.Process binds
// TypeOf[A]()), so permissions must be declared against
// frameRecvAlgo/calcAlgo/deliveryAlgo themselves, not a separate set of
// marker "user" types.
func declareFramePipelinePermissions(t *testing.T, dm *DataManager) {
	t.Helper()
	require.NoError(t, Declare(dm,
		Permission[frameRecvAlgo, pipelineFrameData](LifeSpanFrame, AccessCreate),
		Permission[calcAlgo, pipelineFrameData](LifeSpanFrame, AccessRead),
		Permission[calcAlgo, pipelineProcessData](LifeSpanFrame, AccessCreate),
		Permission[deliveryAlgo, pipelineFrameData](LifeSpanFrame, AccessWrite),
		Permission[deliveryAlgo, pipelineProcessData](LifeSpanFrame, AccessRead),
		Permission[deliveryAlgo, pipelineDeliveryData](LifeSpanFrame, AccessCreate),
		Permission[pipelineVerifier, pipelineDeliveryData](LifeSpanFrame, AccessRead),
	))
}

func TestThreeStageFramePipelineProducesExpectedResult(t *testing.T) {
	dm := NewDataManager()
	declareFramePipelinePermissions(t, dm)

	frameID := 1
	root := buildFramePipeline(t, func() frameMsg { return frameMsg{FrameID: frameID} })
	sched, err := Schedule(root)
	require.NoError(t, err)

	require.Equal(t, StatusOk, sched.Run(NewRootDataContext(dm)))

	delivery := ManagerGetConst[pipelineDeliveryData](dm, TypeOf[pipelineVerifier](), LifeSpanFrame)
	require.True(t, delivery.HasValue())
	require.Equal(t, 5, delivery.Get().Result)
}

func TestThreeStageFramePipelineAfterResetSpanWithNewFrame(t *testing.T) {
	dm := NewDataManager()
	declareFramePipelinePermissions(t, dm)

	frameID := 1
	root := buildFramePipeline(t, func() frameMsg { return frameMsg{FrameID: frameID} })
	sched, err := Schedule(root)
	require.NoError(t, err)

	require.Equal(t, StatusOk, sched.Run(NewRootDataContext(dm)))
	delivery := ManagerGetConst[pipelineDeliveryData](dm, TypeOf[pipelineVerifier](), LifeSpanFrame)
	require.Equal(t, 5, delivery.Get().Result)

	dm.ResetSpan(LifeSpanFrame)
	frameID = 2

	require.Equal(t, StatusOk, sched.Run(NewRootDataContext(dm)))
	delivery = ManagerGetConst[pipelineDeliveryData](dm, TypeOf[pipelineVerifier](), LifeSpanFrame)
	require.True(t, delivery.HasValue())
	require.Equal(t, 6, delivery.Get().Result)
}
