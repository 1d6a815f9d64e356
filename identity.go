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
	"strconv"
	"strings"
)

// ProcessorId is a compact hierarchical identifier: the path from the
// root of a plan tree to a processor, packed into a single uint64 so it
// can be compared, hashed, and printed without allocation.
//
// Layout: the top 4 bits hold the depth (1..MaxDepth); the remaining 60
// bits hold up to MaxDepth 7-bit level indices, level 0 (the root's own
// index) in the low bits, each subsequent level shifted 7 bits higher.
//
// The source this was ported from packed depth into a full top byte and
// indices into the remaining 7 bytes, which aliases the depth byte with
// the 8th level's index the moment a plan reaches depth 8 (the level
// write and the depth write target the same byte). Using a 4-bit depth
// field and 7-bit levels removes that collision entirely at the cost of
// a smaller per-level fan-out (0..127 instead of 0..255); that trade is
// the resolution to the "ProcessorId silently saturates at depth 8"
// design note.
type ProcessorId uint64

const (
	// MaxDepth is the deepest a plan tree may nest. Child returns its
	// parent unchanged, with ok=false, once the parent is already at
	// MaxDepth.
	MaxDepth = 8

	levelBits = 7
	levelMask = uint64(1)<<levelBits - 1
	depthBits = 4
	depthMask = uint64(1)<<depthBits - 1
	depthShift = 64 - depthBits
)

// ZeroProcessorId is the absent/invalid id: depth 0.
const ZeroProcessorId ProcessorId = 0

// RootProcessorId returns the id of the plan tree root: depth 1, index 1.
func RootProcessorId() ProcessorId {
	return newProcessorId(1, 0, 1)
}

func newProcessorId(depth uint64, priorLevels uint64, newLevelValue uint64) ProcessorId {
	shift := (depth - 1) * levelBits
	levels := priorLevels | ((newLevelValue & levelMask) << shift)
	return ProcessorId((depth&depthMask)<<depthShift | levels)
}

// Depth returns the number of levels in this id, 0 for the zero value.
func (id ProcessorId) Depth() uint32 {
	return uint32(uint64(id) >> depthShift & depthMask)
}

// Child derives the id of the index-th child of id. If id is already at
// MaxDepth, Child fails silently: it returns id unchanged and ok=false.
func (id ProcessorId) Child(index int) (child ProcessorId, ok bool) {
	depth := uint64(id.Depth())
	if depth == 0 {
		// Treat an empty id as depth 0; its first child is the root.
		return RootProcessorId(), true
	}
	if depth >= MaxDepth {
		return id, false
	}
	levels := uint64(id) &^ (depthMask << depthShift)
	return newProcessorId(depth+1, levels, uint64(index)), true
}

// Parent returns the id of id's parent, or the zero id if id is the root
// or already empty.
func (id ProcessorId) Parent() ProcessorId {
	depth := uint64(id.Depth())
	if depth <= 1 {
		return ZeroProcessorId
	}
	shift := (depth - 1) * levelBits
	levels := uint64(id) &^ (depthMask << depthShift)
	levels &^= levelMask << shift
	return ProcessorId(((depth-1)&depthMask)<<depthShift | levels)
}

// LevelValue returns the index stored at the given level (0 = root),
// or 0 if level is not less than Depth().
func (id ProcessorId) LevelValue(level int) uint8 {
	if level < 0 || uint32(level) >= id.Depth() {
		return 0
	}
	shift := uint64(level) * levelBits
	return uint8(uint64(id) >> shift & levelMask)
}

// String renders id as a dotted, root-first path, e.g. "1.2.3".
func (id ProcessorId) String() string {
	depth := id.Depth()
	if depth == 0 {
		return "null"
	}
	var b strings.Builder
	for level := range depth {
		if level > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(int(id.LevelValue(int(level)))))
	}
	return b.String()
}
