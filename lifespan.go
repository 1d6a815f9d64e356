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

// LifeSpan partitions the data repository by reset granularity.
type LifeSpan int

const (
	// LifeSpanFrame is reset between frames, by an explicit
	// DataManager.ResetSpan call; Scheduler.Run does not reset it.
	LifeSpanFrame LifeSpan = iota
	// LifeSpanCache is reset on demand, e.g. on a scenario change.
	LifeSpanCache
	// LifeSpanGlobal lives for the process lifetime; never reset.
	LifeSpanGlobal

	// lifeSpanCount sizes the internal per-span arrays. Any LifeSpan
	// value outside [0, lifeSpanCount) is invalid and treated as "no
	// valid span" (the role spec.md's sentinel Max plays).
	lifeSpanCount
)

func (s LifeSpan) valid() bool {
	return s >= LifeSpanFrame && s < lifeSpanCount
}

func (s LifeSpan) String() string {
	switch s {
	case LifeSpanFrame:
		return "frame"
	case LifeSpanCache:
		return "cache"
	case LifeSpanGlobal:
		return "global"
	default:
		return "invalid"
	}
}
