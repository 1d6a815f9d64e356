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

// DataContext is the thin, permission-aware front door algorithms use
// to reach the data repository. It is bound to the UserId of whichever
// algorithm is running, so calls from different algorithms through
// their own DataContext are checked against their own ACL entries even
// though they share the same underlying DataManager.
type DataContext struct {
	dm          *DataManager
	user        UserId
	instanceIdx map[DataType]int
}

// newDataContext returns the root, unbound DataContext for dm. It is
// not itself handed to an algorithm; AlgorithmProcessor.Process derives
// a per-user view via forUser before invoking its algorithm.
func newDataContext(dm *DataManager) *DataContext {
	return &DataContext{dm: dm}
}

// NewRootDataContext is newDataContext, exported for callers (cmd/
// harnesses, tests) that build a Scheduler.Run call from outside this
// package. AlgorithmProcessor.Process always derives its own per-user
// view via forUser, so the root context passed to Run is never itself
// exposed to an algorithm.
func NewRootDataContext(dm *DataManager) *DataContext {
	return newDataContext(dm)
}

// forUser returns a DataContext identical to dc except bound to user.
func (dc *DataContext) forUser(user UserId) *DataContext {
	return &DataContext{dm: dc.dm, user: user, instanceIdx: dc.instanceIdx}
}

// withInstanceIndex returns a DataContext identical to dc, with the
// data-parallel instance index for dtype set to idx. This is how
// DataParallelProcessor/DataRaceProcessor broadcast "which fan-out
// replica is this" to algorithms: as an immutable value carried
// explicitly on the context passed into that one child's subtree,
// never as goroutine-local or other mutable shared state (the
// resolution spec.md's design notes suggest for the thread_local
// instance-index broadcast).
func (dc *DataContext) withInstanceIndex(dtype DataType, idx int) *DataContext {
	next := make(map[DataType]int, len(dc.instanceIdx)+1)
	for k, v := range dc.instanceIdx {
		next[k] = v
	}
	next[dtype] = idx
	return &DataContext{dm: dc.dm, user: dc.user, instanceIdx: next}
}

// InstanceIndexOf returns the data-parallel instance index for T
// carried on dc, if dc was derived inside a DataParallelProcessor[T] or
// DataRaceProcessor[T] subtree.
func InstanceIndexOf[T any](dc *DataContext) (int, bool) {
	idx, ok := dc.instanceIdx[TypeOf[T]()]
	return idx, ok
}

// Get returns the value of dc's (user, span) slot for a user holding
// write rights. The value is a copy, not a reference into the slot:
// changes to it reach the slot only through Set (see ManagerGet).
func Get[T any](dc *DataContext, span LifeSpan) Optional[T] {
	return ManagerGet[T](dc.dm, dc.user, span)
}

// GetConst returns an immutable view of dc's (user, span) slot.
func GetConst[T any](dc *DataContext, span LifeSpan) Optional[T] {
	return ManagerGetConst[T](dc.dm, dc.user, span)
}

// Create constructs a new value of T in dc's (user, span) slot.
func Create[T any](dc *DataContext, span LifeSpan, value T) Optional[T] {
	return ManagerCreate[T](dc.dm, dc.user, span, value)
}

// Set writes value back into dc's already-constructed (user, span)
// slot.
func Set[T any](dc *DataContext, span LifeSpan, value T) bool {
	return ManagerSet[T](dc.dm, dc.user, span, value)
}

// Destroy destroys the current value of dc's (user, span) slot.
func Destroy[T any](dc *DataContext, span LifeSpan) {
	ManagerDestroy[T](dc.dm, dc.user, span)
}

// The Frame/Cache/Global-suffixed helpers below name the span inline,
// as spec.md §4.5's "convenience variants (get_frame_of, get_cache_of,
// get_global_of, etc.)" call for.

func GetFrame[T any](dc *DataContext) Optional[T]       { return Get[T](dc, LifeSpanFrame) }
func GetFrameConst[T any](dc *DataContext) Optional[T]  { return GetConst[T](dc, LifeSpanFrame) }
func CreateFrame[T any](dc *DataContext, v T) Optional[T] { return Create[T](dc, LifeSpanFrame, v) }
func DestroyFrame[T any](dc *DataContext)               { Destroy[T](dc, LifeSpanFrame) }

func GetCache[T any](dc *DataContext) Optional[T]       { return Get[T](dc, LifeSpanCache) }
func GetCacheConst[T any](dc *DataContext) Optional[T]  { return GetConst[T](dc, LifeSpanCache) }
func CreateCache[T any](dc *DataContext, v T) Optional[T] { return Create[T](dc, LifeSpanCache, v) }
func DestroyCache[T any](dc *DataContext)               { Destroy[T](dc, LifeSpanCache) }

func GetGlobal[T any](dc *DataContext) Optional[T]        { return Get[T](dc, LifeSpanGlobal) }
func GetGlobalConst[T any](dc *DataContext) Optional[T]   { return GetConst[T](dc, LifeSpanGlobal) }
func CreateGlobal[T any](dc *DataContext, v T) Optional[T] { return Create[T](dc, LifeSpanGlobal, v) }
func DestroyGlobal[T any](dc *DataContext)                { Destroy[T](dc, LifeSpanGlobal) }
