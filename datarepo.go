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
	"sync"
)

// ErrDuplicateSlot is returned by DataRepo.registerSlot when a slot
// already exists for a (LifeSpan, DataType) pair.
var ErrDuplicateSlot = fmt.Errorf("flowforge: slot already registered")

// DataRepo is the process-wide, type-keyed data store, partitioned by
// LifeSpan. One slot exists per (LifeSpan, DataType) pair. DataRepo
// itself is safe for concurrent use; the access discipline over the
// values it stores is enforced one layer up, by DataManager.
type DataRepo struct {
	mu    sync.RWMutex
	spans [lifeSpanCount]map[DataType]slot
}

// NewDataRepo returns an empty repo.
func NewDataRepo() *DataRepo {
	r := &DataRepo{}
	for i := range r.spans {
		r.spans[i] = make(map[DataType]slot)
	}
	return r
}

// registerSlot installs s for (span, dtype). It returns ErrDuplicateSlot
// if a slot is already registered there (spec.md invariant 2: at most
// one Create* registration per (data-type, lifespan)).
func (r *DataRepo) registerSlot(span LifeSpan, dtype DataType, s slot) error {
	if !span.valid() {
		return fmt.Errorf("flowforge: invalid lifespan %d", span)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.spans[span][dtype]; exists {
		return ErrDuplicateSlot
	}
	r.spans[span][dtype] = s
	return nil
}

// findSlot returns the slot registered for (span, dtype), if any.
func (r *DataRepo) findSlot(span LifeSpan, dtype DataType) (slot, bool) {
	if !span.valid() {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.spans[span][dtype]
	return s, ok
}

// resetSpan destroys the current value of every slot in span and, for
// slots that are default-constructable, attempts default
// re-construction — the "freshly registered" state spec.md invariant 6
// requires. resetSpan is idempotent: a second call destroys and
// re-constructs every slot again, ending in the same state.
func (r *DataRepo) resetSpan(span LifeSpan) {
	if !span.valid() {
		return
	}
	r.mu.RLock()
	slots := make([]slot, 0, len(r.spans[span]))
	for _, s := range r.spans[span] {
		slots = append(slots, s)
	}
	r.mu.RUnlock()

	for _, s := range slots {
		s.destroy()
		if s.defaultConstructable() {
			s.attemptDefaultConstruct()
		}
	}
}
