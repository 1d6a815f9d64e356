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

// DataManager couples a DataRepo with an AccessController: every access
// is resolved against the caller's registered AccessMode before it
// reaches the repo. Its operations never panic or return an error for a
// permission mismatch or absent value — both surface as an empty
// Optional, per spec.md §7.
type DataManager struct {
	repo *DataRepo
	acl  *AccessController
}

// NewDataManager returns a DataManager with an empty repo and ACL.
func NewDataManager() *DataManager {
	return &DataManager{repo: NewDataRepo(), acl: NewAccessController()}
}

// Apply records an ACL entry for (user, T, span, mode) and, for
// AccessCreate/AccessCreateSync, registers the backing slot and
// attempts to default-construct it. It is the runtime counterpart of
// spec.md's permission declaration facade (§4.9) and must only be
// called during bootstrap, before any Scheduler.Run.
func Apply[T any](dm *DataManager, user UserId, span LifeSpan, mode AccessMode) error {
	return applyWithConstructor[T](dm, user, span, mode, nil)
}

// ApplyWithDefault is Apply, but newFn is used as the slot's default
// constructor (invoked at registration and at every ResetSpan) instead
// of T's Go zero value.
func ApplyWithDefault[T any](dm *DataManager, user UserId, span LifeSpan, mode AccessMode, newFn func() T) error {
	return applyWithConstructor[T](dm, user, span, mode, newFn)
}

func applyWithConstructor[T any](dm *DataManager, user UserId, span LifeSpan, mode AccessMode, newFn func() T) error {
	if !span.valid() {
		return fmt.Errorf("flowforge: invalid lifespan %d", span)
	}
	dtype := TypeOf[T]()

	if mode.canCreate() {
		if creator, exists := dm.acl.creatorOf(dtype, span); exists && creator != user {
			return fmt.Errorf("%w: %s@%s already has a Create*-permissioned owner", ErrDuplicateRegistration, dtype, span)
		}
	}

	if !dm.acl.Register(user, dtype, span, mode) {
		return fmt.Errorf("%w: (%v, %v, %v)", ErrDuplicateRegistration, user, dtype, span)
	}

	if mode.canCreate() {
		if err := dm.repo.registerSlot(span, dtype, newTypedSlot[T](newFn, mode.sync())); err != nil {
			return err
		}
	}
	return nil
}

// ManagerCreate constructs a new value of T in the (user, span) slot, replacing
// any prior value, provided user holds AccessCreate or AccessCreateSync
// there. Otherwise it returns an empty Optional and has no effect.
func ManagerCreate[T any](dm *DataManager, user UserId, span LifeSpan, value T) Optional[T] {
	dtype := TypeOf[T]()
	mode := dm.acl.ModeOf(user, dtype, span)
	if !mode.canCreate() {
		return None[T]()
	}
	s, ok := dm.repo.findSlot(span, dtype)
	if !ok {
		return None[T]()
	}
	ts := s.(*typedSlot[T])
	if ts.requiresSync {
		ts.createSync(value)
	} else {
		ts.create(value)
	}
	return Some(value)
}

// ManagerDestroy destroys the current value of the (user, span) slot, if any,
// provided user holds AccessCreate or AccessCreateSync there. The slot
// itself remains registered; subsequent Get/GetConst return absence
// until the next Create.
func ManagerDestroy[T any](dm *DataManager, user UserId, span LifeSpan) {
	dtype := TypeOf[T]()
	mode := dm.acl.ModeOf(user, dtype, span)
	if !mode.canCreate() {
		return
	}
	s, ok := dm.repo.findSlot(span, dtype)
	if !ok {
		return
	}
	ts := s.(*typedSlot[T])
	if ts.requiresSync {
		ts.destroySync()
	} else {
		ts.destroy()
	}
}

// ManagerGet returns the (user, span) slot's value for mutation,
// provided user holds AccessWrite, AccessCreate, or AccessCreateSync
// there and the slot is constructed. Otherwise it returns an empty
// Optional.
//
// Go has no way to return a true aliasing reference to a value that
// lives behind a changeable generic slot without pinning its storage,
// so Get returns a snapshot and Set writes it back explicitly — the
// pair plays the role of the source's mutable pointer accessor.
func ManagerGet[T any](dm *DataManager, user UserId, span LifeSpan) Optional[T] {
	dtype := TypeOf[T]()
	mode := dm.acl.ModeOf(user, dtype, span)
	if mode != AccessWrite && !mode.canCreate() {
		return None[T]()
	}
	s, ok := dm.repo.findSlot(span, dtype)
	if !ok {
		return None[T]()
	}
	ts := s.(*typedSlot[T])
	var (
		value       T
		constructed bool
	)
	if ts.requiresSync {
		value, constructed = ts.getSync()
	} else {
		value, constructed = ts.get()
	}
	if !constructed {
		return None[T]()
	}
	return Some(value)
}

// ManagerSet writes value back into the (user, span) slot, provided user holds
// AccessWrite, AccessCreate, or AccessCreateSync there and the slot is
// already constructed. It returns false, with no effect, otherwise —
// in particular it never creates a slot's value (that is Create's job).
func ManagerSet[T any](dm *DataManager, user UserId, span LifeSpan, value T) bool {
	dtype := TypeOf[T]()
	mode := dm.acl.ModeOf(user, dtype, span)
	if mode != AccessWrite && !mode.canCreate() {
		return false
	}
	s, ok := dm.repo.findSlot(span, dtype)
	if !ok {
		return false
	}
	ts := s.(*typedSlot[T])
	if ts.requiresSync {
		return ts.setSync(value)
	}
	return ts.set(value)
}

// ManagerGetConst returns an immutable view of the (user, span) slot's value,
// provided user holds AccessRead there and the slot is constructed.
func ManagerGetConst[T any](dm *DataManager, user UserId, span LifeSpan) Optional[T] {
	dtype := TypeOf[T]()
	mode := dm.acl.ModeOf(user, dtype, span)
	if mode != AccessRead {
		return None[T]()
	}
	s, ok := dm.repo.findSlot(span, dtype)
	if !ok {
		return None[T]()
	}
	ts := s.(*typedSlot[T])
	var (
		value       T
		constructed bool
	)
	if ts.requiresSync {
		value, constructed = ts.getSync()
	} else {
		value, constructed = ts.get()
	}
	if !constructed {
		return None[T]()
	}
	return Some(value)
}

// ResetSpan resets every slot registered in span: spec.md §4.2's
// "destroy, then attempt default re-construction if default-
// constructable" policy, applied uniformly without an ACL check (reset
// is a lifecycle operation, not a data access).
func (dm *DataManager) ResetSpan(span LifeSpan) {
	dm.repo.resetSpan(span)
}
