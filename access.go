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

// AccessMode is the permission a UserId holds over a (DataType, LifeSpan)
// pair.
type AccessMode int

const (
	// AccessNone grants no access; it is also the mode returned for
	// any triple with no registration.
	AccessNone AccessMode = iota
	// AccessRead grants an immutable view of a constructed slot.
	AccessRead
	// AccessWrite grants mutation of an existing slot; it may not
	// create or destroy the slot's value.
	AccessWrite
	// AccessCreate grants sole-producer rights: construct and destroy
	// the slot's value. Implies AccessWrite.
	AccessCreate
	// AccessCreateSync is AccessCreate with reader/writer
	// synchronization required on every access to the slot.
	AccessCreateSync
)

func (m AccessMode) String() string {
	switch m {
	case AccessNone:
		return "none"
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessCreate:
		return "create"
	case AccessCreateSync:
		return "create-sync"
	default:
		return "unknown"
	}
}

// canCreate reports whether m lets its holder construct/destroy a slot.
func (m AccessMode) canCreate() bool {
	return m == AccessCreate || m == AccessCreateSync
}

// sync reports whether accesses under m must take the slot's lock.
func (m AccessMode) sync() bool {
	return m == AccessCreateSync
}

// accessKey is the (DataType, LifeSpan) half of an access triple.
type accessKey struct {
	dtype DataType
	span  LifeSpan
}

// AccessController is the static registry mapping (UserId, DataType,
// LifeSpan) triples to an AccessMode. It is populated once at boot by
// the permission declaration facade and is read-only thereafter; its
// zero value is ready to use.
type AccessController struct {
	byUser map[UserId]map[accessKey]AccessMode
}

// NewAccessController returns an empty controller.
func NewAccessController() *AccessController {
	return &AccessController{byUser: make(map[UserId]map[accessKey]AccessMode)}
}

// Register records mode for the (user, dtype, span) triple. It returns
// false, making no change, if that exact triple is already registered —
// this is the only way a duplicate/conflicting declaration is detected.
func (c *AccessController) Register(user UserId, dtype DataType, span LifeSpan, mode AccessMode) bool {
	key := accessKey{dtype, span}
	if c.byUser == nil {
		c.byUser = make(map[UserId]map[accessKey]AccessMode)
	}
	perUser, ok := c.byUser[user]
	if !ok {
		perUser = make(map[accessKey]AccessMode)
		c.byUser[user] = perUser
	}
	if _, exists := perUser[key]; exists {
		return false
	}
	perUser[key] = mode
	return true
}

// ModeOf returns the mode registered for (user, dtype, span), or
// AccessNone if the triple was never registered.
func (c *AccessController) ModeOf(user UserId, dtype DataType, span LifeSpan) AccessMode {
	perUser, ok := c.byUser[user]
	if !ok {
		return AccessNone
	}
	mode, ok := perUser[accessKey{dtype, span}]
	if !ok {
		return AccessNone
	}
	return mode
}

// creatorOf scans the registered triples for the (dtype, span) pair and
// returns the user holding a Create/CreateSync registration on it, if
// any. Used only at boot to enforce "at most one Create* per
// (data-type, lifespan)"; not on any hot path.
func (c *AccessController) creatorOf(dtype DataType, span LifeSpan) (UserId, bool) {
	key := accessKey{dtype, span}
	for user, perUser := range c.byUser {
		if mode, ok := perUser[key]; ok && mode.canCreate() {
			return user, true
		}
	}
	return nil, false
}
