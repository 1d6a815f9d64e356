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

// Optional is a typed, non-owning reference that is either present or
// absent. It is how every DTF accessor reports a permission mismatch or
// a missing/unconstructed slot: as absence, never as a panic or an
// error value (spec.md §7). It unifies the source's two optional-
// reference flavors (utils/opt_ptr.h's raw pointer wrapper and
// utils/optional_ptr.h's heavier match/require variant) behind one
// generic type, since Go generics make keeping both redundant.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns the absent Optional for T.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// HasValue reports whether o holds a value.
func (o Optional[T]) HasValue() bool {
	return o.ok
}

// Get returns o's value, panicking with an abortive diagnostic if o is
// absent — the Go analogue of the source's assert-on-null-dereference
// contract for OptPtr/SyncReadPtr/SyncWritePtr.
func (o Optional[T]) Get() T {
	if !o.ok {
		panic(fmt.Sprintf("flowforge: Optional[%T] is empty", o.value))
	}
	return o.value
}

// GetOr returns o's value, or fallback if o is absent.
func (o Optional[T]) GetOr(fallback T) T {
	if !o.ok {
		return fallback
	}
	return o.value
}

// Match calls onPresent with o's value if present, or onEmpty otherwise.
func (o Optional[T]) Match(onEmpty func(), onPresent func(T)) {
	if o.ok {
		onPresent(o.value)
		return
	}
	onEmpty()
}

// Require calls onPresent with o's value, panicking with an abortive
// diagnostic if o is absent.
func (o Optional[T]) Require(onPresent func(T)) {
	if !o.ok {
		panic(fmt.Sprintf("flowforge: Optional[%T] is empty, require() failed", o.value))
	}
	onPresent(o.value)
}
