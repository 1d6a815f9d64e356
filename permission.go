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

// Declaration is one (user-type, data-type, lifespan) -> mode record,
// produced by Permission/PermissionWithDefault and applied to a
// DataManager by Declare. This is the "static declaration" style of
// spec.md §4.9: algorithm authors build a Schema once, as ordinary Go
// data, and it is walked at boot.
//
// The "inline registration calls" style spec.md also allows is simply
// calling Apply[T](dm, user, span, mode) directly — Declaration exists
// only to let a whole table of registrations be built as data and
// applied together.
type Declaration struct {
	apply func(*DataManager) error
}

// Permission declares that the algorithm type U holds mode over data
// type T at span.
func Permission[U any, T any](span LifeSpan, mode AccessMode) Declaration {
	return Declaration{apply: func(dm *DataManager) error {
		return Apply[T](dm, TypeOf[U](), span, mode)
	}}
}

// PermissionWithDefault is Permission, but newFn supplies T's slot
// default constructor (used at registration and at every ResetSpan)
// instead of T's Go zero value. Only meaningful when mode is
// AccessCreate or AccessCreateSync; ignored otherwise.
func PermissionWithDefault[U any, T any](span LifeSpan, mode AccessMode, newFn func() T) Declaration {
	return Declaration{apply: func(dm *DataManager) error {
		return ApplyWithDefault[T](dm, TypeOf[U](), span, mode, newFn)
	}}
}

// Schema is a permission table: a plain slice of Declaration values an
// algorithm package can export as a package-level var and hand to
// Declare at startup.
type Schema []Declaration

// Declare applies every declaration in schema, in order, to dm. It
// returns the first error encountered — a duplicate or conflicting
// registration, or an invalid lifespan (spec.md §7's "Registration
// errors are fatal"). Callers are expected to abort startup on a non-nil return
// rather than run with a partially-populated ACL; Scheduler.Run does
// not re-check permission completeness.
func Declare(dm *DataManager, schema ...Declaration) error {
	for _, d := range schema {
		if err := d.apply(dm); err != nil {
			return err
		}
	}
	return nil
}
