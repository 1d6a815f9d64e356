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

import "reflect"

// DataType identifies a payload type stored in the DataRepo. UserId
// identifies the type of the algorithm performing an access. Both are
// realized as reflect.Type: comparable, hashable, stable for the life
// of the process, with no ordering — exactly the identity contract
// spec.md asks for, without minting a parallel integer-id registry.
type DataType = reflect.Type
type UserId = reflect.Type

// TypeOf returns the stable identity of T, suitable as a DataType or a
// UserId depending on context.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}
