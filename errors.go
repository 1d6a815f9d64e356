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

import "errors"

// Registration-time errors (spec.md §7, "Duplicate registration"). These
// are expected to be fatal at startup; DataManager never returns them
// from a running pipeline, only from Apply/Declare calls made before
// Scheduler.Run.
var (
	// ErrDuplicateRegistration is returned when a (user, type, span)
	// triple is registered twice, or when a second Create/CreateSync
	// is registered for the same (type, span) by a different user.
	ErrDuplicateRegistration = errors.New("flowforge: duplicate permission registration")

	// ErrPlanTooDeep is returned by Schedule when the plan tree nests
	// more than MaxDepth levels deep.
	ErrPlanTooDeep = errors.New("flowforge: plan exceeds maximum processor nesting depth")
)
