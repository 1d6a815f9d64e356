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

// algorithmProcessor wraps a single user Algorithm, binding the
// DataContext it hands to Execute to A's own type as the acting
// UserId, per spec.md §4.9: an algorithm's Permission declarations and
// its runtime accesses are keyed off the same identity.
type algorithmProcessor[A Algorithm] struct {
	processBase
	algo A
}

// Wrap constructs a leaf Processor around algo, calling algo.Init()
// immediately. A non-nil error from Init aborts plan construction —
// spec.md §7 treats algorithm setup failure as fatal, the same as a
// permission registration conflict.
func Wrap[A Algorithm](algo A) (Processor, error) {
	if err := algo.Init(); err != nil {
		return nil, fmt.Errorf("flowforge: %T.Init: %w", algo, err)
	}
	return &algorithmProcessor[A]{
		processBase: processBase{name: fmt.Sprintf("%T", algo)},
		algo:        algo,
	}, nil
}

func (p *algorithmProcessor[A]) init(parentID ProcessorId, parentName string, index int) error {
	return p.assignInfo(parentID, parentName, index)
}

func (p *algorithmProcessor[A]) Process(ctx *ProcessContext) Status {
	return p.run(ctx, func(ctx *ProcessContext) Status {
		dc := ctx.DataContext().forUser(TypeOf[A]())
		return p.algo.Execute(dc)
	})
}
