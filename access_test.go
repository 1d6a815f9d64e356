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
	"testing"

	"github.com/stretchr/testify/require"
)

type accessTestUserA struct{}
type accessTestUserB struct{}
type accessTestData struct{}

func TestAccessControllerRegisterAndModeOf(t *testing.T) {
	acl := NewAccessController()
	user := TypeOf[accessTestUserA]()
	dtype := TypeOf[accessTestData]()

	require.Equal(t, AccessNone, acl.ModeOf(user, dtype, LifeSpanFrame))

	require.True(t, acl.Register(user, dtype, LifeSpanFrame, AccessRead))
	require.Equal(t, AccessRead, acl.ModeOf(user, dtype, LifeSpanFrame))

	require.False(t, acl.Register(user, dtype, LifeSpanFrame, AccessWrite), "re-registering the same triple must fail")
}

func TestAccessControllerCreatorOf(t *testing.T) {
	acl := NewAccessController()
	a := TypeOf[accessTestUserA]()
	b := TypeOf[accessTestUserB]()
	dtype := TypeOf[accessTestData]()

	_, ok := acl.creatorOf(dtype, LifeSpanFrame)
	require.False(t, ok)

	require.True(t, acl.Register(a, dtype, LifeSpanFrame, AccessRead))
	_, ok = acl.creatorOf(dtype, LifeSpanFrame)
	require.False(t, ok, "a Read registration is not a creator")

	require.True(t, acl.Register(b, dtype, LifeSpanFrame, AccessCreateSync))
	creator, ok := acl.creatorOf(dtype, LifeSpanFrame)
	require.True(t, ok)
	require.Equal(t, b, creator)
}

func TestAccessModeSyncAndCanCreate(t *testing.T) {
	require.True(t, AccessCreate.canCreate())
	require.True(t, AccessCreateSync.canCreate())
	require.False(t, AccessRead.canCreate())
	require.False(t, AccessWrite.canCreate())

	require.True(t, AccessCreateSync.sync())
	require.False(t, AccessCreate.sync())
	require.False(t, AccessRead.sync())
}
