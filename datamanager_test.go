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

type frameRecvUser struct{}
type calcUser struct{}
type readOnlyUser struct{}

func TestUnregisteredAccessIsAbsentAndHasNoEffect(t *testing.T) {
	dm := NewDataManager()
	user := TypeOf[frameRecvUser]()

	require.False(t, ManagerGet[int](dm, user, LifeSpanFrame).HasValue())
	require.False(t, ManagerGetConst[int](dm, user, LifeSpanFrame).HasValue())
	require.False(t, ManagerCreate[int](dm, user, LifeSpanFrame, 7).HasValue())
	ManagerDestroy[int](dm, user, LifeSpanFrame) // must not panic

	require.NoError(t, Apply[int](dm, user, LifeSpanFrame, AccessCreate))
	require.Equal(t, 0, ManagerGet[int](dm, user, LifeSpanFrame).Get(), "registration default-constructs the zero value immediately")
}

func TestReadOnlyPeerSeesOnlyGetConst(t *testing.T) {
	dm := NewDataManager()
	creator := TypeOf[frameRecvUser]()
	reader := TypeOf[readOnlyUser]()

	require.NoError(t, Apply[int](dm, creator, LifeSpanFrame, AccessCreate))
	require.NoError(t, Apply[int](dm, reader, LifeSpanFrame, AccessRead))

	// Registration default-constructs int's zero value immediately; the
	// reader sees that zero value until the creator actually produces
	// one.
	require.Equal(t, 0, ManagerGetConst[int](dm, reader, LifeSpanFrame).Get())

	created := ManagerCreate[int](dm, creator, LifeSpanFrame, 42)
	require.True(t, created.HasValue())

	require.True(t, ManagerGetConst[int](dm, reader, LifeSpanFrame).HasValue())
	require.Equal(t, 42, ManagerGetConst[int](dm, reader, LifeSpanFrame).Get())

	// A Read-only peer may not mutate or create.
	require.False(t, ManagerGet[int](dm, reader, LifeSpanFrame).HasValue())
	require.False(t, ManagerCreate[int](dm, reader, LifeSpanFrame, 99).HasValue())
}

func TestCreateReplacesAndDestroyLeavesPresentButUnconstructed(t *testing.T) {
	dm := NewDataManager()
	creator := TypeOf[frameRecvUser]()
	reader := TypeOf[readOnlyUser]()

	require.NoError(t, Apply[int](dm, creator, LifeSpanFrame, AccessCreate))
	require.NoError(t, Apply[int](dm, reader, LifeSpanFrame, AccessRead))

	ManagerCreate[int](dm, creator, LifeSpanFrame, 1)
	ManagerCreate[int](dm, creator, LifeSpanFrame, 2)
	require.Equal(t, 2, ManagerGetConst[int](dm, reader, LifeSpanFrame).Get())

	ManagerDestroy[int](dm, creator, LifeSpanFrame)
	require.False(t, ManagerGetConst[int](dm, reader, LifeSpanFrame).HasValue())
}

func TestCreateDestroyCreateRoundTrip(t *testing.T) {
	dm := NewDataManager()
	creator := TypeOf[frameRecvUser]()
	require.NoError(t, Apply[int](dm, creator, LifeSpanFrame, AccessCreate))

	ManagerCreate[int](dm, creator, LifeSpanFrame, 10)
	ManagerDestroy[int](dm, creator, LifeSpanFrame)
	ManagerCreate[int](dm, creator, LifeSpanFrame, 20)

	require.Equal(t, 20, ManagerGet[int](dm, creator, LifeSpanFrame).Get())
}

func TestOnlyOneCreatorPerTypeAndSpan(t *testing.T) {
	dm := NewDataManager()
	first := TypeOf[frameRecvUser]()
	second := TypeOf[calcUser]()

	require.NoError(t, Apply[int](dm, first, LifeSpanFrame, AccessCreate))
	err := Apply[int](dm, second, LifeSpanFrame, AccessCreate)
	require.ErrorIs(t, err, ErrDuplicateRegistration)
}

func TestDuplicateRegistrationForSameUserRejected(t *testing.T) {
	dm := NewDataManager()
	user := TypeOf[frameRecvUser]()

	require.NoError(t, Apply[int](dm, user, LifeSpanFrame, AccessRead))
	err := Apply[int](dm, user, LifeSpanFrame, AccessRead)
	require.ErrorIs(t, err, ErrDuplicateRegistration)
}

func TestResetSpanRestoresDefaultAndIsIdempotent(t *testing.T) {
	dm := NewDataManager()
	user := TypeOf[frameRecvUser]()
	require.NoError(t, ApplyWithDefault[int](dm, user, LifeSpanFrame, AccessCreate, func() int { return 100 }))

	require.Equal(t, 100, ManagerGet[int](dm, user, LifeSpanFrame).Get())
	ManagerSet[int](dm, user, LifeSpanFrame, 999)
	require.Equal(t, 999, ManagerGet[int](dm, user, LifeSpanFrame).Get())

	dm.ResetSpan(LifeSpanFrame)
	require.Equal(t, 100, ManagerGet[int](dm, user, LifeSpanFrame).Get())

	dm.ResetSpan(LifeSpanFrame)
	require.Equal(t, 100, ManagerGet[int](dm, user, LifeSpanFrame).Get())
}

func TestCreateSyncRoundTrip(t *testing.T) {
	dm := NewDataManager()
	user := TypeOf[frameRecvUser]()
	require.NoError(t, Apply[int](dm, user, LifeSpanFrame, AccessCreateSync))

	ManagerCreate[int](dm, user, LifeSpanFrame, 5)
	require.True(t, ManagerSet[int](dm, user, LifeSpanFrame, 6))
	require.Equal(t, 6, ManagerGet[int](dm, user, LifeSpanFrame).Get())
}
