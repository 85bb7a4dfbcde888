package usecase

import (
	"context"
	"testing"

	"film-social/internal/data/entity"
	"film-social/internal/dto/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userIDs(users []response.UserResponse) []string {
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

func TestFriendService_AddFriendIsDirected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a, b := f.newUser(t), f.newUser(t)

	require.NoError(t, f.svc.Friend.AddFriend(ctx, a.String(), b.String()))

	friends, err := f.svc.Friend.GetFriends(ctx, a.String())
	require.NoError(t, err)
	assert.Equal(t, []string{b.String()}, userIDs(friends))

	friends, err = f.svc.Friend.GetFriends(ctx, b.String())
	require.NoError(t, err)
	assert.Empty(t, friends)

	events := f.events(t, a)
	require.Len(t, events, 1)
	assert.Equal(t, entity.EventFriend, events[0].EventType)
	assert.Equal(t, entity.OperationAdd, events[0].Operation)
	assert.Equal(t, b, events[0].EntityID)
}

func TestFriendService_AddFriendErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a, b := f.newUser(t), f.newUser(t)

	assert.ErrorIs(t, f.svc.Friend.AddFriend(ctx, a.String(), a.String()), ErrValidation)

	stranger := uuid.NewString()
	assert.ErrorIs(t, f.svc.Friend.AddFriend(ctx, stranger, stranger), ErrValidation, "self-edge is checked before existence")
	assert.ErrorIs(t, f.svc.Friend.AddFriend(ctx, a.String(), stranger), ErrNotFound)

	require.NoError(t, f.svc.Friend.AddFriend(ctx, a.String(), b.String()))
	assert.ErrorIs(t, f.svc.Friend.AddFriend(ctx, a.String(), b.String()), ErrValidation)
	assert.Len(t, f.events(t, a), 1)
}

func TestFriendService_RemoveFriend(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a, b, c := f.newUser(t), f.newUser(t), f.newUser(t)

	err := f.svc.Friend.RemoveFriend(ctx, a.String(), b.String())
	assert.ErrorIs(t, err, ErrNonCritical, "empty friend list is reported as a warning")

	require.NoError(t, f.svc.Friend.AddFriend(ctx, a.String(), c.String()))

	require.NoError(t, f.svc.Friend.RemoveFriend(ctx, a.String(), b.String()), "absent edge is ignored")
	assert.Len(t, f.events(t, a), 1)

	require.NoError(t, f.svc.Friend.RemoveFriend(ctx, a.String(), c.String()))
	events := f.events(t, a)
	require.Len(t, events, 2)
	assert.Equal(t, entity.OperationRemove, events[1].Operation)
	assert.Equal(t, c, events[1].EntityID)

	assert.ErrorIs(t, f.svc.Friend.RemoveFriend(ctx, a.String(), uuid.NewString()), ErrNotFound)
}

func TestFriendService_CommonFriends(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a, b, shared, onlyA := f.newUser(t), f.newUser(t), f.newUser(t), f.newUser(t)

	require.NoError(t, f.svc.Friend.AddFriend(ctx, a.String(), shared.String()))
	require.NoError(t, f.svc.Friend.AddFriend(ctx, a.String(), onlyA.String()))
	require.NoError(t, f.svc.Friend.AddFriend(ctx, b.String(), shared.String()))

	common, err := f.svc.Friend.CommonFriends(ctx, a.String(), b.String())
	require.NoError(t, err)
	assert.Equal(t, []string{shared.String()}, userIDs(common))

	common, err = f.svc.Friend.CommonFriends(ctx, a.String(), shared.String())
	require.NoError(t, err)
	assert.Empty(t, common)
}
