package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_DeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	gone, stay, film := f.newUser(t), f.newUser(t), f.newFilm(t)

	f.like(t, gone, film)
	require.NoError(t, f.svc.Friend.AddFriend(ctx, gone.String(), stay.String()))
	require.NoError(t, f.svc.Friend.AddFriend(ctx, stay.String(), gone.String()))

	authored := f.newReview(t, gone, film)
	others := f.newReview(t, stay, film)
	_, err := f.svc.Review.AddLike(ctx, others.ID, gone.String())
	require.NoError(t, err)

	require.NoError(t, f.svc.User.DeleteUser(ctx, gone.String()))

	_, err = f.svc.User.GetUser(ctx, gone.String())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Review.GetReview(ctx, authored.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	review, err := f.svc.Review.GetReview(ctx, others.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, review.Useful, "the deleted user's rating no longer counts")

	friends, err := f.svc.Friend.GetFriends(ctx, stay.String())
	require.NoError(t, err)
	assert.Empty(t, friends)

	snapshot, err := f.repo.Like.Snapshot(ctx)
	require.NoError(t, err)
	assert.NotContains(t, snapshot, gone)
	assert.Empty(t, f.events(t, gone))

	assert.ErrorIs(t, f.svc.User.DeleteUser(ctx, uuid.NewString()), ErrNotFound)
}

func TestUserService_DeleteUserIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	gone, stay, film := f.newUser(t), f.newUser(t), f.newFilm(t)

	f.like(t, gone, film)
	require.NoError(t, f.svc.Friend.AddFriend(ctx, stay.String(), gone.String()))
	authored := f.newReview(t, gone, film)
	others := f.newReview(t, stay, film)
	_, err := f.svc.Review.AddLike(ctx, others.ID, gone.String())
	require.NoError(t, err)

	// events are removed after ratings, reviews, likes and friends
	f.store.FailEvents(errors.New("event store down"))
	err = f.svc.User.DeleteUser(ctx, gone.String())
	f.store.FailEvents(nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = f.svc.User.GetUser(ctx, gone.String())
	require.NoError(t, err)

	_, err = f.svc.Review.GetReview(ctx, authored.ID)
	require.NoError(t, err)

	review, err := f.svc.Review.GetReview(ctx, others.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, review.Useful)

	friends, err := f.svc.Friend.GetFriends(ctx, stay.String())
	require.NoError(t, err)
	assert.Equal(t, []string{gone.String()}, userIDs(friends))

	liked, err := f.svc.Film.LikesOfUser(ctx, gone.String())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{film}, liked)
}
