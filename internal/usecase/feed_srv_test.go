package usecase

import (
	"context"
	"errors"
	"testing"

	"film-social/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedService_FeedOfIsChronological(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	me, friend, film := f.newUser(t), f.newUser(t), f.newFilm(t)

	f.like(t, me, film)
	require.NoError(t, f.svc.Friend.AddFriend(ctx, me.String(), friend.String()))
	f.newReview(t, me, film)
	require.NoError(t, f.svc.Film.RemoveLike(ctx, film.String(), me.String()))
	f.like(t, friend, film)

	feed, err := f.svc.Feed.FeedOf(ctx, me.String())
	require.NoError(t, err)
	require.Len(t, feed, 4)

	got := make([]string, len(feed))
	for i, e := range feed {
		got[i] = e.EventType + "/" + e.Operation
		assert.Equal(t, me.String(), e.UserID)
		if i > 0 {
			assert.Greater(t, e.Timestamp, feed[i-1].Timestamp)
		}
	}
	assert.Equal(t, []string{"LIKE/ADD", "FRIEND/ADD", "REVIEW/ADD", "LIKE/REMOVE"}, got)
}

func TestFeedService_UnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Feed.FeedOf(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeedService_AppendFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	me, film := f.newUser(t), f.newFilm(t)

	f.store.FailEvents(errors.New("event store down"))
	require.NoError(t, f.svc.Film.AddLike(ctx, film.String(), me.String()))
	_, err := f.svc.Review.CreateReview(ctx, &request.CreateReviewRequest{
		UserID:     me.String(),
		FilmID:     film.String(),
		Content:    "still saved",
		IsPositive: boolPtr(true),
	})
	require.NoError(t, err)
	f.store.FailEvents(nil)

	likes, err := f.svc.Film.LikesOfUser(ctx, me.String())
	require.NoError(t, err)
	assert.Len(t, likes, 1)

	feed, err := f.svc.Feed.FeedOf(ctx, me.String())
	require.NoError(t, err)
	assert.Empty(t, feed)
}
