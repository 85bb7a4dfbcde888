package usecase

import (
	"context"
	"testing"

	"film-social/internal/data/entity"
	"film-social/internal/dto/request"
	"film-social/internal/dto/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }

func (f *fixture) newReview(t *testing.T, author, film uuid.UUID) *response.ReviewResponse {
	t.Helper()
	review, err := f.svc.Review.CreateReview(context.Background(), &request.CreateReviewRequest{
		UserID:     author.String(),
		FilmID:     film.String(),
		Content:    "a review",
		IsPositive: boolPtr(true),
	})
	require.NoError(t, err)
	return review
}

func TestReviewService_RatingScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author, rater := f.newUser(t), f.newUser(t)
	review := f.newReview(t, author, f.newFilm(t))
	assert.Equal(t, 0, review.Useful)

	got, err := f.svc.Review.AddLike(ctx, review.ID, rater.String())
	require.NoError(t, err)
	assert.Equal(t, 1, got.Useful)

	got, err = f.svc.Review.AddDislike(ctx, review.ID, rater.String())
	require.NoError(t, err)
	assert.Equal(t, -1, got.Useful)

	got, err = f.svc.Review.RemoveDislike(ctx, review.ID, rater.String())
	require.NoError(t, err)
	assert.Equal(t, 0, got.Useful)

	rating, err := f.svc.Review.RatingOf(ctx, review.ID, rater.String())
	require.NoError(t, err)
	assert.Equal(t, entity.RatingNone.String(), rating.State)

	assert.Len(t, f.events(t, rater), 0, "ratings are not part of the feed")
}

func TestReviewService_RatingErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author, rater := f.newUser(t), f.newUser(t)
	review := f.newReview(t, author, f.newFilm(t))

	_, err := f.svc.Review.AddLike(ctx, review.ID, rater.String())
	require.NoError(t, err)

	_, err = f.svc.Review.AddLike(ctx, review.ID, rater.String())
	assert.ErrorIs(t, err, ErrValidation, "liking twice")

	_, err = f.svc.Review.RemoveDislike(ctx, review.ID, rater.String())
	assert.ErrorIs(t, err, ErrNotFound, "removing a dislike that is not there")

	_, err = f.svc.Review.AddLike(ctx, uuid.NewString(), rater.String())
	assert.ErrorIs(t, err, ErrNotFound, "unknown review")

	_, err = f.svc.Review.AddLike(ctx, review.ID, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound, "unknown user")

	got, err := f.svc.Review.GetReview(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Useful, "failed transitions leave usefulness alone")
}

func TestReviewService_UsefulTracksRaters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	review := f.newReview(t, f.newUser(t), f.newFilm(t))

	for i := 0; i < 3; i++ {
		_, err := f.svc.Review.AddLike(ctx, review.ID, f.newUser(t).String())
		require.NoError(t, err)
	}
	switcher := f.newUser(t)
	_, err := f.svc.Review.AddLike(ctx, review.ID, switcher.String())
	require.NoError(t, err)
	_, err = f.svc.Review.AddDislike(ctx, review.ID, switcher.String())
	require.NoError(t, err)

	got, err := f.svc.Review.GetReview(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Useful)
}

func TestReviewService_CreateReview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author, film := f.newUser(t), f.newFilm(t)

	review := f.newReview(t, author, film)
	assert.Equal(t, author.String(), review.UserID)
	assert.Equal(t, film.String(), review.FilmID)

	events := f.events(t, author)
	require.Len(t, events, 1)
	assert.Equal(t, entity.EventReview, events[0].EventType)
	assert.Equal(t, entity.OperationAdd, events[0].Operation)
	assert.Equal(t, review.ID, events[0].EntityID.String())

	tests := []struct {
		name string
		req  request.CreateReviewRequest
		want error
	}{
		{
			name: "duplicate review",
			req:  request.CreateReviewRequest{UserID: author.String(), FilmID: film.String(), Content: "again", IsPositive: boolPtr(false)},
			want: ErrValidation,
		},
		{
			name: "blank content",
			req:  request.CreateReviewRequest{UserID: author.String(), FilmID: f.newFilm(t).String(), Content: "   ", IsPositive: boolPtr(true)},
			want: ErrValidation,
		},
		{
			name: "missing polarity",
			req:  request.CreateReviewRequest{UserID: author.String(), FilmID: f.newFilm(t).String(), Content: "text"},
			want: ErrValidation,
		},
		{
			name: "unknown film",
			req:  request.CreateReviewRequest{UserID: author.String(), FilmID: uuid.NewString(), Content: "text", IsPositive: boolPtr(true)},
			want: ErrNotFound,
		},
		{
			name: "unknown user",
			req:  request.CreateReviewRequest{UserID: uuid.NewString(), FilmID: film.String(), Content: "text", IsPositive: boolPtr(true)},
			want: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Review.CreateReview(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReviewService_UpdateKeepsAuthorAndUseful(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.newUser(t)
	review := f.newReview(t, author, f.newFilm(t))

	_, err := f.svc.Review.AddLike(ctx, review.ID, f.newUser(t).String())
	require.NoError(t, err)

	updated, err := f.svc.Review.UpdateReview(ctx, review.ID, &request.UpdateReviewRequest{
		Content:    "changed my mind",
		IsPositive: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "changed my mind", updated.Content)
	assert.False(t, updated.IsPositive)
	assert.Equal(t, author.String(), updated.UserID)
	assert.Equal(t, review.FilmID, updated.FilmID)
	assert.Equal(t, 1, updated.Useful)

	events := f.events(t, author)
	require.Len(t, events, 2)
	assert.Equal(t, entity.OperationUpdate, events[1].Operation)

	_, err = f.svc.Review.UpdateReview(ctx, uuid.NewString(), &request.UpdateReviewRequest{Content: "x", IsPositive: boolPtr(true)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewService_DeleteReview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.newUser(t)
	review := f.newReview(t, author, f.newFilm(t))

	require.NoError(t, f.svc.Review.DeleteReview(ctx, review.ID))

	_, err := f.svc.Review.GetReview(ctx, review.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	events := f.events(t, author)
	require.Len(t, events, 2)
	assert.Equal(t, entity.OperationRemove, events[1].Operation)

	assert.ErrorIs(t, f.svc.Review.DeleteReview(ctx, review.ID), ErrNotFound)
}

func TestReviewService_ListReviews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	film, otherFilm := f.newFilm(t), f.newFilm(t)

	low := f.newReview(t, f.newUser(t), film)
	high := f.newReview(t, f.newUser(t), film)
	f.newReview(t, f.newUser(t), otherFilm)

	_, err := f.svc.Review.AddLike(ctx, high.ID, f.newUser(t).String())
	require.NoError(t, err)
	_, err = f.svc.Review.AddDislike(ctx, low.ID, f.newUser(t).String())
	require.NoError(t, err)

	reviews, err := f.svc.Review.ListReviews(ctx, &request.ListReviewsRequest{FilmID: film.String()})
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, high.ID, reviews[0].ID)
	assert.Equal(t, low.ID, reviews[1].ID)

	all, err := f.svc.Review.ListReviews(ctx, &request.ListReviewsRequest{Count: 2})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.svc.Review.ListReviews(ctx, &request.ListReviewsRequest{Count: -1})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReviewService_RatingOf(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author, fan, critic := f.newUser(t), f.newUser(t), f.newUser(t)
	review := f.newReview(t, author, f.newFilm(t))

	_, err := f.svc.Review.AddLike(ctx, review.ID, fan.String())
	require.NoError(t, err)
	_, err = f.svc.Review.AddDislike(ctx, review.ID, critic.String())
	require.NoError(t, err)

	tests := []struct {
		name  string
		user  uuid.UUID
		state string
	}{
		{name: "liked", user: fan, state: "LIKED"},
		{name: "disliked", user: critic, state: "DISLIKED"},
		{name: "unrated", user: author, state: "NONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rating, err := f.svc.Review.RatingOf(ctx, review.ID, tt.user.String())
			require.NoError(t, err)
			assert.Equal(t, review.ID, rating.ReviewID)
			assert.Equal(t, tt.user.String(), rating.UserID)
			assert.Equal(t, tt.state, rating.State)
			assert.Equal(t, 0, rating.Useful)
		})
	}

	_, err = f.svc.Review.RatingOf(ctx, uuid.NewString(), fan.String())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.Review.RatingOf(ctx, review.ID, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.Review.RatingOf(ctx, review.ID, "not-a-uuid")
	assert.ErrorIs(t, err, ErrValidation)
}
