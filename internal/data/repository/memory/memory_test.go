package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"film-social/internal/data/entity"
	"film-social/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeRepository_AddRemove(t *testing.T) {
	ctx := context.Background()
	repo := New().Repository()
	userID, filmID := uuid.New(), uuid.New()

	added, err := repo.Like.Add(ctx, filmID, userID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.Like.Add(ctx, filmID, userID)
	require.NoError(t, err)
	assert.False(t, added, "second add is a no-op")

	ids, err := repo.Like.FindFilmIDsByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{filmID}, ids)

	removed, err := repo.Like.Remove(ctx, filmID, userID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Like.Remove(ctx, filmID, userID)
	require.NoError(t, err)
	assert.False(t, removed)

	snapshot, err := repo.Like.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshot)
}

func TestLikeRepository_SnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	repo := New().Repository()
	userID, filmID := uuid.New(), uuid.New()

	_, err := repo.Like.Add(ctx, filmID, userID)
	require.NoError(t, err)

	snapshot, err := repo.Like.Snapshot(ctx)
	require.NoError(t, err)

	_, err = repo.Like.Add(ctx, uuid.New(), userID)
	require.NoError(t, err)

	assert.Len(t, snapshot[userID], 1)
}

func TestFriendRepository_DeleteByUserRemovesBothDirections(t *testing.T) {
	ctx := context.Background()
	repo := New().Repository()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	for _, edge := range [][2]uuid.UUID{{a, b}, {b, a}, {c, a}, {b, c}} {
		_, err := repo.Friend.Add(ctx, edge[0], edge[1])
		require.NoError(t, err)
	}

	require.NoError(t, repo.Friend.DeleteByUser(ctx, a))

	ids, err := repo.Friend.FindFriendIDs(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c}, ids)

	ids, err = repo.Friend.FindFriendIDs(ctx, c)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReviewRepository_ApplyRatingConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := New().Repository()
	review := &entity.Review{BaseSimple: entity.BaseSimple{ID: uuid.New()}, UserID: uuid.New(), FilmID: uuid.New()}
	require.NoError(t, repo.Review.Create(ctx, review))

	const raters = 50
	var wg sync.WaitGroup
	for i := 0; i < raters; i++ {
		userID := uuid.New()
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Review.ApplyRating(ctx, review.ID, userID, func(s entity.RatingState) (entity.RatingState, int, error) {
				return s.Apply(entity.ActionLike)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.Review.FindByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, raters, got.Useful)
}

func TestReviewRepository_ApplyRatingErrorLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	repo := New().Repository()
	review := &entity.Review{BaseSimple: entity.BaseSimple{ID: uuid.New()}, UserID: uuid.New(), FilmID: uuid.New()}
	require.NoError(t, repo.Review.Create(ctx, review))
	rater := uuid.New()

	_, err := repo.Review.ApplyRating(ctx, review.ID, rater, func(s entity.RatingState) (entity.RatingState, int, error) {
		return s.Apply(entity.ActionRemoveLike)
	})
	require.ErrorIs(t, err, entity.ErrRatingNotFound)

	state, err := repo.Review.GetRating(ctx, review.ID, rater)
	require.NoError(t, err)
	assert.Equal(t, entity.RatingNone, state)

	missing, err := repo.Review.ApplyRating(ctx, uuid.New(), rater, func(s entity.RatingState) (entity.RatingState, int, error) {
		return s.Apply(entity.ActionLike)
	})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestReviewRepository_DeleteRatingsByUserRevertsUseful(t *testing.T) {
	ctx := context.Background()
	repo := New().Repository()
	first := &entity.Review{BaseSimple: entity.BaseSimple{ID: uuid.New()}, UserID: uuid.New(), FilmID: uuid.New()}
	second := &entity.Review{BaseSimple: entity.BaseSimple{ID: uuid.New()}, UserID: uuid.New(), FilmID: uuid.New()}
	require.NoError(t, repo.Review.Create(ctx, first))
	require.NoError(t, repo.Review.Create(ctx, second))

	rater, other := uuid.New(), uuid.New()
	rate := func(reviewID, userID uuid.UUID, action entity.RatingAction) {
		_, err := repo.Review.ApplyRating(ctx, reviewID, userID, func(s entity.RatingState) (entity.RatingState, int, error) {
			return s.Apply(action)
		})
		require.NoError(t, err)
	}
	rate(first.ID, rater, entity.ActionLike)
	rate(first.ID, other, entity.ActionLike)
	rate(second.ID, rater, entity.ActionDislike)

	require.NoError(t, repo.Review.DeleteRatingsByUser(ctx, rater))

	got, err := repo.Review.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Useful)

	got, err = repo.Review.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Useful)
}

func TestReviewRepository_FindAllOrdersByUseful(t *testing.T) {
	ctx := context.Background()
	repo := New().Repository()
	filmID := uuid.New()

	useful := []int{2, -1, 5}
	for _, u := range useful {
		require.NoError(t, repo.Review.Create(ctx, &entity.Review{
			BaseSimple: entity.BaseSimple{ID: uuid.New()},
			UserID:     uuid.New(),
			FilmID:     filmID,
			Useful:     u,
		}))
	}
	require.NoError(t, repo.Review.Create(ctx, &entity.Review{
		BaseSimple: entity.BaseSimple{ID: uuid.New()},
		UserID:     uuid.New(),
		FilmID:     uuid.New(),
		Useful:     10,
	}))

	reviews, err := repo.Review.FindAll(ctx, &filmID, 10)
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	assert.Equal(t, 5, reviews[0].Useful)
	assert.Equal(t, 2, reviews[1].Useful)
	assert.Equal(t, -1, reviews[2].Useful)

	all, err := repo.Review.FindAll(ctx, nil, 2)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 10, all[0].Useful)
}

func TestEventRepository_FindByUserIDOrdersByTimestamp(t *testing.T) {
	ctx := context.Background()
	repo := New().Repository()
	userID := uuid.New()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	appendAt := func(ts time.Time, op entity.EventOperation) {
		require.NoError(t, repo.Event.Append(ctx, &entity.UserEvent{
			ID:        uuid.New(),
			Timestamp: ts,
			UserID:    userID,
			EventType: entity.EventLike,
			Operation: op,
			EntityID:  uuid.New(),
		}))
	}

	// the clock stepped back between the first two appends
	appendAt(base.Add(time.Minute), entity.OperationAdd)
	appendAt(base, entity.OperationRemove)
	appendAt(base.Add(time.Minute), entity.OperationUpdate)

	events, err := repo.Event.FindByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, events, 3)

	got := []entity.EventOperation{events[0].Operation, events[1].Operation, events[2].Operation}
	assert.Equal(t, []entity.EventOperation{entity.OperationRemove, entity.OperationAdd, entity.OperationUpdate}, got)
}

func TestStore_WithinTxRestoresStateOnError(t *testing.T) {
	ctx := context.Background()
	store := New()
	repo := store.Repository()
	userID, friendID, filmID := uuid.New(), uuid.New(), uuid.New()

	_, err := repo.Like.Add(ctx, filmID, userID)
	require.NoError(t, err)
	_, err = repo.Friend.Add(ctx, userID, friendID)
	require.NoError(t, err)

	failed := errors.New("step failed")
	err = repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		require.NoError(t, tx.Like.DeleteByUser(ctx, userID))
		require.NoError(t, tx.Friend.DeleteByUser(ctx, userID))
		return failed
	})
	assert.ErrorIs(t, err, failed)

	ids, err := repo.Like.FindFilmIDsByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{filmID}, ids)

	friends, err := repo.Friend.FindFriendIDs(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{friendID}, friends)

	err = repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		return tx.Like.DeleteByUser(ctx, userID)
	})
	require.NoError(t, err)

	ids, err = repo.Like.FindFilmIDsByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
