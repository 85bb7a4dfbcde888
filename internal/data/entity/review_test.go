package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatingState_Apply(t *testing.T) {
	tests := []struct {
		name      string
		from      RatingState
		action    RatingAction
		wantState RatingState
		wantDelta int
		wantErr   error
	}{
		{"like from none", RatingNone, ActionLike, RatingLiked, 1, nil},
		{"like flips dislike", RatingDisliked, ActionLike, RatingLiked, 2, nil},
		{"like twice", RatingLiked, ActionLike, RatingLiked, 0, ErrAlreadyRated},
		{"dislike from none", RatingNone, ActionDislike, RatingDisliked, -1, nil},
		{"dislike flips like", RatingLiked, ActionDislike, RatingDisliked, -2, nil},
		{"dislike twice", RatingDisliked, ActionDislike, RatingDisliked, 0, ErrAlreadyRated},
		{"remove like", RatingLiked, ActionRemoveLike, RatingNone, -1, nil},
		{"remove like from none", RatingNone, ActionRemoveLike, RatingNone, 0, ErrRatingNotFound},
		{"remove like from dislike", RatingDisliked, ActionRemoveLike, RatingDisliked, 0, ErrRatingNotFound},
		{"remove dislike", RatingDisliked, ActionRemoveDislike, RatingNone, 1, nil},
		{"remove dislike from none", RatingNone, ActionRemoveDislike, RatingNone, 0, ErrRatingNotFound},
		{"remove dislike from like", RatingLiked, ActionRemoveDislike, RatingLiked, 0, ErrRatingNotFound},
		{"unknown action", RatingNone, RatingAction("shrug"), RatingNone, 0, ErrUnknownAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, delta, err := tt.from.Apply(tt.action)

			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantState, next)
			assert.Equal(t, tt.wantDelta, delta)
		})
	}
}

// Usefulness must always equal likes minus dislikes, whatever the sequence.
func TestRatingState_UsefulnessTracksState(t *testing.T) {
	actions := []RatingAction{
		ActionLike, ActionDislike, ActionDislike, ActionRemoveLike, ActionRemoveDislike,
		ActionRemoveDislike, ActionLike, ActionLike, ActionDislike, ActionLike, ActionRemoveLike,
	}

	state := RatingNone
	useful := 0
	for _, action := range actions {
		next, delta, err := state.Apply(action)
		if err != nil {
			continue
		}
		state = next
		useful += delta

		want := 0
		switch state {
		case RatingLiked:
			want = 1
		case RatingDisliked:
			want = -1
		}
		assert.Equal(t, want, useful, "after %s", action)
	}
}

func TestRatingStateFromIsLike(t *testing.T) {
	assert.Equal(t, RatingLiked, RatingStateFromIsLike(true))
	assert.Equal(t, RatingDisliked, RatingStateFromIsLike(false))
	assert.True(t, RatingLiked.IsLike())
	assert.False(t, RatingDisliked.IsLike())
	assert.Equal(t, "NONE", RatingNone.String())
}
