package entity

import (
	"errors"

	"github.com/google/uuid"
)

type Review struct {
	BaseSimple
	UserID     uuid.UUID `db:"user_id"`
	FilmID     uuid.UUID `db:"film_id"`
	Content    string    `db:"content"`
	IsPositive bool      `db:"is_positive"`
	Useful     int       `db:"useful"` // likes minus dislikes
}

// RatingState is a user's rating of one review. The zero value is RatingNone.
type RatingState int

const (
	RatingNone RatingState = iota
	RatingLiked
	RatingDisliked
)

func (s RatingState) String() string {
	switch s {
	case RatingLiked:
		return "LIKED"
	case RatingDisliked:
		return "DISLIKED"
	default:
		return "NONE"
	}
}

// IsLike maps the state onto the stored is_like column. Only valid for rated states.
func (s RatingState) IsLike() bool {
	return s == RatingLiked
}

// RatingStateFromIsLike maps a stored is_like column back onto the state.
func RatingStateFromIsLike(isLike bool) RatingState {
	if isLike {
		return RatingLiked
	}
	return RatingDisliked
}

type RatingAction string

const (
	ActionLike          RatingAction = "like"
	ActionDislike       RatingAction = "dislike"
	ActionRemoveLike    RatingAction = "remove_like"
	ActionRemoveDislike RatingAction = "remove_dislike"
)

var (
	ErrAlreadyRated   = errors.New("review already rated with the same value")
	ErrRatingNotFound = errors.New("rating not found")
	ErrUnknownAction  = errors.New("unknown rating action")
)

// Apply returns the next state and the change to the review's usefulness.
func (s RatingState) Apply(action RatingAction) (RatingState, int, error) {
	switch action {
	case ActionLike:
		switch s {
		case RatingNone:
			return RatingLiked, 1, nil
		case RatingDisliked:
			return RatingLiked, 2, nil
		}
		return s, 0, ErrAlreadyRated

	case ActionDislike:
		switch s {
		case RatingNone:
			return RatingDisliked, -1, nil
		case RatingLiked:
			return RatingDisliked, -2, nil
		}
		return s, 0, ErrAlreadyRated

	case ActionRemoveLike:
		if s != RatingLiked {
			return s, 0, ErrRatingNotFound
		}
		return RatingNone, -1, nil

	case ActionRemoveDislike:
		if s != RatingDisliked {
			return s, 0, ErrRatingNotFound
		}
		return RatingNone, 1, nil
	}

	return s, 0, ErrUnknownAction
}
