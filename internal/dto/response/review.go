package response

import (
	"time"

	"film-social/internal/data/entity"

	"github.com/google/uuid"
)

type ReviewResponse struct {
	ID         string    `json:"reviewId"`
	UserID     string    `json:"userId"`
	FilmID     string    `json:"filmId"`
	Content    string    `json:"content"`
	IsPositive bool      `json:"isPositive"`
	Useful     int       `json:"useful"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Helper converter
func ReviewToResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:         review.ID.String(),
		UserID:     review.UserID.String(),
		FilmID:     review.FilmID.String(),
		Content:    review.Content,
		IsPositive: review.IsPositive,
		Useful:     review.Useful,
		CreatedAt:  review.CreatedAt,
	}
}

type RatingResponse struct {
	ReviewID string `json:"reviewId"`
	UserID   string `json:"userId"`
	State    string `json:"state"`
	Useful   int    `json:"useful"`
}

func RatingToResponse(review *entity.Review, userID uuid.UUID, state entity.RatingState) RatingResponse {
	return RatingResponse{
		ReviewID: review.ID.String(),
		UserID:   userID.String(),
		State:    state.String(),
		Useful:   review.Useful,
	}
}
