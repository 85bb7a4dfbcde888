package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"film-social/internal/data/entity"
	"film-social/internal/data/repository"
	"film-social/internal/dto/request"
	"film-social/internal/dto/response"
	"film-social/pkg/metrics"
	"film-social/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultReviewCount = 10

type ReviewService interface {
	CreateReview(ctx context.Context, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, reviewID string) error
	GetReview(ctx context.Context, reviewID string) (*response.ReviewResponse, error)
	ListReviews(ctx context.Context, req *request.ListReviewsRequest) ([]response.ReviewResponse, error)

	// Rating ledger. Ratings never appear in the event feed.
	AddLike(ctx context.Context, reviewID, userID string) (*response.ReviewResponse, error)
	AddDislike(ctx context.Context, reviewID, userID string) (*response.ReviewResponse, error)
	RemoveLike(ctx context.Context, reviewID, userID string) (*response.ReviewResponse, error)
	RemoveDislike(ctx context.Context, reviewID, userID string) (*response.ReviewResponse, error)
	RatingOf(ctx context.Context, reviewID, userID string) (*response.RatingResponse, error)
}

type reviewService struct {
	repo    *repository.Repository
	feed    FeedService
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewReviewService(repo *repository.Repository, feed FeedService, m *metrics.Metrics, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:    repo,
		feed:    feed,
		metrics: m,
		log:     log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) CreateReview(ctx context.Context, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create review validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	userID, err := parseID("user", req.UserID)
	if err != nil {
		return nil, err
	}
	filmID, err := parseID("film", req.FilmID)
	if err != nil {
		return nil, err
	}

	if err := requireUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	if err := requireFilm(ctx, s.repo, filmID); err != nil {
		return nil, err
	}

	existing, err := s.repo.Review.FindByUserAndFilm(ctx, userID, filmID)
	if err != nil {
		s.log.Error("Failed to check existing review", zap.Error(err))
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user %s already reviewed film %s", ErrValidation, req.UserID, req.FilmID)
	}

	review := &entity.Review{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:     userID,
		FilmID:     filmID,
		Content:    strings.TrimSpace(req.Content),
		IsPositive: *req.IsPositive,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		s.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", req.UserID),
			zap.String("film_id", req.FilmID),
		)
		return nil, fmt.Errorf("create review: %w", err)
	}

	recordEvent(ctx, s.feed, s.log, review.UserID, entity.EventReview, entity.OperationAdd, review.ID)

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("user_id", req.UserID),
		zap.String("film_id", req.FilmID),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update review validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	review.Content = strings.TrimSpace(req.Content)
	review.IsPositive = *req.IsPositive

	if err := s.repo.Review.Update(ctx, review); err != nil {
		s.log.Error("Failed to update review", zap.Error(err), zap.String("review_id", reviewID))
		return nil, fmt.Errorf("update review: %w", err)
	}

	// re-read so concurrent rating changes to useful are reflected
	updated, err := s.findReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	recordEvent(ctx, s.feed, s.log, updated.UserID, entity.EventReview, entity.OperationUpdate, updated.ID)

	s.log.Info("Review updated", zap.String("review_id", reviewID))

	resp := response.ReviewToResponse(updated)
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, reviewID string) error {
	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, review.ID); err != nil {
		s.log.Error("Failed to delete review", zap.Error(err), zap.String("review_id", reviewID))
		return fmt.Errorf("delete review: %w", err)
	}

	recordEvent(ctx, s.feed, s.log, review.UserID, entity.EventReview, entity.OperationRemove, review.ID)

	s.log.Info("Review deleted",
		zap.String("review_id", reviewID),
		zap.String("film_id", review.FilmID.String()),
	)
	return nil
}

func (s *reviewService) GetReview(ctx context.Context, reviewID string) (*response.ReviewResponse, error) {
	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) ListReviews(ctx context.Context, req *request.ListReviewsRequest) ([]response.ReviewResponse, error) {
	count := req.Count
	if count == 0 {
		count = defaultReviewCount
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", ErrValidation, count)
	}

	var filmID *uuid.UUID
	if req.FilmID != "" {
		id, err := parseID("film", req.FilmID)
		if err != nil {
			return nil, err
		}
		filmID = &id
	}

	reviews, err := s.repo.Review.FindAll(ctx, filmID, count)
	if err != nil {
		s.log.Error("Failed to list reviews", zap.Error(err), zap.String("film_id", req.FilmID))
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	result := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		result[i] = response.ReviewToResponse(review)
	}
	return result, nil
}

func (s *reviewService) AddLike(ctx context.Context, reviewID, userID string) (*response.ReviewResponse, error) {
	return s.rate(ctx, reviewID, userID, entity.ActionLike)
}

func (s *reviewService) AddDislike(ctx context.Context, reviewID, userID string) (*response.ReviewResponse, error) {
	return s.rate(ctx, reviewID, userID, entity.ActionDislike)
}

func (s *reviewService) RemoveLike(ctx context.Context, reviewID, userID string) (*response.ReviewResponse, error) {
	return s.rate(ctx, reviewID, userID, entity.ActionRemoveLike)
}

func (s *reviewService) RemoveDislike(ctx context.Context, reviewID, userID string) (*response.ReviewResponse, error) {
	return s.rate(ctx, reviewID, userID, entity.ActionRemoveDislike)
}

// RatingOf reports how the user rated the review. Unrated reads as NONE.
func (s *reviewService) RatingOf(ctx context.Context, reviewID, userID string) (*response.RatingResponse, error) {
	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	user, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.repo, user); err != nil {
		return nil, err
	}

	state, err := s.repo.Review.GetRating(ctx, review.ID, user)
	if err != nil {
		s.log.Error("Failed to read rating", zap.Error(err), zap.String("review_id", reviewID), zap.String("user_id", userID))
		return nil, fmt.Errorf("read rating: %w", err)
	}

	resp := response.RatingToResponse(review, user, state)
	return &resp, nil
}

// rate moves the user's rating through the state machine and adjusts the
// review's usefulness in the same atomic step.
func (s *reviewService) rate(ctx context.Context, reviewID, userID string, action entity.RatingAction) (*response.ReviewResponse, error) {
	review, err := parseID("review", reviewID)
	if err != nil {
		return nil, err
	}
	user, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.repo, user); err != nil {
		return nil, err
	}

	updated, err := s.repo.Review.ApplyRating(ctx, review, user, func(current entity.RatingState) (entity.RatingState, int, error) {
		return current.Apply(action)
	})

	switch {
	case errors.Is(err, entity.ErrAlreadyRated), errors.Is(err, entity.ErrUnknownAction):
		s.log.Warn("Rating rejected", zap.Error(err), zap.String("review_id", reviewID), zap.String("action", string(action)))
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	case errors.Is(err, entity.ErrRatingNotFound):
		s.log.Warn("Rating to remove not found", zap.String("review_id", reviewID), zap.String("action", string(action)))
		return nil, fmt.Errorf("%w: %s", ErrNotFound, err.Error())
	case err != nil:
		s.log.Error("Failed to apply rating", zap.Error(err), zap.String("review_id", reviewID))
		return nil, fmt.Errorf("apply rating: %w", err)
	}

	if updated == nil {
		return nil, fmt.Errorf("%w: review %s", ErrNotFound, reviewID)
	}

	s.metrics.RatingApplied(string(action))
	s.log.Info("Review rated",
		zap.String("review_id", reviewID),
		zap.String("user_id", userID),
		zap.String("action", string(action)),
		zap.Int("useful", updated.Useful),
	)

	resp := response.ReviewToResponse(updated)
	return &resp, nil
}

func (s *reviewService) findReview(ctx context.Context, reviewID string) (*entity.Review, error) {
	id, err := parseID("review", reviewID)
	if err != nil {
		return nil, err
	}

	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find review", zap.Error(err), zap.String("review_id", reviewID))
		return nil, fmt.Errorf("find review: %w", err)
	}
	if review == nil {
		return nil, fmt.Errorf("%w: review %s", ErrNotFound, reviewID)
	}
	return review, nil
}
