package usecase

import (
	"context"
	"fmt"
	"time"

	"film-social/internal/data/repository"
	"film-social/pkg/cache"
	"film-social/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	Film           FilmService
	User           UserService
	Friend         FriendService
	Review         ReviewService
	Recommendation RecommendationService
	Feed           FeedService
}

// Options carries the optional collaborators shared by every service.
type Options struct {
	Cache   cache.Cache
	Metrics *metrics.Metrics
	Clock   func() time.Time
}

func NewService(repo *repository.Repository, opts Options, log *zap.Logger) *Service {
	if opts.Cache == nil {
		opts.Cache = cache.Noop{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	feed := NewFeedService(repo, opts.Clock, log)

	return &Service{
		Film:           NewFilmService(repo, feed, opts, log),
		User:           NewUserService(repo, opts, log),
		Friend:         NewFriendService(repo, feed, opts.Metrics, log),
		Review:         NewReviewService(repo, feed, opts.Metrics, log),
		Recommendation: NewRecommendationService(repo, opts, log),
		Feed:           feed,
	}
}

// parseID turns a path or body identifier into a UUID, reporting bad input as a validation error.
func parseID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s ID %q", ErrValidation, kind, raw)
	}
	return id, nil
}

func requireUser(ctx context.Context, repo *repository.Repository, id uuid.UUID) error {
	user, err := repo.User.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: user %s", ErrNotFound, id.String())
	}
	return nil
}

func requireFilm(ctx context.Context, repo *repository.Repository, id uuid.UUID) error {
	film, err := repo.Film.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find film: %w", err)
	}
	if film == nil {
		return fmt.Errorf("%w: film %s", ErrNotFound, id.String())
	}
	return nil
}
