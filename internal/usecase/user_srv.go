package usecase

import (
	"context"
	"fmt"

	"film-social/internal/data/repository"
	"film-social/internal/dto/response"
	"film-social/pkg/cache"

	"go.uber.org/zap"
)

type UserService interface {
	GetUser(ctx context.Context, userID string) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, userID string) error
}

type userService struct {
	repo  *repository.Repository
	cache cache.Cache
	log   *zap.Logger
}

func NewUserService(repo *repository.Repository, opts Options, log *zap.Logger) UserService {
	return &userService{
		repo:  repo,
		cache: opts.Cache,
		log:   log.With(zap.String("service", "user")),
	}
}

func (s *userService) GetUser(ctx context.Context, userID string) (*response.UserResponse, error) {
	id, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// DeleteUser removes the user and everything that references them in one
// transaction. Ratings go first so the usefulness of other users' reviews is
// corrected.
func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	id, err := parseID("user", userID)
	if err != nil {
		return err
	}
	if err := requireUser(ctx, s.repo, id); err != nil {
		return err
	}

	err = s.repo.Tx.WithinTx(ctx, func(repo *repository.Repository) error {
		steps := []struct {
			name string
			run  func() error
		}{
			{"ratings", func() error { return repo.Review.DeleteRatingsByUser(ctx, id) }},
			{"reviews", func() error { return repo.Review.DeleteByUser(ctx, id) }},
			{"likes", func() error { return repo.Like.DeleteByUser(ctx, id) }},
			{"friends", func() error { return repo.Friend.DeleteByUser(ctx, id) }},
			{"events", func() error { return repo.Event.DeleteByUser(ctx, id) }},
			{"user", func() error { return repo.User.Delete(ctx, id) }},
		}

		for _, step := range steps {
			if err := step.run(); err != nil {
				s.log.Error("Failed to delete user data",
					zap.Error(err),
					zap.String("user_id", userID),
					zap.String("step", step.name),
				)
				return fmt.Errorf("delete user %s: %w", step.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	invalidateCache(ctx, s.cache, s.log)

	s.log.Info("User deleted", zap.String("user_id", userID))
	return nil
}
