package usecase

import (
	"context"
	"fmt"

	"film-social/internal/data/entity"
	"film-social/internal/data/repository"
	"film-social/internal/dto/response"
	"film-social/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FriendService manages one-directional friend edges: adding B to A's list
// does not add A to B's.
type FriendService interface {
	AddFriend(ctx context.Context, userID, friendID string) error
	RemoveFriend(ctx context.Context, userID, friendID string) error
	GetFriends(ctx context.Context, userID string) ([]response.UserResponse, error)
	CommonFriends(ctx context.Context, userID, otherID string) ([]response.UserResponse, error)
}

type friendService struct {
	repo    *repository.Repository
	feed    FeedService
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewFriendService(repo *repository.Repository, feed FeedService, m *metrics.Metrics, log *zap.Logger) FriendService {
	return &friendService{
		repo:    repo,
		feed:    feed,
		metrics: m,
		log:     log.With(zap.String("service", "friend")),
	}
}

func (s *friendService) AddFriend(ctx context.Context, userID, friendID string) error {
	user, friend, err := s.parsePair(ctx, userID, friendID)
	if err != nil {
		return err
	}

	added, err := s.repo.Friend.Add(ctx, user, friend)
	if err != nil {
		s.log.Error("Failed to add friend", zap.Error(err), zap.String("user_id", userID), zap.String("friend_id", friendID))
		return fmt.Errorf("add friend: %w", err)
	}
	if !added {
		s.log.Warn("Friend already added", zap.String("user_id", userID), zap.String("friend_id", friendID))
		return fmt.Errorf("%w: user %s already has friend %s", ErrValidation, userID, friendID)
	}

	s.metrics.FriendChanged("add")
	recordEvent(ctx, s.feed, s.log, user, entity.EventFriend, entity.OperationAdd, friend)

	s.log.Info("Friend added", zap.String("user_id", userID), zap.String("friend_id", friendID))
	return nil
}

func (s *friendService) RemoveFriend(ctx context.Context, userID, friendID string) error {
	user, friend, err := s.parsePair(ctx, userID, friendID)
	if err != nil {
		return err
	}

	friends, err := s.repo.Friend.FindFriendIDs(ctx, user)
	if err != nil {
		s.log.Error("Failed to get friends", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("get friends: %w", err)
	}
	if len(friends) == 0 {
		s.log.Warn("Remove friend on empty friend list", zap.String("user_id", userID))
		return fmt.Errorf("%w: user %s has no friends", ErrNonCritical, userID)
	}

	removed, err := s.repo.Friend.Remove(ctx, user, friend)
	if err != nil {
		s.log.Error("Failed to remove friend", zap.Error(err), zap.String("user_id", userID), zap.String("friend_id", friendID))
		return fmt.Errorf("remove friend: %w", err)
	}
	if !removed {
		return nil
	}

	s.metrics.FriendChanged("remove")
	recordEvent(ctx, s.feed, s.log, user, entity.EventFriend, entity.OperationRemove, friend)

	s.log.Info("Friend removed", zap.String("user_id", userID), zap.String("friend_id", friendID))
	return nil
}

func (s *friendService) GetFriends(ctx context.Context, userID string) ([]response.UserResponse, error) {
	id, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.repo, id); err != nil {
		return nil, err
	}

	friendIDs, err := s.repo.Friend.FindFriendIDs(ctx, id)
	if err != nil {
		s.log.Error("Failed to get friends", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("get friends: %w", err)
	}

	return s.resolveUsers(ctx, friendIDs)
}

func (s *friendService) CommonFriends(ctx context.Context, userID, otherID string) ([]response.UserResponse, error) {
	user, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	other, err := parseID("other user", otherID)
	if err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.repo, user); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.repo, other); err != nil {
		return nil, err
	}

	mine, err := s.repo.Friend.FindFriendIDs(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("get friends: %w", err)
	}
	theirs, err := s.repo.Friend.FindFriendIDs(ctx, other)
	if err != nil {
		return nil, fmt.Errorf("get friends: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(theirs))
	for _, id := range theirs {
		seen[id] = struct{}{}
	}

	var common []uuid.UUID
	for _, id := range mine {
		if _, ok := seen[id]; ok {
			common = append(common, id)
		}
	}

	return s.resolveUsers(ctx, common)
}

// parsePair validates a friend operation: no self-edges, and both users must exist.
func (s *friendService) parsePair(ctx context.Context, userID, friendID string) (uuid.UUID, uuid.UUID, error) {
	user, err := parseID("user", userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	friend, err := parseID("friend", friendID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if user == friend {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: user cannot befriend themselves", ErrValidation)
	}
	if err := requireUser(ctx, s.repo, user); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if err := requireUser(ctx, s.repo, friend); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return user, friend, nil
}

func (s *friendService) resolveUsers(ctx context.Context, ids []uuid.UUID) ([]response.UserResponse, error) {
	users, err := s.repo.User.FindByIDs(ctx, ids)
	if err != nil {
		s.log.Error("Failed to resolve users", zap.Error(err), zap.Int("count", len(ids)))
		return nil, fmt.Errorf("resolve users: %w", err)
	}

	result := make([]response.UserResponse, len(users))
	for i, user := range users {
		result[i] = response.UserToResponse(user)
	}
	return result, nil
}
