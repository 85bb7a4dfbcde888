package usecase

import (
	"context"
	"fmt"
	"time"

	"film-social/internal/data/entity"
	"film-social/internal/data/repository"
	"film-social/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FeedService interface {
	Append(ctx context.Context, userID uuid.UUID, eventType entity.EventType, operation entity.EventOperation, entityID uuid.UUID) error
	FeedOf(ctx context.Context, userID string) ([]response.EventResponse, error)
}

type feedService struct {
	repo  *repository.Repository
	clock func() time.Time
	log   *zap.Logger
}

func NewFeedService(repo *repository.Repository, clock func() time.Time, log *zap.Logger) FeedService {
	return &feedService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "feed")),
	}
}

func (s *feedService) Append(ctx context.Context, userID uuid.UUID, eventType entity.EventType, operation entity.EventOperation, entityID uuid.UUID) error {
	event := &entity.UserEvent{
		ID:        uuid.New(),
		Timestamp: s.clock(),
		UserID:    userID,
		EventType: eventType,
		Operation: operation,
		EntityID:  entityID,
	}

	if err := s.repo.Event.Append(ctx, event); err != nil {
		return fmt.Errorf("append event: %w", err)
	}

	s.log.Debug("Event appended",
		zap.String("user_id", userID.String()),
		zap.String("event_type", string(eventType)),
		zap.String("operation", string(operation)),
		zap.String("entity_id", entityID.String()),
	)
	return nil
}

func (s *feedService) FeedOf(ctx context.Context, userID string) ([]response.EventResponse, error) {
	id, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}

	if err := requireUser(ctx, s.repo, id); err != nil {
		return nil, err
	}

	events, err := s.repo.Event.FindByUserID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get feed", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("get feed: %w", err)
	}

	feed := make([]response.EventResponse, len(events))
	for i, event := range events {
		feed[i] = response.EventToResponse(event)
	}

	return feed, nil
}

// recordEvent appends to the feed after a committed mutation. A failed append
// is logged and never undoes or fails the mutation.
func recordEvent(ctx context.Context, feed FeedService, log *zap.Logger, userID uuid.UUID, eventType entity.EventType, operation entity.EventOperation, entityID uuid.UUID) {
	if err := feed.Append(ctx, userID, eventType, operation, entityID); err != nil {
		log.Warn("Failed to record user event",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("event_type", string(eventType)),
			zap.String("operation", string(operation)),
		)
	}
}
