package repository

import (
	"context"
	"fmt"

	"film-social/internal/data/entity"
	"film-social/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventRepository interface {
	Append(ctx context.Context, event *entity.UserEvent) error
	// FindByUserID returns the feed oldest first.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.UserEvent, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type eventRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEventRepository(db database.PgxIface, log *zap.Logger) EventRepository {
	return &eventRepository{
		db:  db,
		log: log.With(zap.String("repository", "event")),
	}
}

func (r *eventRepository) Append(ctx context.Context, event *entity.UserEvent) error {
	query := `
		INSERT INTO user_events (id, timestamp, user_id, event_type, operation, entity_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.Timestamp,
		event.UserID,
		event.EventType,
		event.Operation,
		event.EntityID,
	)

	if err != nil {
		r.log.Error("Failed to append user event",
			zap.Error(err),
			zap.String("user_id", event.UserID.String()),
			zap.String("event_type", string(event.EventType)),
		)
		return fmt.Errorf("append %s event for user %s: %w", event.EventType, event.UserID.String(), err)
	}

	return nil
}

func (r *eventRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.UserEvent, error) {
	// seq keeps append order for events sharing a timestamp
	query := `
		SELECT id, timestamp, user_id, event_type, operation, entity_id
		FROM user_events
		WHERE user_id = $1
		ORDER BY timestamp ASC, seq ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find user events",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find events of user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	events := []*entity.UserEvent{}
	for rows.Next() {
		var event entity.UserEvent
		if err := rows.Scan(
			&event.ID,
			&event.Timestamp,
			&event.UserID,
			&event.EventType,
			&event.Operation,
			&event.EntityID,
		); err != nil {
			r.log.Error("Failed to scan user event row", zap.Error(err))
			return nil, fmt.Errorf("scan user event row: %w", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user event rows: %w", err)
	}

	return events, nil
}

func (r *eventRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM user_events WHERE user_id = $1`, userID); err != nil {
		r.log.Error("Failed to delete user events", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("delete events of user %s: %w", userID.String(), err)
	}
	return nil
}
