package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventLike   EventType = "LIKE"
	EventFriend EventType = "FRIEND"
	EventReview EventType = "REVIEW"
)

type EventOperation string

const (
	OperationAdd    EventOperation = "ADD"
	OperationRemove EventOperation = "REMOVE"
	OperationUpdate EventOperation = "UPDATE"
)

// UserEvent is immutable once appended to the feed.
type UserEvent struct {
	ID        uuid.UUID      `db:"id"`
	Timestamp time.Time      `db:"timestamp"`
	UserID    uuid.UUID      `db:"user_id"`
	EventType EventType      `db:"event_type"`
	Operation EventOperation `db:"operation"`
	EntityID  uuid.UUID      `db:"entity_id"`
}
