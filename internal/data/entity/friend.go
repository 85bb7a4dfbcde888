package entity

import (
	"time"

	"github.com/google/uuid"
)

// FriendEdge is directed: UserID added FriendID.
type FriendEdge struct {
	UserID    uuid.UUID `db:"user_id"`
	FriendID  uuid.UUID `db:"friend_id"`
	CreatedAt time.Time `db:"created_at"`
}
