package entity

import (
	"time"

	"github.com/google/uuid"
)

type Like struct {
	UserID    uuid.UUID `db:"user_id"`
	FilmID    uuid.UUID `db:"film_id"`
	CreatedAt time.Time `db:"created_at"`
}
