package entity

import (
	"time"

	"github.com/google/uuid"
)

type Film struct {
	BaseSimple
	Title             string      `db:"title"`
	Description       string      `db:"description"`
	ReleaseDate       time.Time   `db:"release_date"`
	DurationInMinutes int         `db:"duration_in_minutes"`
	MpaID             *uuid.UUID  `db:"mpa_id"`
	GenreIDs          []uuid.UUID `db:"-"`
	DirectorIDs       []uuid.UUID `db:"-"`
}

// HasGenre reports whether genreID is among the film's genres.
func (f *Film) HasGenre(genreID uuid.UUID) bool {
	for _, id := range f.GenreIDs {
		if id == genreID {
			return true
		}
	}
	return false
}

func (f *Film) ReleaseYear() int {
	return f.ReleaseDate.Year()
}
