package memory

import (
	"context"
	"fmt"
	"strings"

	"film-social/internal/data/entity"

	"github.com/google/uuid"
)

type userRepository struct{ s *Store }

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	user := *u
	return &user, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.User, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	wanted := append([]uuid.UUID(nil), ids...)
	sortIDs(wanted)

	users := make([]*entity.User, 0, len(wanted))
	for i, id := range wanted {
		if i > 0 && wanted[i-1] == id {
			continue
		}
		if u, ok := r.s.users[id]; ok {
			user := *u
			users = append(users, &user)
		}
	}
	return users, nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.Lock()
	defer r.s.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return fmt.Errorf("user %s not found", id.String())
	}
	delete(r.s.users, id)
	return nil
}

type filmRepository struct{ s *Store }

func (r *filmRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Film, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	f, ok := r.s.films[id]
	if !ok {
		return nil, nil
	}
	return copyFilm(f), nil
}

func (r *filmRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Film, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	wanted := append([]uuid.UUID(nil), ids...)
	sortIDs(wanted)

	films := make([]*entity.Film, 0, len(wanted))
	for i, id := range wanted {
		if i > 0 && wanted[i-1] == id {
			continue
		}
		if f, ok := r.s.films[id]; ok {
			films = append(films, copyFilm(f))
		}
	}
	return films, nil
}

func (r *filmRepository) FindAll(ctx context.Context) ([]*entity.Film, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	films := make([]*entity.Film, 0, len(r.s.films))
	for _, id := range sortedKeys(r.s.films) {
		films = append(films, copyFilm(r.s.films[id]))
	}
	return films, nil
}

func (r *filmRepository) FindByDirectorID(ctx context.Context, directorID uuid.UUID) ([]*entity.Film, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	films := []*entity.Film{}
	for _, id := range sortedKeys(r.s.films) {
		f := r.s.films[id]
		for _, d := range f.DirectorIDs {
			if d == directorID {
				films = append(films, copyFilm(f))
				break
			}
		}
	}
	return films, nil
}

func (r *filmRepository) Search(ctx context.Context, query string, byTitle, byDirector bool) ([]*entity.Film, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	needle := strings.ToLower(query)
	matches := func(text string) bool {
		return strings.Contains(strings.ToLower(text), needle)
	}

	films := []*entity.Film{}
	for _, id := range sortedKeys(r.s.films) {
		f := r.s.films[id]
		found := byTitle && matches(f.Title)
		for _, d := range f.DirectorIDs {
			if found || !byDirector {
				break
			}
			if director, ok := r.s.directors[d]; ok && matches(director.Name) {
				found = true
			}
		}
		if found {
			films = append(films, copyFilm(f))
		}
	}
	return films, nil
}

func (r *filmRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.Lock()
	defer r.s.Unlock()

	if _, ok := r.s.films[id]; !ok {
		return fmt.Errorf("film %s not found", id.String())
	}
	delete(r.s.films, id)
	return nil
}

type genreRepository struct{ s *Store }

func (r *genreRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Genre, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	g, ok := r.s.genres[id]
	if !ok {
		return nil, nil
	}
	genre := *g
	return &genre, nil
}

type directorRepository struct{ s *Store }

func (r *directorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Director, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	d, ok := r.s.directors[id]
	if !ok {
		return nil, nil
	}
	director := *d
	return &director, nil
}
