// Package memory provides an in-memory implementation of the repositories,
// used by tests and by local runs without a database.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"film-social/internal/data/entity"
	"film-social/internal/data/repository"

	"github.com/google/uuid"
)

// Store holds every aggregate behind one lock so multi-aggregate reads are consistent.
type Store struct {
	sync.RWMutex
	txMu sync.Mutex

	users     map[uuid.UUID]*entity.User
	films     map[uuid.UUID]*entity.Film
	genres    map[uuid.UUID]*entity.Genre
	directors map[uuid.UUID]*entity.Director

	likes   map[uuid.UUID]map[uuid.UUID]struct{}
	friends map[uuid.UUID]map[uuid.UUID]struct{}
	reviews map[uuid.UUID]*entity.Review
	ratings map[uuid.UUID]map[uuid.UUID]entity.RatingState
	events  []*entity.UserEvent

	eventErr error
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:     map[uuid.UUID]*entity.User{},
		films:     map[uuid.UUID]*entity.Film{},
		genres:    map[uuid.UUID]*entity.Genre{},
		directors: map[uuid.UUID]*entity.Director{},
		likes:     map[uuid.UUID]map[uuid.UUID]struct{}{},
		friends:   map[uuid.UUID]map[uuid.UUID]struct{}{},
		reviews:   map[uuid.UUID]*entity.Review{},
		ratings:   map[uuid.UUID]map[uuid.UUID]entity.RatingState{},
	}
}

// Repository exposes the store through the repository interfaces.
func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		User:     &userRepository{s},
		Film:     &filmRepository{s},
		Genre:    &genreRepository{s},
		Director: &directorRepository{s},
		Like:     &likeRepository{s},
		Friend:   &friendRepository{s},
		Review:   &reviewRepository{s},
		Event:    &eventRepository{s},
		Tx:       s,
	}
}

// WithinTx runs fn against the store and restores the prior state when fn
// fails. Transactions are serialized with each other but not with plain
// repository calls, which a rollback would discard.
func (s *Store) WithinTx(ctx context.Context, fn func(repo *repository.Repository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.RLock()
	saved := s.capture()
	s.RUnlock()

	if err := fn(s.Repository()); err != nil {
		s.Lock()
		s.restore(saved)
		s.Unlock()
		return err
	}
	return nil
}

type storeState struct {
	users   map[uuid.UUID]*entity.User
	films   map[uuid.UUID]*entity.Film
	likes   map[uuid.UUID]map[uuid.UUID]struct{}
	friends map[uuid.UUID]map[uuid.UUID]struct{}
	reviews map[uuid.UUID]*entity.Review
	ratings map[uuid.UUID]map[uuid.UUID]entity.RatingState
	events  []*entity.UserEvent
}

// capture deep-copies everything a transaction can change. Callers hold the lock.
func (s *Store) capture() storeState {
	st := storeState{
		users:   make(map[uuid.UUID]*entity.User, len(s.users)),
		films:   make(map[uuid.UUID]*entity.Film, len(s.films)),
		likes:   copySets(s.likes),
		friends: copySets(s.friends),
		reviews: make(map[uuid.UUID]*entity.Review, len(s.reviews)),
		ratings: make(map[uuid.UUID]map[uuid.UUID]entity.RatingState, len(s.ratings)),
		events:  make([]*entity.UserEvent, len(s.events)),
	}
	for id, u := range s.users {
		user := *u
		st.users[id] = &user
	}
	for id, f := range s.films {
		st.films[id] = copyFilm(f)
	}
	for id, r := range s.reviews {
		review := *r
		st.reviews[id] = &review
	}
	for id, byUser := range s.ratings {
		inner := make(map[uuid.UUID]entity.RatingState, len(byUser))
		for u, rating := range byUser {
			inner[u] = rating
		}
		st.ratings[id] = inner
	}
	copy(st.events, s.events)
	return st
}

func (s *Store) restore(st storeState) {
	s.users = st.users
	s.films = st.films
	s.likes = st.likes
	s.friends = st.friends
	s.reviews = st.reviews
	s.ratings = st.ratings
	s.events = st.events
}

func copySets(m map[uuid.UUID]map[uuid.UUID]struct{}) map[uuid.UUID]map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]map[uuid.UUID]struct{}, len(m))
	for id, set := range m {
		inner := make(map[uuid.UUID]struct{}, len(set))
		for member := range set {
			inner[member] = struct{}{}
		}
		out[id] = inner
	}
	return out
}

func (s *Store) PutUser(user *entity.User) {
	s.Lock()
	defer s.Unlock()
	u := *user
	s.users[u.ID] = &u
}

func (s *Store) PutFilm(film *entity.Film) {
	s.Lock()
	defer s.Unlock()
	s.films[film.ID] = copyFilm(film)
}

func (s *Store) PutGenre(genre *entity.Genre) {
	s.Lock()
	defer s.Unlock()
	g := *genre
	s.genres[g.ID] = &g
}

func (s *Store) PutDirector(director *entity.Director) {
	s.Lock()
	defer s.Unlock()
	d := *director
	s.directors[d.ID] = &d
}

// FailEvents makes every subsequent event append and delete return err. Pass nil to reset.
func (s *Store) FailEvents(err error) {
	s.Lock()
	defer s.Unlock()
	s.eventErr = err
}

func copyFilm(film *entity.Film) *entity.Film {
	f := *film
	f.GenreIDs = append([]uuid.UUID(nil), film.GenreIDs...)
	f.DirectorIDs = append([]uuid.UUID(nil), film.DirectorIDs...)
	return &f
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
}

func sortedKeys[V any](m map[uuid.UUID]V) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}
