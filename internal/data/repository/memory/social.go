package memory

import (
	"context"
	"sort"

	"film-social/internal/data/entity"
	"film-social/internal/data/repository"

	"github.com/google/uuid"
)

type likeRepository struct{ s *Store }

func (r *likeRepository) Add(ctx context.Context, filmID, userID uuid.UUID) (bool, error) {
	r.s.Lock()
	defer r.s.Unlock()

	films, ok := r.s.likes[userID]
	if !ok {
		films = map[uuid.UUID]struct{}{}
		r.s.likes[userID] = films
	}
	if _, exists := films[filmID]; exists {
		return false, nil
	}
	films[filmID] = struct{}{}
	return true, nil
}

func (r *likeRepository) Remove(ctx context.Context, filmID, userID uuid.UUID) (bool, error) {
	r.s.Lock()
	defer r.s.Unlock()

	films := r.s.likes[userID]
	if _, exists := films[filmID]; !exists {
		return false, nil
	}
	delete(films, filmID)
	if len(films) == 0 {
		delete(r.s.likes, userID)
	}
	return true, nil
}

func (r *likeRepository) FindFilmIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	return sortedKeys(r.s.likes[userID]), nil
}

func (r *likeRepository) Snapshot(ctx context.Context) (repository.LikeSnapshot, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	snapshot := make(repository.LikeSnapshot, len(r.s.likes))
	for userID, films := range r.s.likes {
		set := make(map[uuid.UUID]struct{}, len(films))
		for filmID := range films {
			set[filmID] = struct{}{}
		}
		snapshot[userID] = set
	}
	return snapshot, nil
}

func (r *likeRepository) DeleteByFilm(ctx context.Context, filmID uuid.UUID) error {
	r.s.Lock()
	defer r.s.Unlock()

	for userID, films := range r.s.likes {
		delete(films, filmID)
		if len(films) == 0 {
			delete(r.s.likes, userID)
		}
	}
	return nil
}

func (r *likeRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	r.s.Lock()
	defer r.s.Unlock()

	delete(r.s.likes, userID)
	return nil
}

type friendRepository struct{ s *Store }

func (r *friendRepository) Add(ctx context.Context, userID, friendID uuid.UUID) (bool, error) {
	r.s.Lock()
	defer r.s.Unlock()

	edges, ok := r.s.friends[userID]
	if !ok {
		edges = map[uuid.UUID]struct{}{}
		r.s.friends[userID] = edges
	}
	if _, exists := edges[friendID]; exists {
		return false, nil
	}
	edges[friendID] = struct{}{}
	return true, nil
}

func (r *friendRepository) Remove(ctx context.Context, userID, friendID uuid.UUID) (bool, error) {
	r.s.Lock()
	defer r.s.Unlock()

	edges := r.s.friends[userID]
	if _, exists := edges[friendID]; !exists {
		return false, nil
	}
	delete(edges, friendID)
	if len(edges) == 0 {
		delete(r.s.friends, userID)
	}
	return true, nil
}

func (r *friendRepository) FindFriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	return sortedKeys(r.s.friends[userID]), nil
}

func (r *friendRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	r.s.Lock()
	defer r.s.Unlock()

	delete(r.s.friends, userID)
	for id, edges := range r.s.friends {
		delete(edges, userID)
		if len(edges) == 0 {
			delete(r.s.friends, id)
		}
	}
	return nil
}

type eventRepository struct{ s *Store }

func (r *eventRepository) Append(ctx context.Context, event *entity.UserEvent) error {
	r.s.Lock()
	defer r.s.Unlock()

	if r.s.eventErr != nil {
		return r.s.eventErr
	}
	e := *event
	r.s.events = append(r.s.events, &e)
	return nil
}

// FindByUserID returns events by timestamp. Events with equal timestamps keep
// their append order, matching the seq tiebreak of the SQL store.
func (r *eventRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.UserEvent, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	events := []*entity.UserEvent{}
	for _, e := range r.s.events {
		if e.UserID == userID {
			event := *e
			events = append(events, &event)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	return events, nil
}

func (r *eventRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	r.s.Lock()
	defer r.s.Unlock()

	if r.s.eventErr != nil {
		return r.s.eventErr
	}

	kept := r.s.events[:0]
	for _, e := range r.s.events {
		if e.UserID != userID {
			kept = append(kept, e)
		}
	}
	r.s.events = kept
	return nil
}
