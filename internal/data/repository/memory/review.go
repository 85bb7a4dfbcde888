package memory

import (
	"context"
	"fmt"
	"sort"

	"film-social/internal/data/entity"
	"film-social/internal/data/repository"

	"github.com/google/uuid"
)

type reviewRepository struct{ s *Store }

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	r.s.Lock()
	defer r.s.Unlock()

	for _, existing := range r.s.reviews {
		if existing.UserID == review.UserID && existing.FilmID == review.FilmID {
			return fmt.Errorf("review for film %s by user %s already exists",
				review.FilmID.String(), review.UserID.String())
		}
	}
	rv := *review
	r.s.reviews[rv.ID] = &rv
	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, nil
	}
	review := *rv
	return &review, nil
}

func (r *reviewRepository) FindByUserAndFilm(ctx context.Context, userID, filmID uuid.UUID) (*entity.Review, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	for _, rv := range r.s.reviews {
		if rv.UserID == userID && rv.FilmID == filmID {
			review := *rv
			return &review, nil
		}
	}
	return nil, nil
}

func (r *reviewRepository) FindAll(ctx context.Context, filmID *uuid.UUID, limit int) ([]*entity.Review, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	reviews := []*entity.Review{}
	for _, id := range sortedKeys(r.s.reviews) {
		rv := r.s.reviews[id]
		if filmID != nil && rv.FilmID != *filmID {
			continue
		}
		review := *rv
		reviews = append(reviews, &review)
	}

	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].Useful > reviews[j].Useful
	})

	if limit >= 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	r.s.Lock()
	defer r.s.Unlock()

	rv, ok := r.s.reviews[review.ID]
	if !ok {
		return fmt.Errorf("review %s not found", review.ID.String())
	}
	rv.Content = review.Content
	rv.IsPositive = review.IsPositive
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.Lock()
	defer r.s.Unlock()

	if _, ok := r.s.reviews[id]; !ok {
		return fmt.Errorf("review %s not found", id.String())
	}
	delete(r.s.reviews, id)
	delete(r.s.ratings, id)
	return nil
}

func (r *reviewRepository) DeleteByFilm(ctx context.Context, filmID uuid.UUID) error {
	r.s.Lock()
	defer r.s.Unlock()

	for id, rv := range r.s.reviews {
		if rv.FilmID == filmID {
			delete(r.s.reviews, id)
			delete(r.s.ratings, id)
		}
	}
	return nil
}

func (r *reviewRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	r.s.Lock()
	defer r.s.Unlock()

	for id, rv := range r.s.reviews {
		if rv.UserID == userID {
			delete(r.s.reviews, id)
			delete(r.s.ratings, id)
		}
	}
	return nil
}

func (r *reviewRepository) ApplyRating(ctx context.Context, reviewID, userID uuid.UUID, fn repository.RatingFunc) (*entity.Review, error) {
	r.s.Lock()
	defer r.s.Unlock()

	rv, ok := r.s.reviews[reviewID]
	if !ok {
		return nil, nil
	}

	current := r.s.ratings[reviewID][userID]
	next, delta, err := fn(current)
	if err != nil {
		return nil, err
	}

	raters, ok := r.s.ratings[reviewID]
	if !ok {
		raters = map[uuid.UUID]entity.RatingState{}
		r.s.ratings[reviewID] = raters
	}
	if next == entity.RatingNone {
		delete(raters, userID)
	} else {
		raters[userID] = next
	}
	rv.Useful += delta

	review := *rv
	return &review, nil
}

func (r *reviewRepository) GetRating(ctx context.Context, reviewID, userID uuid.UUID) (entity.RatingState, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	return r.s.ratings[reviewID][userID], nil
}

func (r *reviewRepository) DeleteRatingsByUser(ctx context.Context, userID uuid.UUID) error {
	r.s.Lock()
	defer r.s.Unlock()

	for reviewID, raters := range r.s.ratings {
		state, ok := raters[userID]
		if !ok {
			continue
		}
		if rv, exists := r.s.reviews[reviewID]; exists {
			switch state {
			case entity.RatingLiked:
				rv.Useful--
			case entity.RatingDisliked:
				rv.Useful++
			}
		}
		delete(raters, userID)
	}
	return nil
}
