package usecase

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"film-social/internal/data/repository"
	"film-social/internal/dto/response"
	"film-social/pkg/cache"
	"film-social/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type RecommendationService interface {
	Recommend(ctx context.Context, userID string) ([]response.FilmResponse, error)
}

type recommendationService struct {
	repo    *repository.Repository
	cache   cache.Cache
	metrics *metrics.Metrics
	group   singleflight.Group
	log     *zap.Logger
}

func NewRecommendationService(repo *repository.Repository, opts Options, log *zap.Logger) RecommendationService {
	return &recommendationService{
		repo:    repo,
		cache:   opts.Cache,
		metrics: opts.Metrics,
		log:     log.With(zap.String("service", "recommendation")),
	}
}

func (s *recommendationService) Recommend(ctx context.Context, userID string) ([]response.FilmResponse, error) {
	id, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.repo, id); err != nil {
		return nil, err
	}

	// Identical concurrent requests share one computation. It runs detached from
	// the caller that started it so one disconnect does not fail the others.
	ch := s.group.DoChan(id.String(), func() (any, error) {
		return s.recommend(context.WithoutCancel(ctx), id)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	films := res.Val.([]response.FilmResponse)
	shared := res.Shared
	s.metrics.RecommendationServed(len(films))
	s.log.Info("Recommendations served",
		zap.String("user_id", userID),
		zap.Int("count", len(films)),
		zap.Bool("shared", shared),
	)
	return films, nil
}

func (s *recommendationService) recommend(ctx context.Context, userID uuid.UUID) ([]response.FilmResponse, error) {
	key := ""
	if gen, err := s.cache.Generation(ctx); err != nil {
		s.log.Warn("Cache generation unavailable", zap.Error(err))
	} else {
		key = fmt.Sprintf("recommendations:%d:%s", gen, userID.String())
		var cached []response.FilmResponse
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("Cache read failed", zap.Error(err), zap.String("key", key))
		}
		s.metrics.CacheLookup("recommendations", hit)
		if hit {
			return cached, nil
		}
	}

	snapshot, err := s.repo.Like.Snapshot(ctx)
	if err != nil {
		s.log.Error("Failed to get likes", zap.Error(err))
		return nil, fmt.Errorf("get likes: %w", err)
	}

	filmIDs := recommendFilmIDs(snapshot, userID)

	films, err := s.repo.Film.FindByIDs(ctx, filmIDs)
	if err != nil {
		s.log.Error("Failed to resolve recommended films", zap.Error(err))
		return nil, fmt.Errorf("resolve recommended films: %w", err)
	}

	result := make([]response.FilmResponse, len(films))
	for i, film := range films {
		result[i] = response.FilmToResponse(film)
	}

	if key != "" {
		if err := s.cache.Set(ctx, key, result); err != nil {
			s.log.Warn("Cache write failed", zap.Error(err), zap.String("key", key))
		}
	}
	return result, nil
}

// recommendFilmIDs finds the users whose like sets overlap most with the
// target's and returns the films they like that the target does not, sorted by
// ID. Every user tied at the highest overlap contributes. No overlap or no
// likes at all yields an empty result.
func recommendFilmIDs(snapshot repository.LikeSnapshot, userID uuid.UUID) []uuid.UUID {
	mine := snapshot[userID]
	if len(mine) == 0 {
		return []uuid.UUID{}
	}

	best := 0
	var neighbours []uuid.UUID
	for other, films := range snapshot {
		if other == userID {
			continue
		}

		overlap := 0
		for filmID := range films {
			if _, ok := mine[filmID]; ok {
				overlap++
			}
		}

		switch {
		case overlap == 0:
		case overlap > best:
			best = overlap
			neighbours = []uuid.UUID{other}
		case overlap == best:
			neighbours = append(neighbours, other)
		}
	}

	candidates := map[uuid.UUID]struct{}{}
	for _, other := range neighbours {
		for filmID := range snapshot[other] {
			if _, ok := mine[filmID]; !ok {
				candidates[filmID] = struct{}{}
			}
		}
	}

	result := make([]uuid.UUID, 0, len(candidates))
	for filmID := range candidates {
		result = append(result, filmID)
	}
	sort.Slice(result, func(i, j int) bool {
		return bytes.Compare(result[i][:], result[j][:]) < 0
	})
	return result
}
