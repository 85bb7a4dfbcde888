package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"film-social/internal/data/entity"
	"film-social/internal/data/repository"
	"film-social/internal/dto/request"
	"film-social/internal/dto/response"
	"film-social/pkg/cache"
	"film-social/pkg/metrics"
	"film-social/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// earliestFilmYear is the year of the first public film screening.
const earliestFilmYear = 1895

type FilmService interface {
	AddLike(ctx context.Context, filmID, userID string) error
	RemoveLike(ctx context.Context, filmID, userID string) error
	LikesOfUser(ctx context.Context, userID string) ([]uuid.UUID, error)

	GetPopularFilms(ctx context.Context, req *request.PopularFilmsRequest) ([]response.FilmResponse, error)
	GetCommonFilms(ctx context.Context, userID, friendID string) ([]response.FilmResponse, error)
	GetFilmsByDirector(ctx context.Context, req *request.DirectorFilmsRequest) ([]response.FilmResponse, error)
	SearchFilms(ctx context.Context, query, by string) ([]response.FilmResponse, error)

	DeleteFilm(ctx context.Context, filmID string) error
}

type filmService struct {
	repo    *repository.Repository
	feed    FeedService
	cache   cache.Cache
	metrics *metrics.Metrics
	clock   func() time.Time
	log     *zap.Logger
}

func NewFilmService(repo *repository.Repository, feed FeedService, opts Options, log *zap.Logger) FilmService {
	return &filmService{
		repo:    repo,
		feed:    feed,
		cache:   opts.Cache,
		metrics: opts.Metrics,
		clock:   opts.Clock,
		log:     log.With(zap.String("service", "film")),
	}
}

func (s *filmService) AddLike(ctx context.Context, filmID, userID string) error {
	film, user, err := s.parseFilmAndUser(ctx, filmID, userID)
	if err != nil {
		return err
	}

	added, err := s.repo.Like.Add(ctx, film, user)
	if err != nil {
		s.log.Error("Failed to add like", zap.Error(err), zap.String("film_id", filmID), zap.String("user_id", userID))
		return fmt.Errorf("add like: %w", err)
	}

	if added {
		s.metrics.LikeChanged("add")
		s.invalidate(ctx)
	}

	// repeated likes still show up in the feed
	recordEvent(ctx, s.feed, s.log, user, entity.EventLike, entity.OperationAdd, film)

	s.log.Info("Film liked",
		zap.String("film_id", filmID),
		zap.String("user_id", userID),
		zap.Bool("new", added),
	)
	return nil
}

func (s *filmService) RemoveLike(ctx context.Context, filmID, userID string) error {
	film, user, err := s.parseFilmAndUser(ctx, filmID, userID)
	if err != nil {
		return err
	}

	removed, err := s.repo.Like.Remove(ctx, film, user)
	if err != nil {
		s.log.Error("Failed to remove like", zap.Error(err), zap.String("film_id", filmID), zap.String("user_id", userID))
		return fmt.Errorf("remove like: %w", err)
	}

	if !removed {
		s.log.Debug("Like already absent", zap.String("film_id", filmID), zap.String("user_id", userID))
		return nil
	}

	s.metrics.LikeChanged("remove")
	s.invalidate(ctx)
	recordEvent(ctx, s.feed, s.log, user, entity.EventLike, entity.OperationRemove, film)

	s.log.Info("Film like removed", zap.String("film_id", filmID), zap.String("user_id", userID))
	return nil
}

func (s *filmService) LikesOfUser(ctx context.Context, userID string) ([]uuid.UUID, error) {
	id, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.repo, id); err != nil {
		return nil, err
	}

	filmIDs, err := s.repo.Like.FindFilmIDsByUser(ctx, id)
	if err != nil {
		s.log.Error("Failed to get likes of user", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("get likes of user: %w", err)
	}
	return filmIDs, nil
}

func (s *filmService) GetPopularFilms(ctx context.Context, req *request.PopularFilmsRequest) ([]response.FilmResponse, error) {
	if req.Count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", ErrValidation, req.Count)
	}

	var genreID *uuid.UUID
	if req.GenreID != "" {
		id, err := parseID("genre", req.GenreID)
		if err != nil {
			return nil, err
		}
		genre, err := s.repo.Genre.FindByID(ctx, id)
		if err != nil {
			s.log.Error("Failed to find genre", zap.Error(err), zap.String("genre_id", req.GenreID))
			return nil, fmt.Errorf("find genre: %w", err)
		}
		if genre == nil {
			return nil, fmt.Errorf("%w: genre %s", ErrNotFound, req.GenreID)
		}
		genreID = &id
	}

	if req.Year != nil {
		if current := s.clock().Year(); *req.Year < earliestFilmYear || *req.Year > current {
			return nil, fmt.Errorf("%w: year must be between %d and %d, got %d",
				ErrValidation, earliestFilmYear, current, *req.Year)
		}
	}

	key := ""
	if gen, err := s.cache.Generation(ctx); err != nil {
		s.log.Warn("Cache generation unavailable", zap.Error(err))
	} else {
		key = fmt.Sprintf("popular:%d:%d:%s:%s", gen, req.Count, req.GenreID, formatYear(req.Year))
		var cached []response.FilmResponse
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("Cache read failed", zap.Error(err), zap.String("key", key))
		}
		s.metrics.CacheLookup("popular", hit)
		if hit {
			return cached, nil
		}
	}

	films, err := s.repo.Film.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to get films", zap.Error(err))
		return nil, fmt.Errorf("get films: %w", err)
	}

	snapshot, err := s.repo.Like.Snapshot(ctx)
	if err != nil {
		s.log.Error("Failed to get likes", zap.Error(err))
		return nil, fmt.Errorf("get likes: %w", err)
	}

	ranked := rankFilms(films, likeCounts(snapshot), genreID, req.Year, req.Count)

	result := make([]response.FilmResponse, len(ranked))
	for i, r := range ranked {
		result[i] = response.FilmToRankedResponse(r.film, r.likes)
	}

	if key != "" {
		if err := s.cache.Set(ctx, key, result); err != nil {
			s.log.Warn("Cache write failed", zap.Error(err), zap.String("key", key))
		}
	}

	s.log.Info("Popular films retrieved",
		zap.Int("count", req.Count),
		zap.String("genre_id", req.GenreID),
		zap.Intp("year", req.Year),
		zap.Int("returned", len(result)),
	)
	return result, nil
}

func (s *filmService) GetCommonFilms(ctx context.Context, userID, friendID string) ([]response.FilmResponse, error) {
	user, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	friend, err := parseID("friend", friendID)
	if err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.repo, user); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.repo, friend); err != nil {
		return nil, err
	}

	snapshot, err := s.repo.Like.Snapshot(ctx)
	if err != nil {
		s.log.Error("Failed to get likes", zap.Error(err))
		return nil, fmt.Errorf("get likes: %w", err)
	}

	var common []uuid.UUID
	for filmID := range snapshot[user] {
		if _, ok := snapshot[friend][filmID]; ok {
			common = append(common, filmID)
		}
	}

	films, err := s.repo.Film.FindByIDs(ctx, common)
	if err != nil {
		s.log.Error("Failed to get films", zap.Error(err))
		return nil, fmt.Errorf("get common films: %w", err)
	}

	counts := likeCounts(snapshot)
	ranked := rankFilms(films, counts, nil, nil, len(films))

	result := make([]response.FilmResponse, len(ranked))
	for i, r := range ranked {
		result[i] = response.FilmToRankedResponse(r.film, r.likes)
	}
	return result, nil
}

func (s *filmService) GetFilmsByDirector(ctx context.Context, req *request.DirectorFilmsRequest) ([]response.FilmResponse, error) {
	directorID, err := parseID("director", req.DirectorID)
	if err != nil {
		return nil, err
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	director, err := s.repo.Director.FindByID(ctx, directorID)
	if err != nil {
		s.log.Error("Failed to find director", zap.Error(err), zap.String("director_id", req.DirectorID))
		return nil, fmt.Errorf("find director: %w", err)
	}
	if director == nil {
		return nil, fmt.Errorf("%w: director %s", ErrNotFound, req.DirectorID)
	}

	films, err := s.repo.Film.FindByDirectorID(ctx, directorID)
	if err != nil {
		s.log.Error("Failed to get director films", zap.Error(err), zap.String("director_id", req.DirectorID))
		return nil, fmt.Errorf("get director films: %w", err)
	}

	snapshot, err := s.repo.Like.Snapshot(ctx)
	if err != nil {
		s.log.Error("Failed to get likes", zap.Error(err))
		return nil, fmt.Errorf("get likes: %w", err)
	}
	counts := likeCounts(snapshot)

	var ranked []rankedFilm
	switch req.SortBy {
	case "likes":
		ranked = rankFilms(films, counts, nil, nil, len(films))
	default:
		ranked = make([]rankedFilm, len(films))
		for i, film := range films {
			ranked[i] = rankedFilm{film: film, likes: counts[film.ID]}
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].film.ReleaseDate.Before(ranked[j].film.ReleaseDate)
		})
	}

	result := make([]response.FilmResponse, len(ranked))
	for i, r := range ranked {
		result[i] = response.FilmToRankedResponse(r.film, r.likes)
	}
	return result, nil
}

// SearchFilms finds films whose title and/or director name contains query,
// most liked first. by is a comma separated subset of "title" and "director".
func (s *filmService) SearchFilms(ctx context.Context, query, by string) ([]response.FilmResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query must not be blank", ErrValidation)
	}

	byTitle, byDirector, err := parseSearchFields(by)
	if err != nil {
		return nil, err
	}

	films, err := s.repo.Film.Search(ctx, query, byTitle, byDirector)
	if err != nil {
		s.log.Error("Failed to search films", zap.Error(err), zap.String("query", query), zap.String("by", by))
		return nil, fmt.Errorf("search films: %w", err)
	}

	snapshot, err := s.repo.Like.Snapshot(ctx)
	if err != nil {
		s.log.Error("Failed to get likes", zap.Error(err))
		return nil, fmt.Errorf("get likes: %w", err)
	}

	ranked := rankFilms(films, likeCounts(snapshot), nil, nil, len(films))

	result := make([]response.FilmResponse, len(ranked))
	for i, r := range ranked {
		result[i] = response.FilmToRankedResponse(r.film, r.likes)
	}

	s.log.Info("Films searched",
		zap.String("query", query),
		zap.String("by", by),
		zap.Int("returned", len(result)),
	)
	return result, nil
}

func parseSearchFields(by string) (byTitle, byDirector bool, err error) {
	for _, field := range strings.Split(by, ",") {
		switch strings.ToLower(strings.TrimSpace(field)) {
		case "title":
			byTitle = true
		case "director":
			byDirector = true
		default:
			return false, false, fmt.Errorf("%w: search by must be title, director or both, got %q", ErrValidation, by)
		}
	}
	return byTitle, byDirector, nil
}

// DeleteFilm removes the film together with its reviews and likes in one transaction.
func (s *filmService) DeleteFilm(ctx context.Context, filmID string) error {
	id, err := parseID("film", filmID)
	if err != nil {
		return err
	}
	if err := requireFilm(ctx, s.repo, id); err != nil {
		return err
	}

	err = s.repo.Tx.WithinTx(ctx, func(repo *repository.Repository) error {
		if err := repo.Review.DeleteByFilm(ctx, id); err != nil {
			s.log.Error("Failed to delete film reviews", zap.Error(err), zap.String("film_id", filmID))
			return fmt.Errorf("delete film reviews: %w", err)
		}
		if err := repo.Like.DeleteByFilm(ctx, id); err != nil {
			s.log.Error("Failed to delete film likes", zap.Error(err), zap.String("film_id", filmID))
			return fmt.Errorf("delete film likes: %w", err)
		}
		if err := repo.Film.Delete(ctx, id); err != nil {
			s.log.Error("Failed to delete film", zap.Error(err), zap.String("film_id", filmID))
			return fmt.Errorf("delete film: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx)
	s.log.Info("Film deleted", zap.String("film_id", filmID))
	return nil
}

func (s *filmService) parseFilmAndUser(ctx context.Context, filmID, userID string) (uuid.UUID, uuid.UUID, error) {
	film, err := parseID("film", filmID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	user, err := parseID("user", userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if err := requireFilm(ctx, s.repo, film); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if err := requireUser(ctx, s.repo, user); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return film, user, nil
}

func (s *filmService) invalidate(ctx context.Context) {
	invalidateCache(ctx, s.cache, s.log)
}

// invalidateCache moves cached read results to a new generation after a like set changed.
func invalidateCache(ctx context.Context, c cache.Cache, log *zap.Logger) {
	if err := c.Bump(ctx); err != nil {
		log.Warn("Failed to invalidate cache", zap.Error(err))
	}
}

type rankedFilm struct {
	film  *entity.Film
	likes int
}

// rankFilms filters films by genre and release year, then orders them by like
// count, highest first. Films with equal counts keep their input order.
func rankFilms(films []*entity.Film, counts map[uuid.UUID]int, genreID *uuid.UUID, year *int, limit int) []rankedFilm {
	ranked := make([]rankedFilm, 0, len(films))
	for _, film := range films {
		if genreID != nil && !film.HasGenre(*genreID) {
			continue
		}
		if year != nil && film.ReleaseYear() != *year {
			continue
		}
		ranked = append(ranked, rankedFilm{film: film, likes: counts[film.ID]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].likes > ranked[j].likes
	})

	if limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}

func likeCounts(snapshot repository.LikeSnapshot) map[uuid.UUID]int {
	counts := map[uuid.UUID]int{}
	for _, films := range snapshot {
		for filmID := range films {
			counts[filmID]++
		}
	}
	return counts
}

func formatYear(year *int) string {
	if year == nil {
		return ""
	}
	return fmt.Sprintf("%d", *year)
}
