package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"film-social/internal/data/entity"
	"film-social/internal/data/repository"
	"film-social/internal/data/repository/memory"
	"film-social/pkg/cache"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	store *memory.Store
	repo  *repository.Repository
	svc   *Service
	cache *mapCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	repo := store.Repository()
	c := newMapCache()

	return &fixture{
		store: store,
		repo:  repo,
		cache: c,
		svc: NewService(repo, Options{
			Cache: c,
			Clock: steppingClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
		}, zap.NewNop()),
	}
}

// steppingClock advances one second per call so events get distinct timestamps.
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func (f *fixture) newUser(t *testing.T) uuid.UUID {
	t.Helper()
	id := uuid.New()
	f.store.PutUser(&entity.User{
		BaseSimple: entity.BaseSimple{ID: id},
		Email:      id.String() + "@example.com",
		Login:      "user" + id.String()[:8],
		Birthday:   time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	return id
}

type filmOption func(*entity.Film)

func releasedIn(year int) filmOption {
	return func(f *entity.Film) { f.ReleaseDate = time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC) }
}

func withGenres(ids ...uuid.UUID) filmOption {
	return func(f *entity.Film) { f.GenreIDs = ids }
}

func withDirectors(ids ...uuid.UUID) filmOption {
	return func(f *entity.Film) { f.DirectorIDs = ids }
}

func titled(title string) filmOption {
	return func(f *entity.Film) { f.Title = title }
}

func (f *fixture) newFilm(t *testing.T, opts ...filmOption) uuid.UUID {
	t.Helper()
	film := &entity.Film{
		BaseSimple:        entity.BaseSimple{ID: uuid.New()},
		ReleaseDate:       time.Date(2000, 6, 1, 0, 0, 0, 0, time.UTC),
		DurationInMinutes: 100,
	}
	for _, opt := range opts {
		opt(film)
	}
	if film.Title == "" {
		film.Title = "film " + film.ID.String()[:8]
	}
	f.store.PutFilm(film)
	return film.ID
}

func (f *fixture) newGenre(t *testing.T) uuid.UUID {
	t.Helper()
	id := uuid.New()
	f.store.PutGenre(&entity.Genre{BaseSimple: entity.BaseSimple{ID: id}, Name: "genre"})
	return id
}

func (f *fixture) newDirector(t *testing.T) uuid.UUID {
	t.Helper()
	return f.newNamedDirector(t, "director")
}

func (f *fixture) newNamedDirector(t *testing.T, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	f.store.PutDirector(&entity.Director{BaseSimple: entity.BaseSimple{ID: id}, Name: name})
	return id
}

func (f *fixture) like(t *testing.T, userID uuid.UUID, filmIDs ...uuid.UUID) {
	t.Helper()
	for _, filmID := range filmIDs {
		require.NoError(t, f.svc.Film.AddLike(context.Background(), filmID.String(), userID.String()))
	}
}

func (f *fixture) events(t *testing.T, userID uuid.UUID) []*entity.UserEvent {
	t.Helper()
	events, err := f.repo.Event.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	return events
}

// mapCache is an in-process cache.Cache with the same generation semantics as the Redis one.
type mapCache struct {
	mu   sync.Mutex
	gen  int64
	data map[string][]byte
	sets int
}

var _ cache.Cache = (*mapCache)(nil)

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}}
}

func (c *mapCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *mapCache) Bump(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return nil
}

func (c *mapCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *mapCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	c.sets++
	return nil
}

func (c *mapCache) setCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}
