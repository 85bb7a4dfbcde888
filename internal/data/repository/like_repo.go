package repository

import (
	"context"
	"fmt"

	"film-social/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LikeRepository interface {
	// Add is idempotent; it reports whether a new edge was stored.
	Add(ctx context.Context, filmID, userID uuid.UUID) (bool, error)
	// Remove reports whether an edge existed.
	Remove(ctx context.Context, filmID, userID uuid.UUID) (bool, error)
	FindFilmIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	// Snapshot returns every user's like set read in a single statement.
	Snapshot(ctx context.Context) (LikeSnapshot, error)
	DeleteByFilm(ctx context.Context, filmID uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type likeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewLikeRepository(db database.PgxIface, log *zap.Logger) LikeRepository {
	return &likeRepository{
		db:  db,
		log: log.With(zap.String("repository", "like")),
	}
}

func (r *likeRepository) Add(ctx context.Context, filmID, userID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO likes (user_id, film_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, film_id) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query, userID, filmID)
	if err != nil {
		r.log.Error("Failed to add like",
			zap.Error(err),
			zap.String("film_id", filmID.String()),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("add like to film %s by user %s: %w", filmID.String(), userID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *likeRepository) Remove(ctx context.Context, filmID, userID uuid.UUID) (bool, error) {
	query := `DELETE FROM likes WHERE user_id = $1 AND film_id = $2`

	result, err := r.db.Exec(ctx, query, userID, filmID)
	if err != nil {
		r.log.Error("Failed to remove like",
			zap.Error(err),
			zap.String("film_id", filmID.String()),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("remove like from film %s by user %s: %w", filmID.String(), userID.String(), err)
	}

	if result.RowsAffected() == 0 {
		r.log.Debug("Like not found for removal",
			zap.String("film_id", filmID.String()),
			zap.String("user_id", userID.String()),
		)
		return false, nil
	}

	return true, nil
}

func (r *likeRepository) FindFilmIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT film_id FROM likes WHERE user_id = $1 ORDER BY film_id`, userID)
	if err != nil {
		r.log.Error("Failed to find likes by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find likes by user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	filmIDs := []uuid.UUID{}
	for rows.Next() {
		var filmID uuid.UUID
		if err := rows.Scan(&filmID); err != nil {
			return nil, fmt.Errorf("scan like row: %w", err)
		}
		filmIDs = append(filmIDs, filmID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate like rows: %w", err)
	}

	return filmIDs, nil
}

func (r *likeRepository) Snapshot(ctx context.Context) (LikeSnapshot, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id, film_id FROM likes`)
	if err != nil {
		r.log.Error("Failed to load like snapshot", zap.Error(err))
		return nil, fmt.Errorf("load like snapshot: %w", err)
	}
	defer rows.Close()

	snapshot := LikeSnapshot{}
	for rows.Next() {
		var userID, filmID uuid.UUID
		if err := rows.Scan(&userID, &filmID); err != nil {
			return nil, fmt.Errorf("scan like row: %w", err)
		}

		films, ok := snapshot[userID]
		if !ok {
			films = map[uuid.UUID]struct{}{}
			snapshot[userID] = films
		}
		films[filmID] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate like rows: %w", err)
	}

	r.log.Debug("Like snapshot loaded", zap.Int("users", len(snapshot)))
	return snapshot, nil
}

func (r *likeRepository) DeleteByFilm(ctx context.Context, filmID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM likes WHERE film_id = $1`, filmID); err != nil {
		r.log.Error("Failed to delete likes by film", zap.Error(err), zap.String("film_id", filmID.String()))
		return fmt.Errorf("delete likes of film %s: %w", filmID.String(), err)
	}
	return nil
}

func (r *likeRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM likes WHERE user_id = $1`, userID); err != nil {
		r.log.Error("Failed to delete likes by user", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("delete likes of user %s: %w", userID.String(), err)
	}
	return nil
}
