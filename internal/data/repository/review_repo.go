package repository

import (
	"context"
	"errors"
	"fmt"

	"film-social/internal/data/entity"
	"film-social/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// RatingFunc decides the next rating state and the usefulness delta from the current state.
type RatingFunc func(current entity.RatingState) (entity.RatingState, int, error)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByUserAndFilm(ctx context.Context, userID, filmID uuid.UUID) (*entity.Review, error)
	// FindAll lists reviews by usefulness, optionally restricted to one film.
	FindAll(ctx context.Context, filmID *uuid.UUID, limit int) ([]*entity.Review, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByFilm(ctx context.Context, filmID uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error

	// ApplyRating reads the user's rating of the review, runs fn and stores the
	// result together with the usefulness delta as one atomic step. It returns
	// nil, nil when the review does not exist.
	ApplyRating(ctx context.Context, reviewID, userID uuid.UUID, fn RatingFunc) (*entity.Review, error)
	GetRating(ctx context.Context, reviewID, userID uuid.UUID) (entity.RatingState, error)
	// DeleteRatingsByUser drops every rating the user gave and reverts their effect on usefulness.
	DeleteRatingsByUser(ctx context.Context, userID uuid.UUID) error
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewColumns = `id, user_id, film_id, content, is_positive, useful, created_at`

func scanReview(row pgx.Row) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.FilmID,
		&review.Content,
		&review.IsPositive,
		&review.Useful,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, user_id, film_id, content, is_positive, useful, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.UserID,
		review.FilmID,
		review.Content,
		review.IsPositive,
		review.Useful,
		review.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", review.UserID.String()),
			zap.String("film_id", review.FilmID.String()),
		)
		return fmt.Errorf("create review for film %s by user %s: %w",
			review.FilmID.String(), review.UserID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return nil, fmt.Errorf("find review by ID %s: %w", id.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) FindByUserAndFilm(ctx context.Context, userID, filmID uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE user_id = $1 AND film_id = $2
		LIMIT 1
	`

	review, err := scanReview(r.db.QueryRow(ctx, query, userID, filmID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by user and film",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("film_id", filmID.String()),
		)
		return nil, fmt.Errorf("find review by user %s and film %s: %w",
			userID.String(), filmID.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) FindAll(ctx context.Context, filmID *uuid.UUID, limit int) ([]*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE ($1::uuid IS NULL OR film_id = $1)
		ORDER BY useful DESC, id ASC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, filmID, limit)
	if err != nil {
		r.log.Error("Failed to find reviews",
			zap.Error(err),
			zap.Int("limit", limit),
		)
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*entity.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

// Update writes content and polarity only; author, film and usefulness stay untouched.
func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET content = $2, is_positive = $3
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		review.ID,
		review.Content,
		review.IsPositive,
	)

	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.String("review_id", review.ID.String()),
		)
		return fmt.Errorf("update review %s: %w", review.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", review.ID.String())
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var affected int64
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM review_ratings WHERE review_id = $1`, id); err != nil {
			return fmt.Errorf("delete review ratings: %w", err)
		}

		result, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete review row: %w", err)
		}
		affected = result.RowsAffected()
		return nil
	})

	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return fmt.Errorf("delete review %s: %w", id.String(), err)
	}

	if affected == 0 {
		return fmt.Errorf("review %s not found", id.String())
	}

	r.log.Info("Review deleted", zap.String("review_id", id.String()))
	return nil
}

func (r *reviewRepository) DeleteByFilm(ctx context.Context, filmID uuid.UUID) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		ratings := `
			DELETE FROM review_ratings
			WHERE review_id IN (SELECT id FROM reviews WHERE film_id = $1)
		`
		if _, err := tx.Exec(ctx, ratings, filmID); err != nil {
			return fmt.Errorf("delete ratings: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM reviews WHERE film_id = $1`, filmID); err != nil {
			return fmt.Errorf("delete reviews: %w", err)
		}
		return nil
	})

	if err != nil {
		r.log.Error("Failed to delete reviews by film", zap.Error(err), zap.String("film_id", filmID.String()))
		return fmt.Errorf("delete reviews of film %s: %w", filmID.String(), err)
	}
	return nil
}

func (r *reviewRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		ratings := `
			DELETE FROM review_ratings
			WHERE review_id IN (SELECT id FROM reviews WHERE user_id = $1)
		`
		if _, err := tx.Exec(ctx, ratings, userID); err != nil {
			return fmt.Errorf("delete ratings: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM reviews WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("delete reviews: %w", err)
		}
		return nil
	})

	if err != nil {
		r.log.Error("Failed to delete reviews by user", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("delete reviews of user %s: %w", userID.String(), err)
	}
	return nil
}

func (r *reviewRepository) ApplyRating(ctx context.Context, reviewID, userID uuid.UUID, fn RatingFunc) (*entity.Review, error) {
	var review *entity.Review

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		// row lock serialises concurrent raters of the same review
		locked, err := scanReview(tx.QueryRow(ctx,
			`SELECT `+reviewColumns+` FROM reviews WHERE id = $1 FOR UPDATE`, reviewID))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("lock review: %w", err)
		}

		current, err := readRating(ctx, tx, reviewID, userID)
		if err != nil {
			return err
		}

		next, delta, err := fn(current)
		if err != nil {
			return err
		}

		if next == entity.RatingNone {
			_, err = tx.Exec(ctx,
				`DELETE FROM review_ratings WHERE review_id = $1 AND user_id = $2`,
				reviewID, userID)
		} else {
			_, err = tx.Exec(ctx, `
				INSERT INTO review_ratings (review_id, user_id, is_like)
				VALUES ($1, $2, $3)
				ON CONFLICT (review_id, user_id) DO UPDATE SET is_like = EXCLUDED.is_like
			`, reviewID, userID, next.IsLike())
		}
		if err != nil {
			return fmt.Errorf("store rating: %w", err)
		}

		if err := tx.QueryRow(ctx,
			`UPDATE reviews SET useful = useful + $2 WHERE id = $1 RETURNING useful`,
			reviewID, delta).Scan(&locked.Useful); err != nil {
			return fmt.Errorf("update usefulness: %w", err)
		}

		review = locked
		return nil
	})

	if err != nil {
		if errors.Is(err, entity.ErrAlreadyRated) || errors.Is(err, entity.ErrRatingNotFound) || errors.Is(err, entity.ErrUnknownAction) {
			return nil, err
		}
		r.log.Error("Failed to apply rating",
			zap.Error(err),
			zap.String("review_id", reviewID.String()),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("apply rating to review %s by user %s: %w", reviewID.String(), userID.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) GetRating(ctx context.Context, reviewID, userID uuid.UUID) (entity.RatingState, error) {
	state, err := readRating(ctx, r.db, reviewID, userID)
	if err != nil {
		r.log.Error("Failed to get rating",
			zap.Error(err),
			zap.String("review_id", reviewID.String()),
			zap.String("user_id", userID.String()),
		)
		return entity.RatingNone, err
	}
	return state, nil
}

func (r *reviewRepository) DeleteRatingsByUser(ctx context.Context, userID uuid.UUID) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		revert := `
			UPDATE reviews r
			SET useful = r.useful - agg.delta
			FROM (
				SELECT review_id, SUM(CASE WHEN is_like THEN 1 ELSE -1 END) AS delta
				FROM review_ratings
				WHERE user_id = $1
				GROUP BY review_id
			) agg
			WHERE r.id = agg.review_id
		`
		if _, err := tx.Exec(ctx, revert, userID); err != nil {
			return fmt.Errorf("revert usefulness: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM review_ratings WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("delete ratings: %w", err)
		}
		return nil
	})

	if err != nil {
		r.log.Error("Failed to delete ratings by user", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("delete ratings of user %s: %w", userID.String(), err)
	}
	return nil
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func readRating(ctx context.Context, q rowQuerier, reviewID, userID uuid.UUID) (entity.RatingState, error) {
	var isLike bool
	err := q.QueryRow(ctx,
		`SELECT is_like FROM review_ratings WHERE review_id = $1 AND user_id = $2`,
		reviewID, userID).Scan(&isLike)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.RatingNone, nil
	}
	if err != nil {
		return entity.RatingNone, fmt.Errorf("read rating: %w", err)
	}
	return entity.RatingStateFromIsLike(isLike), nil
}
