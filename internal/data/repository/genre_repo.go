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

type GenreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Genre, error)
}

type genreRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewGenreRepository(db database.PgxIface, log *zap.Logger) GenreRepository {
	return &genreRepository{
		db:  db,
		log: log.With(zap.String("repository", "genre")),
	}
}

func (r *genreRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Genre, error) {
	query := `SELECT id, name, created_at FROM genres WHERE id = $1`

	var genre entity.Genre
	err := r.db.QueryRow(ctx, query, id).Scan(
		&genre.ID,
		&genre.Name,
		&genre.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find genre by ID",
			zap.Error(err),
			zap.String("genre_id", id.String()),
		)
		return nil, fmt.Errorf("find genre by id: %w", err)
	}

	return &genre, nil
}

type DirectorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Director, error)
}

type directorRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewDirectorRepository(db database.PgxIface, log *zap.Logger) DirectorRepository {
	return &directorRepository{
		db:  db,
		log: log.With(zap.String("repository", "director")),
	}
}

func (r *directorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Director, error) {
	query := `SELECT id, name, created_at FROM directors WHERE id = $1`

	var director entity.Director
	err := r.db.QueryRow(ctx, query, id).Scan(
		&director.ID,
		&director.Name,
		&director.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find director by ID",
			zap.Error(err),
			zap.String("director_id", id.String()),
		)
		return nil, fmt.Errorf("find director by id: %w", err)
	}

	return &director, nil
}
