package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"film-social/internal/data/entity"
	"film-social/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type FilmRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Film, error)
	// FindByIDs and FindAll return films ordered by id.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Film, error)
	FindAll(ctx context.Context) ([]*entity.Film, error)
	FindByDirectorID(ctx context.Context, directorID uuid.UUID) ([]*entity.Film, error)
	// Search matches query as a case-insensitive substring of the title and/or
	// any director name. Results are ordered by id.
	Search(ctx context.Context, query string, byTitle, byDirector bool) ([]*entity.Film, error)

	// Delete removes the film with its genre/director links. Likes and reviews
	// are cascaded by the caller.
	Delete(ctx context.Context, id uuid.UUID) error
}

type filmRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFilmRepository(db database.PgxIface, log *zap.Logger) FilmRepository {
	return &filmRepository{
		db:  db,
		log: log.With(zap.String("repository", "film")),
	}
}

const filmColumns = `f.id, f.title, f.description, f.release_date, f.duration_in_minutes, f.mpa_id, f.created_at`

func scanFilm(row pgx.Row) (*entity.Film, error) {
	var film entity.Film
	err := row.Scan(
		&film.ID,
		&film.Title,
		&film.Description,
		&film.ReleaseDate,
		&film.DurationInMinutes,
		&film.MpaID,
		&film.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &film, nil
}

func (r *filmRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Film, error) {
	query := `SELECT ` + filmColumns + ` FROM films f WHERE f.id = $1`

	film, err := scanFilm(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find film by ID",
			zap.Error(err),
			zap.String("film_id", id.String()),
		)
		return nil, fmt.Errorf("find film by ID %s: %w", id.String(), err)
	}

	if err := r.loadAssociations(ctx, []*entity.Film{film}); err != nil {
		return nil, err
	}

	return film, nil
}

func (r *filmRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Film, error) {
	if len(ids) == 0 {
		return []*entity.Film{}, nil
	}

	query := `SELECT ` + filmColumns + ` FROM films f WHERE f.id = ANY($1) ORDER BY f.id`
	return r.queryFilms(ctx, "find films by IDs", query, ids)
}

func (r *filmRepository) FindAll(ctx context.Context) ([]*entity.Film, error) {
	query := `SELECT ` + filmColumns + ` FROM films f ORDER BY f.id`
	return r.queryFilms(ctx, "find all films", query)
}

func (r *filmRepository) FindByDirectorID(ctx context.Context, directorID uuid.UUID) ([]*entity.Film, error) {
	query := `
		SELECT ` + filmColumns + `
		FROM films f
		INNER JOIN film_directors fd ON fd.film_id = f.id
		WHERE fd.director_id = $1
		ORDER BY f.id
	`
	return r.queryFilms(ctx, "find films by director", query, directorID)
}

func (r *filmRepository) Search(ctx context.Context, query string, byTitle, byDirector bool) ([]*entity.Film, error) {
	sql := `
		SELECT DISTINCT ` + filmColumns + `
		FROM films f
		LEFT JOIN film_directors fd ON fd.film_id = f.id
		LEFT JOIN directors d ON d.id = fd.director_id
		WHERE ($2 AND f.title ILIKE $1)
		   OR ($3 AND d.name ILIKE $1)
		ORDER BY f.id
	`
	return r.queryFilms(ctx, "search films", sql, "%"+escapeLike(query)+"%", byTitle, byDirector)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes query match literally inside an ILIKE pattern.
func escapeLike(query string) string {
	return likeEscaper.Replace(query)
}

func (r *filmRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var affected int64
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM film_genres WHERE film_id = $1`, id); err != nil {
			return fmt.Errorf("delete film genres: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM film_directors WHERE film_id = $1`, id); err != nil {
			return fmt.Errorf("delete film directors: %w", err)
		}

		result, err := tx.Exec(ctx, `DELETE FROM films WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete film row: %w", err)
		}
		affected = result.RowsAffected()
		return nil
	})

	if err != nil {
		r.log.Error("Failed to delete film",
			zap.Error(err),
			zap.String("film_id", id.String()),
		)
		return fmt.Errorf("delete film %s: %w", id.String(), err)
	}

	if affected == 0 {
		return fmt.Errorf("film %s not found", id.String())
	}

	r.log.Info("Film deleted", zap.String("film_id", id.String()))
	return nil
}

func (r *filmRepository) queryFilms(ctx context.Context, op, query string, args ...any) ([]*entity.Film, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	films := []*entity.Film{}
	for rows.Next() {
		film, err := scanFilm(rows)
		if err != nil {
			r.log.Error("Failed to scan film row", zap.Error(err))
			return nil, fmt.Errorf("scan film row: %w", err)
		}
		films = append(films, film)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate film rows: %w", err)
	}

	if err := r.loadAssociations(ctx, films); err != nil {
		return nil, err
	}

	r.log.Debug("Films found", zap.String("op", op), zap.Int("count", len(films)))
	return films, nil
}

// loadAssociations fills GenreIDs and DirectorIDs with one query per link table.
func (r *filmRepository) loadAssociations(ctx context.Context, films []*entity.Film) error {
	if len(films) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*entity.Film, len(films))
	ids := make([]uuid.UUID, 0, len(films))
	for _, film := range films {
		byID[film.ID] = film
		ids = append(ids, film.ID)
	}

	links := []struct {
		query  string
		target func(f *entity.Film, id uuid.UUID)
	}{
		{
			query:  `SELECT film_id, genre_id FROM film_genres WHERE film_id = ANY($1) ORDER BY genre_id`,
			target: func(f *entity.Film, id uuid.UUID) { f.GenreIDs = append(f.GenreIDs, id) },
		},
		{
			query:  `SELECT film_id, director_id FROM film_directors WHERE film_id = ANY($1) ORDER BY director_id`,
			target: func(f *entity.Film, id uuid.UUID) { f.DirectorIDs = append(f.DirectorIDs, id) },
		},
	}

	for _, link := range links {
		rows, err := r.db.Query(ctx, link.query, ids)
		if err != nil {
			r.log.Error("Failed to load film associations", zap.Error(err))
			return fmt.Errorf("load film associations: %w", err)
		}

		for rows.Next() {
			var filmID, linkedID uuid.UUID
			if err := rows.Scan(&filmID, &linkedID); err != nil {
				rows.Close()
				return fmt.Errorf("scan film association: %w", err)
			}
			if film, ok := byID[filmID]; ok {
				link.target(film, linkedID)
			}
		}
		rows.Close()

		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate film associations: %w", err)
		}
	}

	return nil
}
