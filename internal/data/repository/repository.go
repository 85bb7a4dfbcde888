package repository

import (
	"context"

	"film-social/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// LikeSnapshot maps each user to the set of films they like.
type LikeSnapshot map[uuid.UUID]map[uuid.UUID]struct{}

// Transactor runs fn with repositories that share one transaction. Nothing fn
// wrote is kept unless it returns nil.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repo *Repository) error) error
}

type Repository struct {
	User     UserRepository
	Film     FilmRepository
	Genre    GenreRepository
	Director DirectorRepository
	Like     LikeRepository
	Friend   FriendRepository
	Review   ReviewRepository
	Event    EventRepository
	Tx       Transactor
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:     NewUserRepository(db, log),
		Film:     NewFilmRepository(db, log),
		Genre:    NewGenreRepository(db, log),
		Director: NewDirectorRepository(db, log),
		Like:     NewLikeRepository(db, log),
		Friend:   NewFriendRepository(db, log),
		Review:   NewReviewRepository(db, log),
		Event:    NewEventRepository(db, log),
		Tx:       &pgTransactor{db: db, log: log},
	}
}

type pgTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func (t *pgTransactor) WithinTx(ctx context.Context, fn func(repo *Repository) error) error {
	return database.WithTx(ctx, t.db, func(tx pgx.Tx) error {
		return fn(NewRepository(database.TxConn(tx), t.log))
	})
}
