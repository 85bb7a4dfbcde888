package repository

import (
	"context"
	"fmt"

	"film-social/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FriendRepository interface {
	// Add reports false when the edge already exists.
	Add(ctx context.Context, userID, friendID uuid.UUID) (bool, error)
	Remove(ctx context.Context, userID, friendID uuid.UUID) (bool, error)
	FindFriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	// DeleteByUser removes edges in both directions.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type friendRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFriendRepository(db database.PgxIface, log *zap.Logger) FriendRepository {
	return &friendRepository{
		db:  db,
		log: log.With(zap.String("repository", "friend")),
	}
}

func (r *friendRepository) Add(ctx context.Context, userID, friendID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO friends (user_id, friend_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, friend_id) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query, userID, friendID)
	if err != nil {
		r.log.Error("Failed to add friend",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("friend_id", friendID.String()),
		)
		return false, fmt.Errorf("add friend %s to user %s: %w", friendID.String(), userID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *friendRepository) Remove(ctx context.Context, userID, friendID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM friends WHERE user_id = $1 AND friend_id = $2`, userID, friendID)
	if err != nil {
		r.log.Error("Failed to remove friend",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("friend_id", friendID.String()),
		)
		return false, fmt.Errorf("remove friend %s from user %s: %w", friendID.String(), userID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *friendRepository) FindFriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT friend_id FROM friends WHERE user_id = $1 ORDER BY friend_id`, userID)
	if err != nil {
		r.log.Error("Failed to find friends",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find friends of user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	friendIDs := []uuid.UUID{}
	for rows.Next() {
		var friendID uuid.UUID
		if err := rows.Scan(&friendID); err != nil {
			return nil, fmt.Errorf("scan friend row: %w", err)
		}
		friendIDs = append(friendIDs, friendID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friend rows: %w", err)
	}

	return friendIDs, nil
}

func (r *friendRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM friends WHERE user_id = $1 OR friend_id = $1`, userID); err != nil {
		r.log.Error("Failed to delete friend edges", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("delete friend edges of user %s: %w", userID.String(), err)
	}
	return nil
}
