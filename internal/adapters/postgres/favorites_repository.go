package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// FavoritesRepository - реализация порта избранного для PostgreSQL.
type FavoritesRepository struct {
	pool *pgxpool.Pool
}

func NewFavoritesRepository(pool *pgxpool.Pool) (*FavoritesRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &FavoritesRepository{pool: pool}, nil
}

// Add добавляет запись в user_favorites.
func (r *FavoritesRepository) Add(ctx context.Context, userID string, listingID int64) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "PostgresFavoritesRepository",
		"method":     "Add",
		"user_id":    userID,
		"listing_id": listingID,
	})

	query := `INSERT INTO user_favorites (user_id, listing_id) VALUES ($1, $2)`
	_, err := r.pool.Exec(ctx, query, userID, listingID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				// Запись уже существует, считаем операцию успешной
				repoLogger.Debug("Favorite already exists, operation considered successful.", nil)
				return nil
			case pgForeignKeyViolation:
				return domain.ErrListingNotFound
			}
		}
		repoLogger.Error("Failed to add favorite", err, port.Fields{"query": query})
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// Remove удаляет запись из user_favorites. Отсутствие записи не ошибка.
func (r *FavoritesRepository) Remove(ctx context.Context, userID string, listingID int64) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "PostgresFavoritesRepository",
		"method":     "Remove",
		"user_id":    userID,
		"listing_id": listingID,
	})

	query := `DELETE FROM user_favorites WHERE user_id = $1 AND listing_id = $2`
	cmdTag, err := r.pool.Exec(ctx, query, userID, listingID)
	if err != nil {
		repoLogger.Error("Failed to remove favorite", err, port.Fields{"query": query})
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		repoLogger.Warn("Attempted to remove a favorite that did not exist.", nil)
	}
	return nil
}

func (r *FavoritesRepository) FindIDsByUser(ctx context.Context, userID string) ([]int64, error) {
	rows, err := r.pool.Query(ctx, "SELECT listing_id FROM user_favorites WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorite IDs: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during favorite IDs iteration: %w", err)
	}
	return ids, nil
}

// FindPaginatedByUser - COUNT и страница ID в одной транзакции, новые первыми
func (r *FavoritesRepository) FindPaginatedByUser(ctx context.Context, userID string, limit, offset int) (*domain.PaginatedFavoriteIDs, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresFavoritesRepository",
		"method":    "FindPaginatedByUser",
		"user_id":   userID,
		"limit":     limit,
		"offset":    offset,
	})

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result := &domain.PaginatedFavoriteIDs{
		ListingIDs:   []int64{},
		CurrentPage:  offset/limit + 1,
		ItemsPerPage: limit,
	}

	countQuery := "SELECT COUNT(*) FROM user_favorites WHERE user_id = $1"
	if err := tx.QueryRow(ctx, countQuery, userID).Scan(&result.TotalCount); err != nil {
		repoLogger.Error("Failed to count favorites", err, port.Fields{"query": countQuery})
		return nil, fmt.Errorf("failed to count favorites: %w", err)
	}
	if result.TotalCount == 0 {
		return result, nil
	}

	dataQuery := "SELECT listing_id FROM user_favorites WHERE user_id = $1 ORDER BY created_at DESC, listing_id DESC LIMIT $2 OFFSET $3"
	rows, err := tx.Query(ctx, dataQuery, userID, limit, offset)
	if err != nil {
		repoLogger.Error("Failed to query favorite IDs", err, port.Fields{"query": dataQuery})
		return nil, fmt.Errorf("failed to query favorite IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite ID: %w", err)
		}
		result.ListingIDs = append(result.ListingIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during favorite IDs iteration: %w", err)
	}
	rows.Close()

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}
