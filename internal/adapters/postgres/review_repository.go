package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) (*ReviewRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ReviewRepository{pool: pool}, nil
}

// Create опирается на UNIQUE (listing_id, user_id)
func (r *ReviewRepository) Create(ctx context.Context, review domain.Review) (*domain.Review, error) {
	query := `
		INSERT INTO reviews (listing_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, review.ListingID, review.UserID, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return nil, domain.ErrAlreadyReviewed
			case pgForeignKeyViolation:
				return nil, domain.ErrListingNotFound
			}
		}
		return nil, fmt.Errorf("failed to insert review: %w", err)
	}
	return &review, nil
}

func (r *ReviewRepository) FindByListing(ctx context.Context, listingID int64) ([]domain.Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, listing_id, user_id, rating, comment, created_at
		FROM reviews WHERE listing_id = $1
		ORDER BY created_at DESC, id DESC`, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ListingID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
