package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) (*ProductRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ProductRepository{pool: pool}, nil
}

func (r *ProductRepository) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (listing_id, name, description, unit, price_cents, stock_status, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, p.ListingID, p.Name, p.Description, p.Unit, p.PriceCents, string(p.StockStatus), p.Active).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepository) FindByListing(ctx context.Context, listingID int64) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, listing_id, name, description, unit, price_cents, stock_status, active, created_at
		FROM products WHERE listing_id = $1 AND active = true
		ORDER BY name ASC, id ASC`, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		var stock string
		if err := rows.Scan(&p.ID, &p.ListingID, &p.Name, &p.Description, &p.Unit, &p.PriceCents, &stock, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.StockStatus = domain.StockStatus(stock)
		products = append(products, p)
	}
	return products, rows.Err()
}
