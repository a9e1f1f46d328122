package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const listingColumns = `l.id, l.producer_id, l.name, l.description, l.address, l.email, l.phone, l.website,
	l.lat, l.lng, l.product_type, l.certifications, l.purchase_mode, l.production_method,
	l.additional_services, l.availability, l.status, l.active, l.geohash, l.created_at, l.updated_at`

// ListingRepository - карточки в PostgreSQL
type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) (*ListingRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ListingRepository{pool: pool}, nil
}

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var l domain.Listing
	var status string
	err := row.Scan(
		&l.ID, &l.ProducerID, &l.Name, &l.Description, &l.Address, &l.Email, &l.Phone, &l.Website,
		&l.Lat, &l.Lng, &l.ProductType, &l.Certifications, &l.PurchaseMode, &l.ProductionMethod,
		&l.AdditionalServices, &l.Availability, &status, &l.Active, &l.Geohash, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Status = domain.ListingStatus(status)
	return &l, nil
}

func collectListings(rows pgx.Rows) ([]domain.Listing, error) {
	defer rows.Close()
	listings := make([]domain.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing row: %w", err)
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during listings iteration: %w", err)
	}
	return listings, nil
}

// FetchPage - диапазон строк и точное количество в одной транзакции
func (r *ListingRepository) FetchPage(ctx context.Context, query port.ListingQuery) (*port.ListingPage, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresListingRepository",
		"method":    "FetchPage",
		"limit":     query.Limit,
		"offset":    query.Offset,
	})

	qb, whereClause, args := applyListingQuery(query)

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly, IsoLevel: pgx.RepeatableRead})
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var total int
	countQuery := "SELECT COUNT(*) FROM listings l " + whereClause
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		repoLogger.Error("Failed to count listings", err, port.Fields{"query": countQuery})
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}

	page := &port.ListingPage{Listings: []domain.Listing{}, TotalCount: total}
	if total == 0 || query.Offset >= total {
		return page, nil
	}

	dataQuery := fmt.Sprintf(
		"SELECT %s FROM listings l %s ORDER BY l.created_at DESC, l.id DESC LIMIT $%d OFFSET $%d",
		listingColumns, whereClause, qb.argId, qb.argId+1,
	)
	rows, err := tx.Query(ctx, dataQuery, append(args, query.Limit, query.Offset)...)
	if err != nil {
		repoLogger.Error("Failed to query listings", err, nil)
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	listings, err := collectListings(rows)
	if err != nil {
		repoLogger.Error("Failed to read listings", err, nil)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	page.Listings = listings
	repoLogger.Debug("Listings page fetched", port.Fields{"returned": len(listings), "total_count": total})
	return page, nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	query := fmt.Sprintf("SELECT %s FROM listings l WHERE l.id = $1", listingColumns)
	l, err := scanListing(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing %d: %w", id, err)
	}
	return l, nil
}

func (r *ListingRepository) Create(ctx context.Context, l domain.Listing) (*domain.Listing, error) {
	query := fmt.Sprintf(`
		INSERT INTO listings AS l (producer_id, name, description, address, email, phone, website,
			lat, lng, product_type, certifications, purchase_mode, production_method,
			additional_services, availability, status, active, geohash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING %s`, listingColumns)

	created, err := scanListing(r.pool.QueryRow(ctx, query,
		l.ProducerID, l.Name, l.Description, l.Address, l.Email, l.Phone, l.Website,
		l.Lat, l.Lng, nonNil(l.ProductType), nonNil(l.Certifications), nonNil(l.PurchaseMode),
		nonNil(l.ProductionMethod), nonNil(l.AdditionalServices), nonNil(l.Availability),
		string(l.Status), l.Active, l.Geohash,
	))
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to insert listing", err, port.Fields{"component": "PostgresListingRepository"})
		return nil, fmt.Errorf("failed to insert listing: %w", err)
	}
	return created, nil
}

func (r *ListingRepository) Update(ctx context.Context, l domain.Listing) (*domain.Listing, error) {
	query := fmt.Sprintf(`
		UPDATE listings AS l SET name = $2, description = $3, address = $4, email = $5, phone = $6,
			website = $7, lat = $8, lng = $9, product_type = $10, certifications = $11,
			purchase_mode = $12, production_method = $13, additional_services = $14,
			availability = $15, geohash = $16, updated_at = NOW()
		WHERE l.id = $1
		RETURNING %s`, listingColumns)

	updated, err := scanListing(r.pool.QueryRow(ctx, query,
		l.ID, l.Name, l.Description, l.Address, l.Email, l.Phone, l.Website, l.Lat, l.Lng,
		nonNil(l.ProductType), nonNil(l.Certifications), nonNil(l.PurchaseMode),
		nonNil(l.ProductionMethod), nonNil(l.AdditionalServices), nonNil(l.Availability), l.Geohash,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to update listing %d: %w", l.ID, err)
	}
	return updated, nil
}

func (r *ListingRepository) SetStatus(ctx context.Context, id int64, status domain.ListingStatus, active bool) error {
	cmdTag, err := r.pool.Exec(ctx,
		"UPDATE listings SET status = $2, active = $3, updated_at = NOW() WHERE id = $1",
		id, string(status), active,
	)
	if err != nil {
		return fmt.Errorf("failed to set listing status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Deactivate(ctx context.Context, id int64) error {
	cmdTag, err := r.pool.Exec(ctx, "UPDATE listings SET active = false, updated_at = NOW() WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to deactivate listing: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) FindByStatus(ctx context.Context, status domain.ListingStatus, limit, offset int) (*domain.PaginatedListings, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM listings WHERE status = $1", string(status)).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count listings by status: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM listings l WHERE l.status = $1 ORDER BY l.created_at ASC, l.id ASC LIMIT $2 OFFSET $3",
		listingColumns,
	)
	rows, err := r.pool.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings by status: %w", err)
	}
	listings, err := collectListings(rows)
	if err != nil {
		return nil, err
	}

	return &domain.PaginatedListings{
		Listings:     listings,
		TotalCount:   total,
		CurrentPage:  offset/limit + 1,
		ItemsPerPage: limit,
	}, nil
}

// FindByIDs возвращает только публичные карточки, порядок не гарантируется
func (r *ListingRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Listing, error) {
	if len(ids) == 0 {
		return []domain.Listing{}, nil
	}
	query := fmt.Sprintf(
		"SELECT %s FROM listings l WHERE l.id = ANY($1) AND l.active = true AND l.status = 'approved'",
		listingColumns,
	)
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings by ids: %w", err)
	}
	return collectListings(rows)
}

// DistinctAttributeValues - имя колонки берется из перечисления категорий, не из ввода
func (r *ListingRepository) DistinctAttributeValues(ctx context.Context, category domain.FilterCategory) ([]string, error) {
	if _, ok := domain.ParseFilterCategory(category.String()); !ok {
		return nil, fmt.Errorf("%w: unknown filter category", domain.ErrInvalidInput)
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT v
		FROM listings l, unnest(l.%s) AS v
		WHERE l.active = true AND l.status = 'approved' AND v <> ''`, category.String())

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get distinct %s: %w", category, err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s value: %w", category, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
