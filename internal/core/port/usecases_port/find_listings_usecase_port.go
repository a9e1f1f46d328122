package usecases_port

import (
	"context"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

type FindListingsUseCasePort interface {
	Execute(ctx context.Context, query port.ListingQuery) (*domain.PaginatedListings, error)
}

type GetListingUseCasePort interface {
	Execute(ctx context.Context, id int64) (*domain.Listing, error)
}

type GetListingClustersUseCasePort interface {
	Execute(ctx context.Context, filters domain.FilterState, bounds *domain.MapBounds, precision uint) ([]domain.Cluster, error)
}

// GetFilterOptionsUseCasePort возвращает доступные значения для каждой категории фильтра
type GetFilterOptionsUseCasePort interface {
	Execute(ctx context.Context) (map[domain.FilterCategory][]string, error)
}
