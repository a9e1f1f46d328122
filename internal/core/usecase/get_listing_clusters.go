package usecase

import (
	"context"
	"fmt"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

const (
	clusterBatchSize = 500
	// maxClusteredListings ограничивает выборку для одного ответа
	maxClusteredListings = 10000
)

type GetListingClustersUseCase struct {
	repo port.ListingRepositoryPort
}

func NewGetListingClustersUseCase(repo port.ListingRepositoryPort) *GetListingClustersUseCase {
	return &GetListingClustersUseCase{repo: repo}
}

func (uc *GetListingClustersUseCase) Execute(ctx context.Context, filters domain.FilterState, bounds *domain.MapBounds, precision uint) ([]domain.Cluster, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":  "GetListingClusters",
		"precision": precision,
	})
	ucLogger.Info("Use case started", nil)

	var all []domain.Listing
	for offset := 0; offset < maxClusteredListings; offset += clusterBatchSize {
		page, err := uc.repo.FetchPage(ctx, port.ListingQuery{
			Filters: filters,
			Bounds:  bounds,
			Offset:  offset,
			Limit:   clusterBatchSize,
		})
		if err != nil {
			ucLogger.Error("Failed to fetch listings for clustering", err, port.Fields{"offset": offset})
			return nil, fmt.Errorf("failed to fetch listings for clustering: %w", err)
		}
		all = append(all, page.Listings...)
		if len(page.Listings) < clusterBatchSize || len(all) >= page.TotalCount {
			break
		}
	}

	clusters := domain.ClusterListings(all, precision)
	ucLogger.Info("Use case finished successfully", port.Fields{
		"listings": len(all),
		"clusters": len(clusters),
	})
	return clusters, nil
}
