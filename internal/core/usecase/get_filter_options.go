package usecase

import (
	"context"
	"fmt"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type GetFilterOptionsUseCase struct {
	repo port.ListingRepositoryPort
}

func NewGetFilterOptionsUseCase(repo port.ListingRepositoryPort) *GetFilterOptionsUseCase {
	return &GetFilterOptionsUseCase{repo: repo}
}

// Execute собирает значения каждой категории и сортирует их по правилам французского языка
func (uc *GetFilterOptionsUseCase) Execute(ctx context.Context) (map[domain.FilterCategory][]string, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "GetFilterOptions"})
	ucLogger.Info("Use case started", nil)

	// collate.Collator не потокобезопасен, создаем на каждый вызов
	collator := collate.New(language.French, collate.IgnoreCase)

	options := make(map[domain.FilterCategory][]string, len(domain.AllFilterCategories))
	for _, c := range domain.AllFilterCategories {
		values, err := uc.repo.DistinctAttributeValues(ctx, c)
		if err != nil {
			ucLogger.Error("Failed to load attribute values", err, port.Fields{"category": c.String()})
			return nil, fmt.Errorf("failed to load values for %s: %w", c, err)
		}
		sorted := append([]string{}, values...)
		collator.SortStrings(sorted)
		options[c] = sorted
	}

	ucLogger.Info("Use case finished successfully", nil)
	return options, nil
}
