package port

import (
	"context"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
)

// ListingQuery - запрос страницы карточек с фильтрами и границами карты
type ListingQuery struct {
	Filters domain.FilterState
	Bounds  *domain.MapBounds
	Offset  int
	Limit   int
}

// ListingPage - строки диапазона и точное общее количество
type ListingPage struct {
	Listings   []domain.Listing
	TotalCount int
}

// ListingSourcePort - удаленный источник карточек с пагинацией диапазоном.
// Реализации: PostgreSQL на сервере и HTTP-клиент API в браузере/CLI.
type ListingSourcePort interface {
	FetchPage(ctx context.Context, query ListingQuery) (*ListingPage, error)
}
