package domain

import "time"

// FavoriteItem - одна запись избранного
type FavoriteItem struct {
	UserID    string
	ListingID int64
	CreatedAt time.Time
}

// PaginatedFavoriteIDs - ответ репозитория с пагинацией
type PaginatedFavoriteIDs struct {
	ListingIDs   []int64
	TotalCount   int64
	CurrentPage  int
	ItemsPerPage int
}

// PaginatedFavorites - избранное, обогащенное карточками
type PaginatedFavorites struct {
	Listings     []Listing
	TotalCount   int64
	CurrentPage  int
	ItemsPerPage int
}
