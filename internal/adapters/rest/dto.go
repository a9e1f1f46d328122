package rest

import (
	"time"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
)

// ErrorResponse - стандартная структура для ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListingResponse - карточка в том виде, в каком ее ждет фронтенд
type ListingResponse struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	Address            string    `json:"address"`
	Email              string    `json:"email,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	Website            string    `json:"website,omitempty"`
	Lat                string    `json:"lat"`
	Lng                string    `json:"lng"`
	ProductType        []string  `json:"product_type"`
	Certifications     []string  `json:"certifications"`
	PurchaseMode       []string  `json:"purchase_mode"`
	ProductionMethod   []string  `json:"production_method"`
	AdditionalServices []string  `json:"additional_services"`
	Availability       []string  `json:"availability"`
	Status             string    `json:"status,omitempty"`
	Active             bool      `json:"active"`
	Geohash            string    `json:"geohash,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// PaginatedListingsResponse - ответ со страницей карточек
type PaginatedListingsResponse struct {
	Data    []ListingResponse `json:"data"`
	Total   int               `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
	HasMore bool              `json:"has_more"`
}

// ListingRequest - тело создания и правки карточки
type ListingRequest struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Address            string   `json:"address"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	Website            string   `json:"website"`
	Lat                string   `json:"lat"`
	Lng                string   `json:"lng"`
	ProductType        []string `json:"product_type"`
	Certifications     []string `json:"certifications"`
	PurchaseMode       []string `json:"purchase_mode"`
	ProductionMethod   []string `json:"production_method"`
	AdditionalServices []string `json:"additional_services"`
	Availability       []string `json:"availability"`
}

type ClusterResponse struct {
	Geohash    string  `json:"geohash"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Count      int     `json:"count"`
	ListingIDs []int64 `json:"listing_ids"`
}

type ProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	PriceCents  int64  `json:"price_cents"`
	StockStatus string `json:"stock_status"`
}

type ProductResponse struct {
	ID          int64     `json:"id"`
	ListingID   int64     `json:"listing_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Unit        string    `json:"unit"`
	PriceCents  int64     `json:"price_cents"`
	StockStatus string    `json:"stock_status"`
	CreatedAt   time.Time `json:"created_at"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewResponse struct {
	ID        int64     `json:"id"`
	ListingID int64     `json:"listing_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewsResponse struct {
	Data          []ReviewResponse `json:"data"`
	AverageRating float64          `json:"average_rating"`
	Count         int              `json:"count"`
}

// AddFavoriteRequest - тело запроса для добавления в избранное.
type AddFavoriteRequest struct {
	ListingID int64 `json:"listing_id"`
}

// PaginatedFavoritesResponse - структура для ответа со списком избранного.
type PaginatedFavoritesResponse struct {
	Data    []ListingResponse `json:"data"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

func toListingResponse(l domain.Listing) ListingResponse {
	return ListingResponse{
		ID:                 l.ID,
		Name:               l.Name,
		Description:        l.Description,
		Address:            l.Address,
		Email:              l.Email,
		Phone:              l.Phone,
		Website:            l.Website,
		Lat:                l.Lat,
		Lng:                l.Lng,
		ProductType:        emptyIfNil(l.ProductType),
		Certifications:     emptyIfNil(l.Certifications),
		PurchaseMode:       emptyIfNil(l.PurchaseMode),
		ProductionMethod:   emptyIfNil(l.ProductionMethod),
		AdditionalServices: emptyIfNil(l.AdditionalServices),
		Availability:       emptyIfNil(l.Availability),
		Status:             string(l.Status),
		Active:             l.Active,
		Geohash:            l.Geohash,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
}

// ToDomainListing - обратное преобразование, им пользуется HTTP-клиент API
func ToDomainListing(r ListingResponse) domain.Listing {
	return domain.Listing{
		ID:                 r.ID,
		Name:               r.Name,
		Description:        r.Description,
		Address:            r.Address,
		Email:              r.Email,
		Phone:              r.Phone,
		Website:            r.Website,
		Lat:                r.Lat,
		Lng:                r.Lng,
		ProductType:        r.ProductType,
		Certifications:     r.Certifications,
		PurchaseMode:       r.PurchaseMode,
		ProductionMethod:   r.ProductionMethod,
		AdditionalServices: r.AdditionalServices,
		Availability:       r.Availability,
		Status:             domain.ListingStatus(r.Status),
		Active:             r.Active,
		Geohash:            r.Geohash,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func toListingResponses(listings []domain.Listing) []ListingResponse {
	out := make([]ListingResponse, len(listings))
	for i, l := range listings {
		out[i] = toListingResponse(l)
	}
	return out
}

func (req ListingRequest) toDraft() domain.ListingDraft {
	attrs := domain.NewFilterState().
		With(domain.CategoryProductType, req.ProductType...).
		With(domain.CategoryCertifications, req.Certifications...).
		With(domain.CategoryPurchaseMode, req.PurchaseMode...).
		With(domain.CategoryProductionMethod, req.ProductionMethod...).
		With(domain.CategoryAdditionalServices, req.AdditionalServices...).
		With(domain.CategoryAvailability, req.Availability...)
	return domain.ListingDraft{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Email:       req.Email,
		Phone:       req.Phone,
		Website:     req.Website,
		Lat:         req.Lat,
		Lng:         req.Lng,
		Attributes:  attrs,
	}
}

func toProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		ListingID:   p.ListingID,
		Name:        p.Name,
		Description: p.Description,
		Unit:        p.Unit,
		PriceCents:  p.PriceCents,
		StockStatus: string(p.StockStatus),
		CreatedAt:   p.CreatedAt,
	}
}

func toReviewResponse(r domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		ListingID: r.ListingID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
