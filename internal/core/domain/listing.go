package domain

import "time"

// ListingStatus - этап модерации карточки фермы
type ListingStatus string

const (
	ListingStatusPending  ListingStatus = "pending"
	ListingStatusApproved ListingStatus = "approved"
	ListingStatusRejected ListingStatus = "rejected"
)

// Listing - карточка производителя на карте и в выдаче.
// Координаты хранятся строками в том виде, в каком их ввел производитель.
type Listing struct {
	ID          int64
	ProducerID  string
	Name        string
	Description string
	Address     string
	Email       string
	Phone       string
	Website     string

	Lat string
	Lng string

	ProductType        []string
	Certifications     []string
	PurchaseMode       []string
	ProductionMethod   []string
	AdditionalServices []string
	Availability       []string

	Status    ListingStatus
	Active    bool
	Geohash   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListingDraft - данные, которые производитель отправляет при создании или правке карточки
type ListingDraft struct {
	Name        string
	Description string
	Address     string
	Email       string
	Phone       string
	Website     string
	Lat         string
	Lng         string
	Attributes  FilterState
}

// Apply переносит поля черновика в карточку
func (d ListingDraft) Apply(l *Listing) {
	l.Name = d.Name
	l.Description = d.Description
	l.Address = d.Address
	l.Email = d.Email
	l.Phone = d.Phone
	l.Website = d.Website
	l.Lat = d.Lat
	l.Lng = d.Lng
	for _, c := range AllFilterCategories {
		l.SetAttribute(c, d.Attributes.Selected(c))
	}
}

// Attribute возвращает значения атрибута карточки для категории фильтра
func (l Listing) Attribute(c FilterCategory) []string {
	switch c {
	case CategoryProductType:
		return l.ProductType
	case CategoryCertifications:
		return l.Certifications
	case CategoryPurchaseMode:
		return l.PurchaseMode
	case CategoryProductionMethod:
		return l.ProductionMethod
	case CategoryAdditionalServices:
		return l.AdditionalServices
	case CategoryAvailability:
		return l.Availability
	default:
		return nil
	}
}

// SetAttribute заменяет значения атрибута для категории
func (l *Listing) SetAttribute(c FilterCategory, values []string) {
	switch c {
	case CategoryProductType:
		l.ProductType = values
	case CategoryCertifications:
		l.Certifications = values
	case CategoryPurchaseMode:
		l.PurchaseMode = values
	case CategoryProductionMethod:
		l.ProductionMethod = values
	case CategoryAdditionalServices:
		l.AdditionalServices = values
	case CategoryAvailability:
		l.Availability = values
	}
}

// PaginatedListings - страница выдачи вместе с общим количеством
type PaginatedListings struct {
	Listings     []Listing
	TotalCount   int
	CurrentPage  int
	ItemsPerPage int
}

// HasMore - есть ли страницы после текущей
func (p PaginatedListings) HasMore() bool {
	return p.CurrentPage*p.ItemsPerPage < p.TotalCount
}
