package domain

import "time"

type StockStatus string

const (
	StockInStock    StockStatus = "in_stock"
	StockLow        StockStatus = "low_stock"
	StockOutOfStock StockStatus = "out_of_stock"
)

// Product - товар производителя, привязанный к карточке
type Product struct {
	ID          int64
	ListingID   int64
	Name        string
	Description string
	Unit        string
	PriceCents  int64
	StockStatus StockStatus
	Active      bool
	CreatedAt   time.Time
}

// Valid проверяет значения, которые нельзя доверить клиенту
func (s StockStatus) Valid() bool {
	switch s {
	case StockInStock, StockLow, StockOutOfStock:
		return true
	default:
		return false
	}
}
