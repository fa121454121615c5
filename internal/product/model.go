package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item. Price is stored with two decimal places.
type Product struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	Name      string          `json:"name" gorm:"size:100;not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	Stock     int             `json:"stock" gorm:"not null;default:0"`
	CreatedAt time.Time       `json:"created_at" gorm:"<-:create;not null"`
}

type CreateInput struct {
	Name  string          `json:"name" validate:"required,max=100"`
	Price decimal.Decimal `json:"price"`
	Stock *int            `json:"stock,omitempty"`
}

// Filter narrows product listings. Nil bounds are ignored.
type Filter struct {
	Name     string
	PriceGte *decimal.Decimal
	PriceLte *decimal.Decimal
	StockGte *int
	StockLte *int
	// LowStock selects products below the configured threshold; the service
	// resolves it into StockBelow.
	LowStock   bool
	StockBelow *int
	OrderBy    string
}

// RestockResult lists the products whose stock was raised by a restock run.
type RestockResult struct {
	Products []Product
	Message  string
}
