package order

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vasiliy-maslov/crm-service/internal/customer"
	"github.com/vasiliy-maslov/crm-service/internal/product"
)

// Order links a customer to one or more products. Deleting either side
// removes the association rows; deleting the customer removes the order.
type Order struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	CustomerID  uint              `json:"customer_id" gorm:"not null;index"`
	Customer    customer.Customer `json:"customer" gorm:"constraint:OnDelete:CASCADE"`
	Products    []product.Product `json:"products" gorm:"many2many:order_products;constraint:OnDelete:CASCADE"`
	TotalAmount decimal.Decimal   `json:"total_amount" gorm:"type:numeric(10,2);not null"`
	OrderDate   time.Time         `json:"order_date" gorm:"<-:create;autoCreateTime;not null;index"`
}

// BeforeSave recomputes the total from the associated products whenever the
// save carries them. Later price changes are not propagated.
func (o *Order) BeforeSave(tx *gorm.DB) error {
	if len(o.Products) > 0 {
		o.TotalAmount = Total(o.Products)
	}
	return nil
}

// Total sums the prices of products.
func Total(products []product.Product) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range products {
		sum = sum.Add(p.Price)
	}
	return sum
}

type CreateInput struct {
	CustomerID uint
	ProductIDs []uint
	// OrderDate overrides the creation timestamp when set.
	OrderDate *time.Time
}

// Filter narrows order listings. Zero values are ignored.
type Filter struct {
	CustomerName   string
	ProductName    string
	ProductID      *uint
	TotalAmountGte *decimal.Decimal
	TotalAmountLte *decimal.Decimal
	OrderDateGte   *time.Time
	OrderDateLte   *time.Time
	OrderBy        string
}
