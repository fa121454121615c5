package customer

import "time"

// Customer is a person orders are placed for. Email is unique across customers.
type Customer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Email     string    `json:"email" gorm:"size:254;not null;uniqueIndex"`
	Phone     *string   `json:"phone,omitempty" gorm:"size:20"`
	CreatedAt time.Time `json:"created_at" gorm:"<-:create;not null"`
}

// CreateInput carries the fields accepted when creating a customer.
type CreateInput struct {
	Name  string  `json:"name" validate:"required,max=100"`
	Email string  `json:"email" validate:"required,email,max=254"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,phone,max=20"`
}

// Filter narrows customer listings. Zero values are ignored.
type Filter struct {
	Name         string
	Email        string
	PhonePattern string
	CreatedAtGte *time.Time
	CreatedAtLte *time.Time
	OrderBy      string
}

// BulkResult is the outcome of a bulk create: created customers and one
// message per rejected record, both in input order.
type BulkResult struct {
	Customers []Customer
	Errors    []string
}
