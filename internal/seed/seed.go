// Package seed loads the demo customers, products and orders.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/crm-service/internal/customer"
	"github.com/vasiliy-maslov/crm-service/internal/order"
	"github.com/vasiliy-maslov/crm-service/internal/product"
)

var ErrAlreadySeeded = errors.New("database already contains the seed data")

type Result struct {
	Customers []customer.Customer
	Products  []product.Product
	Orders    []order.Order
}

var seedCustomers = []customer.CreateInput{
	{Name: "Alice Johnson", Email: "alice@example.com", Phone: strPtr("+1234567890")},
	{Name: "Bob Smith", Email: "bob@example.com", Phone: strPtr("123-456-7890")},
	{Name: "Carol Davis", Email: "carol@example.com"},
}

var seedProducts = []struct {
	name  string
	price string
	stock int
}{
	{"Laptop", "999.99", 10},
	{"Mouse", "29.99", 50},
	{"Keyboard", "79.99", 25},
}

// seedOrders reference customers and products by their index above.
var seedOrders = []struct {
	customer int
	products []int
}{
	{customer: 0, products: []int{0, 1}},
	{customer: 1, products: []int{1, 2}},
}

// Seed inserts the demo data through the services so every row passes the
// same validation as API input. It refuses to run twice.
func Seed(ctx context.Context, customers customer.Service, products product.Service, orders order.Service) (*Result, error) {
	_, err := customers.GetCustomerByEmail(ctx, seedCustomers[0].Email)
	if err == nil {
		return nil, ErrAlreadySeeded
	}
	if !errors.Is(err, customer.ErrNotFound) {
		return nil, fmt.Errorf("seed: failed to check existing data: %w", err)
	}

	result := &Result{}
	for _, in := range seedCustomers {
		c, err := customers.CreateCustomer(ctx, in)
		if err != nil {
			return result, fmt.Errorf("seed: failed to create customer %s: %w", in.Name, err)
		}
		result.Customers = append(result.Customers, *c)
	}

	for _, sp := range seedProducts {
		stock := sp.stock
		p, err := products.CreateProduct(ctx, product.CreateInput{
			Name:  sp.name,
			Price: decimal.RequireFromString(sp.price),
			Stock: &stock,
		})
		if err != nil {
			return result, fmt.Errorf("seed: failed to create product %s: %w", sp.name, err)
		}
		result.Products = append(result.Products, *p)
	}

	for _, so := range seedOrders {
		ids := make([]uint, len(so.products))
		for i, idx := range so.products {
			ids[i] = result.Products[idx].ID
		}
		o, err := orders.CreateOrder(ctx, order.CreateInput{
			CustomerID: result.Customers[so.customer].ID,
			ProductIDs: ids,
		})
		if err != nil {
			return result, fmt.Errorf("seed: failed to create order for %s: %w", result.Customers[so.customer].Name, err)
		}
		result.Orders = append(result.Orders, *o)
	}

	log.Info().
		Int("customers", len(result.Customers)).
		Int("products", len(result.Products)).
		Int("orders", len(result.Orders)).
		Msg("Seed data created")
	return result, nil
}

func strPtr(s string) *string { return &s }
