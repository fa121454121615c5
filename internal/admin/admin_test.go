package admin_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/crm-service/internal/admin"
	"github.com/vasiliy-maslov/crm-service/internal/customer"
	"github.com/vasiliy-maslov/crm-service/internal/db/dbtest"
	"github.com/vasiliy-maslov/crm-service/internal/order"
	"github.com/vasiliy-maslov/crm-service/internal/product"
)

func newLister(t *testing.T) (admin.Lister, func(o *order.Order, productIDs ...uint)) {
	t.Helper()
	d := dbtest.Open(t)
	ctx := context.Background()

	customers := customer.NewRepository(d.Gorm)
	alice := &customer.Customer{Name: "Alice Johnson", Email: "alice@example.com"}
	require.NoError(t, customers.Create(ctx, alice))
	require.NoError(t, customers.Create(ctx, &customer.Customer{Name: "Bob Smith", Email: "bob@work.org"}))

	products := product.NewRepository(d.Gorm)
	laptop := &product.Product{Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: 10}
	require.NoError(t, products.Create(ctx, laptop))
	require.NoError(t, products.Create(ctx, &product.Product{Name: "Mouse", Price: decimal.RequireFromString("29.99"), Stock: 50}))

	orders := order.NewRepository(d.Gorm)
	createOrder := func(o *order.Order, productIDs ...uint) {
		if o.CustomerID == 0 {
			o.CustomerID = alice.ID
		}
		if len(productIDs) == 0 {
			productIDs = []uint{laptop.ID}
		}
		require.NoError(t, orders.Create(ctx, o, productIDs))
	}

	sqlxDB, err := admin.Open(d)
	require.NoError(t, err)
	return admin.NewLister(sqlxDB), createOrder
}

func TestLister_Customers(t *testing.T) {
	lister, _ := newLister(t)

	tests := []struct {
		search string
		want   []string
	}{
		{search: "", want: []string{"Bob Smith", "Alice Johnson"}},
		{search: "ALICE", want: []string{"Alice Johnson"}},
		{search: "work.org", want: []string{"Bob Smith"}},
		{search: "zed", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			rows, err := lister.Customers(context.Background(), tt.search)
			require.NoError(t, err)

			got := make([]string, 0, len(rows))
			for _, r := range rows {
				got = append(got, r.Name)
				assert.False(t, r.CreatedAt.IsZero())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLister_Products(t *testing.T) {
	lister, _ := newLister(t)

	rows, err := lister.Products(context.Background(), "lap")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Laptop", rows[0].Name)
	assert.True(t, rows[0].Price.Equal(decimal.RequireFromString("999.99")), "price %s", rows[0].Price)
	assert.Equal(t, 10, rows[0].Stock)
}

func TestLister_Orders(t *testing.T) {
	lister, createOrder := newLister(t)
	createOrder(&order.Order{OrderDate: time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)})
	createOrder(&order.Order{})

	all, err := lister.Orders(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alice Johnson", all[0].CustomerName)
	assert.True(t, all[0].OrderDate.After(all[1].OrderDate), "newest first")

	since, err := admin.ParseSince("2024-01-01")
	require.NoError(t, err)
	recent, err := lister.Orders(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.True(t, recent[0].TotalAmount.Equal(decimal.RequireFromString("999.99")))
}

func TestParseSince(t *testing.T) {
	got, err := admin.ParseSince("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = admin.ParseSince("2024-03-05T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC), *got)

	_, err = admin.ParseSince("last week")
	assert.ErrorIs(t, err, admin.ErrInvalidSince)
}
