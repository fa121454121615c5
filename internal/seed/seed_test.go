package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/crm-service/internal/config"
	"github.com/vasiliy-maslov/crm-service/internal/customer"
	"github.com/vasiliy-maslov/crm-service/internal/db/dbtest"
	"github.com/vasiliy-maslov/crm-service/internal/order"
	"github.com/vasiliy-maslov/crm-service/internal/product"
	"github.com/vasiliy-maslov/crm-service/internal/seed"
)

func TestSeed(t *testing.T) {
	gdb := dbtest.Gorm(t)
	customers := customer.NewService(customer.NewRepository(gdb))
	products := product.NewService(product.NewRepository(gdb), config.Default().Inventory)
	orders := order.NewService(order.NewRepository(gdb), customers)
	ctx := context.Background()

	result, err := seed.Seed(ctx, customers, products, orders)
	require.NoError(t, err)

	require.Len(t, result.Customers, 3)
	require.Len(t, result.Products, 3)
	require.Len(t, result.Orders, 2)
	assert.Equal(t, "1029.98", result.Orders[0].TotalAmount.StringFixed(2))
	assert.Equal(t, "109.98", result.Orders[1].TotalAmount.StringFixed(2))

	alice, err := customers.GetCustomerByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", alice.Name)

	_, err = seed.Seed(ctx, customers, products, orders)
	assert.ErrorIs(t, err, seed.ErrAlreadySeeded)
}
