package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/crm-service/internal/customer"
	"github.com/vasiliy-maslov/crm-service/internal/order"
	"github.com/vasiliy-maslov/crm-service/internal/store"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, o *order.Order, productIDs []uint) error {
	args := m.Called(ctx, o, productIDs)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uint) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, f order.Filter, page store.PageRequest) (store.Page[order.Order], error) {
	args := m.Called(ctx, f, page)
	return args.Get(0).(store.Page[order.Order]), args.Error(1)
}

type MockCustomerFinder struct {
	mock.Mock
}

func (m *MockCustomerFinder) GetCustomerByID(ctx context.Context, id uint) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func TestService_CreateOrder_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		input   order.CreateInput
		setup   func(c *MockCustomerFinder, r *MockRepository)
		wantErr error
	}{
		{
			name:  "unknown_customer_wins_over_empty_products",
			input: order.CreateInput{CustomerID: 9},
			setup: func(c *MockCustomerFinder, r *MockRepository) {
				c.On("GetCustomerByID", mock.Anything, uint(9)).Return(nil, customer.ErrNotFound)
			},
			wantErr: order.ErrCustomerNotFound,
		},
		{
			name:  "empty_products",
			input: order.CreateInput{CustomerID: 1},
			setup: func(c *MockCustomerFinder, r *MockRepository) {
				c.On("GetCustomerByID", mock.Anything, uint(1)).Return(&customer.Customer{ID: 1}, nil)
			},
			wantErr: order.ErrNoProducts,
		},
		{
			name:  "missing_products",
			input: order.CreateInput{CustomerID: 1, ProductIDs: []uint{1, 99}},
			setup: func(c *MockCustomerFinder, r *MockRepository) {
				c.On("GetCustomerByID", mock.Anything, uint(1)).Return(&customer.Customer{ID: 1}, nil)
				r.On("Create", mock.Anything, mock.Anything, []uint{1, 99}).
					Return(&order.MissingProductsError{IDs: []string{"99"}})
			},
			wantErr: order.ErrProductsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customers := new(MockCustomerFinder)
			repo := new(MockRepository)
			tt.setup(customers, repo)
			svc := order.NewService(repo, customers)

			o, err := svc.CreateOrder(context.Background(), tt.input)

			assert.Nil(t, o)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_CreateOrder_DeduplicatesAndAppliesDate(t *testing.T) {
	customers := new(MockCustomerFinder)
	customers.On("GetCustomerByID", mock.Anything, uint(1)).Return(&customer.Customer{ID: 1, Name: "Alice"}, nil)

	local := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("UTC+3", 3*60*60))
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(o *order.Order) bool {
		return o.CustomerID == 1 && o.OrderDate.Equal(local) && o.OrderDate.Location() == time.UTC
	}), []uint{2, 1}).Return(nil).Once()
	svc := order.NewService(repo, customers)

	o, err := svc.CreateOrder(context.Background(), order.CreateInput{
		CustomerID: 1,
		ProductIDs: []uint{2, 1, 2, 2},
		OrderDate:  &local,
	})

	require.NoError(t, err)
	assert.Equal(t, "Alice", o.Customer.Name)
	repo.AssertExpectations(t)
}

func TestService_CreateOrder_CustomerLookupFailure(t *testing.T) {
	customers := new(MockCustomerFinder)
	customers.On("GetCustomerByID", mock.Anything, uint(1)).Return(nil, errors.New("pool closed"))
	svc := order.NewService(new(MockRepository), customers)

	_, err := svc.CreateOrder(context.Background(), order.CreateInput{CustomerID: 1, ProductIDs: []uint{1}})

	require.Error(t, err)
	assert.NotErrorIs(t, err, order.ErrCustomerNotFound)
}

func TestMissingProductsError(t *testing.T) {
	err := &order.MissingProductsError{IDs: []string{"4", "7"}}

	assert.Equal(t, "One or more products not found: 4, 7", err.Error())
	assert.ErrorIs(t, err, order.ErrProductsNotFound)
}

func TestService_GetOrderByID_NotFound(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, uint(5)).Return(nil, order.ErrNotFound)
	svc := order.NewService(repo, new(MockCustomerFinder))

	_, err := svc.GetOrderByID(context.Background(), 5)

	assert.ErrorIs(t, err, order.ErrNotFound)
}
