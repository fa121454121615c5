package customer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/crm-service/internal/customer"
	"github.com/vasiliy-maslov/crm-service/internal/store"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uint) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, f customer.Filter, page store.PageRequest) (store.Page[customer.Customer], error) {
	args := m.Called(ctx, f, page)
	return args.Get(0).(store.Page[customer.Customer]), args.Error(1)
}

func strPtr(s string) *string { return &s }

func TestService_CreateCustomer_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   customer.CreateInput
		wantErr error
	}{
		{
			name:    "invalid_phone",
			input:   customer.CreateInput{Name: "Alice", Email: "alice@example.com", Phone: strPtr("call me")},
			wantErr: customer.ErrInvalidPhone,
		},
		{
			name:    "invalid_email",
			input:   customer.CreateInput{Name: "Alice", Email: "not-an-email"},
			wantErr: customer.ErrInvalidEmail,
		},
		{
			name:    "missing_email",
			input:   customer.CreateInput{Name: "Alice"},
			wantErr: customer.ErrEmailRequired,
		},
		{
			name:    "missing_name",
			input:   customer.CreateInput{Name: "   ", Email: "alice@example.com"},
			wantErr: customer.ErrNameRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			svc := customer.NewService(repo)

			c, err := svc.CreateCustomer(context.Background(), tt.input)

			assert.Nil(t, c)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_CreateCustomer_AcceptedPhones(t *testing.T) {
	phones := []string{"+1234567890", "123-456-7890", "(555) 123 4567", "+44 (20) 7946-0958"}

	for _, phone := range phones {
		t.Run(phone, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("Create", mock.Anything, mock.AnythingOfType("*customer.Customer")).Return(nil).Once()
			svc := customer.NewService(repo)

			c, err := svc.CreateCustomer(context.Background(), customer.CreateInput{
				Name: "Bob", Email: "bob@example.com", Phone: strPtr(phone),
			})

			require.NoError(t, err)
			require.NotNil(t, c.Phone)
			assert.Equal(t, phone, *c.Phone)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_CreateCustomer_BlankPhoneIsDropped(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *customer.Customer) bool {
		return c.Phone == nil
	})).Return(nil).Once()
	svc := customer.NewService(repo)

	_, err := svc.CreateCustomer(context.Background(), customer.CreateInput{
		Name: "Carol", Email: "carol@example.com", Phone: strPtr(" "),
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_CreateCustomer_EmailExists(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(customer.ErrEmailExists).Once()
	svc := customer.NewService(repo)

	_, err := svc.CreateCustomer(context.Background(), customer.CreateInput{Name: "Alice", Email: "alice@x.com"})

	assert.ErrorIs(t, err, customer.ErrEmailExists)
	repo.AssertExpectations(t)
}

func TestService_CreateCustomer_RepositoryFailure(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()
	svc := customer.NewService(repo)

	_, err := svc.CreateCustomer(context.Background(), customer.CreateInput{Name: "Alice", Email: "alice@x.com"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NotErrorIs(t, err, customer.ErrEmailExists)
}

func TestService_BulkCreateCustomers(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *customer.Customer) bool {
		return c.Email == "taken@example.com"
	})).Return(customer.ErrEmailExists)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := customer.NewService(repo)

	input := []customer.CreateInput{
		{Name: "Ann", Email: "ann@example.com"},
		{Name: "Ben", Email: "ben@example.com", Phone: strPtr("phone!")},
		{Name: "Cid", Email: "taken@example.com"},
		{Name: "Dee", Email: "dee@example.com", Phone: strPtr("+1 (555) 010-0000")},
	}

	result := svc.BulkCreateCustomers(context.Background(), input)

	require.Len(t, result.Customers, 2)
	assert.Equal(t, "Ann", result.Customers[0].Name)
	assert.Equal(t, "Dee", result.Customers[1].Name)
	assert.Equal(t, []string{
		"Invalid phone format for Ben",
		"Error creating Cid: customer with this email already exists",
	}, result.Errors)
	assert.Equal(t, len(input), len(result.Customers)+len(result.Errors))
}

func TestService_BulkCreateCustomers_Empty(t *testing.T) {
	svc := customer.NewService(new(MockRepository))

	result := svc.BulkCreateCustomers(context.Background(), nil)

	assert.Empty(t, result.Customers)
	assert.NotNil(t, result.Errors)
	assert.Empty(t, result.Errors)
}

func TestService_GetCustomerByID(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, uint(1)).Return(&customer.Customer{ID: 1, Name: "Alice"}, nil).Once()
	repo.On("GetByID", mock.Anything, uint(2)).Return(nil, customer.ErrNotFound).Once()
	svc := customer.NewService(repo)

	c, err := svc.GetCustomerByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", c.Name)

	_, err = svc.GetCustomerByID(context.Background(), 2)
	assert.ErrorIs(t, err, customer.ErrNotFound)
	repo.AssertExpectations(t)
}
