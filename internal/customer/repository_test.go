package customer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/crm-service/internal/customer"
	"github.com/vasiliy-maslov/crm-service/internal/db/dbtest"
	"github.com/vasiliy-maslov/crm-service/internal/store"
)

func seedCustomers(t *testing.T, repo customer.Repository) {
	t.Helper()
	for _, c := range []*customer.Customer{
		{Name: "Alice Johnson", Email: "alice@example.com", Phone: strPtr("+1234567890")},
		{Name: "Bob Smith", Email: "bob@example.com", Phone: strPtr("123-456-7890")},
		{Name: "Carol Davis", Email: "carol@sample.org"},
	} {
		require.NoError(t, repo.Create(context.Background(), c))
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := customer.NewRepository(dbtest.Gorm(t))
	ctx := context.Background()

	c := &customer.Customer{Name: "Alice", Email: "alice@example.com", Phone: strPtr("+1234567890")}
	require.NoError(t, repo.Create(ctx, c))
	require.NotZero(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)
	require.NotNil(t, byID.Phone)
	assert.Equal(t, "+1234567890", *byID.Phone)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byEmail.ID)

	_, err = repo.GetByID(ctx, c.ID+100)
	assert.ErrorIs(t, err, customer.ErrNotFound)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, customer.ErrNotFound)
}

func TestRepository_Create_DuplicateEmail(t *testing.T) {
	repo := customer.NewRepository(dbtest.Gorm(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &customer.Customer{Name: "Alice", Email: "alice@x.com"}))

	err := repo.Create(ctx, &customer.Customer{Name: "Other Alice", Email: "alice@x.com"})
	assert.ErrorIs(t, err, customer.ErrEmailExists)

	page, err := repo.List(ctx, customer.Filter{}, store.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.TotalCount)
}

func TestRepository_List_Filters(t *testing.T) {
	repo := customer.NewRepository(dbtest.Gorm(t))
	seedCustomers(t, repo)
	hourAgo := time.Now().Add(-time.Hour)
	inHour := time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		filter customer.Filter
		want   []string
	}{
		{name: "no_filter", filter: customer.Filter{}, want: []string{"Alice Johnson", "Bob Smith", "Carol Davis"}},
		{name: "name_case_insensitive", filter: customer.Filter{Name: "SMITH"}, want: []string{"Bob Smith"}},
		{name: "email_substring", filter: customer.Filter{Email: "example"}, want: []string{"Alice Johnson", "Bob Smith"}},
		{name: "phone_prefix", filter: customer.Filter{PhonePattern: "+1"}, want: []string{"Alice Johnson"}},
		{name: "created_after", filter: customer.Filter{CreatedAtGte: &hourAgo}, want: []string{"Alice Johnson", "Bob Smith", "Carol Davis"}},
		{name: "created_before", filter: customer.Filter{CreatedAtLte: &hourAgo}, want: []string{}},
		{name: "created_window", filter: customer.Filter{CreatedAtGte: &hourAgo, CreatedAtLte: &inHour, Name: "carol"}, want: []string{"Carol Davis"}},
		{name: "order_by_name_desc", filter: customer.Filter{OrderBy: "-name"}, want: []string{"Carol Davis", "Bob Smith", "Alice Johnson"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.List(context.Background(), tt.filter, store.PageRequest{})
			require.NoError(t, err)

			names := make([]string, 0, len(page.Items))
			for _, c := range page.Items {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.want, names)
			assert.EqualValues(t, len(tt.want), page.TotalCount)
		})
	}
}

func TestRepository_List_UnsupportedOrdering(t *testing.T) {
	repo := customer.NewRepository(dbtest.Gorm(t))

	_, err := repo.List(context.Background(), customer.Filter{OrderBy: "password"}, store.PageRequest{})
	assert.Error(t, err)
}

func TestRepository_List_Pagination(t *testing.T) {
	repo := customer.NewRepository(dbtest.Gorm(t))
	seedCustomers(t, repo)
	ctx := context.Background()
	two := 2

	first, err := repo.List(ctx, customer.Filter{}, store.PageRequest{First: &two})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.True(t, first.HasNextPage)
	assert.False(t, first.HasPreviousPage)
	assert.EqualValues(t, 3, first.TotalCount)

	second, err := repo.List(ctx, customer.Filter{}, store.PageRequest{First: &two, After: first.Cursor(1)})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "Carol Davis", second.Items[0].Name)
	assert.False(t, second.HasNextPage)
	assert.True(t, second.HasPreviousPage)

	_, err = repo.List(ctx, customer.Filter{}, store.PageRequest{After: "not-a-cursor"})
	assert.ErrorIs(t, err, store.ErrInvalidCursor)
}
