package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/vasiliy-maslov/crm-service/internal/store"
)

var (
	ErrNotFound      = errors.New("Customer not found")
	ErrEmailExists   = errors.New("customer with this email already exists")
	ErrInvalidPhone  = errors.New("Invalid phone format")
	ErrInvalidEmail  = errors.New("Invalid email format")
	ErrEmailRequired = errors.New("Email is required")
	ErrNameRequired  = errors.New("Name is required")
	ErrNameTooLong   = errors.New("Name must be at most 100 characters")
)

var orderColumns = map[string]string{
	"id":        "id",
	"name":      "name",
	"email":     "email",
	"createdat": "created_at",
}

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id uint) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	List(ctx context.Context, f Filter, page store.PageRequest) (store.Page[Customer], error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts c in its own transaction. created_at is stamped by gorm.
func (r *gormRepository) Create(ctx context.Context, c *Customer) error {
	uow := store.NewUnitOfWork(r.db)
	uow.Add(c)
	uow.AfterCommit(func() {
		log.Debug().Uint("customer_id", c.ID).Msg("repository: customer inserted")
	})

	if err := uow.Commit(ctx); err != nil {
		if store.IsUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("repository: failed to insert customer: %w", err)
	}
	return nil
}

func (r *gormRepository) GetByID(ctx context.Context, id uint) (*Customer, error) {
	var c Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if store.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select customer by id %d: %w", id, err)
	}
	return &c, nil
}

func (r *gormRepository) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	var c Customer
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&c).Error; err != nil {
		if store.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select customer by email %s: %w", email, err)
	}
	return &c, nil
}

func (r *gormRepository) List(ctx context.Context, f Filter, page store.PageRequest) (store.Page[Customer], error) {
	orderBy, err := store.OrderClause(f.OrderBy, orderColumns, "id")
	if err != nil {
		return store.Page[Customer]{}, err
	}

	q := r.db.Model(&Customer{})
	if f.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", store.Contains(f.Name))
	}
	if f.Email != "" {
		q = q.Where("LOWER(email) LIKE ?", store.Contains(f.Email))
	}
	if f.PhonePattern != "" {
		q = q.Where("phone LIKE ?", f.PhonePattern+"%")
	}
	if f.CreatedAtGte != nil {
		q = q.Where("created_at >= ?", f.CreatedAtGte.UTC())
	}
	if f.CreatedAtLte != nil {
		q = q.Where("created_at <= ?", f.CreatedAtLte.UTC())
	}

	result, err := store.Paginate[Customer](ctx, q, orderBy, page)
	if err != nil {
		if store.IsInvalidPage(err) {
			return store.Page[Customer]{}, err
		}
		return store.Page[Customer]{}, fmt.Errorf("repository: failed to list customers: %w", err)
	}
	return result, nil
}
