package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/crm-service/internal/store"
)

type Service interface {
	CreateCustomer(ctx context.Context, in CreateInput) (*Customer, error)
	BulkCreateCustomers(ctx context.Context, in []CreateInput) BulkResult
	GetCustomerByID(ctx context.Context, id uint) (*Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*Customer, error)
	ListCustomers(ctx context.Context, f Filter, page store.PageRequest) (store.Page[Customer], error)
}

type service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) Service {
	return &service{repo: repo, validate: newValidator()}
}

func (s *service) CreateCustomer(ctx context.Context, in CreateInput) (*Customer, error) {
	in = normalize(in)
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	c := &Customer{Name: in.Name, Email: in.Email, Phone: in.Phone}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, ErrEmailExists) {
			log.Warn().Str("email", in.Email).Msg("service: duplicate customer email")
			return nil, ErrEmailExists
		}
		log.Error().Err(err).Msg("service: failed to create customer in repository")
		return nil, fmt.Errorf("service: failed to create customer: %w", err)
	}

	log.Info().Uint("customer_id", c.ID).Msg("service: customer created")
	return c, nil
}

// BulkCreateCustomers creates every record independently, each in its own
// transaction; a failing record never rolls back the others.
func (s *service) BulkCreateCustomers(ctx context.Context, in []CreateInput) BulkResult {
	result := BulkResult{
		Customers: make([]Customer, 0, len(in)),
		Errors:    make([]string, 0),
	}

	for _, record := range in {
		c, err := s.CreateCustomer(ctx, record)
		switch {
		case err == nil:
			result.Customers = append(result.Customers, *c)
		case errors.Is(err, ErrInvalidPhone):
			result.Errors = append(result.Errors, fmt.Sprintf("Invalid phone format for %s", record.Name))
		default:
			result.Errors = append(result.Errors, fmt.Sprintf("Error creating %s: %v", record.Name, err))
		}
	}

	log.Info().
		Int("requested", len(in)).
		Int("created", len(result.Customers)).
		Int("failed", len(result.Errors)).
		Msg("service: bulk customer create finished")
	return result
}

func (s *service) GetCustomerByID(ctx context.Context, id uint) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Uint("customer_id", id).Msg("service: failed to get customer by id")
		return nil, fmt.Errorf("service: failed to get customer by id %d: %w", id, err)
	}
	return c, nil
}

func (s *service) GetCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	c, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Str("email", email).Msg("service: failed to get customer by email")
		return nil, fmt.Errorf("service: failed to get customer by email '%s': %w", email, err)
	}
	return c, nil
}

func (s *service) ListCustomers(ctx context.Context, f Filter, page store.PageRequest) (store.Page[Customer], error) {
	return s.repo.List(ctx, f, page)
}

func normalize(in CreateInput) CreateInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Phone != nil && strings.TrimSpace(*in.Phone) == "" {
		in.Phone = nil
	}
	return in
}
