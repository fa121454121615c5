package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/crm-service/internal/customer"
	"github.com/vasiliy-maslov/crm-service/internal/store"
)

// CustomerFinder resolves the customer an order is placed for.
type CustomerFinder interface {
	GetCustomerByID(ctx context.Context, id uint) (*customer.Customer, error)
}

type Service interface {
	CreateOrder(ctx context.Context, in CreateInput) (*Order, error)
	GetOrderByID(ctx context.Context, id uint) (*Order, error)
	ListOrders(ctx context.Context, f Filter, page store.PageRequest) (store.Page[Order], error)
}

type service struct {
	repo      Repository
	customers CustomerFinder
}

func NewService(repo Repository, customers CustomerFinder) Service {
	return &service{repo: repo, customers: customers}
}

// CreateOrder validates in order: the customer exists, at least one product
// is given, every distinct product exists. Repeated product ids are
// associated once.
func (s *service) CreateOrder(ctx context.Context, in CreateInput) (*Order, error) {
	c, err := s.customers.GetCustomerByID(ctx, in.CustomerID)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			log.Warn().Uint("customer_id", in.CustomerID).Msg("service: order for unknown customer")
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("service: failed to load customer %d: %w", in.CustomerID, err)
	}

	if len(in.ProductIDs) == 0 {
		return nil, ErrNoProducts
	}

	o := &Order{CustomerID: c.ID}
	if in.OrderDate != nil {
		o.OrderDate = in.OrderDate.UTC()
	}

	if err := s.repo.Create(ctx, o, distinct(in.ProductIDs)); err != nil {
		if errors.Is(err, ErrProductsNotFound) {
			log.Warn().Err(err).Uint("customer_id", c.ID).Msg("service: order references unknown products")
			return nil, err
		}
		log.Error().Err(err).Msg("service: failed to create order in repository")
		return nil, fmt.Errorf("service: failed to create order: %w", err)
	}

	o.Customer = *c
	log.Info().
		Uint("order_id", o.ID).
		Uint("customer_id", c.ID).
		Str("total_amount", o.TotalAmount.StringFixed(2)).
		Msg("service: order created")
	return o, nil
}

func (s *service) GetOrderByID(ctx context.Context, id uint) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Uint("order_id", id).Msg("service: failed to get order by id")
		return nil, fmt.Errorf("service: failed to get order by id %d: %w", id, err)
	}
	return o, nil
}

func (s *service) ListOrders(ctx context.Context, f Filter, page store.PageRequest) (store.Page[Order], error) {
	return s.repo.List(ctx, f, page)
}

func distinct(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
