package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/crm-service/internal/config"
	"github.com/vasiliy-maslov/crm-service/internal/store"
)

var maxPrice = decimal.New(1, 8)

type Service interface {
	CreateProduct(ctx context.Context, in CreateInput) (*Product, error)
	GetProductByID(ctx context.Context, id uint) (*Product, error)
	GetProductsByIDs(ctx context.Context, ids []uint) ([]Product, error)
	ListProducts(ctx context.Context, f Filter, page store.PageRequest) (store.Page[Product], error)
	RestockLowStock(ctx context.Context) (RestockResult, error)
}

type service struct {
	repo      Repository
	inventory config.InventoryConfig
	validate  *validator.Validate
}

func NewService(repo Repository, inventory config.InventoryConfig) Service {
	return &service{repo: repo, inventory: inventory, validate: validator.New()}
}

func (s *service) CreateProduct(ctx context.Context, in CreateInput) (*Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "max" {
			return nil, ErrNameTooLong
		}
		return nil, ErrNameRequired
	}
	if !in.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}

	price := in.Price.Round(2)
	if price.IsZero() {
		return nil, ErrInvalidPrice
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return nil, ErrPriceTooLarge
	}

	stock := 0
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, ErrNegativeStock
		}
		stock = *in.Stock
	}

	p := &Product{Name: in.Name, Price: price, Stock: stock}
	if err := s.repo.Create(ctx, p); err != nil {
		log.Error().Err(err).Msg("service: failed to create product in repository")
		return nil, fmt.Errorf("service: failed to create product: %w", err)
	}

	log.Info().Uint("product_id", p.ID).Str("price", p.Price.StringFixed(2)).Msg("service: product created")
	return p, nil
}

func (s *service) GetProductByID(ctx context.Context, id uint) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Uint("product_id", id).Msg("service: failed to get product by id")
		return nil, fmt.Errorf("service: failed to get product by id %d: %w", id, err)
	}
	return p, nil
}

func (s *service) GetProductsByIDs(ctx context.Context, ids []uint) ([]Product, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *service) ListProducts(ctx context.Context, f Filter, page store.PageRequest) (store.Page[Product], error) {
	if f.LowStock {
		threshold := s.inventory.LowStockThreshold
		f.StockBelow = &threshold
	}
	return s.repo.List(ctx, f, page)
}

// RestockLowStock adds the configured increment to every product whose
// stock is below the configured threshold.
func (s *service) RestockLowStock(ctx context.Context) (RestockResult, error) {
	if s.inventory.RestockIncrement <= 0 {
		return RestockResult{}, ErrInvalidRestock
	}

	products, err := s.repo.RestockBelow(ctx, s.inventory.LowStockThreshold, s.inventory.RestockIncrement)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to restock low-stock products")
		return RestockResult{}, fmt.Errorf("service: failed to restock products: %w", err)
	}

	if len(products) == 0 {
		log.Info().Int("threshold", s.inventory.LowStockThreshold).Msg("service: no low-stock products")
		return RestockResult{Products: products, Message: "No low stock products found"}, nil
	}

	log.Info().
		Int("updated", len(products)).
		Int("threshold", s.inventory.LowStockThreshold).
		Int("increment", s.inventory.RestockIncrement).
		Msg("service: low-stock products restocked")
	return RestockResult{
		Products: products,
		Message:  fmt.Sprintf("Updated %d low-stock products", len(products)),
	}, nil
}
