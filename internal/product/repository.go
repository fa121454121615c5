package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/vasiliy-maslov/crm-service/internal/store"
)

var (
	ErrNotFound       = errors.New("Product not found")
	ErrNameRequired   = errors.New("Name is required")
	ErrNameTooLong    = errors.New("Name must be at most 100 characters")
	ErrInvalidPrice   = errors.New("Price must be positive")
	ErrPriceTooLarge  = errors.New("Price must be less than 100000000")
	ErrNegativeStock  = errors.New("Stock cannot be negative")
	ErrInvalidRestock = errors.New("restock increment must be positive")
)

var orderColumns = map[string]string{
	"id":        "id",
	"name":      "name",
	"price":     "price",
	"stock":     "stock",
	"createdat": "created_at",
}

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetByIDs(ctx context.Context, ids []uint) ([]Product, error)
	List(ctx context.Context, f Filter, page store.PageRequest) (store.Page[Product], error)
	RestockBelow(ctx context.Context, threshold, increment int) ([]Product, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, p *Product) error {
	uow := store.NewUnitOfWork(r.db)
	uow.Add(p)
	if err := uow.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to insert product: %w", err)
	}
	return nil
}

func (r *gormRepository) GetByID(ctx context.Context, id uint) (*Product, error) {
	var p Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if store.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select product by id %d: %w", id, err)
	}
	return &p, nil
}

// GetByIDs returns the products matching ids ordered by id. Unknown ids are
// silently skipped.
func (r *gormRepository) GetByIDs(ctx context.Context, ids []uint) ([]Product, error) {
	products := make([]Product, 0, len(ids))
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("repository: failed to select products by ids: %w", err)
	}
	return products, nil
}

func (r *gormRepository) List(ctx context.Context, f Filter, page store.PageRequest) (store.Page[Product], error) {
	orderBy, err := store.OrderClause(f.OrderBy, orderColumns, "id")
	if err != nil {
		return store.Page[Product]{}, err
	}

	q := r.db.Model(&Product{})
	if f.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", store.Contains(f.Name))
	}
	if f.PriceGte != nil {
		q = q.Where("price >= ?", *f.PriceGte)
	}
	if f.PriceLte != nil {
		q = q.Where("price <= ?", *f.PriceLte)
	}
	if f.StockGte != nil {
		q = q.Where("stock >= ?", *f.StockGte)
	}
	if f.StockLte != nil {
		q = q.Where("stock <= ?", *f.StockLte)
	}
	if f.StockBelow != nil {
		q = q.Where("stock < ?", *f.StockBelow)
	}

	result, err := store.Paginate[Product](ctx, q, orderBy, page)
	if err != nil {
		if store.IsInvalidPage(err) {
			return store.Page[Product]{}, err
		}
		return store.Page[Product]{}, fmt.Errorf("repository: failed to list products: %w", err)
	}
	return result, nil
}

// RestockBelow raises the stock of every product below threshold by
// increment in one transaction and returns the updated rows ordered by id.
func (r *gormRepository) RestockBelow(ctx context.Context, threshold, increment int) ([]Product, error) {
	var updated []Product

	uow := store.NewUnitOfWork(r.db)
	uow.Do(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&Product{}).Where("stock < ?", threshold).Order("id").Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Model(&Product{}).Where("id IN ?", ids).
			UpdateColumn("stock", gorm.Expr("stock + ?", increment)).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Order("id").Find(&updated).Error
	})
	uow.AfterCommit(func() {
		log.Debug().Int("updated", len(updated)).Msg("repository: low-stock products restocked")
	})

	if err := uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository: failed to restock products: %w", err)
	}
	if updated == nil {
		updated = make([]Product, 0)
	}
	return updated, nil
}
