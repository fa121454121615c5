package order

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/vasiliy-maslov/crm-service/internal/product"
	"github.com/vasiliy-maslov/crm-service/internal/store"
)

var (
	ErrNotFound         = errors.New("Order not found")
	ErrCustomerNotFound = errors.New("Customer not found")
	ErrNoProducts       = errors.New("At least one product is required")
	ErrProductsNotFound = errors.New("One or more products not found")
)

// MissingProductsError lists the requested product ids that name no product,
// exactly as the caller sent them. It matches ErrProductsNotFound with errors.Is.
type MissingProductsError struct {
	IDs []string
}

func (e *MissingProductsError) Error() string {
	return ErrProductsNotFound.Error() + ": " + strings.Join(e.IDs, ", ")
}

func (e *MissingProductsError) Is(target error) bool {
	return target == ErrProductsNotFound
}

var orderColumns = map[string]string{
	"id":          "id",
	"totalamount": "total_amount",
	"orderdate":   "order_date",
	"customerid":  "customer_id",
}

var preloads = []string{"Customer", "Products"}

type Repository interface {
	// Create inserts o associated with the products identified by productIDs,
	// which must be distinct. Nothing is written if any of them is missing.
	Create(ctx context.Context, o *Order, productIDs []uint) error
	GetByID(ctx context.Context, id uint) (*Order, error)
	List(ctx context.Context, f Filter, page store.PageRequest) (store.Page[Order], error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, o *Order, productIDs []uint) error {
	uow := store.NewUnitOfWork(r.db)
	uow.Do(func(tx *gorm.DB) error {
		var products []product.Product
		if err := tx.Where("id IN ?", productIDs).Order("id").Find(&products).Error; err != nil {
			return fmt.Errorf("failed to load products: %w", err)
		}
		if missing := missingIDs(productIDs, products); len(missing) > 0 {
			return &MissingProductsError{IDs: missing}
		}

		o.Products = products
		return tx.Omit("Customer", "Products.*").Create(o).Error
	})
	uow.AfterCommit(func() {
		log.Debug().Uint("order_id", o.ID).Int("products", len(o.Products)).Msg("repository: order inserted")
	})
	uow.AfterRollback(func() {
		log.Debug().Uint("customer_id", o.CustomerID).Msg("repository: order insert rolled back")
	})

	if err := uow.Commit(ctx); err != nil {
		if errors.Is(err, ErrProductsNotFound) {
			return err
		}
		return fmt.Errorf("repository: failed to insert order: %w", err)
	}
	return nil
}

func (r *gormRepository) GetByID(ctx context.Context, id uint) (*Order, error) {
	var o Order
	q := r.db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.First(&o, id).Error; err != nil {
		if store.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %d: %w", id, err)
	}
	return &o, nil
}

func (r *gormRepository) List(ctx context.Context, f Filter, page store.PageRequest) (store.Page[Order], error) {
	orderBy, err := store.OrderClause(f.OrderBy, orderColumns, "id")
	if err != nil {
		return store.Page[Order]{}, err
	}

	q := r.db.Model(&Order{})
	if f.CustomerName != "" {
		q = q.Where("customer_id IN (SELECT id FROM customers WHERE LOWER(name) LIKE ?)", store.Contains(f.CustomerName))
	}
	if f.ProductName != "" {
		q = q.Where(`id IN (SELECT order_products.order_id FROM order_products
			JOIN products ON products.id = order_products.product_id
			WHERE LOWER(products.name) LIKE ?)`, store.Contains(f.ProductName))
	}
	if f.ProductID != nil {
		q = q.Where("id IN (SELECT order_id FROM order_products WHERE product_id = ?)", *f.ProductID)
	}
	if f.TotalAmountGte != nil {
		q = q.Where("total_amount >= ?", *f.TotalAmountGte)
	}
	if f.TotalAmountLte != nil {
		q = q.Where("total_amount <= ?", *f.TotalAmountLte)
	}
	if f.OrderDateGte != nil {
		q = q.Where("order_date >= ?", f.OrderDateGte.UTC())
	}
	if f.OrderDateLte != nil {
		q = q.Where("order_date <= ?", f.OrderDateLte.UTC())
	}

	result, err := store.Paginate[Order](ctx, q, orderBy, page, preloads...)
	if err != nil {
		if store.IsInvalidPage(err) {
			return store.Page[Order]{}, err
		}
		return store.Page[Order]{}, fmt.Errorf("repository: failed to list orders: %w", err)
	}
	return result, nil
}

// missingIDs returns the ids without a matching product, in request order.
func missingIDs(ids []uint, found []product.Product) []string {
	seen := make(map[uint]struct{}, len(found))
	for _, p := range found {
		seen[p.ID] = struct{}{}
	}

	var missing []string
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			missing = append(missing, strconv.FormatUint(uint64(id), 10))
		}
	}
	return missing
}
