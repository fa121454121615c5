package graph

import (
	"context"
	"errors"
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/vasiliy-maslov/crm-service/internal/customer"
	"github.com/vasiliy-maslov/crm-service/internal/order"
	"github.com/vasiliy-maslov/crm-service/internal/product"
)

type customerInput struct {
	Name  string
	Email string
	Phone *string
}

func (in customerInput) toCreate() customer.CreateInput {
	return customer.CreateInput{Name: in.Name, Email: in.Email, Phone: in.Phone}
}

type productInput struct {
	Name  string
	Price Decimal
	Stock *int32
}

type orderInput struct {
	CustomerID graphql.ID
	ProductIDs []graphql.ID
	OrderDate  *DateTime
}

type createCustomerPayload struct {
	customer *customerResolver
	message  string
}

func (p *createCustomerPayload) Customer() *customerResolver { return p.customer }
func (p *createCustomerPayload) Message() string             { return p.message }

func (r *Resolver) CreateCustomer(ctx context.Context, args struct{ Input customerInput }) (*createCustomerPayload, error) {
	c, err := r.customers.CreateCustomer(ctx, args.Input.toCreate())
	if err != nil {
		if isCustomerValidation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("Error creating customer: %w", err)
	}
	return &createCustomerPayload{
		customer: &customerResolver{c: *c},
		message:  "Customer created successfully",
	}, nil
}

func isCustomerValidation(err error) bool {
	for _, target := range []error{
		customer.ErrInvalidPhone,
		customer.ErrInvalidEmail,
		customer.ErrEmailRequired,
		customer.ErrNameRequired,
		customer.ErrNameTooLong,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type bulkCreateCustomersPayload struct {
	result customer.BulkResult
}

func (p *bulkCreateCustomersPayload) Customers() []*customerResolver {
	out := make([]*customerResolver, len(p.result.Customers))
	for i := range p.result.Customers {
		out[i] = &customerResolver{c: p.result.Customers[i]}
	}
	return out
}

func (p *bulkCreateCustomersPayload) Errors() []string { return p.result.Errors }

func (r *Resolver) BulkCreateCustomers(ctx context.Context, args struct{ Input []customerInput }) *bulkCreateCustomersPayload {
	in := make([]customer.CreateInput, len(args.Input))
	for i, c := range args.Input {
		in[i] = c.toCreate()
	}
	return &bulkCreateCustomersPayload{result: r.customers.BulkCreateCustomers(ctx, in)}
}

type createProductPayload struct {
	product *productResolver
}

func (p *createProductPayload) Product() *productResolver { return p.product }

func (r *Resolver) CreateProduct(ctx context.Context, args struct{ Input productInput }) (*createProductPayload, error) {
	p, err := r.products.CreateProduct(ctx, product.CreateInput{
		Name:  args.Input.Name,
		Price: args.Input.Price.Decimal,
		Stock: intPtr(args.Input.Stock),
	})
	if err != nil {
		return nil, err
	}
	return &createProductPayload{product: &productResolver{p: *p}}, nil
}

type createOrderPayload struct {
	order *orderResolver
}

func (p *createOrderPayload) Order() *orderResolver { return p.order }

func (r *Resolver) CreateOrder(ctx context.Context, args struct{ Input orderInput }) (*createOrderPayload, error) {
	customerID, err := parseID(args.Input.CustomerID)
	if err != nil {
		return nil, order.ErrCustomerNotFound
	}

	productIDs := make([]uint, 0, len(args.Input.ProductIDs))
	malformed := false
	for _, raw := range args.Input.ProductIDs {
		id, err := parseID(raw)
		if err != nil {
			malformed = true
			continue
		}
		productIDs = append(productIDs, id)
	}
	if malformed {
		return nil, r.unknownProducts(ctx, customerID, args.Input.ProductIDs)
	}

	o, err := r.orders.CreateOrder(ctx, order.CreateInput{
		CustomerID: customerID,
		ProductIDs: productIDs,
		OrderDate:  timePtr(args.Input.OrderDate),
	})
	if err != nil {
		return nil, err
	}
	return &createOrderPayload{order: &orderResolver{o: *o}}, nil
}

// unknownProducts builds the error for a product list holding malformed ids.
// The customer is still checked first so errors keep their usual precedence.
func (r *Resolver) unknownProducts(ctx context.Context, customerID uint, raw []graphql.ID) error {
	if _, err := r.customers.GetCustomerByID(ctx, customerID); err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			return order.ErrCustomerNotFound
		}
		return err
	}

	var valid []uint
	for _, id := range raw {
		if n, err := parseID(id); err == nil {
			valid = append(valid, n)
		}
	}
	found, err := r.products.GetProductsByIDs(ctx, valid)
	if err != nil {
		return err
	}
	known := make(map[uint]struct{}, len(found))
	for _, p := range found {
		known[p.ID] = struct{}{}
	}

	missing := make([]string, 0, len(raw))
	reported := make(map[string]struct{}, len(raw))
	for _, id := range raw {
		if n, err := parseID(id); err == nil {
			if _, ok := known[n]; ok {
				continue
			}
		}
		s := string(id)
		if _, ok := reported[s]; ok {
			continue
		}
		reported[s] = struct{}{}
		missing = append(missing, s)
	}
	return &order.MissingProductsError{IDs: missing}
}

type updateLowStockPayload struct {
	result product.RestockResult
}

func (p *updateLowStockPayload) UpdatedProducts() []*productResolver {
	return productResolvers(p.result.Products)
}

func (p *updateLowStockPayload) Message() string { return p.result.Message }

func (r *Resolver) UpdateLowStockProducts(ctx context.Context) (*updateLowStockPayload, error) {
	result, err := r.products.RestockLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return &updateLowStockPayload{result: result}, nil
}
