package graph

import (
	"context"
	"strings"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/vasiliy-maslov/crm-service/internal/customer"
	"github.com/vasiliy-maslov/crm-service/internal/order"
	"github.com/vasiliy-maslov/crm-service/internal/product"
	"github.com/vasiliy-maslov/crm-service/internal/store"
)

// Resolver is the root resolver for both queries and mutations.
type Resolver struct {
	customers customer.Service
	products  product.Service
	orders    order.Service
}

func NewResolver(customers customer.Service, products product.Service, orders order.Service) *Resolver {
	return &Resolver{customers: customers, products: products, orders: orders}
}

func (r *Resolver) Hello() string {
	return "Hello, GraphQL!"
}

func (r *Resolver) Customer(ctx context.Context, args struct{ ID graphql.ID }) (*customerResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	c, err := r.customers.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &customerResolver{c: *c}, nil
}

func (r *Resolver) Product(ctx context.Context, args struct{ ID graphql.ID }) (*productResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	p, err := r.products.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &productResolver{p: *p}, nil
}

func (r *Resolver) Order(ctx context.Context, args struct{ ID graphql.ID }) (*orderResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	o, err := r.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &orderResolver{o: *o}, nil
}

type allCustomersArgs struct {
	Name         *string
	Email        *string
	CreatedAtGte *DateTime
	CreatedAtLte *DateTime
	PhonePattern *string
	OrderBy      *string
	First        *int32
	After        *string
}

func (r *Resolver) AllCustomers(ctx context.Context, args allCustomersArgs) (*customerConnectionResolver, error) {
	req, err := pageRequest(args.First, args.After)
	if err != nil {
		return nil, err
	}
	page, err := r.customers.ListCustomers(ctx, customer.Filter{
		Name:         deref(args.Name),
		Email:        deref(args.Email),
		PhonePattern: deref(args.PhonePattern),
		CreatedAtGte: timePtr(args.CreatedAtGte),
		CreatedAtLte: timePtr(args.CreatedAtLte),
		OrderBy:      deref(args.OrderBy),
	}, req)
	if err != nil {
		return nil, err
	}
	return &customerConnectionResolver{page: page}, nil
}

type allProductsArgs struct {
	Name     *string
	PriceGte *Decimal
	PriceLte *Decimal
	StockGte *int32
	StockLte *int32
	LowStock *bool
	OrderBy  *string
	First    *int32
	After    *string
}

func (r *Resolver) AllProducts(ctx context.Context, args allProductsArgs) (*productConnectionResolver, error) {
	req, err := pageRequest(args.First, args.After)
	if err != nil {
		return nil, err
	}
	page, err := r.products.ListProducts(ctx, product.Filter{
		Name:     deref(args.Name),
		PriceGte: decimalPtr(args.PriceGte),
		PriceLte: decimalPtr(args.PriceLte),
		StockGte: intPtr(args.StockGte),
		StockLte: intPtr(args.StockLte),
		LowStock: args.LowStock != nil && *args.LowStock,
		OrderBy:  deref(args.OrderBy),
	}, req)
	if err != nil {
		return nil, err
	}
	return &productConnectionResolver{page: page}, nil
}

type allOrdersArgs struct {
	CustomerName   *string
	ProductName    *string
	ProductID      *graphql.ID
	TotalAmountGte *Decimal
	TotalAmountLte *Decimal
	OrderDateGte   *DateTime
	OrderDateLte   *DateTime
	OrderBy        *string
	First          *int32
	After          *string
}

func (r *Resolver) AllOrders(ctx context.Context, args allOrdersArgs) (*orderConnectionResolver, error) {
	f := order.Filter{
		CustomerName:   deref(args.CustomerName),
		ProductName:    deref(args.ProductName),
		TotalAmountGte: decimalPtr(args.TotalAmountGte),
		TotalAmountLte: decimalPtr(args.TotalAmountLte),
		OrderDateGte:   timePtr(args.OrderDateGte),
		OrderDateLte:   timePtr(args.OrderDateLte),
		OrderBy:        deref(args.OrderBy),
	}
	if args.ProductID != nil {
		id, err := parseID(*args.ProductID)
		if err != nil {
			return nil, err
		}
		f.ProductID = &id
	}

	req, err := pageRequest(args.First, args.After)
	if err != nil {
		return nil, err
	}
	page, err := r.orders.ListOrders(ctx, f, req)
	if err != nil {
		return nil, err
	}
	return &orderConnectionResolver{page: page}, nil
}

func pageRequest(first *int32, after *string) (store.PageRequest, error) {
	req := store.PageRequest{After: deref(after)}
	if first != nil {
		n := int(*first)
		req.First = &n
	}
	return req, req.Validate()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func intPtr(n *int32) *int {
	if n == nil {
		return nil
	}
	v := int(*n)
	return &v
}
