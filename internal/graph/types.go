package graph

import (
	"fmt"
	"strconv"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/vasiliy-maslov/crm-service/internal/customer"
	"github.com/vasiliy-maslov/crm-service/internal/order"
	"github.com/vasiliy-maslov/crm-service/internal/product"
	"github.com/vasiliy-maslov/crm-service/internal/store"
)

func toID(id uint) graphql.ID {
	return graphql.ID(strconv.FormatUint(uint64(id), 10))
}

func parseID(id graphql.ID) (uint, error) {
	n, err := strconv.ParseUint(string(id), 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid id %q", string(id))
	}
	return uint(n), nil
}

type customerResolver struct {
	c customer.Customer
}

func (r *customerResolver) ID() graphql.ID      { return toID(r.c.ID) }
func (r *customerResolver) Name() string        { return r.c.Name }
func (r *customerResolver) Email() string       { return r.c.Email }
func (r *customerResolver) Phone() *string      { return r.c.Phone }
func (r *customerResolver) CreatedAt() DateTime { return DateTime{r.c.CreatedAt} }

type productResolver struct {
	p product.Product
}

func (r *productResolver) ID() graphql.ID      { return toID(r.p.ID) }
func (r *productResolver) Name() string        { return r.p.Name }
func (r *productResolver) Price() Decimal      { return Decimal{r.p.Price} }
func (r *productResolver) Stock() int32        { return int32(r.p.Stock) }
func (r *productResolver) CreatedAt() DateTime { return DateTime{r.p.CreatedAt} }

func productResolvers(products []product.Product) []*productResolver {
	out := make([]*productResolver, len(products))
	for i := range products {
		out[i] = &productResolver{p: products[i]}
	}
	return out
}

type orderResolver struct {
	o order.Order
}

func (r *orderResolver) ID() graphql.ID               { return toID(r.o.ID) }
func (r *orderResolver) Customer() *customerResolver  { return &customerResolver{c: r.o.Customer} }
func (r *orderResolver) Products() []*productResolver { return productResolvers(r.o.Products) }
func (r *orderResolver) TotalAmount() Decimal         { return Decimal{r.o.TotalAmount} }
func (r *orderResolver) OrderDate() DateTime          { return DateTime{r.o.OrderDate} }

type pageInfoResolver struct {
	hasNext, hasPrev       bool
	startCursor, endCursor *string
}

func newPageInfo[T any](page store.Page[T]) *pageInfoResolver {
	info := &pageInfoResolver{hasNext: page.HasNextPage, hasPrev: page.HasPreviousPage}
	if n := len(page.Items); n > 0 {
		start, end := page.Cursor(0), page.Cursor(n-1)
		info.startCursor, info.endCursor = &start, &end
	}
	return info
}

func (r *pageInfoResolver) HasNextPage() bool     { return r.hasNext }
func (r *pageInfoResolver) HasPreviousPage() bool { return r.hasPrev }
func (r *pageInfoResolver) StartCursor() *string  { return r.startCursor }
func (r *pageInfoResolver) EndCursor() *string    { return r.endCursor }

type customerConnectionResolver struct {
	page store.Page[customer.Customer]
}

func (r *customerConnectionResolver) Edges() []*customerEdgeResolver {
	edges := make([]*customerEdgeResolver, len(r.page.Items))
	for i := range r.page.Items {
		edges[i] = &customerEdgeResolver{cursor: r.page.Cursor(i), node: &customerResolver{c: r.page.Items[i]}}
	}
	return edges
}

func (r *customerConnectionResolver) PageInfo() *pageInfoResolver { return newPageInfo(r.page) }
func (r *customerConnectionResolver) TotalCount() int32           { return int32(r.page.TotalCount) }

type customerEdgeResolver struct {
	cursor string
	node   *customerResolver
}

func (r *customerEdgeResolver) Cursor() string          { return r.cursor }
func (r *customerEdgeResolver) Node() *customerResolver { return r.node }

type productConnectionResolver struct {
	page store.Page[product.Product]
}

func (r *productConnectionResolver) Edges() []*productEdgeResolver {
	edges := make([]*productEdgeResolver, len(r.page.Items))
	for i := range r.page.Items {
		edges[i] = &productEdgeResolver{cursor: r.page.Cursor(i), node: &productResolver{p: r.page.Items[i]}}
	}
	return edges
}

func (r *productConnectionResolver) PageInfo() *pageInfoResolver { return newPageInfo(r.page) }
func (r *productConnectionResolver) TotalCount() int32           { return int32(r.page.TotalCount) }

type productEdgeResolver struct {
	cursor string
	node   *productResolver
}

func (r *productEdgeResolver) Cursor() string         { return r.cursor }
func (r *productEdgeResolver) Node() *productResolver { return r.node }

type orderConnectionResolver struct {
	page store.Page[order.Order]
}

func (r *orderConnectionResolver) Edges() []*orderEdgeResolver {
	edges := make([]*orderEdgeResolver, len(r.page.Items))
	for i := range r.page.Items {
		edges[i] = &orderEdgeResolver{cursor: r.page.Cursor(i), node: &orderResolver{o: r.page.Items[i]}}
	}
	return edges
}

func (r *orderConnectionResolver) PageInfo() *pageInfoResolver { return newPageInfo(r.page) }
func (r *orderConnectionResolver) TotalCount() int32           { return int32(r.page.TotalCount) }

type orderEdgeResolver struct {
	cursor string
	node   *orderResolver
}

func (r *orderEdgeResolver) Cursor() string       { return r.cursor }
func (r *orderEdgeResolver) Node() *orderResolver { return r.node }
