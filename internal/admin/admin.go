// Package admin provides read-only listings of the CRM tables for operators.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/crm-service/internal/db"
)

const DefaultLimit = 100

var ErrInvalidSince = errors.New("since must be a date (2006-01-02) or an RFC 3339 timestamp")

type CustomerRow struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type ProductRow struct {
	ID        int64           `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Stock     int             `db:"stock" json:"stock"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

type OrderRow struct {
	ID           int64           `db:"id" json:"id"`
	CustomerName string          `db:"customer_name" json:"customer"`
	TotalAmount  decimal.Decimal `db:"total_amount" json:"total_amount"`
	OrderDate    time.Time       `db:"order_date" json:"order_date"`
}

type Lister interface {
	// Customers lists the newest customers whose name or email contains search.
	Customers(ctx context.Context, search string) ([]CustomerRow, error)
	// Products lists the newest products whose name contains search.
	Products(ctx context.Context, search string) ([]ProductRow, error)
	// Orders lists the newest orders, optionally only those placed at or after since.
	Orders(ctx context.Context, since *time.Time) ([]OrderRow, error)
}

type sqlxLister struct {
	db    *sqlx.DB
	limit int
}

func NewLister(db *sqlx.DB) Lister {
	return &sqlxLister{db: db, limit: DefaultLimit}
}

// Open wraps the gorm connection pool of d for sqlx. Closing d closes it.
func Open(d *db.Database) (*sqlx.DB, error) {
	sqlDB, err := d.Gorm.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlx.NewDb(sqlDB, d.SQLDriverName()), nil
}

func (l *sqlxLister) Customers(ctx context.Context, search string) ([]CustomerRow, error) {
	query := `SELECT id, name, email, phone, created_at FROM customers`
	var args []interface{}
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query += ` WHERE LOWER(name) LIKE ? OR LOWER(email) LIKE ?`
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, l.limit)

	rows := make([]CustomerRow, 0)
	if err := l.db.SelectContext(ctx, &rows, l.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("admin: failed to list customers: %w", err)
	}
	return rows, nil
}

func (l *sqlxLister) Products(ctx context.Context, search string) ([]ProductRow, error) {
	query := `SELECT id, name, price, stock, created_at FROM products`
	var args []interface{}
	if search = strings.TrimSpace(search); search != "" {
		query += ` WHERE LOWER(name) LIKE ?`
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, l.limit)

	rows := make([]ProductRow, 0)
	if err := l.db.SelectContext(ctx, &rows, l.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("admin: failed to list products: %w", err)
	}
	return rows, nil
}

func (l *sqlxLister) Orders(ctx context.Context, since *time.Time) ([]OrderRow, error) {
	query := `SELECT o.id, c.name AS customer_name, o.total_amount, o.order_date
		FROM orders o JOIN customers c ON c.id = o.customer_id`
	var args []interface{}
	if since != nil {
		query += ` WHERE o.order_date >= ?`
		args = append(args, since.UTC())
	}
	query += ` ORDER BY o.order_date DESC, o.id DESC LIMIT ?`
	args = append(args, l.limit)

	rows := make([]OrderRow, 0)
	if err := l.db.SelectContext(ctx, &rows, l.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("admin: failed to list orders: %w", err)
	}
	return rows, nil
}

// ParseSince accepts an empty string (no bound), a date or an RFC 3339 timestamp.
func ParseSince(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, ErrInvalidSince
}
