package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 100

	cursorPrefix = "arrayconnection:"
)

var (
	ErrInvalidCursor = errors.New("invalid cursor")
	ErrNegativeFirst = errors.New("first must be non-negative")
)

// PageRequest selects a window of a listing: up to First rows after the
// row identified by the After cursor.
type PageRequest struct {
	First *int
	After string
}

// Page is one window of a listing.
type Page[T any] struct {
	Items           []T
	Offset          int
	TotalCount      int64
	HasNextPage     bool
	HasPreviousPage bool
}

// Cursor returns the cursor of the i-th item of the page.
func (p Page[T]) Cursor(i int) string {
	return EncodeCursor(p.Offset + i)
}

func EncodeCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(cursorPrefix + strconv.Itoa(offset)))
}

func DecodeCursor(cursor string) (int, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, ErrInvalidCursor
	}
	s, ok := strings.CutPrefix(string(raw), cursorPrefix)
	if !ok {
		return 0, ErrInvalidCursor
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, ErrInvalidCursor
	}
	return n, nil
}

// Validate reports a malformed cursor or a negative page size.
func (r PageRequest) Validate() error {
	_, _, err := r.window()
	return err
}

// IsInvalidPage reports whether err came from a malformed PageRequest.
func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidCursor) || errors.Is(err, ErrNegativeFirst)
}

func (r PageRequest) window() (offset, limit int, err error) {
	if r.After != "" {
		after, err := DecodeCursor(r.After)
		if err != nil {
			return 0, 0, err
		}
		offset = after + 1
	}

	limit = DefaultPageSize
	if r.First != nil {
		if *r.First < 0 {
			return 0, 0, ErrNegativeFirst
		}
		limit = min(*r.First, MaxPageSize)
	}
	return offset, limit, nil
}

// Paginate counts q, then loads one window of it ordered by orderBy.
// q must already carry its Model and filters.
func Paginate[T any](ctx context.Context, q *gorm.DB, orderBy string, req PageRequest, preloads ...string) (Page[T], error) {
	offset, limit, err := req.window()
	if err != nil {
		return Page[T]{}, err
	}

	base := q.WithContext(ctx).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return Page[T]{}, fmt.Errorf("failed to count rows: %w", err)
	}

	page := Page[T]{
		Items:           make([]T, 0),
		Offset:          offset,
		TotalCount:      total,
		HasNextPage:     int64(offset) < total,
		HasPreviousPage: offset > 0,
	}
	if limit == 0 || int64(offset) >= total {
		return page, nil
	}

	find := base.Order(orderBy).Offset(offset).Limit(limit)
	for _, p := range preloads {
		find = find.Preload(p)
	}
	if err := find.Find(&page.Items).Error; err != nil {
		return Page[T]{}, fmt.Errorf("failed to load page: %w", err)
	}

	page.HasNextPage = int64(offset+len(page.Items)) < total
	return page, nil
}

// OrderClause turns a client supplied ordering ("name", "-createdAt",
// "created_at") into a SQL ORDER BY using only whitelisted columns. An empty
// value falls back to def. The primary key is always appended as a tie-breaker.
func OrderClause(value string, columns map[string]string, def string) (string, error) {
	if value == "" {
		return def, nil
	}

	desc := strings.HasPrefix(value, "-")
	key := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(value, "-"), "_", ""))

	column, ok := columns[key]
	if !ok {
		return "", fmt.Errorf("unsupported ordering %q", value)
	}

	clause := column
	if desc {
		clause += " DESC"
	}
	if column != "id" {
		clause += ", id"
	}
	return clause, nil
}

// Contains builds a case-insensitive LIKE pattern for a substring search.
func Contains(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
