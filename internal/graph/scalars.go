package graph

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// DateTime is the GraphQL DateTime scalar. Inputs without a zone are taken as UTC.
type DateTime struct {
	time.Time
}

func (DateTime) ImplementsGraphQLType(name string) bool {
	return name == "DateTime"
}

func (t *DateTime) UnmarshalGraphQL(input interface{}) error {
	switch v := input.(type) {
	case string:
		for _, layout := range dateTimeLayouts {
			if parsed, err := time.Parse(layout, v); err == nil {
				t.Time = parsed.UTC()
				return nil
			}
		}
		return fmt.Errorf("invalid DateTime %q", v)
	case time.Time:
		t.Time = v.UTC()
		return nil
	default:
		return fmt.Errorf("wrong type for DateTime: %T", input)
	}
}

func (t DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// Decimal is the GraphQL Decimal scalar.
type Decimal struct {
	decimal.Decimal
}

func (Decimal) ImplementsGraphQLType(name string) bool {
	return name == "Decimal"
}

func (d *Decimal) UnmarshalGraphQL(input interface{}) error {
	switch v := input.(type) {
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("invalid Decimal %q", v)
		}
		d.Decimal = parsed
	case float64:
		d.Decimal = decimal.NewFromFloat(v)
	case float32:
		d.Decimal = decimal.NewFromFloat32(v)
	case int32:
		d.Decimal = decimal.NewFromInt32(v)
	case int64:
		d.Decimal = decimal.NewFromInt(v)
	case int:
		d.Decimal = decimal.NewFromInt(int64(v))
	default:
		return fmt.Errorf("wrong type for Decimal: %T", input)
	}
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.StringFixed(2))
}

func decimalPtr(d *Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	return &d.Decimal
}

func timePtr(t *DateTime) *time.Time {
	if t == nil {
		return nil
	}
	return &t.Time
}
