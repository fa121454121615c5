// Package graph exposes customers, products and orders as a GraphQL schema.
package graph

import (
	"context"
	_ "embed"
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog/log"
)

//go:embed schema.graphql
var schemaSDL string

// NewSchema parses the CRM schema against r.
func NewSchema(r *Resolver, opts ...graphql.SchemaOpt) (*graphql.Schema, error) {
	opts = append([]graphql.SchemaOpt{
		graphql.Logger(panicLogger{}),
		graphql.MaxDepth(12),
	}, opts...)

	schema, err := graphql.ParseSchema(schemaSDL, r, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse graphql schema: %w", err)
	}
	return schema, nil
}

type panicLogger struct{}

func (panicLogger) LogPanic(_ context.Context, value interface{}) {
	log.Error().Interface("panic", value).Msg("graphql: resolver panicked")
}
