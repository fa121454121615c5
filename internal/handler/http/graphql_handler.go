package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog/hlog"
)

const maxRequestBytes = 1 << 20

// GraphQLRequest is the JSON body of a GraphQL POST.
type GraphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type GraphQLHandler struct {
	schema *graphql.Schema
}

func NewGraphQLHandler(schema *graphql.Schema) *GraphQLHandler {
	return &GraphQLHandler{schema: schema}
}

func (h *GraphQLHandler) RegisterRoutes(router chi.Router) {
	router.Post("/graphql", h.handleQuery)
}

// handleQuery always answers 200 once the body parses; GraphQL errors travel
// in the response envelope.
func (h *GraphQLHandler) handleQuery(w http.ResponseWriter, r *http.Request) {
	var params GraphQLRequest

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := decoder.Decode(&params); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("Failed to decode graphql request")
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request payload %v", err))
		return
	}
	if params.Query == "" {
		respondWithError(w, http.StatusBadRequest, "query is required")
		return
	}

	response := h.schema.Exec(r.Context(), params.Query, params.OperationName, params.Variables)
	if len(response.Errors) > 0 {
		hlog.FromRequest(r).Info().
			Str("operation", params.OperationName).
			Int("errors", len(response.Errors)).
			Str("first_error", response.Errors[0].Message).
			Msg("GraphQL request finished with errors")
	}

	respondWithJSON(w, http.StatusOK, response)
}
