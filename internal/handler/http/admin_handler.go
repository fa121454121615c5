package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/vasiliy-maslov/crm-service/internal/admin"
)

type AdminHandler struct {
	lister admin.Lister
}

func NewAdminHandler(lister admin.Lister) *AdminHandler {
	return &AdminHandler{lister: lister}
}

func (h *AdminHandler) RegisterRoutes(router chi.Router) {
	router.Route("/admin", func(r chi.Router) {
		r.Get("/customers", h.handleListCustomers)
		r.Get("/products", h.handleListProducts)
		r.Get("/orders", h.handleListOrders)
	})
}

func (h *AdminHandler) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.lister.Customers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to list customers")
		respondWithError(w, mapErrorToStatusCode(err), "failed to list customers")
		return
	}
	respondWithJSON(w, http.StatusOK, rows)
}

func (h *AdminHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	rows, err := h.lister.Products(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to list products")
		respondWithError(w, mapErrorToStatusCode(err), "failed to list products")
		return
	}
	respondWithJSON(w, http.StatusOK, rows)
}

func (h *AdminHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	since, err := admin.ParseSince(r.URL.Query().Get("since"))
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	rows, err := h.lister.Orders(r.Context(), since)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to list orders")
		respondWithError(w, mapErrorToStatusCode(err), "failed to list orders")
		return
	}
	respondWithJSON(w, http.StatusOK, rows)
}
