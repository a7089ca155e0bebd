package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"gitlab.connectwisedev.com/storefront-service/models"
	"gitlab.connectwisedev.com/storefront-service/pkg/checkout"
	"gitlab.connectwisedev.com/storefront-service/pkg/filter"
	"gitlab.connectwisedev.com/storefront-service/pkg/storefront"
)

// Server exposes one storefront session over HTTP.
type Server struct {
	store  *storefront.Storefront
	logger zerolog.Logger
}

// NewServer returns a Server for store.
func NewServer(store *storefront.Storefront, logger zerolog.Logger) *Server {
	return &Server{store: store, logger: logger}
}

type ProductsResponse struct {
	Products []models.Product `json:"products"`
	Count    int              `json:"count"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type AddItemRequest struct {
	ProductID string `json:"productId"`
}

type ChangeQuantityRequest struct {
	Delta int `json:"delta"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storefront.ErrCatalogUnavailable):
		s.writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: storefront.ErrCatalogUnavailable.Error()})
	case errors.Is(err, storefront.ErrUnknownProduct):
		s.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		s.logger.Error().Err(err).Msg("unhandled error")
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := filter.ParseCriteria(q.Get("category"), q.Get("minPrice"), q.Get("maxPrice"), q.Get("sort"))

	products, err := s.store.Browse(criteria)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ProductsResponse{Products: products, Count: len(products)})
}

func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.Categories()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, CategoriesResponse{Categories: categories})
}

func (s *Server) GetCart(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Cart())
}

func (s *Server) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "productId is required"})
		return
	}

	view, err := s.store.AddToCart(req.ProductID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	var req ChangeQuantityRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.UpdateQuantity(chi.URLParam(r, "productID"), req.Delta))
}

func (s *Server) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.RemoveFromCart(chi.URLParam(r, "productID")))
}

func (s *Server) Checkout(w http.ResponseWriter, r *http.Request) {
	var form checkout.CustomerForm
	if !s.decode(w, r, &form) {
		return
	}
	order := s.store.Checkout(form)
	s.writeJSON(w, http.StatusCreated, order)
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
