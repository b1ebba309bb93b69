package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type addToCartRequest struct {
	ProductID string `json:"product_id"`
	Amount    int64  `json:"amount"`
}

type cartLineResponse struct {
	ID             string `json:"id"`
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	Price          int64  `json:"price"`
	Amount         int64  `json:"amount"`
	AggregatePrice int64  `json:"aggregate_price"`
	Image          string `json:"image,omitempty"`
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item, err := s.cart.Add(r.Context(), userID, req.ProductID, req.Amount)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": item.ID})
}

func (s *Server) handleListCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	lines, err := s.cart.List(r.Context(), userID)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	resp := make([]cartLineResponse, 0, len(lines))
	for _, l := range lines {
		resp = append(resp, cartLineResponse{
			ID:             l.Item.ID,
			ProductID:      l.Product.ID,
			ProductName:    l.Product.Name,
			Price:          l.Product.Price,
			Amount:         l.Item.Amount,
			AggregatePrice: l.AggregatePrice,
			Image:          l.Product.Image,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type updateCartAmountRequest struct {
	Amount int64 `json:"amount"`
}

func (s *Server) handleUpdateCartAmount(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req updateCartAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.cart.UpdateAmount(r.Context(), chi.URLParam(r, "id"), userID, req.Amount); err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	if err := s.cart.Remove(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
