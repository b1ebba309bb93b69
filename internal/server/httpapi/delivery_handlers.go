package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oullim/market/internal/server/models"
	"github.com/oullim/market/internal/server/services"
)

type deliveryRequest struct {
	Address       string `json:"address"`
	DetailAddress string `json:"detail_address"`
	Recipient     string `json:"recipient"`
	PostalCode    string `json:"postal_code"`
}

type deliveryResponse struct {
	ID            string `json:"id"`
	Address       string `json:"address"`
	DetailAddress string `json:"detail_address"`
	Recipient     string `json:"recipient"`
	PostalCode    string `json:"postal_code"`
}

func toDeliveryResponse(d *models.Delivery) deliveryResponse {
	return deliveryResponse{
		ID:            d.ID,
		Address:       d.Address,
		DetailAddress: d.DetailAddress,
		Recipient:     d.Recipient,
		PostalCode:    d.PostalCode,
	}
}

func (s *Server) handleCreateDelivery(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req deliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := s.deliveries.Create(r.Context(), userID, services.DeliveryInput{
		Address:       req.Address,
		DetailAddress: req.DetailAddress,
		Recipient:     req.Recipient,
		PostalCode:    req.PostalCode,
	})
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	// The stored record is ciphertext; echo only the id.
	writeJSON(w, http.StatusCreated, map[string]string{"id": created.ID})
}

func (s *Server) handleListDeliveries(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	out, err := s.deliveries.List(r.Context(), userID)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	resp := make([]deliveryResponse, 0, len(out))
	for _, d := range out {
		resp = append(resp, toDeliveryResponse(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateDelivery(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req deliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := s.deliveries.Update(r.Context(), chi.URLParam(r, "id"), userID, services.DeliveryInput{
		Address:       req.Address,
		DetailAddress: req.DetailAddress,
		Recipient:     req.Recipient,
		PostalCode:    req.PostalCode,
	})
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteDelivery(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	if err := s.deliveries.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
