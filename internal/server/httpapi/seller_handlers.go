package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oullim/market/internal/server/services"
)

type sellerRequest struct {
	CompanyName    string `json:"company_name"`
	BusinessNumber string `json:"business_number"`
	BankName       string `json:"bank_name"`
	AccountNumber  string `json:"account_number"`
	OwnerName      string `json:"owner_name"`
	AccountHolder  string `json:"account_holder"`
	ContactNumber  string `json:"contact_number"`
}

type sellerResponse struct {
	ID             string `json:"id"`
	CompanyName    string `json:"company_name"`
	BusinessNumber string `json:"business_number"`
	BankName       string `json:"bank_name"`
	AccountNumber  string `json:"account_number"`
	OwnerName      string `json:"owner_name"`
	AccountHolder  string `json:"account_holder"`
	ContactNumber  string `json:"contact_number"`
}

func (s *Server) handleSellerApply(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req sellerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := s.sellers.Apply(r.Context(), userID, services.SellerInput{
		CompanyName:    req.CompanyName,
		BusinessNumber: req.BusinessNumber,
		BankName:       req.BankName,
		AccountNumber:  req.AccountNumber,
		OwnerName:      req.OwnerName,
		AccountHolder:  req.AccountHolder,
		ContactNumber:  req.ContactNumber,
	})
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": created.ID})
}

func (s *Server) handleSellerGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	sl, err := s.sellers.Get(r.Context(), userID)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, sellerResponse{
		ID:             sl.ID,
		CompanyName:    sl.CompanyName,
		BusinessNumber: sl.BusinessNumber,
		BankName:       sl.BankName,
		AccountNumber:  sl.AccountNumber,
		OwnerName:      sl.OwnerName,
		AccountHolder:  sl.AccountHolder,
		ContactNumber:  sl.ContactNumber,
	})
}

type sellerUpdateRequest struct {
	CompanyName    *string `json:"company_name"`
	BusinessNumber *string `json:"business_number"`
	BankName       *string `json:"bank_name"`
	AccountNumber  *string `json:"account_number"`
	OwnerName      *string `json:"owner_name"`
	AccountHolder  *string `json:"account_holder"`
	ContactNumber  *string `json:"contact_number"`
}

func (s *Server) handleSellerUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req sellerUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := s.sellers.Update(r.Context(), userID, services.SellerUpdateInput{
		CompanyName:    req.CompanyName,
		BusinessNumber: req.BusinessNumber,
		BankName:       req.BankName,
		AccountNumber:  req.AccountNumber,
		OwnerName:      req.OwnerName,
		AccountHolder:  req.AccountHolder,
		ContactNumber:  req.ContactNumber,
	})
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSellerDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	if err := s.sellers.Delete(r.Context(), userID); err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSellerApprove(w http.ResponseWriter, r *http.Request) {
	callerID, _ := UserIDFromContext(r.Context())

	if err := s.sellers.Approve(r.Context(), callerID, chi.URLParam(r, "userID")); err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSellerReject(w http.ResponseWriter, r *http.Request) {
	callerID, _ := UserIDFromContext(r.Context())

	if err := s.sellers.Reject(r.Context(), callerID, chi.URLParam(r, "userID")); err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
