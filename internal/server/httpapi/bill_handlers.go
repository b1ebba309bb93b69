package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oullim/market/internal/server/models"
	"github.com/oullim/market/internal/server/services"
)

type checkoutRequest struct {
	Address       string `json:"address"`
	DetailAddress string `json:"detail_address"`
	Recipient     string `json:"recipient"`
	PostalCode    string `json:"postal_code"`
	Items         []struct {
		ProductID string `json:"product_id"`
		Amount    int64  `json:"amount"`
	} `json:"items"`
}

type billSummaryResponse struct {
	ID            string    `json:"id"`
	Address       string    `json:"address"`
	DetailAddress string    `json:"detail_address"`
	Recipient     string    `json:"recipient"`
	PostalCode    string    `json:"postal_code"`
	IsPaid        bool      `json:"is_paid"`
	CreatedAt     time.Time `json:"created_at"`
	TotalPrice    int64     `json:"total_price"`
	ItemCount     int       `json:"item_count"`
	OrderStatus   string    `json:"order_status"`
	Thumbnail     string    `json:"thumbnail,omitempty"`
	ThumbnailName string    `json:"thumbnail_name,omitempty"`
}

func toBillSummaryResponse(sum *services.BillSummary) billSummaryResponse {
	return billSummaryResponse{
		ID:            sum.Bill.ID,
		Address:       sum.Bill.Address,
		DetailAddress: sum.Bill.DetailAddress,
		Recipient:     sum.Bill.Recipient,
		PostalCode:    sum.Bill.PostalCode,
		IsPaid:        sum.Bill.IsPaid,
		CreatedAt:     sum.Bill.CreatedAt,
		TotalPrice:    sum.TotalPrice,
		ItemCount:     sum.ItemCount,
		OrderStatus:   sum.OrderStatus,
		Thumbnail:     sum.Thumbnail,
		ThumbnailName: sum.ThumbnailName,
	}
}

type orderItemResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Amount    int64  `json:"amount"`
	StatusID  int64  `json:"status_id"`
}

func toOrderItemResponses(items []*models.OrderItem) []orderItemResponse {
	out := make([]orderItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, orderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Amount:    it.Amount,
			StatusID:  it.StatusID,
		})
	}
	return out
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in := services.BillInput{
		Address:       req.Address,
		DetailAddress: req.DetailAddress,
		Recipient:     req.Recipient,
		PostalCode:    req.PostalCode,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, services.OrderLine{ProductID: it.ProductID, Amount: it.Amount})
	}

	created, err := s.bills.Checkout(r.Context(), userID, in)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": created.ID})
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	sums, err := s.bills.ListSummaries(r.Context(), userID)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	resp := make([]billSummaryResponse, 0, len(sums))
	for _, sum := range sums {
		resp = append(resp, toBillSummaryResponse(sum))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBillSummary(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	sum, err := s.bills.Summary(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillSummaryResponse(sum))
}

type billDetailResponse struct {
	billSummaryResponse
	Status string              `json:"status"`
	Items  []orderItemResponse `json:"items"`
}

func (s *Server) handleGetBill(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	detail, err := s.bills.Get(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	resp := billDetailResponse{
		billSummaryResponse: billSummaryResponse{
			ID:            detail.Bill.ID,
			Address:       detail.Bill.Address,
			DetailAddress: detail.Bill.DetailAddress,
			Recipient:     detail.Bill.Recipient,
			PostalCode:    detail.Bill.PostalCode,
			IsPaid:        detail.Bill.IsPaid,
			CreatedAt:     detail.Bill.CreatedAt,
			TotalPrice:    detail.TotalPrice,
			ItemCount:     len(detail.Items),
			OrderStatus:   detail.Status,
		},
		Status: detail.Status,
		Items:  toOrderItemResponses(detail.Items),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	if err := s.bills.MarkPaid(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type advanceStatusRequest struct {
	StatusID int64 `json:"status_id"`
}

func (s *Server) handleAdvanceStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req advanceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.bills.AdvanceStatus(r.Context(), chi.URLParam(r, "id"), userID, req.StatusID); err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
