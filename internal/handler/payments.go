package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/serenity-pos/api/internal/checkout"
)

// --- Request / Response types ---

type addPaymentRequest struct {
	MethodID string `json:"methodId"`
}

type updatePaymentRequest struct {
	Amount *string `json:"amount"`
	Remark *string `json:"remark"`
}

// paymentUpdateResponse carries the clamp outcome alongside the snapshot.
// Adjustment is informational; a clamped amount is applied, not rejected.
type paymentUpdateResponse struct {
	Cart       checkout.Cart              `json:"cart"`
	Totals     checkout.Totals            `json:"totals"`
	Adjustment *checkout.AmountAdjustment `json:"adjustment,omitempty"`
}

// --- Handlers ---

// AddPayment handles POST /carts/{cid}/sections/{sid}/payments.
func (h *CartHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	cartID, sectionID, ok := cartSectionIDs(w, r)
	if !ok {
		return
	}

	var req addPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.MethodID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "methodId is required"})
		return
	}
	if !h.isValidPaymentMethod(req.MethodID) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid methodId"})
		return
	}

	cart, err := h.store.Update(cartID, func(c checkout.Cart) (checkout.Cart, error) {
		return c.AddPayment(sectionID, req.MethodID)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(cart)
	writeJSON(w, http.StatusCreated, cartResponse{Cart: cart, Totals: cart.Totals()})
}

// UpdatePayment handles PATCH /carts/{cid}/sections/{sid}/payments/{pid}.
// An amount edit is clamped to the section's remaining capacity and the
// adjustment, if any, is reported in the response.
func (h *CartHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	cartID, sectionID, ok := cartSectionIDs(w, r)
	if !ok {
		return
	}
	paymentID, err := uuid.Parse(chi.URLParam(r, "pid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment ID"})
		return
	}

	var req updatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Amount == nil && req.Remark == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount or remark is required"})
		return
	}

	var adjustment *checkout.AmountAdjustment
	cart, err := h.store.Update(cartID, func(c checkout.Cart) (checkout.Cart, error) {
		var err error
		if req.Remark != nil {
			c, err = c.SetPaymentRemark(sectionID, paymentID, *req.Remark)
			if err != nil {
				return c, err
			}
		}
		if req.Amount != nil {
			var adj checkout.AmountAdjustment
			c, adj, err = c.SetPaymentAmount(sectionID, paymentID, checkout.CoerceAmount(*req.Amount))
			if err != nil {
				return c, err
			}
			if adj.Adjusted {
				adjustment = &adj
			}
		}
		return c, nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(cart)
	writeJSON(w, http.StatusOK, paymentUpdateResponse{
		Cart:       cart,
		Totals:     cart.Totals(),
		Adjustment: adjustment,
	})
}

// RemovePayment handles DELETE /carts/{cid}/sections/{sid}/payments/{pid}.
func (h *CartHandler) RemovePayment(w http.ResponseWriter, r *http.Request) {
	cartID, sectionID, ok := cartSectionIDs(w, r)
	if !ok {
		return
	}
	paymentID, err := uuid.Parse(chi.URLParam(r, "pid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment ID"})
		return
	}

	cart, err := h.store.Update(cartID, func(c checkout.Cart) (checkout.Cart, error) {
		return c.RemovePayment(sectionID, paymentID)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(cart)
	writeJSON(w, http.StatusOK, cartResponse{Cart: cart, Totals: cart.Totals()})
}

// --- Helpers ---

func cartSectionIDs(w http.ResponseWriter, r *http.Request) (cartID uuid.UUID, sectionID string, ok bool) {
	cartID, err := uuid.Parse(chi.URLParam(r, "cid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid cart ID"})
		return uuid.Nil, "", false
	}
	sectionID = chi.URLParam(r, "sid")
	if sectionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid section ID"})
		return uuid.Nil, "", false
	}
	return cartID, sectionID, true
}

// isValidPaymentMethod checks the method against the catalog snapshot.
func (h *CartHandler) isValidPaymentMethod(methodID string) bool {
	for _, m := range h.snapshot.PaymentMethods {
		if m.Code == methodID {
			return true
		}
	}
	return false
}
