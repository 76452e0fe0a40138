package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/serenity-pos/api/internal/checkout"
)

// --- Request types ---

type addAssignmentRequest struct {
	EmployeeID uuid.UUID `json:"employeeId"`
	// EmployeeName is only honored when the employee directory has no
	// entry for the ID, e.g. when the catalog loaded degraded.
	EmployeeName string `json:"employeeName"`
}

type updateAssignmentRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// --- Handlers ---

// AddAssignment handles POST /carts/{cid}/items/{lid}/assignments.
func (h *CartHandler) AddAssignment(w http.ResponseWriter, r *http.Request) {
	cartID, lineID, ok := cartLineIDs(w, r)
	if !ok {
		return
	}

	var req addAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.EmployeeID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "employeeId is required"})
		return
	}

	name := req.EmployeeName
	if e, found := h.snapshot.Employee(req.EmployeeID); found {
		name = e.Name
	} else if len(h.snapshot.Employees) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown employee ID"})
		return
	}

	cart, err := h.store.Update(cartID, func(c checkout.Cart) (checkout.Cart, error) {
		return c.AddAssignment(lineID, req.EmployeeID, name)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(cart)
	writeJSON(w, http.StatusCreated, cartResponse{Cart: cart, Totals: cart.Totals()})
}

// UpdateAssignment handles PATCH /carts/{cid}/items/{lid}/assignments/{aid}.
// The field selects which attribute changes: performanceRatePercent,
// commissionRatePercent, or remarks.
func (h *CartHandler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	cartID, lineID, ok := cartLineIDs(w, r)
	if !ok {
		return
	}
	assignmentID, err := uuid.Parse(chi.URLParam(r, "aid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid assignment ID"})
		return
	}

	var req updateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	var cart checkout.Cart
	switch req.Field {
	case "performanceRatePercent":
		cart, err = h.store.Update(cartID, func(c checkout.Cart) (checkout.Cart, error) {
			return c.SetPerformanceRate(lineID, assignmentID, checkout.CoerceAmount(req.Value))
		})
	case "commissionRatePercent":
		cart, err = h.store.Update(cartID, func(c checkout.Cart) (checkout.Cart, error) {
			return c.SetCommissionRate(lineID, assignmentID, checkout.CoerceAmount(req.Value))
		})
	case "remarks":
		cart, err = h.store.Update(cartID, func(c checkout.Cart) (checkout.Cart, error) {
			return c.SetAssignmentRemarks(lineID, assignmentID, req.Value)
		})
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid field"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(cart)
	writeJSON(w, http.StatusOK, cartResponse{Cart: cart, Totals: cart.Totals()})
}

// RemoveAssignment handles DELETE /carts/{cid}/items/{lid}/assignments/{aid}.
func (h *CartHandler) RemoveAssignment(w http.ResponseWriter, r *http.Request) {
	cartID, lineID, ok := cartLineIDs(w, r)
	if !ok {
		return
	}
	assignmentID, err := uuid.Parse(chi.URLParam(r, "aid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid assignment ID"})
		return
	}

	cart, err := h.store.Update(cartID, func(c checkout.Cart) (checkout.Cart, error) {
		return c.RemoveAssignment(lineID, assignmentID)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(cart)
	writeJSON(w, http.StatusOK, cartResponse{Cart: cart, Totals: cart.Totals()})
}
