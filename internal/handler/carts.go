package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/serenity-pos/api/internal/catalog"
	"github.com/serenity-pos/api/internal/checkout"
	"github.com/serenity-pos/api/internal/session"
	"github.com/serenity-pos/api/internal/ws"
)

// CartHandler handles cart lifecycle, line item, assignment, and payment
// endpoints. Every successful mutation broadcasts the new snapshot to the
// cart's websocket room.
type CartHandler struct {
	store    *session.Store
	snapshot catalog.Snapshot
	degraded bool
	hub      *ws.Hub
}

// NewCartHandler creates a new CartHandler. degraded marks that the
// catalog loaded with fallback defaults; it is surfaced on cart creation.
// hub may be nil in tests.
func NewCartHandler(store *session.Store, snapshot catalog.Snapshot, degraded bool, hub *ws.Hub) *CartHandler {
	return &CartHandler{store: store, snapshot: snapshot, degraded: degraded, hub: hub}
}

// RegisterRoutes registers cart endpoints on the given Chi router.
// Expected to be mounted at /carts
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Route("/{cid}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Delete)

		r.Post("/items", h.AddItem)
		r.Delete("/items/{lid}", h.RemoveItem)
		r.Patch("/items/{lid}/quantity", h.SetQuantity)
		r.Patch("/items/{lid}/custom-price", h.SetCustomPrice)
		r.Patch("/items/{lid}/discount", h.SetDiscount)

		r.Post("/items/{lid}/assignments", h.AddAssignment)
		r.Patch("/items/{lid}/assignments/{aid}", h.UpdateAssignment)
		r.Delete("/items/{lid}/assignments/{aid}", h.RemoveAssignment)

		r.Post("/sections/{sid}/payments", h.AddPayment)
		r.Patch("/sections/{sid}/payments/{pid}", h.UpdatePayment)
		r.Delete("/sections/{sid}/payments/{pid}", h.RemovePayment)

		r.Post("/validate", h.Validate)
		r.Post("/finalize", h.Finalize)
	})
}

// --- Request / Response types ---

type cartResponse struct {
	Cart   checkout.Cart   `json:"cart"`
	Totals checkout.Totals `json:"totals"`
}

type addItemRequest struct {
	Kind     string    `json:"kind"`
	RefID    uuid.UUID `json:"refId"`
	Name     string    `json:"name"`
	Price    string    `json:"price"`
	Quantity int32     `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int32 `json:"quantity"`
}

type setCustomPriceRequest struct {
	Price string `json:"price"`
}

type setDiscountRequest struct {
	// Rate is the fraction off in [0, 1]. PercentOff is the same value as
	// a percentage; call-sites holding percent input use it and the
	// conversion happens here, at the boundary.
	Rate       string `json:"rate"`
	PercentOff string `json:"percentOff"`
}

type validateRequest struct {
	RequiredFields []checkout.RequiredField `json:"requiredFields"`
}

// --- Handlers ---

// Create handles POST /carts.
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	cart := h.store.Create(h.snapshot.Rates())

	resp := map[string]interface{}{
		"cart":   cart,
		"totals": cart.Totals(),
	}
	if h.degraded {
		resp["configWarning"] = catalog.ErrUnavailable.Error()
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /carts/{cid}.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cartID, err := uuid.Parse(chi.URLParam(r, "cid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid cart ID"})
		return
	}

	cart, err := h.store.Get(cartID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Cart: cart, Totals: cart.Totals()})
}

// Delete handles DELETE /carts/{cid}.
func (h *CartHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cartID, err := uuid.Parse(chi.URLParam(r, "cid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid cart ID"})
		return
	}

	if err := h.store.Delete(cartID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddItem handles POST /carts/{cid}/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cartID, err := uuid.Parse(chi.URLParam(r, "cid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid cart ID"})
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	cart, err := h.store.Update(cartID, func(c checkout.Cart) (checkout.Cart, error) {
		return c.AddItem(checkout.Selection{
			Kind:     req.Kind,
			RefID:    req.RefID,
			Name:     req.Name,
			Price:    checkout.CoerceAmount(req.Price),
			Quantity: req.Quantity,
		})
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(cart)
	writeJSON(w, http.StatusCreated, cartResponse{Cart: cart, Totals: cart.Totals()})
}

// RemoveItem handles DELETE /carts/{cid}/items/{lid}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID, lineID, ok := cartLineIDs(w, r)
	if !ok {
		return
	}

	cart, err := h.store.Update(cartID, func(c checkout.Cart) (checkout.Cart, error) {
		return c.RemoveItem(lineID)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(cart)
	writeJSON(w, http.StatusOK, cartResponse{Cart: cart, Totals: cart.Totals()})
}

// SetQuantity handles PATCH /carts/{cid}/items/{lid}/quantity.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	cartID, lineID, ok := cartLineIDs(w, r)
	if !ok {
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	cart, err := h.store.Update(cartID, func(c checkout.Cart) (checkout.Cart, error) {
		return c.SetQuantity(lineID, req.Quantity)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(cart)
	writeJSON(w, http.StatusOK, cartResponse{Cart: cart, Totals: cart.Totals()})
}

// SetCustomPrice handles PATCH /carts/{cid}/items/{lid}/custom-price.
func (h *CartHandler) SetCustomPrice(w http.ResponseWriter, r *http.Request) {
	cartID, lineID, ok := cartLineIDs(w, r)
	if !ok {
		return
	}

	var req setCustomPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	cart, err := h.store.Update(cartID, func(c checkout.Cart) (checkout.Cart, error) {
		return c.SetCustomPrice(lineID, checkout.CoerceAmount(req.Price))
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(cart)
	writeJSON(w, http.StatusOK, cartResponse{Cart: cart, Totals: cart.Totals()})
}

// SetDiscount handles PATCH /carts/{cid}/items/{lid}/discount.
func (h *CartHandler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	cartID, lineID, ok := cartLineIDs(w, r)
	if !ok {
		return
	}

	var req setDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	rate := checkout.CoerceAmount(req.Rate)
	if req.PercentOff != "" {
		rate = checkout.PercentOff(checkout.CoerceAmount(req.PercentOff))
	}

	cart, err := h.store.Update(cartID, func(c checkout.Cart) (checkout.Cart, error) {
		return c.SetDiscountRate(lineID, rate)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(cart)
	writeJSON(w, http.StatusOK, cartResponse{Cart: cart, Totals: cart.Totals()})
}

// Validate handles POST /carts/{cid}/validate.
func (h *CartHandler) Validate(w http.ResponseWriter, r *http.Request) {
	cartID, err := uuid.Parse(chi.URLParam(r, "cid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid cart ID"})
		return
	}

	req, ok := decodeValidateRequest(w, r)
	if !ok {
		return
	}

	cart, err := h.store.Get(cartID)
	if err != nil {
		writeError(w, err)
		return
	}

	violations := cart.Validate(req.RequiredFields)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":      len(violations) == 0,
		"violations": violations,
	})
}

// Finalize handles POST /carts/{cid}/finalize.
func (h *CartHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	cartID, err := uuid.Parse(chi.URLParam(r, "cid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid cart ID"})
		return
	}

	req, ok := decodeValidateRequest(w, r)
	if !ok {
		return
	}

	cart, err := h.store.Get(cartID)
	if err != nil {
		writeError(w, err)
		return
	}

	payload, violations := cart.Finalize(req.RequiredFields)
	if len(violations) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"violations": violations,
		})
		return
	}

	h.broadcastEvent(cart, "cart.finalized")
	writeJSON(w, http.StatusOK, payload)
}

// --- Helpers ---

func cartLineIDs(w http.ResponseWriter, r *http.Request) (cartID, lineID uuid.UUID, ok bool) {
	cartID, err := uuid.Parse(chi.URLParam(r, "cid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid cart ID"})
		return uuid.Nil, uuid.Nil, false
	}
	lineID, err = uuid.Parse(chi.URLParam(r, "lid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid line item ID"})
		return uuid.Nil, uuid.Nil, false
	}
	return cartID, lineID, true
}

// decodeValidateRequest tolerates an empty body; validate and finalize can
// be called without caller-supplied required fields.
func decodeValidateRequest(w http.ResponseWriter, r *http.Request) (validateRequest, bool) {
	var req validateRequest
	if r.Body == nil || r.ContentLength == 0 {
		return req, true
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return req, false
	}
	return req, true
}

func (h *CartHandler) broadcast(cart checkout.Cart) {
	h.broadcastEvent(cart, "cart.updated")
}

func (h *CartHandler) broadcastEvent(cart checkout.Cart, eventType string) {
	if h.hub == nil {
		return
	}
	payload, err := json.Marshal(cartResponse{Cart: cart, Totals: cart.Totals()})
	if err != nil {
		log.Printf("ERROR: marshal cart snapshot: %v", err)
		return
	}
	h.hub.BroadcastToCart(cart.ID, ws.Event{Type: eventType, Payload: payload})
}

// writeError maps engine and session errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "cart not found"})
	case errors.Is(err, checkout.ErrItemNotFound),
		errors.Is(err, checkout.ErrSectionNotFound),
		errors.Is(err, checkout.ErrPaymentNotFound),
		errors.Is(err, checkout.ErrAssignmentNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, checkout.ErrUnknownKind):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: cart operation: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: encode response: %v", err)
	}
}
