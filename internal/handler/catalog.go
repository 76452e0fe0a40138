package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/serenity-pos/api/internal/catalog"
)

// CatalogHandler serves the read-only session configuration: employee
// directory, payment methods, and the active rates.
type CatalogHandler struct {
	snapshot catalog.Snapshot
	degraded bool
}

func NewCatalogHandler(snapshot catalog.Snapshot, degraded bool) *CatalogHandler {
	return &CatalogHandler{snapshot: snapshot, degraded: degraded}
}

// RegisterRoutes registers catalog endpoints on the given Chi router.
// Expected to be mounted at /catalog
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/employees", h.Employees)
	r.Get("/payment-methods", h.PaymentMethods)
	r.Get("/rates", h.Rates)
}

// Employees handles GET /catalog/employees.
func (h *CatalogHandler) Employees(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.snapshot.Employees)
}

// PaymentMethods handles GET /catalog/payment-methods.
func (h *CatalogHandler) PaymentMethods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.snapshot.PaymentMethods)
}

// Rates handles GET /catalog/rates.
func (h *CatalogHandler) Rates(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"gstRatePercent":    h.snapshot.GSTRatePercent,
		"commissionByKind":  h.snapshot.CommissionByKind,
		"defaultCommission": h.snapshot.DefaultCommission,
	}
	if h.degraded {
		resp["configWarning"] = catalog.ErrUnavailable.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}
