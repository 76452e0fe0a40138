package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/serenity-pos/api/internal/checkout"
	"github.com/serenity-pos/api/internal/enum"
)

// paidSetup creates a cart with one 100.00 service (inclusive 109.00) and
// one cash entry, returning cart, section, and payment IDs.
func paidSetup(t *testing.T, router http.Handler) (cartID, sectionID, paymentID string) {
	t.Helper()
	cartID = createCart(t, router)
	cart := addServiceItem(t, router, cartID, "Facial", "100.00", 1)
	sectionID = cart.Sections[0].ID

	rr := doRequest(t, router, "POST", "/carts/"+cartID+"/sections/"+sectionID+"/payments",
		map[string]string{"methodId": enum.PaymentMethodCash})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add payment: status %d, body %s", rr.Code, rr.Body.String())
	}
	cart, _ = decodeCartResponse(t, rr)
	return cartID, sectionID, cart.Sections[0].Payments[0].ID.String()
}

func TestAddPayment_StartsAtZero(t *testing.T) {
	router := setupCartRouter(false)
	_, _, _ = paidSetup(t, router)
}

func TestAddPayment_InvalidMethod(t *testing.T) {
	router := setupCartRouter(false)
	cartID := createCart(t, router)
	cart := addServiceItem(t, router, cartID, "Facial", "100.00", 1)

	rr := doRequest(t, router, "POST", "/carts/"+cartID+"/sections/"+cart.Sections[0].ID+"/payments",
		map[string]string{"methodId": "CRYPTO"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestAddPayment_SectionNotFound(t *testing.T) {
	router := setupCartRouter(false)
	cartID := createCart(t, router)

	rr := doRequest(t, router, "POST", "/carts/"+cartID+"/sections/no-such-section/payments",
		map[string]string{"methodId": enum.PaymentMethodCash})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestUpdatePayment_ClampReported(t *testing.T) {
	router := setupCartRouter(false)
	cartID, sectionID, paymentID := paidSetup(t, router)

	rr := doRequest(t, router, "PATCH", "/carts/"+cartID+"/sections/"+sectionID+"/payments/"+paymentID,
		map[string]string{"amount": "150.00"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Cart       checkout.Cart              `json:"cart"`
		Adjustment *checkout.AmountAdjustment `json:"adjustment"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Adjustment == nil {
		t.Fatal("expected clamp adjustment in response")
	}
	if !resp.Adjustment.Applied.Equal(decimal.RequireFromString("109")) {
		t.Errorf("Applied = %s, want 109", resp.Adjustment.Applied)
	}
	if !resp.Cart.Sections[0].Payments[0].Amount.Equal(decimal.RequireFromString("109")) {
		t.Errorf("Amount = %s, want 109", resp.Cart.Sections[0].Payments[0].Amount)
	}
}

func TestUpdatePayment_WithinCapacityNoAdjustment(t *testing.T) {
	router := setupCartRouter(false)
	cartID, sectionID, paymentID := paidSetup(t, router)

	rr := doRequest(t, router, "PATCH", "/carts/"+cartID+"/sections/"+sectionID+"/payments/"+paymentID,
		map[string]string{"amount": "50.00"})

	var resp struct {
		Adjustment *checkout.AmountAdjustment `json:"adjustment"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Adjustment != nil {
		t.Errorf("unexpected adjustment: %+v", resp.Adjustment)
	}
}

func TestUpdatePayment_Remark(t *testing.T) {
	router := setupCartRouter(false)
	cartID, sectionID, paymentID := paidSetup(t, router)

	rr := doRequest(t, router, "PATCH", "/carts/"+cartID+"/sections/"+sectionID+"/payments/"+paymentID,
		map[string]string{"remark": "deposit"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Cart checkout.Cart `json:"cart"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got := resp.Cart.Sections[0].Payments[0].Remark; got != "deposit" {
		t.Errorf("Remark = %q, want deposit", got)
	}
}

func TestUpdatePayment_EmptyBodyRejected(t *testing.T) {
	router := setupCartRouter(false)
	cartID, sectionID, paymentID := paidSetup(t, router)

	rr := doRequest(t, router, "PATCH", "/carts/"+cartID+"/sections/"+sectionID+"/payments/"+paymentID,
		map[string]string{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestRemovePayment(t *testing.T) {
	router := setupCartRouter(false)
	cartID, sectionID, paymentID := paidSetup(t, router)

	rr := doRequest(t, router, "DELETE", "/carts/"+cartID+"/sections/"+sectionID+"/payments/"+paymentID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}
	cart, _ := decodeCartResponse(t, rr)
	if len(cart.Sections[0].Payments) != 0 {
		t.Errorf("expected no payments, got %d", len(cart.Sections[0].Payments))
	}

	rr = doRequest(t, router, "DELETE", "/carts/"+cartID+"/sections/"+sectionID+"/payments/"+paymentID, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestUpdatePayment_InvalidPaymentID(t *testing.T) {
	router := setupCartRouter(false)
	cartID, sectionID, _ := paidSetup(t, router)

	rr := doRequest(t, router, "PATCH", "/carts/"+cartID+"/sections/"+sectionID+"/payments/not-a-uuid",
		map[string]string{"amount": "10"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}

	rr = doRequest(t, router, "PATCH", "/carts/"+cartID+"/sections/"+sectionID+"/payments/"+uuid.NewString(),
		map[string]string{"amount": "10"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
