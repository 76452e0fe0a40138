package checkout

import (
	"testing"

	"github.com/serenity-pos/api/internal/enum"
)

func TestDiscountPricing(t *testing.T) {
	cart := cartWith(t, serviceSelection("Facial", "100.00", 2))
	id := cart.Items[0].ID

	cart, err := cart.SetDiscountRate(id, dec("0.2"))
	if err != nil {
		t.Fatalf("SetDiscountRate: %v", err)
	}

	// 100 x (1 - 0.2) = 80.00 per unit, 160.00 for two.
	it := cart.Items[0]
	if !it.FinalUnitPrice.Equal(dec("80.00")) {
		t.Errorf("FinalUnitPrice = %s, want 80.00", it.FinalUnitPrice)
	}
	if !it.LineTotal.Equal(dec("160.00")) {
		t.Errorf("LineTotal = %s, want 160.00", it.LineTotal)
	}
}

func TestCustomPriceZeroesDiscount(t *testing.T) {
	cart := cartWith(t, serviceSelection("Facial", "100.00", 1))
	id := cart.Items[0].ID

	cart, _ = cart.SetDiscountRate(id, dec("0.5"))
	cart, err := cart.SetCustomPrice(id, dec("75.00"))
	if err != nil {
		t.Fatalf("SetCustomPrice: %v", err)
	}

	it := cart.Items[0]
	if !it.DiscountRate.IsZero() {
		t.Errorf("DiscountRate = %s, want 0 after custom price", it.DiscountRate)
	}
	if !it.FinalUnitPrice.Equal(dec("75.00")) {
		t.Errorf("FinalUnitPrice = %s, want 75.00", it.FinalUnitPrice)
	}
}

func TestDiscountZeroesCustomPrice(t *testing.T) {
	cart := cartWith(t, serviceSelection("Facial", "100.00", 1))
	id := cart.Items[0].ID

	cart, _ = cart.SetCustomPrice(id, dec("75.00"))
	cart, err := cart.SetDiscountRate(id, dec("0.1"))
	if err != nil {
		t.Fatalf("SetDiscountRate: %v", err)
	}

	it := cart.Items[0]
	if !it.CustomPrice.IsZero() {
		t.Errorf("CustomPrice = %s, want 0 after discount", it.CustomPrice)
	}
	if !it.FinalUnitPrice.Equal(dec("90.00")) {
		t.Errorf("FinalUnitPrice = %s, want 90.00", it.FinalUnitPrice)
	}
}

func TestQuantityClampedToOne(t *testing.T) {
	cart := cartWith(t, serviceSelection("Facial", "100.00", 1))
	id := cart.Items[0].ID

	cart, err := cart.SetQuantity(id, -5)
	if err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if cart.Items[0].Quantity != 1 {
		t.Errorf("Quantity = %d, want 1", cart.Items[0].Quantity)
	}
}

func TestNegativeCustomPriceCoerced(t *testing.T) {
	cart := cartWith(t, serviceSelection("Facial", "100.00", 1))
	id := cart.Items[0].ID

	cart, err := cart.SetCustomPrice(id, dec("-20"))
	if err != nil {
		t.Fatalf("SetCustomPrice: %v", err)
	}
	// Coerced to zero means the original price stays in effect.
	if !cart.Items[0].FinalUnitPrice.Equal(dec("100.00")) {
		t.Errorf("FinalUnitPrice = %s, want 100.00", cart.Items[0].FinalUnitPrice)
	}
}

func TestDiscountRateClampedToFraction(t *testing.T) {
	cart := cartWith(t, serviceSelection("Facial", "100.00", 1))
	id := cart.Items[0].ID

	cart, err := cart.SetDiscountRate(id, dec("1.5"))
	if err != nil {
		t.Fatalf("SetDiscountRate: %v", err)
	}
	if !cart.Items[0].FinalUnitPrice.IsZero() {
		t.Errorf("FinalUnitPrice = %s, want 0.00 at full discount", cart.Items[0].FinalUnitPrice)
	}
}

func TestPackagePricingPinned(t *testing.T) {
	cart := cartWith(t, Selection{
		Kind:     enum.ItemKindPackage,
		Name:     "Glow Package",
		Price:    dec("320.00"),
		Quantity: 4, // ignored for packages
	})
	id := cart.Items[0].ID

	cart, _ = cart.SetQuantity(id, 3)
	cart, _ = cart.SetCustomPrice(id, dec("250.00"))
	cart, _ = cart.SetDiscountRate(id, dec("0.5"))

	it := cart.Items[0]
	if it.Quantity != 1 {
		t.Errorf("Quantity = %d, want 1 for package", it.Quantity)
	}
	if !it.FinalUnitPrice.Equal(dec("320.00")) {
		t.Errorf("FinalUnitPrice = %s, want original 320.00", it.FinalUnitPrice)
	}
	if !it.LineTotal.Equal(dec("320.00")) {
		t.Errorf("LineTotal = %s, want 320.00", it.LineTotal)
	}
}

func TestRepriceIdempotent(t *testing.T) {
	cart := cartWith(t, serviceSelection("Facial", "99.99", 3))
	id := cart.Items[0].ID

	once, err := cart.SetDiscountRate(id, dec("0.15"))
	if err != nil {
		t.Fatalf("SetDiscountRate: %v", err)
	}
	twice, err := once.SetDiscountRate(id, dec("0.15"))
	if err != nil {
		t.Fatalf("SetDiscountRate: %v", err)
	}
	if !once.Items[0].LineTotal.Equal(twice.Items[0].LineTotal) {
		t.Errorf("recompute not idempotent: %s vs %s", once.Items[0].LineTotal, twice.Items[0].LineTotal)
	}
}

func TestCoerceAmount(t *testing.T) {
	if got := CoerceAmount("12.345"); !got.Equal(dec("12.345")) {
		t.Errorf("CoerceAmount(12.345) = %s", got)
	}
	if got := CoerceAmount("not-a-number"); !got.IsZero() {
		t.Errorf("CoerceAmount(not-a-number) = %s, want 0", got)
	}
	if got := CoerceAmount("-3"); !got.IsZero() {
		t.Errorf("CoerceAmount(-3) = %s, want 0", got)
	}
}

func TestPercentOff(t *testing.T) {
	if got := PercentOff(dec("20")); !got.Equal(dec("0.2")) {
		t.Errorf("PercentOff(20) = %s, want 0.2", got)
	}
	if got := PercentOff(dec("150")); !got.Equal(dec("1")) {
		t.Errorf("PercentOff(150) = %s, want 1", got)
	}
}
