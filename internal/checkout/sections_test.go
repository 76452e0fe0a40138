package checkout

import (
	"testing"

	"github.com/serenity-pos/api/internal/enum"
)

func TestSplitTaxIdentity(t *testing.T) {
	gst, inclusive := SplitTax(dec("128.00"), dec("9"))

	if !gst.Equal(dec("11.52")) {
		t.Errorf("gst = %s, want 11.52", gst)
	}
	if !inclusive.Equal(dec("139.52")) {
		t.Errorf("inclusive = %s, want 139.52", inclusive)
	}
}

func TestServicesAndProductsShareMandatorySection(t *testing.T) {
	cart := cartWith(t,
		serviceSelection("Facial", "100.00", 1),
		Selection{Kind: enum.ItemKindProduct, Name: "Serum", Price: dec("28.00"), Quantity: 1},
		Selection{Kind: enum.ItemKindPackage, Name: "Glow Package", Price: dec("320.00")},
	)

	if len(cart.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(cart.Sections))
	}
	main := cart.Sections[0]
	if main.ID != enum.SectionServicesProducts || !main.Required {
		t.Fatalf("first section = %q required=%v, want mandatory services-products", main.ID, main.Required)
	}
	// 100 + 28 = 128.00 exclusive at 9% GST.
	if !main.ExclusiveAmount.Equal(dec("128.00")) {
		t.Errorf("ExclusiveAmount = %s, want 128.00", main.ExclusiveAmount)
	}
	if !main.InclusiveAmount.Equal(dec("139.52")) {
		t.Errorf("InclusiveAmount = %s, want 139.52", main.InclusiveAmount)
	}
	if cart.Sections[1].Required {
		t.Errorf("package section must not be required")
	}
}

func TestCarePackageTransferNotTaxed(t *testing.T) {
	cart := cartWith(t, Selection{Kind: enum.ItemKindMCPTransfer, Name: "Care Package Transfer", Price: dec("200.00")})

	s := cart.Sections[0]
	if !s.GSTRatePercent.IsZero() {
		t.Errorf("GSTRatePercent = %s, want 0", s.GSTRatePercent)
	}
	if !s.InclusiveAmount.Equal(dec("200.00")) {
		t.Errorf("InclusiveAmount = %s, want 200.00", s.InclusiveAmount)
	}
}

func TestTransferSectionAutoSettles(t *testing.T) {
	cart := cartWith(t, Selection{Kind: enum.ItemKindMVTransfer, Name: "Voucher Transfer", Price: dec("100.00")})

	s := cart.Sections[0]
	if len(s.Payments) != 1 {
		t.Fatalf("expected auto settlement entry, got %d payments", len(s.Payments))
	}
	p := s.Payments[0]
	if !p.Auto || p.MethodID != enum.PaymentMethodTransfer {
		t.Errorf("settlement entry = %+v, want auto TRANSFER", p)
	}
	// 100.00 plus 9% GST.
	if !p.Amount.Equal(dec("109.00")) {
		t.Errorf("Amount = %s, want 109.00", p.Amount)
	}
	if !s.RemainingAmount().IsZero() {
		t.Errorf("RemainingAmount = %s, want 0", s.RemainingAmount())
	}
}

func TestAutoSettlementTracksTotalUntilEdited(t *testing.T) {
	cart := cartWith(t, Selection{Kind: enum.ItemKindMVTransfer, Name: "Voucher Transfer", Price: dec("100.00")})
	lineID := cart.Items[0].ID

	cart, err := cart.SetDiscountRate(lineID, dec("0.5"))
	if err != nil {
		t.Fatalf("SetDiscountRate: %v", err)
	}
	s := cart.Sections[0]
	// 50.00 plus 9% GST; the untouched auto entry follows.
	if !s.Payments[0].Amount.Equal(dec("54.50")) {
		t.Errorf("auto Amount = %s, want 54.50", s.Payments[0].Amount)
	}

	cart, _, err = cart.SetPaymentAmount(s.ID, s.Payments[0].ID, dec("30.00"))
	if err != nil {
		t.Fatalf("SetPaymentAmount: %v", err)
	}
	cart, err = cart.SetDiscountRate(lineID, dec("0.2"))
	if err != nil {
		t.Fatalf("SetDiscountRate: %v", err)
	}
	// Edited entries stop tracking the section total.
	if got := cart.Sections[0].Payments[0].Amount; !got.Equal(dec("30.00")) {
		t.Errorf("edited Amount = %s, want 30.00", got)
	}
}

func TestPaymentsCarryOverAndReclampOnRepricing(t *testing.T) {
	cart := cartWith(t, serviceSelection("Facial", "100.00", 1))
	sectionID := cart.Sections[0].ID
	lineID := cart.Items[0].ID

	cart, err := cart.AddPayment(sectionID, enum.PaymentMethodCash)
	if err != nil {
		t.Fatalf("AddPayment: %v", err)
	}
	paymentID := cart.Sections[0].Payments[0].ID
	cart, _, err = cart.SetPaymentAmount(sectionID, paymentID, dec("109.00"))
	if err != nil {
		t.Fatalf("SetPaymentAmount: %v", err)
	}

	// Halving the price must clamp the carried-over payment to the new
	// inclusive amount 54.50.
	cart, err = cart.SetDiscountRate(lineID, dec("0.5"))
	if err != nil {
		t.Fatalf("SetDiscountRate: %v", err)
	}
	s := cart.Sections[0]
	if !s.Payments[0].Amount.Equal(dec("54.50")) {
		t.Errorf("carried Amount = %s, want 54.50", s.Payments[0].Amount)
	}
	if s.PaidAmount().GreaterThan(s.InclusiveAmount) {
		t.Errorf("paid %s exceeds inclusive %s", s.PaidAmount(), s.InclusiveAmount)
	}
}
