package checkout

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/serenity-pos/api/internal/enum"
)

// SplitTax converts a GST-exclusive amount into its GST and inclusive
// amounts. Both derivation steps round to cents.
func SplitTax(exclusive, gstRatePercent decimal.Decimal) (gst, inclusive decimal.Decimal) {
	exclusive = round2(exclusive)
	gst = round2(exclusive.Mul(gstRatePercent).Div(hundred))
	return gst, exclusive.Add(gst)
}

// deriveSections rebuilds the section list from the current lines. Services
// and products combine into the single mandatory section; every package,
// voucher, and transfer line gets its own optional section. Payments carry
// over from the previous sections by section ID and are re-clamped so no
// section's paid total exceeds its inclusive amount.
func deriveSections(items []LineItem, prev []Section, rates Rates) []Section {
	prevPayments := make(map[string][]PaymentEntry, len(prev))
	for _, s := range prev {
		prevPayments[s.ID] = s.Payments
	}

	var sections []Section
	var combined []LineItem
	for _, it := range items {
		switch it.Kind {
		case enum.ItemKindService, enum.ItemKindProduct:
			combined = append(combined, it)
		case enum.ItemKindPackage:
			sections = append(sections, singleLineSection(it, "package", rates.GSTRatePercent, false))
		case enum.ItemKindVoucher:
			sections = append(sections, singleLineSection(it, "voucher", rates.GSTRatePercent, false))
		case enum.ItemKindMCPTransfer:
			// Care-package transfers are not taxable.
			sections = append(sections, singleLineSection(it, "transfer-mcp", decimal.Zero, true))
		case enum.ItemKindMVTransfer:
			sections = append(sections, singleLineSection(it, "transfer-mv", rates.GSTRatePercent, true))
		}
	}
	if len(combined) > 0 {
		exclusive := decimal.Zero
		lineIDs := make([]uuid.UUID, 0, len(combined))
		for _, it := range combined {
			exclusive = exclusive.Add(it.LineTotal)
			lineIDs = append(lineIDs, it.ID)
		}
		exclusive = round2(exclusive)
		gst, inclusive := SplitTax(exclusive, rates.GSTRatePercent)
		sections = append([]Section{{
			ID:              enum.SectionServicesProducts,
			Title:           "Services & Products",
			Required:        true,
			LineIDs:         lineIDs,
			ExclusiveAmount: exclusive,
			GSTRatePercent:  rates.GSTRatePercent,
			GSTAmount:       gst,
			InclusiveAmount: inclusive,
		}}, sections...)
	}

	for i := range sections {
		sections[i].Payments = settlePayments(sections[i], prevPayments[sections[i].ID])
	}
	return sections
}

func singleLineSection(it LineItem, prefix string, gstRate decimal.Decimal, transfer bool) Section {
	exclusive := round2(it.LineTotal)
	gst, inclusive := SplitTax(exclusive, gstRate)
	s := Section{
		ID:              fmt.Sprintf("%s-%s", prefix, it.ID),
		Title:           it.Name,
		LineIDs:         []uuid.UUID{it.ID},
		ExclusiveAmount: exclusive,
		GSTRatePercent:  gstRate,
		GSTAmount:       gst,
		InclusiveAmount: inclusive,
	}
	if transfer {
		s.Payments = nil // settlePayments auto-generates the settlement entry
	}
	return s
}

// settlePayments carries a section's previous payment entries forward,
// clamping amounts in order so the running total never exceeds the
// inclusive amount. Transfer sections with no entries settle themselves
// with one auto-generated entry; a sole untouched auto entry tracks the
// inclusive amount as it changes.
func settlePayments(s Section, prev []PaymentEntry) []PaymentEntry {
	payments := append([]PaymentEntry(nil), prev...)

	if isTransferSection(s.ID) {
		if len(payments) == 0 {
			return []PaymentEntry{{
				ID:       uuid.New(),
				MethodID: enum.PaymentMethodTransfer,
				Amount:   s.InclusiveAmount,
				Remark:   "balance transfer settlement",
				Auto:     true,
			}}
		}
		if len(payments) == 1 && payments[0].Auto {
			payments[0].Amount = s.InclusiveAmount
			return payments
		}
	}

	paid := decimal.Zero
	for i := range payments {
		capacity := s.InclusiveAmount.Sub(paid)
		if capacity.IsNegative() {
			capacity = decimal.Zero
		}
		if payments[i].Amount.GreaterThan(capacity) {
			payments[i].Amount = capacity
		}
		paid = paid.Add(payments[i].Amount)
	}
	return payments
}

func isTransferSection(sectionID string) bool {
	return strings.HasPrefix(sectionID, "transfer-")
}
