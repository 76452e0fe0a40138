package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AmountAdjustment reports the clamping outcome of a payment amount edit.
// Adjusted is true when the applied amount is less than requested; callers
// surface it as a warning, it never blocks the operation.
type AmountAdjustment struct {
	Adjusted   bool            `json:"adjusted"`
	Requested  decimal.Decimal `json:"requested"`
	Applied    decimal.Decimal `json:"applied"`
	MaxAllowed decimal.Decimal `json:"maxAllowed"`
}

// AddPayment appends a zero-amount payment entry to a section.
func (c Cart) AddPayment(sectionID, methodID string) (Cart, error) {
	next := c.clone()
	sec := next.section(sectionID)
	if sec == nil {
		return c, ErrSectionNotFound
	}
	sec.Payments = append(sec.Payments, PaymentEntry{
		ID:       uuid.New(),
		MethodID: methodID,
		Amount:   decimal.Zero,
	})
	return next.recompute(), nil
}

// SetPaymentAmount sets an entry's amount, clamped so the section's paid
// total never exceeds its inclusive amount. Negative requests are coerced
// to zero. An entry set to zero stays in place; entries are only removed
// by an explicit RemovePayment.
func (c Cart) SetPaymentAmount(sectionID string, paymentID uuid.UUID, requested decimal.Decimal) (Cart, AmountAdjustment, error) {
	requested = round2(nonNegative(requested))

	next := c.clone()
	sec := next.section(sectionID)
	if sec == nil {
		return c, AmountAdjustment{}, ErrSectionNotFound
	}
	var entry *PaymentEntry
	otherTotal := decimal.Zero
	for i := range sec.Payments {
		if sec.Payments[i].ID == paymentID {
			entry = &sec.Payments[i]
			continue
		}
		otherTotal = otherTotal.Add(sec.Payments[i].Amount)
	}
	if entry == nil {
		return c, AmountAdjustment{}, ErrPaymentNotFound
	}

	maxAllowed := sec.InclusiveAmount.Sub(otherTotal)
	if maxAllowed.IsNegative() {
		maxAllowed = decimal.Zero
	}
	applied := decimal.Min(requested, maxAllowed)
	entry.Amount = applied
	entry.Auto = false

	adj := AmountAdjustment{
		Adjusted:   applied.LessThan(requested),
		Requested:  requested,
		Applied:    applied,
		MaxAllowed: maxAllowed,
	}
	return next.recompute(), adj, nil
}

// SetPaymentRemark sets an entry's free-text remark. No validation.
func (c Cart) SetPaymentRemark(sectionID string, paymentID uuid.UUID, remark string) (Cart, error) {
	next := c.clone()
	sec := next.section(sectionID)
	if sec == nil {
		return c, ErrSectionNotFound
	}
	for i := range sec.Payments {
		if sec.Payments[i].ID == paymentID {
			sec.Payments[i].Remark = remark
			sec.Payments[i].Auto = false
			return next, nil
		}
	}
	return c, ErrPaymentNotFound
}

// RemovePayment deletes a payment entry.
func (c Cart) RemovePayment(sectionID string, paymentID uuid.UUID) (Cart, error) {
	next := c.clone()
	sec := next.section(sectionID)
	if sec == nil {
		return c, ErrSectionNotFound
	}
	for i := range sec.Payments {
		if sec.Payments[i].ID == paymentID {
			sec.Payments = append(sec.Payments[:i], sec.Payments[i+1:]...)
			return next.recompute(), nil
		}
	}
	return c, ErrPaymentNotFound
}

// Remaining returns the unpaid part of a section's inclusive amount.
func (c Cart) Remaining(sectionID string) (decimal.Decimal, error) {
	for _, s := range c.Sections {
		if s.ID == sectionID {
			return s.RemainingAmount(), nil
		}
	}
	return decimal.Zero, ErrSectionNotFound
}
