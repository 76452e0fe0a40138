package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/serenity-pos/api/internal/enum"
)

// SetQuantity sets a line's quantity. Values below 1 are clamped to 1;
// package lines always stay at quantity 1.
func (c Cart) SetQuantity(lineID uuid.UUID, quantity int32) (Cart, error) {
	next := c.clone()
	item := next.item(lineID)
	if item == nil {
		return c, ErrItemNotFound
	}
	item.Quantity = quantity
	return next.recompute(), nil
}

// SetCustomPrice overrides a line's unit price. A positive custom price
// zeroes the discount rate, since the two pricing modes are mutually
// exclusive. Negative input is coerced to zero.
func (c Cart) SetCustomPrice(lineID uuid.UUID, price decimal.Decimal) (Cart, error) {
	next := c.clone()
	item := next.item(lineID)
	if item == nil {
		return c, ErrItemNotFound
	}
	item.CustomPrice = round2(nonNegative(price))
	if item.CustomPrice.IsPositive() {
		item.DiscountRate = decimal.Zero
	}
	return next.recompute(), nil
}

// SetDiscountRate sets a line's discount as a fraction off in [0, 1].
// A positive discount zeroes any custom price.
func (c Cart) SetDiscountRate(lineID uuid.UUID, rate decimal.Decimal) (Cart, error) {
	next := c.clone()
	item := next.item(lineID)
	if item == nil {
		return c, ErrItemNotFound
	}
	item.DiscountRate = clampFraction(rate)
	if item.DiscountRate.IsPositive() {
		item.CustomPrice = decimal.Zero
	}
	return next.recompute(), nil
}

// reprice derives FinalUnitPrice and LineTotal, then the dependent
// performance and commission amounts on each assignment. Package lines are
// pinned to quantity 1 at the original price.
func reprice(item LineItem) LineItem {
	if item.Kind == enum.ItemKindPackage {
		item.Quantity = 1
		item.CustomPrice = decimal.Zero
		item.DiscountRate = decimal.Zero
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if item.CustomPrice.IsPositive() {
		item.FinalUnitPrice = round2(item.CustomPrice)
	} else {
		retained := decimal.NewFromInt(1).Sub(item.DiscountRate)
		item.FinalUnitPrice = round2(item.OriginalPrice.Mul(retained))
	}
	item.LineTotal = round2(item.FinalUnitPrice.Mul(decimal.NewFromInt32(item.Quantity)))

	for i := range item.Assignments {
		a := item.Assignments[i]
		a.PerformanceAmount = round2(item.LineTotal.Mul(a.PerformanceRate).Div(hundred))
		a.CommissionAmount = round2(a.PerformanceAmount.Mul(a.CommissionRate).Div(hundred))
		item.Assignments[i] = a
	}
	return item
}
