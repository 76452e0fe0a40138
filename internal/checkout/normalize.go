package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/serenity-pos/api/internal/enum"
)

var hundred = decimal.NewFromInt(100)

// round2 rounds to cents, half away from zero.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// nonNegative coerces negative amounts to zero instead of rejecting them.
func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// clampFraction clamps a discount fraction to [0, 1].
func clampFraction(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return d
}

// clampPercent clamps a rate to [0, 100] and rounds to 2 decimals.
func clampPercent(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(hundred) {
		return hundred
	}
	return round2(d)
}

// CoerceAmount parses a numeric string, coercing unparseable or negative
// input to zero. This is the boundary guard for all monetary input.
func CoerceAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return nonNegative(d)
}

// PercentOff converts a percent-off value (e.g. 20 for 20% off) to the
// engine's discount fraction convention. Callers holding percent values
// convert here instead of mixing conventions inside the engine.
func PercentOff(p decimal.Decimal) decimal.Decimal {
	return clampFraction(p.Div(hundred))
}

// Selection is one raw item picked in the upstream selection UI. The
// upstream shapes differ per kind; Kind discriminates and normalize maps
// each variant onto the uniform LineItem.
type Selection struct {
	Kind     string          `json:"kind"`
	RefID    uuid.UUID       `json:"refId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int32           `json:"quantity"`
}

func (s Selection) normalize() (LineItem, error) {
	item := LineItem{
		ID:            uuid.New(),
		RefID:         s.RefID,
		Kind:          s.Kind,
		Name:          s.Name,
		OriginalPrice: nonNegative(s.Price),
		Quantity:      1,
	}
	switch s.Kind {
	case enum.ItemKindService, enum.ItemKindProduct:
		if s.Quantity > 1 {
			item.Quantity = s.Quantity
		}
	case enum.ItemKindPackage, enum.ItemKindVoucher,
		enum.ItemKindMCPTransfer, enum.ItemKindMVTransfer:
		// Always a single unit; quantity input is ignored.
	default:
		return LineItem{}, ErrUnknownKind
	}
	return item, nil
}
