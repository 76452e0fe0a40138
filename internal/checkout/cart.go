package checkout

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrItemNotFound       = errors.New("line item not found")
	ErrSectionNotFound    = errors.New("payment section not found")
	ErrPaymentNotFound    = errors.New("payment entry not found")
	ErrAssignmentNotFound = errors.New("employee assignment not found")
	ErrUnknownKind        = errors.New("unknown item kind")
)

// Rates is the read-only configuration snapshot a cart computes against.
// It is loaded once per session; the engine never mutates it or performs I/O.
type Rates struct {
	GSTRatePercent    decimal.Decimal
	CommissionByKind  map[string]decimal.Decimal
	DefaultCommission decimal.Decimal
}

// CommissionRateFor returns the commission percentage for an item kind,
// falling back to the overall default when the table has no entry.
func (r Rates) CommissionRateFor(kind string) decimal.Decimal {
	if rate, ok := r.CommissionByKind[kind]; ok {
		return rate
	}
	return r.DefaultCommission
}

// Assignment attributes part of a line's value to one employee and derives
// the commission paid on that share.
type Assignment struct {
	ID                uuid.UUID       `json:"id"`
	EmployeeID        uuid.UUID       `json:"employeeId"`
	EmployeeName      string          `json:"employeeName"`
	PerformanceRate   decimal.Decimal `json:"performanceRatePercent"`
	PerformanceAmount decimal.Decimal `json:"performanceAmount"`
	CommissionRate    decimal.Decimal `json:"commissionRatePercent"`
	CommissionAmount  decimal.Decimal `json:"commissionAmount"`
	Remarks           string          `json:"remarks"`
}

// LineItem is one purchasable unit in the cart. FinalUnitPrice and
// LineTotal are derived on every recompute and must not be set directly.
type LineItem struct {
	ID             uuid.UUID       `json:"id"`
	RefID          uuid.UUID       `json:"refId"`
	Kind           string          `json:"kind"`
	Name           string          `json:"name"`
	OriginalPrice  decimal.Decimal `json:"originalPrice"`
	CustomPrice    decimal.Decimal `json:"customPrice"`
	DiscountRate   decimal.Decimal `json:"discountRate"`
	Quantity       int32           `json:"quantity"`
	FinalUnitPrice decimal.Decimal `json:"finalUnitPrice"`
	LineTotal      decimal.Decimal `json:"lineTotal"`
	Assignments    []Assignment    `json:"employeeAssignments"`
}

// PaymentEntry is one payment method allocation against a section.
// Auto marks entries the engine generated for transfer settlement; any
// operator edit clears the flag.
type PaymentEntry struct {
	ID       uuid.UUID       `json:"id"`
	MethodID string          `json:"methodId"`
	Amount   decimal.Decimal `json:"amount"`
	Remark   string          `json:"remark"`
	Auto     bool            `json:"auto"`
}

// Section groups lines under one payment requirement. Sections are derived
// from the current lines on every recompute; only their payments carry over.
type Section struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Required        bool            `json:"required"`
	LineIDs         []uuid.UUID     `json:"lineIds"`
	ExclusiveAmount decimal.Decimal `json:"exclusiveAmount"`
	GSTRatePercent  decimal.Decimal `json:"gstRatePercent"`
	GSTAmount       decimal.Decimal `json:"gstAmount"`
	InclusiveAmount decimal.Decimal `json:"inclusiveAmount"`
	Payments        []PaymentEntry  `json:"payments"`
}

// PaidAmount sums the section's payment entries.
func (s Section) PaidAmount() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// RemainingAmount is the unpaid part of the section's inclusive amount.
func (s Section) RemainingAmount() decimal.Decimal {
	return s.InclusiveAmount.Sub(s.PaidAmount())
}

// Totals aggregates all sections of a cart.
type Totals struct {
	ExclusiveAmount decimal.Decimal `json:"exclusiveAmount"`
	GSTAmount       decimal.Decimal `json:"gstAmount"`
	InclusiveAmount decimal.Decimal `json:"inclusiveAmount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
}

// Cart is an immutable checkout snapshot. Every mutating operation clones
// the cart, applies the edit, and runs one full recompute pass (pricing,
// commission amounts, section totals, payment clamps) before returning, so
// callers never observe a partially updated state.
type Cart struct {
	ID       uuid.UUID  `json:"id"`
	Items    []LineItem `json:"items"`
	Sections []Section  `json:"sections"`
	Rates    Rates      `json:"-"`
}

// NewCart creates an empty cart computing against the given rates snapshot.
func NewCart(rates Rates) Cart {
	return Cart{ID: uuid.New(), Rates: rates}
}

// AddItem normalizes a raw selection into a line item and appends it.
func (c Cart) AddItem(sel Selection) (Cart, error) {
	item, err := sel.normalize()
	if err != nil {
		return c, err
	}
	next := c.clone()
	next.Items = append(next.Items, item)
	return next.recompute(), nil
}

// RemoveItem deletes a line item. Sections derived solely from it disappear
// on the recompute, dropping their payments with them.
func (c Cart) RemoveItem(lineID uuid.UUID) (Cart, error) {
	next := c.clone()
	idx := -1
	for i := range next.Items {
		if next.Items[i].ID == lineID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return c, ErrItemNotFound
	}
	next.Items = append(next.Items[:idx], next.Items[idx+1:]...)
	return next.recompute(), nil
}

// Clear removes every line item and section.
func (c Cart) Clear() Cart {
	return Cart{ID: c.ID, Rates: c.Rates}
}

// Totals aggregates exclusive, GST, inclusive, paid, and remaining amounts
// across all sections.
func (c Cart) Totals() Totals {
	t := Totals{
		ExclusiveAmount: decimal.Zero,
		GSTAmount:       decimal.Zero,
		InclusiveAmount: decimal.Zero,
		PaidAmount:      decimal.Zero,
		RemainingAmount: decimal.Zero,
	}
	for _, s := range c.Sections {
		t.ExclusiveAmount = t.ExclusiveAmount.Add(s.ExclusiveAmount)
		t.GSTAmount = t.GSTAmount.Add(s.GSTAmount)
		t.InclusiveAmount = t.InclusiveAmount.Add(s.InclusiveAmount)
		t.PaidAmount = t.PaidAmount.Add(s.PaidAmount())
	}
	t.RemainingAmount = t.InclusiveAmount.Sub(t.PaidAmount)
	return t
}

// item returns a pointer into the cart's own slice. Only call on a clone.
func (c *Cart) item(lineID uuid.UUID) *LineItem {
	for i := range c.Items {
		if c.Items[i].ID == lineID {
			return &c.Items[i]
		}
	}
	return nil
}

// section returns a pointer into the cart's own slice. Only call on a clone.
func (c *Cart) section(sectionID string) *Section {
	for i := range c.Sections {
		if c.Sections[i].ID == sectionID {
			return &c.Sections[i]
		}
	}
	return nil
}

func (c Cart) clone() Cart {
	next := c
	next.Items = make([]LineItem, len(c.Items))
	for i, it := range c.Items {
		copied := it
		copied.Assignments = append([]Assignment(nil), it.Assignments...)
		next.Items[i] = copied
	}
	next.Sections = make([]Section, len(c.Sections))
	for i, s := range c.Sections {
		copied := s
		copied.LineIDs = append([]uuid.UUID(nil), s.LineIDs...)
		copied.Payments = append([]PaymentEntry(nil), s.Payments...)
		next.Sections[i] = copied
	}
	return next
}

// recompute is the single atomic derivation pass: line prices and totals,
// dependent commission amounts, then section totals with payments carried
// over and re-clamped. Always called on a freshly cloned cart.
func (c Cart) recompute() Cart {
	for i := range c.Items {
		c.Items[i] = reprice(c.Items[i])
	}
	c.Sections = deriveSections(c.Items, c.Sections, c.Rates)
	return c
}
