package checkout

import "github.com/google/uuid"

// FinalizePayload is the snapshot handed to the external persistence API:
// per-line pricing with assignment breakdowns, per-section payment
// breakdowns, and aggregate totals.
type FinalizePayload struct {
	CartID   uuid.UUID  `json:"cartId"`
	Items    []LineItem `json:"items"`
	Sections []Section  `json:"sections"`
	Totals   Totals     `json:"totals"`
}

// Finalize validates the cart and, when no violation remains, produces the
// persistence payload. A non-empty violation list blocks finalization but
// leaves the cart untouched.
func (c Cart) Finalize(required []RequiredField) (*FinalizePayload, []Violation) {
	if violations := c.Validate(required); len(violations) > 0 {
		return nil, violations
	}
	snapshot := c.clone()
	return &FinalizePayload{
		CartID:   snapshot.ID,
		Items:    snapshot.Items,
		Sections: snapshot.Sections,
		Totals:   snapshot.Totals(),
	}, nil
}
