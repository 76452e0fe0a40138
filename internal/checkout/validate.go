package checkout

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/serenity-pos/api/internal/enum"
)

// splitTolerance absorbs cent-level rounding in manually entered splits,
// e.g. an operator typing 33.33 for all three assignees.
var splitTolerance = decimal.NewFromFloat(0.01)

// Violation is one finalize-blocking condition. Violations are data, not
// errors; collecting them never fails.
type Violation struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RequiredField is a caller-supplied top-level field the engine checks for
// presence. The engine treats the set opaquely.
type RequiredField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Validate aggregates every invariant check that gates finalization:
// performance splits summing to 100 per line, at least one assignment on
// each quantity-bearing line, required sections paid exactly in full, and
// presence of the caller's required fields.
func (c Cart) Validate(required []RequiredField) []Violation {
	var violations []Violation

	var unassigned []string
	for _, item := range c.Items {
		if len(item.Assignments) == 0 {
			if quantityBearing(item.Kind) {
				unassigned = append(unassigned, item.Name)
			}
			continue
		}
		total := decimal.Zero
		for _, a := range item.Assignments {
			total = total.Add(a.PerformanceRate)
		}
		if total.Sub(hundred).Abs().GreaterThan(splitTolerance) {
			violations = append(violations, Violation{
				Code: enum.ViolationPerformanceSplit,
				Message: fmt.Sprintf("performance split for %q totals %s%%, must equal 100%%",
					item.Name, total.StringFixed(2)),
			})
		}
	}
	if len(unassigned) > 0 {
		violations = append(violations, Violation{
			Code:    enum.ViolationUnassignedItems,
			Message: fmt.Sprintf("assign at least one employee to: %s", strings.Join(unassigned, ", ")),
		})
	}

	for _, s := range c.Sections {
		if !s.Required {
			continue
		}
		if s.PaidAmount().Sub(s.InclusiveAmount).Abs().GreaterThan(splitTolerance) {
			violations = append(violations, Violation{
				Code: enum.ViolationPaymentMismatch,
				Message: fmt.Sprintf("payment for %q must equal exactly $%s",
					s.Title, s.InclusiveAmount.StringFixed(2)),
			})
		}
	}

	for _, f := range required {
		if strings.TrimSpace(f.Value) == "" {
			violations = append(violations, Violation{
				Code:    enum.ViolationMissingField,
				Message: fmt.Sprintf("%s is required", f.Name),
			})
		}
	}
	return violations
}

func quantityBearing(kind string) bool {
	switch kind {
	case enum.ItemKindService, enum.ItemKindProduct, enum.ItemKindPackage:
		return true
	}
	return false
}
