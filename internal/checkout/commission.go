package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddAssignment adds an employee to a line. Whenever membership changes,
// every assignment on the line is rewritten to an equal split summing to
// exactly 100. The commission rate is looked up by the line's kind.
func (c Cart) AddAssignment(lineID, employeeID uuid.UUID, employeeName string) (Cart, error) {
	next := c.clone()
	item := next.item(lineID)
	if item == nil {
		return c, ErrItemNotFound
	}
	item.Assignments = append(item.Assignments, Assignment{
		ID:             uuid.New(),
		EmployeeID:     employeeID,
		EmployeeName:   employeeName,
		CommissionRate: c.Rates.CommissionRateFor(item.Kind),
	})
	equalSplit(item.Assignments)
	return next.recompute(), nil
}

// RemoveAssignment removes an employee from a line and redistributes the
// equal split among the rest.
func (c Cart) RemoveAssignment(lineID, assignmentID uuid.UUID) (Cart, error) {
	next := c.clone()
	item := next.item(lineID)
	if item == nil {
		return c, ErrItemNotFound
	}
	idx := -1
	for i := range item.Assignments {
		if item.Assignments[i].ID == assignmentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return c, ErrAssignmentNotFound
	}
	item.Assignments = append(item.Assignments[:idx], item.Assignments[idx+1:]...)
	equalSplit(item.Assignments)
	return next.recompute(), nil
}

// SetPerformanceRate sets one assignment's performance share, clamped to
// [0, 100]. A sole assignee always owns 100 regardless of input. With
// exactly two assignees the other is set to the complement 100 - r. With
// three or more, only the addressed assignment changes and keeping the sum
// at 100 is the caller's responsibility.
func (c Cart) SetPerformanceRate(lineID, assignmentID uuid.UUID, rate decimal.Decimal) (Cart, error) {
	next := c.clone()
	item := next.item(lineID)
	if item == nil {
		return c, ErrItemNotFound
	}
	idx := -1
	for i := range item.Assignments {
		if item.Assignments[i].ID == assignmentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return c, ErrAssignmentNotFound
	}
	rate = clampPercent(rate)
	switch len(item.Assignments) {
	case 1:
		item.Assignments[idx].PerformanceRate = hundred
	case 2:
		item.Assignments[idx].PerformanceRate = rate
		other := 1 - idx
		item.Assignments[other].PerformanceRate = round2(hundred.Sub(rate))
	default:
		item.Assignments[idx].PerformanceRate = rate
	}
	return next.recompute(), nil
}

// SetCommissionRate overrides one assignment's commission percentage,
// clamped to [0, 100].
func (c Cart) SetCommissionRate(lineID, assignmentID uuid.UUID, rate decimal.Decimal) (Cart, error) {
	next := c.clone()
	item := next.item(lineID)
	if item == nil {
		return c, ErrItemNotFound
	}
	for i := range item.Assignments {
		if item.Assignments[i].ID == assignmentID {
			item.Assignments[i].CommissionRate = clampPercent(rate)
			return next.recompute(), nil
		}
	}
	return c, ErrAssignmentNotFound
}

// SetAssignmentRemarks sets an assignment's free-text remarks.
func (c Cart) SetAssignmentRemarks(lineID, assignmentID uuid.UUID, remarks string) (Cart, error) {
	next := c.clone()
	item := next.item(lineID)
	if item == nil {
		return c, ErrItemNotFound
	}
	for i := range item.Assignments {
		if item.Assignments[i].ID == assignmentID {
			item.Assignments[i].Remarks = remarks
			return next, nil
		}
	}
	return c, ErrAssignmentNotFound
}

// equalSplit rewrites every share to round2(100/n), giving the last
// assignment the remainder so the rates stay on two decimals and still sum
// to exactly 100 (33.33/33.33/33.34, not 33.33 three times).
func equalSplit(assignments []Assignment) {
	if len(assignments) == 0 {
		return
	}
	share := round2(hundred.Div(decimal.NewFromInt(int64(len(assignments)))))
	allocated := decimal.Zero
	for i := range assignments[:len(assignments)-1] {
		assignments[i].PerformanceRate = share
		allocated = allocated.Add(share)
	}
	assignments[len(assignments)-1].PerformanceRate = hundred.Sub(allocated)
}
