package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/serenity-pos/api/internal/checkout"
	"github.com/serenity-pos/api/internal/enum"
)

// ErrUnavailable reports that one or more catalog sources could not be
// loaded and documented defaults were substituted. Callers surface it as a
// warning; the returned snapshot is always usable.
var ErrUnavailable = errors.New("catalog configuration unavailable, using defaults")

type Employee struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type PaymentMethod struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Snapshot is the per-session, read-only configuration the engine computes
// against. It is loaded once and never refreshed mid-session.
type Snapshot struct {
	GSTRatePercent    decimal.Decimal            `json:"gstRatePercent"`
	CommissionByKind  map[string]decimal.Decimal `json:"commissionByKind"`
	DefaultCommission decimal.Decimal            `json:"defaultCommission"`
	Employees         []Employee                 `json:"employees"`
	PaymentMethods    []PaymentMethod            `json:"paymentMethods"`
}

// Rates converts the snapshot into the engine's rate input.
func (s Snapshot) Rates() checkout.Rates {
	return checkout.Rates{
		GSTRatePercent:    s.GSTRatePercent,
		CommissionByKind:  s.CommissionByKind,
		DefaultCommission: s.DefaultCommission,
	}
}

// Employee looks up a directory entry by ID.
func (s Snapshot) Employee(id uuid.UUID) (Employee, bool) {
	for _, e := range s.Employees {
		if e.ID == id {
			return e, true
		}
	}
	return Employee{}, false
}

// Defaults is the documented fallback snapshot: 9% GST, 6.00% commission
// for every kind, the standard payment methods, and an empty employee
// directory.
func Defaults() Snapshot {
	return Snapshot{
		GSTRatePercent:    decimal.NewFromInt(9),
		CommissionByKind:  map[string]decimal.Decimal{},
		DefaultCommission: decimal.RequireFromString("6.00"),
		PaymentMethods: []PaymentMethod{
			{Code: enum.PaymentMethodCash, Name: "Cash"},
			{Code: enum.PaymentMethodCard, Name: "Credit / Debit Card"},
			{Code: enum.PaymentMethodPayNow, Name: "PayNow"},
			{Code: enum.PaymentMethodNets, Name: "NETS"},
			{Code: enum.PaymentMethodTransfer, Name: "Balance Transfer"},
		},
	}
}

// Provider is a read-only configuration source. Implementations never
// receive writes from the engine.
type Provider interface {
	GSTRatePercent(ctx context.Context) (decimal.Decimal, error)
	CommissionRates(ctx context.Context) (byKind map[string]decimal.Decimal, overall decimal.Decimal, err error)
	Employees(ctx context.Context) ([]Employee, error)
	PaymentMethods(ctx context.Context) ([]PaymentMethod, error)
}

// Load snapshots a provider, substituting the corresponding fallback value
// for every source that fails. When anything failed the snapshot is still
// returned alongside ErrUnavailable so the caller can surface the
// degradation without treating it as fatal.
func Load(ctx context.Context, p Provider, fallback Snapshot) (Snapshot, error) {
	snap := fallback
	degraded := false

	if gst, err := p.GSTRatePercent(ctx); err == nil {
		snap.GSTRatePercent = gst
	} else {
		degraded = true
	}
	if byKind, overall, err := p.CommissionRates(ctx); err == nil {
		snap.CommissionByKind = byKind
		snap.DefaultCommission = overall
	} else {
		degraded = true
	}
	if employees, err := p.Employees(ctx); err == nil {
		snap.Employees = employees
	} else {
		degraded = true
	}
	if methods, err := p.PaymentMethods(ctx); err == nil {
		snap.PaymentMethods = methods
	} else {
		degraded = true
	}

	if degraded {
		return snap, ErrUnavailable
	}
	return snap, nil
}

// Static serves a fixed snapshot. Used when no database is configured and
// as the test double.
type Static struct {
	Snapshot Snapshot
}

func (s Static) GSTRatePercent(ctx context.Context) (decimal.Decimal, error) {
	return s.Snapshot.GSTRatePercent, nil
}

func (s Static) CommissionRates(ctx context.Context) (map[string]decimal.Decimal, decimal.Decimal, error) {
	return s.Snapshot.CommissionByKind, s.Snapshot.DefaultCommission, nil
}

func (s Static) Employees(ctx context.Context) ([]Employee, error) {
	return s.Snapshot.Employees, nil
}

func (s Static) PaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	return s.Snapshot.PaymentMethods, nil
}
