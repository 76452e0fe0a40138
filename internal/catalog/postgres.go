package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Postgres reads catalog configuration from the tables cmd/seed creates.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) GSTRatePercent(ctx context.Context) (decimal.Decimal, error) {
	var value string
	err := p.pool.QueryRow(ctx,
		`SELECT value FROM settings WHERE key = 'gst_rate_percent'`,
	).Scan(&value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load gst rate: %w", err)
	}
	rate, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse gst rate %q: %w", value, err)
	}
	return rate, nil
}

func (p *Postgres) CommissionRates(ctx context.Context) (map[string]decimal.Decimal, decimal.Decimal, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT item_kind, rate_percent FROM commission_rates`,
	)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("load commission rates: %w", err)
	}
	defer rows.Close()

	byKind := make(map[string]decimal.Decimal)
	for rows.Next() {
		var kind string
		var rate pgtype.Numeric
		if err := rows.Scan(&kind, &rate); err != nil {
			return nil, decimal.Zero, fmt.Errorf("scan commission rate: %w", err)
		}
		byKind[kind] = numericToDecimal(rate)
	}
	if err := rows.Err(); err != nil {
		return nil, decimal.Zero, fmt.Errorf("read commission rates: %w", err)
	}

	var value string
	err = p.pool.QueryRow(ctx,
		`SELECT value FROM settings WHERE key = 'default_commission_rate'`,
	).Scan(&value)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("load default commission rate: %w", err)
	}
	overall, err := decimal.NewFromString(value)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("parse default commission rate %q: %w", value, err)
	}
	return byKind, overall, nil
}

func (p *Postgres) Employees(ctx context.Context) ([]Employee, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, name FROM employees WHERE active ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var e Employee
		var id pgtype.UUID
		if err := rows.Scan(&id, &e.Name); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		e.ID = uuid.UUID(id.Bytes)
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read employees: %w", err)
	}
	return employees, nil
}

func (p *Postgres) PaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT code, name FROM payment_methods WHERE enabled ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("load payment methods: %w", err)
	}
	defer rows.Close()

	var methods []PaymentMethod
	for rows.Next() {
		var m PaymentMethod
		if err := rows.Scan(&m.Code, &m.Name); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		methods = append(methods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read payment methods: %w", err)
	}
	return methods, nil
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
