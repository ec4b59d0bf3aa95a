package repository

import (
	"context"
	"fmt"
)

const employeesSchema = `CREATE TABLE IF NOT EXISTS employees (
	id UUID PRIMARY KEY,
	code TEXT NOT NULL,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	mobile TEXT NOT NULL,
	designation TEXT NOT NULL,
	gender TEXT NOT NULL,
	courses TEXT[] NOT NULL DEFAULT '{}',
	image TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS employees_created_at_idx ON employees (created_at DESC);`

// EnsureSchema creates the employees table when it does not exist yet.
func (r *EmployeeRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, employeesSchema); err != nil {
		return fmt.Errorf("ensure employees schema: %w", err)
	}
	return nil
}
