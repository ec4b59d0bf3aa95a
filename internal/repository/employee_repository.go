package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/employee-admin/internal/models"
)

const employeeColumns = "id, code, name, email, mobile, designation, gender, courses, image, created_at, updated_at"

// EmployeeRepository manages persistence for employees.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs an EmployeeRepository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// List returns every employee, newest first.
func (r *EmployeeRepository) List(ctx context.Context) ([]models.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM employees ORDER BY created_at DESC", employeeColumns)
	employees := make([]models.Employee, 0)
	if err := r.db.SelectContext(ctx, &employees, query); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

// Create inserts a new employee, assigning id and timestamps.
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = now
	}
	employee.UpdatedAt = now
	if employee.Courses == nil {
		employee.Courses = pq.StringArray{}
	}

	const query = `INSERT INTO employees (id, code, name, email, mobile, designation, gender, courses, image, created_at, updated_at)
		VALUES (:id, :code, :name, :email, :mobile, :designation, :gender, :courses, :image, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// UpdateByID overwrites the mutable fields and returns the stored row.
// sql.ErrNoRows is returned when no employee has that id.
func (r *EmployeeRepository) UpdateByID(ctx context.Context, id string, changes models.EmployeeChanges) (*models.Employee, error) {
	courses := pq.StringArray(changes.Courses)
	if courses == nil {
		courses = pq.StringArray{}
	}
	query := fmt.Sprintf(`UPDATE employees SET name = $2, email = $3, mobile = $4, designation = $5, gender = $6, courses = $7,
		image = COALESCE($8, image), updated_at = $9 WHERE id = $1 RETURNING %s`, employeeColumns)
	var employee models.Employee
	err := r.db.GetContext(ctx, &employee, query,
		id, changes.Name, changes.Email, changes.Mobile, changes.Designation, changes.Gender, courses,
		changes.Image, time.Now().UTC())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update employee: %w", err)
	}
	return &employee, nil
}

// DeleteByID removes an employee permanently. sql.ErrNoRows is returned when nothing matched.
func (r *EmployeeRepository) DeleteByID(ctx context.Context, id string) error {
	const query = `DELETE FROM employees WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Ping checks the database connection for readiness probes.
func (r *EmployeeRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
