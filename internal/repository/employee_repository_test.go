package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/employee-admin/internal/models"
)

var employeeRowColumns = []string{"id", "code", "name", "email", "mobile", "designation", "gender", "courses", "image", "created_at", "updated_at"}

func newEmployeeRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEmployeeRepositoryList(t *testing.T) {
	db, mock, cleanup := newEmployeeRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(employeeRowColumns).
		AddRow("e1", "EMP1714557600000", "Asha Rao", "asha@x.com", "9876543210", "HR", "Female", "{MCA,BCA}", "1714557600000.png", created, created)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, name, email, mobile, designation, gender, courses, image, created_at, updated_at FROM employees ORDER BY created_at DESC")).
		WillReturnRows(rows)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, pq.StringArray{"MCA", "BCA"}, list[0].Courses)
	assert.Equal(t, "1714557600000.png", *list[0].Image)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryListEmpty(t *testing.T) {
	db, mock, cleanup := newEmployeeRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery("SELECT .* FROM employees").WillReturnRows(sqlmock.NewRows(employeeRowColumns))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestEmployeeRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newEmployeeRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	image := "1714557600000.png"
	mock.ExpectExec("INSERT INTO employees").
		WithArgs(sqlmock.AnyArg(), "EMP1", "Asha Rao", "asha@x.com", "9876543210", "HR", "Female", sqlmock.AnyArg(), image, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	employee := &models.Employee{
		Code: "EMP1", Name: "Asha Rao", Email: "asha@x.com", Mobile: "9876543210",
		Designation: "HR", Gender: "Female", Courses: pq.StringArray{"MCA"}, Image: &image,
	}
	require.NoError(t, repo.Create(context.Background(), employee))
	assert.NotEmpty(t, employee.ID)
	assert.False(t, employee.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryUpdateByID(t *testing.T) {
	db, mock, cleanup := newEmployeeRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE employees SET name = $2")).
		WithArgs("e1", "Asha R", "asha@x.com", "9876543210", "Manager", "Female", sqlmock.AnyArg(), nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(employeeRowColumns).
			AddRow("e1", "EMP1", "Asha R", "asha@x.com", "9876543210", "Manager", "Female", "{BSC}", "old.png", created, time.Now()))

	updated, err := repo.UpdateByID(context.Background(), "e1", models.EmployeeChanges{
		Name: "Asha R", Email: "asha@x.com", Mobile: "9876543210", Designation: "Manager", Gender: "Female", Courses: []string{"BSC"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Manager", updated.Designation)
	assert.Equal(t, "old.png", *updated.Image)
	assert.Equal(t, created, updated.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryUpdateByIDMissing(t *testing.T) {
	db, mock, cleanup := newEmployeeRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery("UPDATE employees").WillReturnRows(sqlmock.NewRows(employeeRowColumns))

	_, err := repo.UpdateByID(context.Background(), "missing", models.EmployeeChanges{Name: "x"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestEmployeeRepositoryDeleteByID(t *testing.T) {
	db, mock, cleanup := newEmployeeRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM employees WHERE id = $1")).
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM employees WHERE id = $1")).
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteByID(context.Background(), "e1"))
	assert.ErrorIs(t, repo.DeleteByID(context.Background(), "e1"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryDeleteByIDFailure(t *testing.T) {
	db, mock, cleanup := newEmployeeRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectExec("DELETE FROM employees").WillReturnError(fmt.Errorf("connection reset"))

	err := repo.DeleteByID(context.Background(), "e1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestEmployeeRepositoryEnsureSchema(t *testing.T) {
	db, mock, cleanup := newEmployeeRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS employees").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
