package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/employee-admin/internal/models"
	appErrors "github.com/noah-isme/employee-admin/pkg/errors"
)

type employeeListerStub struct {
	employees []models.Employee
	err       error
}

func (s employeeListerStub) List(ctx context.Context) ([]models.Employee, error) {
	return s.employees, s.err
}

func rosterFixture() []models.Employee {
	return []models.Employee{
		{Code: "EMP2", Name: "Ravi", Email: "ravi@example.com", Mobile: "9000000002", Designation: "Sales", Gender: "Male", Courses: []string{"BSC"}, CreatedAt: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		{Code: "EMP1", Name: "Asha", Email: "asha@example.com", Mobile: "9000000001", Designation: "HR", Gender: "Female", Courses: []string{"MCA", "BCA"}, CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func TestExportServiceRenderCSV(t *testing.T) {
	svc := NewExportService(employeeListerStub{employees: rosterFixture()}, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC) }

	file, err := svc.Render(context.Background(), ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "employees_20240305_103000.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	lines := strings.Split(strings.TrimSpace(string(file.Payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Code,Name,Email,Mobile,Designation,Gender,Courses,Created At", lines[0])
	assert.Equal(t, "EMP2,Ravi,ravi@example.com,9000000002,Sales,Male,BSC,2024-03-02", lines[1])
	assert.Contains(t, lines[2], `"MCA, BCA"`)
}

func TestExportServiceRenderPDF(t *testing.T) {
	svc := NewExportService(employeeListerStub{employees: rosterFixture()}, nil, nil, nil)

	file, err := svc.Render(context.Background(), ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".pdf"))
	assert.True(t, bytes.HasPrefix(file.Payload, []byte("%PDF")))
}

func TestExportServicePropagatesListError(t *testing.T) {
	listErr := appErrors.Passthrough(errors.New("connection refused"), http.StatusBadRequest)
	svc := NewExportService(employeeListerStub{err: listErr}, nil, nil, nil)

	_, err := svc.Render(context.Background(), ExportFormatCSV)
	require.ErrorIs(t, err, appErrors.ErrStorage)
}

func TestParseExportFormat(t *testing.T) {
	format, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatCSV, format)

	format, err = ParseExportFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatPDF, format)

	_, err = ParseExportFormat("xlsx")
	require.ErrorIs(t, err, appErrors.ErrValidation)
}
