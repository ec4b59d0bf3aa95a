package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/employee-admin/internal/models"
	appErrors "github.com/noah-isme/employee-admin/pkg/errors"
	"github.com/noah-isme/employee-admin/pkg/export"
)

// ExportFormat names a roster download format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type employeeLister interface {
	List(ctx context.Context) ([]models.Employee, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered roster ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders the employee roster for download.
type ExportService struct {
	employees employeeLister
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(employees employeeLister, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{employees: employees, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// ParseExportFormat accepts "csv" or "pdf" in any case; empty defaults to csv.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatPDF:
		return ExportFormatPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

// Render builds the roster dataset and encodes it in the requested format.
func (s *ExportService) Render(ctx context.Context, format ExportFormat) (*ExportFile, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, err
	}
	dataset := buildRosterDataset(employees)

	file := &ExportFile{Filename: s.buildFilename(format)}
	switch format {
	case ExportFormatCSV:
		file.ContentType = "text/csv"
		file.Payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		file.ContentType = "application/pdf"
		file.Payload, err = s.pdf.Render(dataset)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %s", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Debug("roster exported", zap.String("format", string(format)), zap.Int("rows", len(employees)))
	return file, nil
}

func (s *ExportService) buildFilename(format ExportFormat) string {
	return fmt.Sprintf("employees_%s.%s", s.now().UTC().Format("20060102_150405"), format)
}

var rosterHeaders = []string{"Code", "Name", "Email", "Mobile", "Designation", "Gender", "Courses", "Created At"}

func buildRosterDataset(employees []models.Employee) export.Dataset {
	rows := make([][]string, 0, len(employees))
	for _, employee := range employees {
		rows = append(rows, []string{
			employee.Code,
			employee.Name,
			employee.Email,
			employee.Mobile,
			employee.Designation,
			employee.Gender,
			strings.Join(employee.Courses, ", "),
			employee.CreatedAt.UTC().Format("2006-01-02"),
		})
	}
	return export.Dataset{Title: "Employee Roster", Headers: rosterHeaders, Rows: rows}
}
