package handler

import (
	"context"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/noah-isme/employee-admin/internal/dto"
	"github.com/noah-isme/employee-admin/internal/models"
	"github.com/noah-isme/employee-admin/internal/service"
	appErrors "github.com/noah-isme/employee-admin/pkg/errors"
	"github.com/noah-isme/employee-admin/pkg/response"
)

type employeeService interface {
	List(ctx context.Context) ([]models.Employee, error)
	Create(ctx context.Context, form dto.EmployeeForm, image *service.ImageUpload) (*models.Employee, error)
	Update(ctx context.Context, id string, form dto.EmployeeForm, image *service.ImageUpload) (*models.Employee, error)
	Delete(ctx context.Context, id string) error
	View(employee models.Employee) dto.EmployeeView
	Views(employees []models.Employee) []dto.EmployeeView
}

type rosterExporter interface {
	Render(ctx context.Context, format service.ExportFormat) (*service.ExportFile, error)
}

// EmployeeHandler exposes the employee CRUD endpoints.
type EmployeeHandler struct {
	service employeeService
	export  rosterExporter
}

// NewEmployeeHandler constructs an EmployeeHandler. export may be nil when downloads are disabled.
func NewEmployeeHandler(service employeeService, export rosterExporter) *EmployeeHandler {
	return &EmployeeHandler{service: service, export: export}
}

// RegisterEmployeeRoutes mounts the employee endpoints on the given group.
func RegisterEmployeeRoutes(group *gin.RouterGroup, h *EmployeeHandler) {
	employees := group.Group("/employees")
	employees.POST("", h.Create)
	employees.GET("", h.List)
	employees.GET("/export", h.Export)
	employees.PUT("/:id", h.Update)
	employees.DELETE("/:id", h.Delete)
}

// Create godoc
// @Summary Create employee
// @Tags Employees
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param email formData string true "Email"
// @Param mobile formData string true "Mobile"
// @Param designation formData string true "Designation (HR, Manager, Sales)"
// @Param gender formData string true "Gender (Male, Female)"
// @Param courses[] formData []string true "Courses (MCA, BCA, BSC)" collectionFormat(multi)
// @Param image formData file true "Photo (JPG or PNG)"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	form, err := bindEmployeeForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	image, closeImage, err := imageFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeImage()

	if _, err := h.service.Create(c.Request.Context(), form, image); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, service.MsgEmployeeCreated)
}

// List godoc
// @Summary List employees
// @Tags Employees
// @Produce json
// @Success 200 {object} dto.EmployeeListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.EmployeeListResponse{Employees: h.service.Views(employees)})
}

// Update godoc
// @Summary Update employee
// @Tags Employees
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Employee ID"
// @Param name formData string true "Name"
// @Param email formData string true "Email"
// @Param mobile formData string true "Mobile"
// @Param designation formData string true "Designation"
// @Param gender formData string true "Gender"
// @Param courses[] formData []string true "Courses" collectionFormat(multi)
// @Param image formData file false "Replacement photo"
// @Success 200 {object} dto.EmployeeUpdatedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse "Malformed id or store error"
// @Router /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	form, err := bindEmployeeForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	image, closeImage, err := imageFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeImage()

	employee, err := h.service.Update(c.Request.Context(), c.Param("id"), form, image)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.EmployeeUpdatedResponse{
		Message:  service.MsgEmployeeUpdated,
		Employee: h.service.View(*employee),
	})
}

// Delete godoc
// @Summary Delete employee
// @Tags Employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, service.MsgEmployeeDeleted)
}

// Export godoc
// @Summary Download employee roster
// @Tags Employees
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse
// @Router /employees/export [get]
func (h *EmployeeHandler) Export(c *gin.Context) {
	if h.export == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.export.Render(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

func bindEmployeeForm(c *gin.Context) (dto.EmployeeForm, error) {
	var form dto.EmployeeForm
	if err := c.ShouldBind(&form); err != nil {
		return form, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload")
	}
	if c.ContentType() != binding.MIMEJSON {
		form.Courses = coursesFromForm(c)
	}
	return form, nil
}

// coursesFromForm accepts repeated "courses[]" or "courses" values. A single value that
// looks like a JSON list, or is blank, is treated as an encoded list.
func coursesFromForm(c *gin.Context) dto.CoursesInput {
	bracketed, hasBracketed := c.GetPostFormArray("courses[]")
	plain, hasPlain := c.GetPostFormArray("courses")
	if !hasBracketed && !hasPlain {
		return dto.CoursesInput{}
	}
	values := make([]string, 0, len(bracketed)+len(plain))
	values = append(values, bracketed...)
	values = append(values, plain...)
	if len(values) == 1 {
		value := strings.TrimSpace(values[0])
		if value == "" || strings.HasPrefix(value, "[") {
			return dto.CoursesFromEncoded(value)
		}
	}
	return dto.CoursesFromList(values)
}

// imageFromRequest returns nil when no "image" part was sent.
func imageFromRequest(c *gin.Context) (*service.ImageUpload, func(), error) {
	noop := func() {}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, noop, nil
	}
	src, err := fileHeader.Open()
	if err != nil {
		return nil, noop, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open image")
	}
	return newImageUpload(fileHeader, src), func() { _ = src.Close() }, nil
}

func newImageUpload(header *multipart.FileHeader, src multipart.File) *service.ImageUpload {
	return &service.ImageUpload{
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Content:     src,
	}
}
