package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/employee-admin/internal/dto"
	"github.com/noah-isme/employee-admin/internal/models"
	appErrors "github.com/noah-isme/employee-admin/pkg/errors"
)

const (
	msgFieldsRequired   = "All fields are required!"
	msgImageRequired    = "Image is required!"
	msgImageType        = "Image must be a JPG or PNG file"
	msgInvalidID        = "Invalid employee ID"
	msgNotFound         = "Employee not found"
	msgUpdateFailed     = "Error updating employee"
	employeeListKey     = "employees:list"
	employeeKeysPattern = "employees:*"
)

// Response messages shared with the handler layer and API clients.
const (
	MsgEmployeeCreated = "New employee created successfully"
	MsgEmployeeDeleted = "Employee deleted successfully"
	MsgEmployeeUpdated = "Employee updated successfully"
)

type employeeRepository interface {
	List(ctx context.Context) ([]models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
	UpdateByID(ctx context.Context, id string, changes models.EmployeeChanges) (*models.Employee, error)
	DeleteByID(ctx context.Context, id string) error
}

type employeeCache interface {
	Fetch(ctx context.Context, key string, dest interface{}) bool
	Store(ctx context.Context, key string, value interface{})
	Invalidate(ctx context.Context, pattern string) error
}

// EmployeeServiceConfig holds upload limits.
type EmployeeServiceConfig struct {
	MaxImageSize int64
}

// EmployeeService implements the employee record operations.
type EmployeeService struct {
	repo      employeeRepository
	storage   imageStorage
	cache     employeeCache
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       EmployeeServiceConfig
	now       func() time.Time

	// generation is bumped by every mutation; a list read only fills the cache when no
	// mutation happened while it was in flight.
	generation atomic.Uint64
	// stale is set while a failed invalidation may have left an old list in the cache.
	stale atomic.Bool
}

// employeeFields is the normalized form validated before touching storage.
type employeeFields struct {
	Name        string   `validate:"required"`
	Email       string   `validate:"required"`
	Mobile      string   `validate:"required"`
	Designation string   `validate:"required"`
	Gender      string   `validate:"required"`
	Courses     []string `validate:"required"`
}

// NewEmployeeService constructs the service. cache and metrics may be nil.
func NewEmployeeService(repo employeeRepository, storage imageStorage, cache employeeCache, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg EmployeeServiceConfig) *EmployeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxImageSize <= 0 {
		cfg.MaxImageSize = 5 * 1024 * 1024
	}
	return &EmployeeService{
		repo:      repo,
		storage:   storage,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// List returns every employee. Order follows the store and callers should not rely on it.
func (s *EmployeeService) List(ctx context.Context) ([]models.Employee, error) {
	useCache := s.cache != nil && s.cacheTrusted(ctx)
	var cached []models.Employee
	if useCache && s.cache.Fetch(ctx, employeeListKey, &cached) {
		return cached, nil
	}

	generation := s.generation.Load()
	start := time.Now()
	employees, err := s.repo.List(ctx)
	s.metrics.ObserveDBQuery("employees.list", time.Since(start))
	if err != nil {
		return nil, appErrors.Passthrough(err, http.StatusBadRequest)
	}

	if useCache && s.generation.Load() == generation {
		s.cache.Store(ctx, employeeListKey, employees)
		if s.generation.Load() != generation {
			// a mutation slipped in between the check and the write
			s.dropCachedList(ctx)
		}
	}
	return employees, nil
}

// Create validates the submission, stores the photo and persists a new employee.
func (s *EmployeeService) Create(ctx context.Context, form dto.EmployeeForm, image *ImageUpload) (*models.Employee, error) {
	fields, err := s.normalize(form)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, msgImageRequired)
	}
	ext, err := s.checkImage(image)
	if err != nil {
		s.metrics.RecordUpload(false, 0)
		return nil, err
	}
	filename, err := s.storeImage(ctx, image, ext)
	if err != nil {
		return nil, err
	}

	employee := &models.Employee{
		Code:        fmt.Sprintf("EMP%d", s.now().UnixMilli()),
		Name:        fields.Name,
		Email:       fields.Email,
		Mobile:      fields.Mobile,
		Designation: fields.Designation,
		Gender:      fields.Gender,
		Courses:     fields.Courses,
		Image:       &filename,
	}
	start := time.Now()
	err = s.repo.Create(ctx, employee)
	s.metrics.ObserveDBQuery("employees.create", time.Since(start))
	if err != nil {
		s.discardImage(ctx, filename)
		return nil, appErrors.Passthrough(err, http.StatusBadRequest)
	}

	s.invalidate(ctx)
	s.logger.Info("employee created", zap.String("id", employee.ID), zap.String("code", employee.Code))
	return employee, nil
}

// Update overwrites every field of an employee. The photo is replaced only when image is non-nil.
func (s *EmployeeService) Update(ctx context.Context, id string, form dto.EmployeeForm, image *ImageUpload) (*models.Employee, error) {
	fields, err := s.normalize(form)
	if err != nil {
		return nil, err
	}
	// a malformed id fails like any other store error on update
	if _, err := uuid.Parse(id); err != nil {
		return nil, updateFailed(err)
	}

	changes := models.EmployeeChanges{
		Name:        fields.Name,
		Email:       fields.Email,
		Mobile:      fields.Mobile,
		Designation: fields.Designation,
		Gender:      fields.Gender,
		Courses:     fields.Courses,
	}
	if image != nil {
		ext, err := s.checkImage(image)
		if err != nil {
			s.metrics.RecordUpload(false, 0)
			return nil, err
		}
		filename, err := s.storeImage(ctx, image, ext)
		if err != nil {
			return nil, err
		}
		changes.Image = &filename
	}

	start := time.Now()
	employee, err := s.repo.UpdateByID(ctx, id, changes)
	s.metrics.ObserveDBQuery("employees.update", time.Since(start))
	if err != nil {
		if changes.Image != nil {
			s.discardImage(ctx, *changes.Image)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgNotFound)
		}
		return nil, updateFailed(err)
	}

	s.invalidate(ctx)
	s.logger.Info("employee updated", zap.String("id", employee.ID), zap.Bool("image_replaced", changes.Image != nil))
	return employee, nil
}

// Delete removes an employee permanently. The stored photo is left in place.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if err := validateEmployeeID(id); err != nil {
		return err
	}
	start := time.Now()
	err := s.repo.DeleteByID(ctx, id)
	s.metrics.ObserveDBQuery("employees.delete", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, msgNotFound)
		}
		return appErrors.Passthrough(err, http.StatusBadRequest)
	}
	s.invalidate(ctx)
	s.logger.Info("employee deleted", zap.String("id", id))
	return nil
}

// View resolves the stored image filename to an absolute URL.
func (s *EmployeeService) View(employee models.Employee) dto.EmployeeView {
	view := dto.EmployeeView{Employee: employee}
	if employee.Image != nil && *employee.Image != "" && s.storage != nil {
		url := s.storage.URL(*employee.Image)
		view.Image = &url
	}
	if view.Courses == nil {
		view.Courses = []string{}
	}
	return view
}

// Views maps View over a slice.
func (s *EmployeeService) Views(employees []models.Employee) []dto.EmployeeView {
	views := make([]dto.EmployeeView, 0, len(employees))
	for _, employee := range employees {
		views = append(views, s.View(employee))
	}
	return views
}

func (s *EmployeeService) normalize(form dto.EmployeeForm) (employeeFields, error) {
	if !form.Courses.Present() {
		return employeeFields{}, appErrors.Clone(appErrors.ErrValidation, msgFieldsRequired)
	}
	courses, err := form.Courses.Normalize()
	if err != nil {
		return employeeFields{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Courses must be a list of course names")
	}
	fields := employeeFields{
		Name:        form.Name,
		Email:       form.Email,
		Mobile:      form.Mobile,
		Designation: form.Designation,
		Gender:      form.Gender,
		Courses:     courses,
	}
	if err := s.validator.Struct(fields); err != nil {
		return employeeFields{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msgFieldsRequired)
	}
	return fields, nil
}

func (s *EmployeeService) invalidate(ctx context.Context) {
	s.generation.Add(1)
	if s.cache == nil {
		return
	}
	s.dropCachedList(ctx)
}

func (s *EmployeeService) dropCachedList(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, employeeKeysPattern); err != nil {
		s.stale.Store(true)
		return
	}
	s.stale.Store(false)
}

// cacheTrusted retries a failed invalidation before the cache is read again. While it keeps
// failing, lists are served from the store.
func (s *EmployeeService) cacheTrusted(ctx context.Context) bool {
	if !s.stale.Load() {
		return true
	}
	s.dropCachedList(ctx)
	return !s.stale.Load()
}

func updateFailed(err error) error {
	return appErrors.Wrap(err, appErrors.ErrStorage.Code, http.StatusInternalServerError, fmt.Sprintf("%s: %v", msgUpdateFailed, err))
}

func validateEmployeeID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return appErrors.Clone(appErrors.ErrInvalidID, msgInvalidID)
	}
	return nil
}
