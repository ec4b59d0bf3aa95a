package panel

import (
	"bytes"
	"context"
	"database/sql"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/employee-admin/internal/handler"
	"github.com/noah-isme/employee-admin/internal/models"
	"github.com/noah-isme/employee-admin/internal/service"
	"github.com/noah-isme/employee-admin/pkg/storage"
)

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0}, 24)...)

type memoryRepo struct {
	mu    sync.Mutex
	items map[string]models.Employee
}

func (r *memoryRepo) List(ctx context.Context) ([]models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Employee, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepo) Create(ctx context.Context, employee *models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	employee.ID = uuid.NewString()
	employee.CreatedAt = time.Now().UTC().Add(time.Duration(len(r.items)) * time.Second)
	employee.UpdatedAt = employee.CreatedAt
	r.items[employee.ID] = *employee
	return nil
}

func (r *memoryRepo) UpdateByID(ctx context.Context, id string, changes models.EmployeeChanges) (*models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	item.Name, item.Email, item.Mobile = changes.Name, changes.Email, changes.Mobile
	item.Designation, item.Gender, item.Courses = changes.Designation, changes.Gender, changes.Courses
	if changes.Image != nil {
		item.Image = changes.Image
	}
	item.UpdatedAt = time.Now().UTC()
	r.items[id] = item
	return &item, nil
}

func (r *memoryRepo) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

func newTestServer(t *testing.T) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, err := storage.NewLocalStorage(t.TempDir(), "http://uploads.test")
	require.NoError(t, err)
	employees := service.NewEmployeeService(&memoryRepo{items: map[string]models.Employee{}}, store, nil, nil, nil, nil, service.EmployeeServiceConfig{})
	exports := service.NewExportService(employees, nil, nil, nil)

	r := gin.New()
	handler.RegisterEmployeeRoutes(r.Group("/api"), handler.NewEmployeeHandler(employees, exports))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", srv.Client())
}

func TestClientPanelRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := New(newTestServer(t), nil)

	form := validPanelForm()
	form.Image = &ImageFile{Filename: "valid.png", Data: pngBytes}
	require.NoError(t, p.Navigate(ViewCreate))
	require.NoError(t, p.SubmitCreate(ctx, form))
	assert.Equal(t, "New employee created successfully", p.Message())
	assert.Equal(t, ViewList, p.View())

	list := p.Employees()
	require.Len(t, list, 1)
	created := list[0]
	assert.Equal(t, "HR", created.Designation)
	assert.Equal(t, []string{"MCA", "BCA"}, []string(created.Courses))
	assert.True(t, strings.HasPrefix(created.Code, "EMP"))
	require.NotNil(t, created.Image)
	assert.True(t, strings.HasPrefix(*created.Image, "http://uploads.test/"))
	assert.True(t, strings.HasSuffix(*created.Image, ".png"))

	p.Edit(created)
	update := FormFromEmployee(created)
	update.Designation = "Manager"
	require.NoError(t, p.SubmitUpdate(ctx, update))
	assert.Equal(t, "Employee updated successfully", p.Message())
	list = p.Employees()
	require.Len(t, list, 1)
	assert.Equal(t, "Manager", list[0].Designation)
	assert.Equal(t, created.CreatedAt.Unix(), list[0].CreatedAt.Unix())
	assert.Equal(t, *created.Image, *list[0].Image)

	require.NoError(t, p.SubmitDelete(ctx, created.ID))
	assert.Equal(t, "Employee deleted successfully", p.Message())
	assert.Empty(t, p.Employees())
	assert.Equal(t, "No employees found.", p.EmptyMessage())

	require.Error(t, p.SubmitDelete(ctx, created.ID))
	assert.Equal(t, "Error deleting employee", p.Message())
}

func TestClientCreateWithoutCourses(t *testing.T) {
	client := newTestServer(t)
	form := validPanelForm()
	form.Courses = nil
	form.Image = &ImageFile{Filename: "valid.png", Data: pngBytes}

	message, err := client.Create(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "New employee created successfully", message)

	list, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Courses)
}

func TestClientSurfacesServerErrors(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	form := validPanelForm()
	form.Image = nil
	_, err := client.Create(ctx, form)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "Image is required!", apiErr.Message)

	_, err = client.Update(ctx, uuid.NewString(), form)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.Equal(t, "Employee not found", apiErr.Message)

	_, err = client.Update(ctx, "not-an-id", form)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Equal(t, "STORAGE_ERROR", apiErr.Code)
	assert.True(t, strings.HasPrefix(apiErr.Message, "Error updating employee: "))

	_, err = client.Delete(ctx, "not-an-id")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "INVALID_ID", apiErr.Code)
}

func TestClientExport(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()
	form := validPanelForm()
	form.Image = &ImageFile{Filename: "valid.png", Data: pngBytes}
	_, err := client.Create(ctx, form)
	require.NoError(t, err)

	filename, data, err := client.Export(ctx, "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".csv"))
	assert.Contains(t, string(data), "Asha Rao")
}
