package panel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/employee-admin/internal/dto"
	"github.com/noah-isme/employee-admin/internal/models"
)

type apiStub struct {
	employees     []Employee
	listErr       error
	createMessage string
	createErr     error
	deleteMessage string
	deleteErr     error
	updated       []string
}

func (s *apiStub) List(ctx context.Context) ([]Employee, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]Employee(nil), s.employees...), nil
}

func (s *apiStub) Create(ctx context.Context, form Form) (string, error) {
	return s.createMessage, s.createErr
}

func (s *apiStub) Update(ctx context.Context, id string, form Form) (*dto.EmployeeUpdatedResponse, error) {
	s.updated = append(s.updated, id)
	return &dto.EmployeeUpdatedResponse{Message: "Employee updated successfully"}, nil
}

func (s *apiStub) Delete(ctx context.Context, id string) (string, error) {
	return s.deleteMessage, s.deleteErr
}

func employee(id, name, email, mobile, designation string, created time.Time) Employee {
	return Employee{Employee: models.Employee{ID: id, Name: name, Email: email, Mobile: mobile, Designation: designation, CreatedAt: created}}
}

func fixtureEmployees() []Employee {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return []Employee{
		employee("1", "Asha Rao", "asha@example.com", "9876543210", "HR", base),
		employee("2", "Ravi Kumar", "ravi@example.com", "9000000001", "Sales", base.Add(2*time.Hour)),
		employee("3", "Meera Iyer", "meera@corp.test", "9111111111", "Manager", base.Add(time.Hour)),
	}
}

func validPanelForm() Form {
	return Form{
		Name:        "Asha Rao",
		Email:       "asha@example.com",
		Mobile:      "9876543210",
		Designation: "HR",
		Gender:      "Female",
		Courses:     []string{"MCA", "BCA"},
		Image:       &ImageFile{Filename: "avatar.png", Data: []byte("png")},
	}
}

func TestPanelStartsOnDashboard(t *testing.T) {
	p := New(&apiStub{}, nil)
	assert.Equal(t, ViewDashboard, p.View())
	_, ok := p.Selected()
	assert.False(t, ok)
}

func TestPanelRefreshSortsNewestFirst(t *testing.T) {
	p := New(&apiStub{employees: fixtureEmployees()}, nil)
	require.NoError(t, p.Refresh(context.Background()))

	ids := []string{}
	for _, e := range p.Employees() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"2", "3", "1"}, ids)
}

func TestPanelRefreshFailureSetsMessage(t *testing.T) {
	p := New(&apiStub{listErr: errors.New("connection refused")}, nil)
	require.Error(t, p.Refresh(context.Background()))
	assert.Equal(t, "Error fetching employees", p.Message())
}

func TestPanelSearch(t *testing.T) {
	p := New(&apiStub{employees: fixtureEmployees()}, nil)
	require.NoError(t, p.Refresh(context.Background()))

	p.Search("MANAGER")
	visible := p.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "3", visible[0].ID)
	assert.Empty(t, p.EmptyMessage())

	p.Search("example.com")
	assert.Len(t, p.Visible(), 2)

	p.Search("90000")
	assert.Len(t, p.Visible(), 1)

	p.Search("nobody")
	assert.Empty(t, p.Visible())
	assert.Equal(t, "No employees found.", p.EmptyMessage())
	assert.Len(t, p.Employees(), 3)

	p.Search("")
	assert.Len(t, p.Visible(), 3)
}

func TestPanelNavigation(t *testing.T) {
	p := New(&apiStub{}, nil)

	require.NoError(t, p.Navigate(ViewList))
	assert.Equal(t, ViewList, p.View())
	require.Error(t, p.Navigate(ViewUpdate))
	assert.Equal(t, ViewList, p.View())

	e := fixtureEmployees()[0]
	p.Edit(e)
	assert.Equal(t, ViewUpdate, p.View())
	selected, ok := p.Selected()
	require.True(t, ok)
	assert.Equal(t, e.ID, selected.ID)

	require.NoError(t, p.Navigate(ViewCreate))
	_, ok = p.Selected()
	assert.False(t, ok)
}

func TestPanelEditClearsMessage(t *testing.T) {
	p := New(&apiStub{listErr: errors.New("boom")}, nil)
	_ = p.Refresh(context.Background())
	require.NotEmpty(t, p.Message())

	p.Edit(fixtureEmployees()[0])
	assert.Empty(t, p.Message())
}

func TestPanelSubmitCreate(t *testing.T) {
	api := &apiStub{createMessage: "New employee created successfully", employees: fixtureEmployees()}
	p := New(api, nil)
	require.NoError(t, p.Navigate(ViewCreate))

	require.NoError(t, p.SubmitCreate(context.Background(), validPanelForm()))
	assert.Equal(t, "New employee created successfully", p.Message())
	assert.Equal(t, ViewList, p.View())
	assert.Len(t, p.Employees(), 3)
}

func TestPanelSubmitCreateFailureMessages(t *testing.T) {
	api := &apiStub{createErr: &APIError{StatusCode: 400, Message: "Image is required!"}}
	p := New(api, nil)
	require.NoError(t, p.Navigate(ViewCreate))

	require.Error(t, p.SubmitCreate(context.Background(), validPanelForm()))
	assert.Equal(t, "Error: Image is required!", p.Message())
	assert.Equal(t, ViewCreate, p.View())

	api.createErr = errors.New("dial tcp: connection refused")
	require.Error(t, p.SubmitCreate(context.Background(), validPanelForm()))
	assert.Equal(t, "Error: Something went wrong.", p.Message())
}

func TestPanelSubmitCreateValidatesLocally(t *testing.T) {
	api := &apiStub{createMessage: "New employee created successfully"}
	p := New(api, nil)
	form := validPanelForm()
	form.Image = nil

	err := p.SubmitCreate(context.Background(), form)
	var formErrs FormErrors
	require.ErrorAs(t, err, &formErrs)
	msg, ok := formErrs.Field("image")
	require.True(t, ok)
	assert.Equal(t, "Image is required!", msg)
}

func TestPanelSubmitUpdateRequiresSelection(t *testing.T) {
	api := &apiStub{}
	p := New(api, nil)
	require.ErrorIs(t, p.SubmitUpdate(context.Background(), validPanelForm()), ErrNoSelection)
	assert.Equal(t, MsgNoSelection, p.Message())

	p.Edit(fixtureEmployees()[1])
	form := validPanelForm()
	form.Image = nil
	require.NoError(t, p.SubmitUpdate(context.Background(), form))
	assert.Equal(t, []string{"2"}, api.updated)
	assert.Equal(t, ViewList, p.View())
	assert.Equal(t, "Employee updated successfully", p.Message())
}

func TestPanelSubmitDeleteMessageRule(t *testing.T) {
	api := &apiStub{deleteMessage: "Employee deleted successfully"}
	p := New(api, nil)
	require.NoError(t, p.SubmitDelete(context.Background(), "1"))
	assert.Equal(t, "Employee deleted successfully", p.Message())

	api.deleteMessage = "Deleted"
	require.Error(t, p.SubmitDelete(context.Background(), "1"))
	assert.Equal(t, "Failed to delete employee", p.Message())

	api.deleteErr = &APIError{StatusCode: 404, Message: "Employee not found"}
	require.Error(t, p.SubmitDelete(context.Background(), "1"))
	assert.Equal(t, "Error deleting employee", p.Message())
}

func TestValidateForm(t *testing.T) {
	require.NoError(t, ValidateForm(validPanelForm(), true))

	noCourses := validPanelForm()
	noCourses.Courses = nil
	require.NoError(t, ValidateForm(noCourses, true))

	cases := map[string]func(*Form){
		"mobile":      func(f *Form) { f.Mobile = "98765-4321" },
		"designation": func(f *Form) { f.Designation = "CEO" },
		"gender":      func(f *Form) { f.Gender = "Other" },
		"courses":     func(f *Form) { f.Courses = []string{"MBA"} },
		"image":       func(f *Form) { f.Image = &ImageFile{Filename: "cv.pdf"} },
		"name":        func(f *Form) { f.Name = " " },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			form := validPanelForm()
			mutate(&form)
			err := ValidateForm(form, true)
			var formErrs FormErrors
			require.ErrorAs(t, err, &formErrs)
			_, ok := formErrs.Field(field)
			assert.True(t, ok)
		})
	}

	tooLong := validPanelForm()
	tooLong.Mobile = "98765432101"
	require.Error(t, ValidateForm(tooLong, true))

	noImage := validPanelForm()
	noImage.Image = nil
	require.NoError(t, ValidateForm(noImage, false))
}
