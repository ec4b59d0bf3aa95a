package panel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/noah-isme/employee-admin/internal/dto"
)

// Status messages shown to the operator.
const (
	MsgFetchFailed     = "Error fetching employees"
	MsgDeleted         = "Employee deleted successfully"
	MsgDeleteFailed    = "Failed to delete employee"
	MsgDeleteError     = "Error deleting employee"
	MsgNoEmployees     = "No employees found."
	MsgNoSelection     = "Error: No employee selected."
	fallbackSubmitText = "Something went wrong."
)

// ErrNoSelection is returned when an update is attempted without a selected employee.
var ErrNoSelection = errors.New("panel: no employee selected")

type employeeAPI interface {
	List(ctx context.Context) ([]Employee, error)
	Create(ctx context.Context, form Form) (string, error)
	Update(ctx context.Context, id string, form Form) (*dto.EmployeeUpdatedResponse, error)
	Delete(ctx context.Context, id string) (string, error)
}

// Panel holds the client-side state of the admin panel: the last fetched employee list,
// the search term, the status message, the selected record and the active view.
type Panel struct {
	mu        sync.Mutex
	api       employeeAPI
	logger    *zap.Logger
	employees []Employee
	search    string
	message   string
	selected  *Employee
	view      View
}

// New returns a panel on the dashboard view with an empty list.
func New(api employeeAPI, logger *zap.Logger) *Panel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Panel{api: api, logger: logger, view: ViewDashboard}
}

// Refresh replaces the local list with the server's, newest first.
func (p *Panel) Refresh(ctx context.Context) error {
	employees, err := p.api.List(ctx)
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.logger.Warn("fetch employees failed", zap.Error(err))
		p.message = MsgFetchFailed
		return err
	}
	sort.SliceStable(employees, func(i, j int) bool {
		return employees[i].CreatedAt.After(employees[j].CreatedAt)
	})
	p.employees = employees
	return nil
}

// SubmitCreate validates and posts a new employee. On success the list is refreshed and
// the panel switches to the list view.
func (p *Panel) SubmitCreate(ctx context.Context, form Form) error {
	if err := ValidateForm(form, true); err != nil {
		p.setMessage(err.Error())
		return err
	}
	message, err := p.api.Create(ctx, form)
	if err != nil {
		p.setMessage(submitFailure(err))
		return err
	}
	p.setMessage(message)
	return p.afterSubmit(ctx)
}

// SubmitUpdate validates and submits the form for the selected employee.
func (p *Panel) SubmitUpdate(ctx context.Context, form Form) error {
	p.mu.Lock()
	selected := p.selected
	p.mu.Unlock()
	if selected == nil {
		p.setMessage(MsgNoSelection)
		return ErrNoSelection
	}
	if err := ValidateForm(form, false); err != nil {
		p.setMessage(err.Error())
		return err
	}
	resp, err := p.api.Update(ctx, selected.ID, form)
	if err != nil {
		p.setMessage(submitFailure(err))
		return err
	}
	p.setMessage(resp.Message)
	return p.afterSubmit(ctx)
}

// SubmitDelete removes an employee. Success is recognised only by the exact server message.
func (p *Panel) SubmitDelete(ctx context.Context, id string) error {
	message, err := p.api.Delete(ctx, id)
	if err != nil {
		p.logger.Warn("delete employee failed", zap.String("id", id), zap.Error(err))
		p.setMessage(MsgDeleteError)
		return err
	}
	if !deleteSucceeded(message) {
		p.setMessage(MsgDeleteFailed)
		return fmt.Errorf("panel: unexpected delete response %q", message)
	}
	p.setMessage(MsgDeleted)
	return p.Refresh(ctx)
}

// Search sets the filter term. It never touches the server.
func (p *Panel) Search(term string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.search = term
}

// Visible returns the employees matching the search term, case-insensitively, on name,
// email, mobile or designation.
func (p *Panel) Visible() []Employee {
	p.mu.Lock()
	defer p.mu.Unlock()
	return filterEmployees(p.employees, p.search)
}

// EmptyMessage is shown instead of the table when nothing is visible.
func (p *Panel) EmptyMessage() string {
	if len(p.Visible()) == 0 {
		return MsgNoEmployees
	}
	return ""
}

// Navigate switches to the dashboard, list or create view. The update view is only
// reachable through Edit.
func (p *Panel) Navigate(view View) error {
	if view == ViewUpdate {
		return fmt.Errorf("panel: %s view requires a selected employee", view)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.view = view
	p.selected = nil
	return nil
}

// Edit selects an employee and opens the update view.
func (p *Panel) Edit(employee Employee) {
	p.mu.Lock()
	defer p.mu.Unlock()
	selected := employee
	p.selected = &selected
	p.view = ViewUpdate
	p.message = ""
}

// View returns the active view.
func (p *Panel) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

// Selected returns the employee being edited, if any.
func (p *Panel) Selected() (Employee, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == nil {
		return Employee{}, false
	}
	return *p.selected, true
}

// Message returns the current status message.
func (p *Panel) Message() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.message
}

// Employees returns the full local list, newest first.
func (p *Panel) Employees() []Employee {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Employee(nil), p.employees...)
}

func (p *Panel) afterSubmit(ctx context.Context) error {
	p.mu.Lock()
	p.view = ViewList
	p.selected = nil
	p.mu.Unlock()
	return p.Refresh(ctx)
}

func (p *Panel) setMessage(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.message = message
}

func deleteSucceeded(message string) bool {
	return message == MsgDeleted
}

func submitFailure(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return "Error: " + apiErr.Message
	}
	return "Error: " + fallbackSubmitText
}

func filterEmployees(employees []Employee, term string) []Employee {
	needle := strings.ToLower(term)
	return lo.Filter(employees, func(e Employee, _ int) bool {
		return lo.SomeBy([]string{e.Name, e.Email, e.Mobile, e.Designation}, func(field string) bool {
			return strings.Contains(strings.ToLower(field), needle)
		})
	})
}
