package dto

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/noah-isme/employee-admin/internal/models"
)

type coursesKind int

const (
	coursesAbsent coursesKind = iota
	coursesList
	coursesEncoded
)

// ErrMalformedCourses is returned when an encoded courses value is not a JSON list of strings.
var ErrMalformedCourses = errors.New("courses must be a list or a JSON-encoded list of strings")

// CoursesInput is the courses field as it arrives on the wire: either a ready-made list
// or a JSON-encoded string. The zero value means the field was not sent.
type CoursesInput struct {
	kind    coursesKind
	list    []string
	encoded string
}

// CoursesFromList wraps repeated form values.
func CoursesFromList(values []string) CoursesInput {
	return CoursesInput{kind: coursesList, list: values}
}

// CoursesFromEncoded wraps a JSON-encoded list such as `["MCA","BCA"]`.
func CoursesFromEncoded(raw string) CoursesInput {
	if strings.TrimSpace(raw) == "" {
		return CoursesInput{}
	}
	return CoursesInput{kind: coursesEncoded, encoded: raw}
}

// Present reports whether the caller sent the field at all.
func (c CoursesInput) Present() bool {
	return c.kind != coursesAbsent
}

// Normalize returns the courses as a list. Absent input yields nil, present input a
// non-nil (possibly empty) slice with blank entries dropped.
func (c CoursesInput) Normalize() ([]string, error) {
	var raw []string
	switch c.kind {
	case coursesAbsent:
		return nil, nil
	case coursesList:
		raw = c.list
	case coursesEncoded:
		if err := json.Unmarshal([]byte(c.encoded), &raw); err != nil {
			return nil, ErrMalformedCourses
		}
	}
	out := make([]string, 0, len(raw))
	for _, course := range raw {
		if trimmed := strings.TrimSpace(course); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out, nil
}

// MarshalJSON renders the normalized list; malformed input renders as null.
func (c CoursesInput) MarshalJSON() ([]byte, error) {
	list, err := c.Normalize()
	if err != nil || list == nil {
		return []byte("null"), nil
	}
	return json.Marshal(list)
}

// UnmarshalJSON accepts either a JSON array or a string holding an encoded array.
func (c *CoursesInput) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null":
		*c = CoursesInput{}
	case strings.HasPrefix(trimmed, "["):
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return ErrMalformedCourses
		}
		*c = CoursesFromList(list)
	default:
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return ErrMalformedCourses
		}
		*c = CoursesFromEncoded(encoded)
	}
	return nil
}

// EmployeeForm is the non-file part of a create or update submission.
type EmployeeForm struct {
	Name        string       `form:"name" json:"name"`
	Email       string       `form:"email" json:"email"`
	Mobile      string       `form:"mobile" json:"mobile"`
	Designation string       `form:"designation" json:"designation"`
	Gender      string       `form:"gender" json:"gender"`
	Courses     CoursesInput `form:"-" json:"courses"`
}

// EmployeeView is an employee as returned to callers, with the image resolved to a URL.
type EmployeeView struct {
	models.Employee
	Image *string `json:"image"`
}

// EmployeeListResponse is the body of the list endpoint.
type EmployeeListResponse struct {
	Employees []EmployeeView `json:"employees"`
}

// EmployeeUpdatedResponse is the body of a successful update.
type EmployeeUpdatedResponse struct {
	Message  string       `json:"message"`
	Employee EmployeeView `json:"employee"`
}

// MessageResponse is the body of create and delete.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed call.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
