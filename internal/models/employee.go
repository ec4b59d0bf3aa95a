package models

import (
	"time"

	"github.com/lib/pq"
)

// Recognised values for the enumerated employee fields.
const (
	DesignationHR      = "HR"
	DesignationManager = "Manager"
	DesignationSales   = "Sales"

	GenderMale   = "Male"
	GenderFemale = "Female"

	CourseMCA = "MCA"
	CourseBCA = "BCA"
	CourseBSC = "BSC"
)

var (
	Designations = []string{DesignationHR, DesignationManager, DesignationSales}
	Genders      = []string{GenderMale, GenderFemale}
	Courses      = []string{CourseMCA, CourseBCA, CourseBSC}
)

// Employee is one row of the employees collection.
type Employee struct {
	ID          string         `db:"id" json:"id"`
	Code        string         `db:"code" json:"code"`
	Name        string         `db:"name" json:"name"`
	Email       string         `db:"email" json:"email"`
	Mobile      string         `db:"mobile" json:"mobile"`
	Designation string         `db:"designation" json:"designation"`
	Gender      string         `db:"gender" json:"gender"`
	Courses     pq.StringArray `db:"courses" json:"courses"`
	Image       *string        `db:"image" json:"image"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// EmployeeChanges carries the overwrite applied by an update. A nil Image keeps the stored one.
type EmployeeChanges struct {
	Name        string
	Email       string
	Mobile      string
	Designation string
	Gender      string
	Courses     []string
	Image       *string
}
