package panel

import (
	"mime"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/noah-isme/employee-admin/internal/models"
)

const maxMobileLength = 10

var digitsOnly = regexp.MustCompile(`^[0-9]*$`)

// ImageFile is a photo picked for upload.
type ImageFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (f *ImageFile) contentType() string {
	if f.ContentType != "" {
		return f.ContentType
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Filename))); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

// Form is the create/update form as filled in by the operator.
type Form struct {
	Name        string
	Email       string
	Mobile      string
	Designation string
	Gender      string
	Courses     []string
	Image       *ImageFile
}

// FormFromEmployee pre-fills an update form. The image is left empty so the stored one is kept.
func FormFromEmployee(e Employee) Form {
	return Form{
		Name:        e.Name,
		Email:       e.Email,
		Mobile:      e.Mobile,
		Designation: e.Designation,
		Gender:      e.Gender,
		Courses:     append([]string(nil), e.Courses...),
	}
}

// FieldError reports one invalid form field.
type FieldError struct {
	Field   string
	Message string
}

// FormErrors collects every invalid field of a form.
type FormErrors []FieldError

func (e FormErrors) Error() string {
	return strings.Join(lo.Map(e, func(fe FieldError, _ int) string { return fe.Message }), " ")
}

// Field returns the message for field, if any.
func (e FormErrors) Field(name string) (string, bool) {
	fe, ok := lo.Find(e, func(fe FieldError) bool { return fe.Field == name })
	return fe.Message, ok
}

// ValidateForm applies the panel-side rules. requireImage is true for create.
func ValidateForm(form Form, requireImage bool) error {
	var errs FormErrors
	required := []struct {
		field, value, label string
	}{
		{"name", form.Name, "Name"},
		{"email", form.Email, "Email"},
		{"mobile", form.Mobile, "Mobile"},
		{"designation", form.Designation, "Designation"},
		{"gender", form.Gender, "Gender"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, FieldError{Field: r.field, Message: r.label + " is required."})
		}
	}
	if form.Mobile != "" {
		if !digitsOnly.MatchString(form.Mobile) {
			errs = append(errs, FieldError{Field: "mobile", Message: "Please enter a valid mobile number (only numbers are allowed)."})
		} else if len(form.Mobile) > maxMobileLength {
			errs = append(errs, FieldError{Field: "mobile", Message: "Mobile number must be at most 10 digits."})
		}
	}
	if form.Designation != "" && !lo.Contains(models.Designations, form.Designation) {
		errs = append(errs, FieldError{Field: "designation", Message: "Designation must be one of HR, Manager, Sales."})
	}
	if form.Gender != "" && !lo.Contains(models.Genders, form.Gender) {
		errs = append(errs, FieldError{Field: "gender", Message: "Gender must be Male or Female."})
	}
	if unknown := lo.Without(form.Courses, models.Courses...); len(unknown) > 0 {
		errs = append(errs, FieldError{Field: "courses", Message: "Courses must be chosen from MCA, BCA, BSC."})
	}
	switch {
	case form.Image == nil && requireImage:
		errs = append(errs, FieldError{Field: "image", Message: "Image is required!"})
	case form.Image != nil && !isAcceptedImage(form.Image):
		errs = append(errs, FieldError{Field: "image", Message: "Please upload a valid image (JPG or PNG only)."})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func isAcceptedImage(f *ImageFile) bool {
	switch f.contentType() {
	case "image/jpeg", "image/png":
		return true
	default:
		return false
	}
}
