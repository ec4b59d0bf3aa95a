package panel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/noah-isme/employee-admin/internal/dto"
)

// Employee is a record as the panel sees it, with the image resolved to a URL.
type Employee = dto.EmployeeView

// APIError is a non-2xx answer from the employee API.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("employee api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("employee api: status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the employee API. Calls are not retried and carry no timeout of their
// own; callers bound them through ctx.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for baseURL, e.g. "http://localhost:5000/api".
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// List fetches every employee.
func (c *Client) List(ctx context.Context) ([]Employee, error) {
	var body dto.EmployeeListResponse
	if err := c.do(ctx, http.MethodGet, "/employees", nil, "", &body); err != nil {
		return nil, err
	}
	return body.Employees, nil
}

// Create submits a new employee and returns the server's message.
func (c *Client) Create(ctx context.Context, form Form) (string, error) {
	payload, contentType, err := encodeForm(form)
	if err != nil {
		return "", err
	}
	var body dto.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/employees", payload, contentType, &body); err != nil {
		return "", err
	}
	return body.Message, nil
}

// Update overwrites the employee with the given id.
func (c *Client) Update(ctx context.Context, id string, form Form) (*dto.EmployeeUpdatedResponse, error) {
	payload, contentType, err := encodeForm(form)
	if err != nil {
		return nil, err
	}
	var body dto.EmployeeUpdatedResponse
	if err := c.do(ctx, http.MethodPut, "/employees/"+url.PathEscape(id), payload, contentType, &body); err != nil {
		return nil, err
	}
	return &body, nil
}

// Delete removes the employee with the given id and returns the server's message.
func (c *Client) Delete(ctx context.Context, id string) (string, error) {
	var body dto.MessageResponse
	if err := c.do(ctx, http.MethodDelete, "/employees/"+url.PathEscape(id), nil, "", &body); err != nil {
		return "", err
	}
	return body.Message, nil
}

// Export downloads the roster in the given format ("csv" or "pdf").
func (c *Client) Export(ctx context.Context, format string) (filename string, data []byte, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/employees/export?format="+url.QueryEscape(format), nil)
	if err != nil {
		return "", nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("export employees: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", nil, decodeAPIError(resp)
	}
	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read export: %w", err)
	}
	filename = "employees." + format
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}
	return filename, data, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body dto.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Error
		apiErr.Code = body.Code
	}
	return apiErr
}

// encodeForm packages the form as multipart/form-data: one "courses[]" part per course, or
// an encoded empty list when none is selected, and an image part only when a file is set.
func encodeForm(form Form) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	fields := [][2]string{
		{"name", form.Name},
		{"email", form.Email},
		{"mobile", form.Mobile},
		{"designation", form.Designation},
		{"gender", form.Gender},
	}
	for _, field := range fields {
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return nil, "", err
		}
	}
	if len(form.Courses) == 0 {
		if err := writer.WriteField("courses", "[]"); err != nil {
			return nil, "", err
		}
	}
	for _, course := range form.Courses {
		if err := writer.WriteField("courses[]", course); err != nil {
			return nil, "", err
		}
	}
	if form.Image != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, escapeQuotes(filepath.Base(form.Image.Filename))))
		header.Set("Content-Type", form.Image.contentType())
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(form.Image.Data); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
