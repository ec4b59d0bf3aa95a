package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Employee Admin API",
        "description": "Employee records with photo upload for the admin panel",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Employees", "description": "Employee record management"}
    ],
    "paths": {
        "/employees": {
            "get": {
                "tags": ["Employees"],
                "summary": "List employees",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/EmployeeListResponse"}},
                    "400": {"description": "Store error", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["Employees"],
                "summary": "Create employee",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "name", "in": "formData", "type": "string", "required": true},
                    {"name": "email", "in": "formData", "type": "string", "required": true},
                    {"name": "mobile", "in": "formData", "type": "string", "required": true},
                    {"name": "designation", "in": "formData", "type": "string", "required": true, "enum": ["HR", "Manager", "Sales"]},
                    {"name": "gender", "in": "formData", "type": "string", "required": true, "enum": ["Male", "Female"]},
                    {"name": "courses[]", "in": "formData", "type": "array", "items": {"type": "string", "enum": ["MCA", "BCA", "BSC"]}, "collectionFormat": "multi", "required": true},
                    {"name": "image", "in": "formData", "type": "file", "required": true, "description": "JPG or PNG photo"}
                ],
                "responses": {
                    "200": {"description": "Created", "schema": {"$ref": "#/definitions/MessageResponse"}},
                    "400": {"description": "Validation or store error", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/employees/export": {
            "get": {
                "tags": ["Employees"],
                "summary": "Download employee roster",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "Roster file", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/employees/{id}": {
            "put": {
                "tags": ["Employees"],
                "summary": "Update employee",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "format": "uuid", "required": true},
                    {"name": "name", "in": "formData", "type": "string", "required": true},
                    {"name": "email", "in": "formData", "type": "string", "required": true},
                    {"name": "mobile", "in": "formData", "type": "string", "required": true},
                    {"name": "designation", "in": "formData", "type": "string", "required": true},
                    {"name": "gender", "in": "formData", "type": "string", "required": true},
                    {"name": "courses[]", "in": "formData", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "required": true},
                    {"name": "image", "in": "formData", "type": "file", "required": false, "description": "Replacement photo"}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/EmployeeUpdatedResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "500": {"description": "Malformed id or store error", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Employees"],
                "summary": "Delete employee",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "format": "uuid", "required": true}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/MessageResponse"}},
                    "400": {"description": "Malformed id or store error", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "Employee": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "code": {"type": "string", "example": "EMP1700000000000"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "mobile": {"type": "string"},
                "designation": {"type": "string", "enum": ["HR", "Manager", "Sales"]},
                "gender": {"type": "string", "enum": ["Male", "Female"]},
                "courses": {"type": "array", "items": {"type": "string"}},
                "image": {"type": "string", "x-nullable": true, "description": "Absolute photo URL"},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "EmployeeListResponse": {
            "type": "object",
            "properties": {
                "employees": {"type": "array", "items": {"$ref": "#/definitions/Employee"}}
            }
        },
        "EmployeeUpdatedResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "employee": {"$ref": "#/definitions/Employee"}
            }
        },
        "MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
