package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Teacher Roster API",
        "description": "Teachers manage their student rosters, marks and performance history.",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": ["http"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Teacher accounts and sessions"},
        {"name": "Students", "description": "Roster management scoped to the signed-in teacher"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a teacher",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Registered", "schema": {"$ref": "#/definitions/AuthResponse"}},
                    "400": {"description": "Validation failed or email taken", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Log in",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "Logged in", "schema": {"$ref": "#/definitions/AuthResponse"}},
                    "401": {"description": "Invalid email or password", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "403": {"description": "Account deactivated", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current teacher",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}}
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Log out and revoke the presented token",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Logged out"}}
            }
        },
        "/auth/update-profile": {
            "put": {
                "tags": ["Authentication"],
                "summary": "Update profile",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}],
                "responses": {"200": {"description": "Updated"}, "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}}
            }
        },
        "/auth/change-password": {
            "put": {
                "tags": ["Authentication"],
                "summary": "Change password",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangePasswordRequest"}}],
                "responses": {"200": {"description": "Changed"}, "400": {"description": "Missing fields, mismatch or wrong old password", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}}
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "filterMarks", "in": "query", "type": "string", "enum": ["high", "medium", "low"]},
                    {"name": "sort", "in": "query", "type": "string", "enum": ["name", "marks", "lastUpdated"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/StudentList"}}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentPayload"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}}
            }
        },
        "/students/statistics/overview": {
            "get": {
                "tags": ["Students"],
                "summary": "Roster statistics",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Statistics"}}}
            }
        },
        "/students/export": {
            "get": {
                "tags": ["Students"],
                "summary": "Download roster",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "filterMarks", "in": "query", "type": "string"},
                    {"name": "sort", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "File", "schema": {"type": "file"}}, "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}}
            }
        },
        "/students/import": {
            "post": {
                "tags": ["Students"],
                "summary": "Import students from an xlsx workbook",
                "consumes": ["multipart/form-data"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "file", "in": "formData", "type": "file", "required": true}],
                "responses": {"201": {"description": "Imported", "schema": {"$ref": "#/definitions/ImportResult"}}, "400": {"description": "Missing or unreadable file", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}}
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student with performance history",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Owned by another teacher"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentPayload"}}
                ],
                "responses": {"200": {"description": "Updated"}, "400": {"description": "Validation failed"}, "403": {"description": "Owned by another teacher"}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "Deleted"}, "403": {"description": "Owned by another teacher"}, "404": {"description": "Not found"}}
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["name", "email", "password", "subject"],
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "email": {"type": "string", "format": "email"},
                "password": {"type": "string", "minLength": 6},
                "subject": {"type": "string"},
                "department": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "UpdateProfileRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "subject": {"type": "string"}, "department": {"type": "string"}, "phone": {"type": "string"}}
        },
        "ChangePasswordRequest": {
            "type": "object",
            "required": ["oldPassword", "newPassword", "confirmPassword"],
            "properties": {"oldPassword": {"type": "string"}, "newPassword": {"type": "string", "minLength": 6}, "confirmPassword": {"type": "string"}}
        },
        "TeacherProfile": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"},
                "subject": {"type": "string"}, "department": {"type": "string"}, "phone": {"type": "string"},
                "role": {"type": "string"}, "isActive": {"type": "boolean"}
            }
        },
        "AuthResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"}, "message": {"type": "string"}, "token": {"type": "string"},
                "expiresIn": {"type": "integer"}, "teacher": {"$ref": "#/definitions/TeacherProfile"}
            }
        },
        "StudentPayload": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "subject": {"type": "string"},
                "marks": {"type": "number", "minimum": 0, "maximum": 100},
                "remarks": {"type": "string", "maxLength": 500},
                "parentName": {"type": "string"},
                "parentEmail": {"type": "string", "format": "email"},
                "parentPhone": {"type": "string"},
                "rollNumber": {"type": "string"},
                "attendance": {"type": "number", "minimum": 0, "maximum": 100}
            }
        },
        "Performer": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "marks": {"type": "number"}, "grade": {"type": "string"}}
        },
        "Statistics": {
            "type": "object",
            "properties": {
                "totalStudents": {"type": "integer"},
                "avgMarks": {"type": "integer"},
                "gradesDistribution": {"type": "object", "additionalProperties": {"type": "integer"}},
                "performanceDistribution": {"type": "object", "additionalProperties": {"type": "integer"}},
                "topPerformers": {"type": "array", "items": {"$ref": "#/definitions/Performer"}},
                "lowPerformers": {"type": "array", "items": {"$ref": "#/definitions/Performer"}}
            }
        },
        "StudentList": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "count": {"type": "integer"},
                "statistics": {"$ref": "#/definitions/Statistics"},
                "students": {"type": "array", "items": {"$ref": "#/definitions/StudentPayload"}}
            }
        },
        "ImportResult": {
            "type": "object",
            "properties": {
                "imported": {"type": "integer"},
                "skipped": {"type": "array", "items": {"type": "object", "properties": {"row": {"type": "integer"}, "reason": {"type": "string"}}}}
            }
        },
        "ErrorEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "code": {"type": "string"},
                "details": {"type": "array", "items": {"type": "string"}}
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
