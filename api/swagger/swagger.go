package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Student Information System API",
        "description": "Enrollment, catalog, grading and portal endpoints. Sessions travel in the HttpOnly session cookie.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "SessionCookie": {"type": "apiKey", "in": "header", "name": "Cookie"}
    },
    "tags": [
        {"name": "Authentication", "description": "Login, logout and session introspection"},
        {"name": "Enrollment", "description": "Public student enrollment"},
        {"name": "Courses", "description": "Courses and their subjects"},
        {"name": "Subjects", "description": "Subject catalog"},
        {"name": "Terms", "description": "Academic terms and the active term"},
        {"name": "SubjectFaculty", "description": "Faculty assigned to subjects"},
        {"name": "Faculty", "description": "Faculty accounts"},
        {"name": "Admins", "description": "Administrator accounts"},
        {"name": "Students", "description": "Student records and admission"},
        {"name": "Enrollments", "description": "Enrollment maintenance"},
        {"name": "Grades", "description": "Grades"},
        {"name": "FacultyPortal", "description": "Signed in faculty member"},
        {"name": "StudentPortal", "description": "Signed in student"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate by username or email",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Signed in, session cookie set", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "401": {"description": "Invalid Username/Email or Password", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "403": {"description": "Already authenticated", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Clear the session",
                "responses": {"204": {"description": "Session cleared"}}
            }
        },
        "/auth/session": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Decoded session",
                "security": [{"SessionCookie": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"description": "Authentication required", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/auth/check": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Session or public role",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user and profile",
                "security": [{"SessionCookie": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"description": "Authentication required", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/enroll": {
            "post": {
                "tags": ["Enrollment"],
                "summary": "Enroll a new student in every subject of a course for the active term",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Enrolled", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "No active term, no subjects or no faculty", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "409": {"description": "Username or email already exists", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/enroll/courses": {
            "get": {
                "tags": ["Enrollment"],
                "summary": "Courses open for enrollment",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/admin/courses": {
            "get": {"tags": ["Courses"], "summary": "List courses", "security": [{"SessionCookie": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}},
            "post": {"tags": ["Courses"], "summary": "Create course", "security": [{"SessionCookie": []}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}}}
        },
        "/admin/subjects": {
            "get": {"tags": ["Subjects"], "summary": "List subjects", "security": [{"SessionCookie": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}},
            "post": {"tags": ["Subjects"], "summary": "Create subject", "security": [{"SessionCookie": []}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}, "409": {"description": "Subject code already exists", "schema": {"$ref": "#/definitions/ErrorBody"}}}}
        },
        "/admin/terms/{id}/activate": {
            "post": {
                "tags": ["Terms"],
                "summary": "Make the term the single active term",
                "security": [{"SessionCookie": []}],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Activated", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Term is already active", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "term not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/admin/students/{id}/admit": {
            "post": {
                "tags": ["Students"],
                "summary": "Admit a student",
                "security": [{"SessionCookie": []}],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "Admitted", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/faculty/classes/grade/{enrollmentId}": {
            "patch": {
                "tags": ["Grades"],
                "summary": "Record the grade of an enrollment taught by the caller",
                "security": [{"SessionCookie": []}],
                "parameters": [
                    {"in": "path", "name": "enrollmentId", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/GradeRequest"}}
                ],
                "responses": {
                    "200": {"description": "Recorded", "schema": {"$ref": "#/definitions/Envelope"}},
                    "403": {"description": "Not the faculty of the enrollment or student not admitted", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "enrollment not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/student/grades/export": {
            "get": {
                "tags": ["StudentPortal"],
                "summary": "Download the transcript",
                "produces": ["text/csv", "application/pdf"],
                "security": [{"SessionCookie": []}],
                "parameters": [{"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}],
                "responses": {
                    "200": {"description": "Transcript file", "schema": {"type": "file"}},
                    "403": {"description": "student not admitted", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["credential", "password"],
            "properties": {
                "credential": {"type": "string", "description": "Username or email"},
                "password": {"type": "string"}
            }
        },
        "CreateStudentRequest": {
            "type": "object",
            "required": ["username", "password", "email", "courseId", "firstName", "lastName", "address", "dateEnrolled", "sex", "placeOfBirth", "nationality", "religion", "contactNo", "civilStatus"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"},
                "email": {"type": "string"},
                "courseId": {"type": "string"},
                "firstName": {"type": "string"},
                "middleName": {"type": "string"},
                "lastName": {"type": "string"},
                "address": {"type": "string"},
                "dateEnrolled": {"type": "string", "format": "date"},
                "sex": {"type": "string", "enum": ["male", "female"]},
                "placeOfBirth": {"type": "string"},
                "nationality": {"type": "string"},
                "religion": {"type": "string"},
                "contactNo": {"type": "string", "pattern": "^09\\d{9}$"},
                "civilStatus": {"type": "string", "enum": ["single", "married", "widowed", "separated", "annulled", "divorced"]}
            }
        },
        "GradeRequest": {
            "type": "object",
            "required": ["grade"],
            "properties": {
                "grade": {"type": "number", "minimum": 0, "maximum": 100}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalCount": {"type": "integer"}
            }
        },
        "FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "code": {"type": "string"},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/FieldError"}}
            }
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "data": {"type": "object"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
