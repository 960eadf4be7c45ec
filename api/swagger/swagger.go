// Package swagger registers the static OpenAPI document served at /docs.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "School Data API",
        "description": "Uniform CRUD, bulk, and analytics surface over interchangeable storage backends",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Persons", "description": "Person records"},
        {"name": "Students", "description": "Student records"},
        {"name": "Teachers", "description": "Teacher records"},
        {"name": "Classes", "description": "Class records and rosters"},
        {"name": "Scores", "description": "Assessment scores"},
        {"name": "Bulk", "description": "Batched mutations"},
        {"name": "Analytics", "description": "Aggregates and per-class breakdowns"}
    ],
    "paths": {
        "/persons": {
            "post": {
                "tags": ["Persons"],
                "summary": "Create person",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePersonRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Validation failure", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Duplicate email", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/persons/{id}": {
            "get": {
                "tags": ["Persons"],
                "summary": "Get person",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "put": {
                "tags": ["Persons"],
                "summary": "Update person",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdatePersonRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "delete": {
                "tags": ["Persons"],
                "summary": "Delete person",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/students": {
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/teachers": {
            "post": {
                "tags": ["Teachers"],
                "summary": "Create teacher",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTeacherRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/teachers/{id}": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Get teacher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "put": {
                "tags": ["Teachers"],
                "summary": "Update teacher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateTeacherRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "delete": {
                "tags": ["Teachers"],
                "summary": "Delete teacher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/classes": {
            "post": {
                "tags": ["Classes"],
                "summary": "Create class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/classes/{id}": {
            "get": {
                "tags": ["Classes"],
                "summary": "Get class",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "put": {
                "tags": ["Classes"],
                "summary": "Update class",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateClassRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "delete": {
                "tags": ["Classes"],
                "summary": "Delete class",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/classes/{id}/students": {
            "post": {
                "tags": ["Classes"],
                "summary": "Enroll students",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollStudentsRequest"}}
                ],
                "responses": {
                    "200": {"description": "Per-item counters", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/classes/{id}/teacher": {
            "post": {
                "tags": ["Classes"],
                "summary": "Assign teacher for a subject",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignTeacherRequest"}}
                ],
                "responses": {
                    "201": {"description": "Assigned", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Already assigned", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/scores": {
            "post": {
                "tags": ["Scores"],
                "summary": "Add assessment scores",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddScoresRequest"}}
                ],
                "responses": {
                    "200": {"description": "Per-item counters", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/bulk": {
            "post": {
                "tags": ["Bulk"],
                "summary": "Run a batched create, update, or delete",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkRequest"}}
                ],
                "responses": {
                    "200": {"description": "Per-item counters", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/aggregates": {
            "post": {
                "tags": ["Analytics"],
                "summary": "Run a whitelisted aggregate query",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AggregateRequest"}}
                ],
                "responses": {
                    "200": {"description": "Grouped rows", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/analytics/{name}": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Canonical per-class breakdown",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string", "enum": ["students-per-class", "average-score-per-class", "teachers-per-class", "subjects-per-class"]},
                    {"name": "class_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Breakdown rows", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/analytics/{name}/export": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Export a breakdown as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "class_id", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File attachment"}
                }
            }
        }
    },
    "definitions": {
        "CreatePersonRequest": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "date_of_birth": {"type": "string", "format": "date-time"},
                "phone": {"type": "string"},
                "address": {"type": "string"}
            },
            "required": ["first_name", "last_name", "email"]
        },
        "UpdatePersonRequest": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "date_of_birth": {"type": "string", "format": "date-time"},
                "phone": {"type": "string"},
                "address": {"type": "string"}
            }
        },
        "CreateStudentRequest": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "date_of_birth": {"type": "string", "format": "date-time"},
                "address": {"type": "string"},
                "student_code": {"type": "string"},
                "grade_level": {"type": "integer", "minimum": 1, "maximum": 12},
                "enrollment_date": {"type": "string", "format": "date-time"},
                "guardian_contact": {"type": "string"}
            },
            "required": ["first_name", "last_name", "email"]
        },
        "UpdateStudentRequest": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"},
                "student_code": {"type": "string"},
                "grade_level": {"type": "integer"},
                "enrollment_date": {"type": "string", "format": "date-time"},
                "is_active": {"type": "boolean"},
                "guardian_contact": {"type": "string"}
            }
        },
        "CreateTeacherRequest": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "employee_code": {"type": "string"},
                "subjects": {"type": "array", "items": {"type": "string"}},
                "department": {"type": "string"},
                "hire_date": {"type": "string", "format": "date-time"}
            },
            "required": ["first_name", "last_name", "email"]
        },
        "UpdateTeacherRequest": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "employee_code": {"type": "string"},
                "subjects": {"type": "array", "items": {"type": "string"}},
                "department": {"type": "string"},
                "is_active": {"type": "boolean"}
            }
        },
        "CreateClassRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "gathering_type": {"type": "string", "enum": ["class", "workshop", "seminar", "conference"]},
                "capacity": {"type": "integer", "minimum": 1},
                "location": {"type": "string"},
                "class_code": {"type": "string"},
                "grade_level": {"type": "integer", "minimum": 1, "maximum": 12},
                "academic_year": {"type": "string"},
                "semester": {"type": "string"},
                "schedule": {"type": "object"}
            },
            "required": ["name", "academic_year"]
        },
        "UpdateClassRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "gathering_type": {"type": "string"},
                "capacity": {"type": "integer"},
                "location": {"type": "string"},
                "class_code": {"type": "string"},
                "academic_year": {"type": "string"},
                "semester": {"type": "string"},
                "grade_level": {"type": "integer"},
                "schedule": {"type": "object"}
            }
        },
        "EnrollStudentsRequest": {
            "type": "object",
            "properties": {
                "student_ids": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["student_ids"]
        },
        "AssignTeacherRequest": {
            "type": "object",
            "properties": {
                "teacher_id": {"type": "string"},
                "subject": {"type": "string"}
            },
            "required": ["teacher_id", "subject"]
        },
        "ScoreRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "class_id": {"type": "string"},
                "subject": {"type": "string"},
                "score": {"type": "number", "minimum": 0, "maximum": 100},
                "max_score": {"type": "number"},
                "assessment_type": {"type": "string"},
                "assessment_date": {"type": "string", "format": "date-time"},
                "teacher_id": {"type": "string"},
                "comments": {"type": "string"}
            },
            "required": ["student_id", "class_id", "subject", "score", "assessment_type"]
        },
        "AddScoresRequest": {
            "type": "object",
            "properties": {
                "scores": {"type": "array", "items": {"$ref": "#/definitions/ScoreRequest"}}
            },
            "required": ["scores"]
        },
        "BulkRequest": {
            "type": "object",
            "properties": {
                "entity_type": {"type": "string", "enum": ["person", "student", "teacher", "class"]},
                "operation_type": {"type": "string", "enum": ["create", "update", "delete"]},
                "data": {"type": "array", "items": {"type": "object"}},
                "batch_size": {"type": "integer", "minimum": 1, "maximum": 1000}
            },
            "required": ["entity_type", "operation_type", "data"]
        },
        "AggregateRequest": {
            "type": "object",
            "properties": {
                "query_type": {"type": "string", "enum": ["students", "teachers", "classes", "scores", "enrollments", "assignments"]},
                "filters": {"type": "object"},
                "group_by": {"type": "array", "items": {"type": "string"}},
                "sort_by": {"type": "string"},
                "sort_order": {"type": "string", "enum": ["asc", "desc"]},
                "limit": {"type": "integer", "minimum": 1}
            },
            "required": ["query_type"]
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {"type": "object"},
                "errors": {"type": "array", "items": {"type": "string"}},
                "count": {"type": "integer"},
                "total_processed": {"type": "integer"},
                "successful": {"type": "integer"},
                "failed": {"type": "integer"}
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
